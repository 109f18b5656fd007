// seehuhn.de/go/layermask - rasterize printable layers for resin printers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


package testcases

import (
	"seehuhn.de/go/geom/path"
)

var precisionCases = []TestCase{
	{
		Name:   "subpixel_offset_00",
		Path:   offsetRectangle(20, 20, 24, 24, 0.0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "subpixel_offset_25",
		Path:   offsetRectangle(20, 20, 24, 24, 0.25),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "subpixel_offset_50",
		Path:   offsetRectangle(20, 20, 24, 24, 0.5),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "subpixel_offset_75",
		Path:   offsetRectangle(20, 20, 24, 24, 0.75),
		Width:  64,
		Height: 64,
	},
	{
		// thinner than a pixel, between two pixel rows
		Name:   "sliver_between_rows",
		Path:   rectangle(5, 10.25, 59, 10.75),
		Width:  64,
		Height: 64,
	},
	{
		// thinner than a pixel, covering one pixel row
		Name:   "sliver_on_row",
		Path:   rectangle(5, 9.75, 59, 10.25),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "vertex_on_scanline",
		Path:   triangle(32, 8, 56, 32, 8, 32),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "partly_outside",
		Path:   rectangle(-10.5, 20, 30, 80),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "outside",
		Path:   rectangle(100, 100, 120, 120),
		Width:  64,
		Height: 64,
	},
}

// offsetRectangle builds a rectangular path with a subpixel offset applied to all coordinates.
func offsetRectangle(x1, y1, w, h, offset float64) path.Path {
	return rectangle(x1+offset, y1+offset, x1+w+offset, y1+h+offset)
}
