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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

var fillCases = []TestCase{
	{
		Name:   "triangle",
		Path:   triangle(10, 50, 32, 10, 54, 50),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "triangle_reversed",
		Path:   triangle(54, 50, 32, 10, 10, 50),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "star",
		Path:   fivePointStar(32, 32, 25),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "rectangle",
		Path:   rectangle(10, 10, 44, 44),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "rectangle_narrow",
		Path:   rectangle(7, 20, 39, 26),
		Width:  48,
		Height: 40,
	},
	{
		Name:   "diamond",
		Path:   diamond(24, 24, 20),
		Width:  48,
		Height: 48,
	},
	{
		Name:   "empty",
		Path:   (&outline{}).Path(),
		Width:  16,
		Height: 16,
	},
}

// triangle builds a triangular path.
func triangle(x1, y1, x2, y2, x3, y3 float64) path.Path {
	return (&outline{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x3, y3)).
		Close().
		Path()
}

// fivePointStar builds a five-pointed star (self-intersecting).
// With the even-odd rule the central pentagon stays empty.
func fivePointStar(cx, cy, r float64) path.Path {
	var pts [5]vec.Vec2
	for i := range pts {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		pts[i] = pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}

	// draw star: 0 -> 2 -> 4 -> 1 -> 3 -> 0
	o := (&outline{}).MoveTo(pts[0])
	for _, i := range []int{2, 4, 1, 3} {
		o.LineTo(pts[i])
	}
	return o.Close().Path()
}

// rectangle builds a rectangular path.
func rectangle(x1, y1, x2, y2 float64) path.Path {
	return rectangleOutline(x1, y1, x2, y2).Path()
}

func rectangleOutline(x1, y1, x2, y2 float64) *outline {
	return (&outline{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

// diamond builds a square rotated by 45 degrees.
func diamond(cx, cy, r float64) path.Path {
	return (&outline{}).
		MoveTo(pt(cx, cy-r)).
		LineTo(pt(cx+r, cy)).
		LineTo(pt(cx, cy+r)).
		LineTo(pt(cx-r, cy)).
		Close().
		Path()
}
