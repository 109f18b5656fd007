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


package layermask

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/layermask/polygon"
)

// Platform describes the light source of a printer.
//
// Bed coordinates are in millimetres with the origin at the centre of the
// build platform and y pointing away from the viewer. Pixel coordinates
// have the origin at the top left corner of the mask and y pointing down.
type Platform struct {
	Width, Height      int     // mask size in pixels
	BedWidth, BedDepth float64 // size of the exposed area in millimetres
}

// DefaultPlatform is a 2560x1440 pixel light source with square pixels of
// 0.04725 mm.
var DefaultPlatform = Platform{
	Width:    2560,
	Height:   1440,
	BedWidth: 120.96,
	BedDepth: 68.04,
}

// Validate checks that the platform can be used for slicing.
func (p Platform) Validate() error {
	if p.Width <= 0 || p.Height <= 0 || p.Width > math.MaxUint16 || p.Height > math.MaxUint16 {
		return fmt.Errorf("invalid mask size %dx%d", p.Width, p.Height)
	}
	if !(p.BedWidth > 0 && p.BedDepth > 0) || math.IsInf(p.BedWidth, 0) || math.IsInf(p.BedDepth, 0) {
		return fmt.Errorf("invalid bed size %gx%g mm", p.BedWidth, p.BedDepth)
	}
	return nil
}

// Matrix returns the transformation from bed coordinates to pixel
// coordinates.
func (p Platform) Matrix() matrix.Matrix {
	w, h := float64(p.Width), float64(p.Height)
	sx := w / p.BedWidth
	sy := h / p.BedDepth
	return matrix.Matrix{sx, 0, 0, -sy, w / 2, h / 2}
}

// Transform maps polygons from bed coordinates to pixel coordinates.
func (p Platform) Transform(polys []*polygon.Polygon) []*polygon.Polygon {
	m := p.Matrix()
	res := make([]*polygon.Polygon, len(polys))
	for i, poly := range polys {
		res[i] = poly.Transform(m)
	}
	return res
}

// Bounds returns the pixel area of the mask.
func (p Platform) Bounds() rect.Rect {
	return rect.Rect{URx: float64(p.Width), URy: float64(p.Height)}
}
