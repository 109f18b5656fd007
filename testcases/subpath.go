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

var subpathCases = []TestCase{
	{
		Name:   "two_triangles",
		Path:   twoTriangles(16, 32, 48, 32, 12),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "overlapping_rectangles",
		Path:   overlappingRectangles(10, 10, 40, 40, 24, 24, 54, 54),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "ring_shape",
		Path:   ringShape(32, 32, 25, 12),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "multiple_rings",
		Path:   multipleRings(64, 64),
		Width:  128,
		Height: 128,
	},
	{
		Name:   "many_small_shapes",
		Path:   manySmallShapes(8, 8),
		Width:  128,
		Height: 128,
	},
	{
		Name:   "island_flat",
		Path:   target(32, 32, 28, 3),
		Width:  64,
		Height: 64,
	},
	{
		Name:    "island_deep",
		Path:    target(32, 32, 28, 3),
		Width:   64,
		Height:  64,
		Nesting: Deep,
	},
	{
		Name:    "target_deep",
		Path:    target(48, 48, 46, 6),
		Width:   96,
		Height:  96,
		Nesting: Deep,
	},
	{
		Name:   "glyph_like",
		Path:   glyphLikeShape(),
		Width:  64,
		Height: 64,
	},
}

// twoTriangles builds two separate, disjoint triangles.
func twoTriangles(cx1, cy1, cx2, cy2 float64, size float64) path.Path {
	o := &outline{}
	for _, c := range [][2]float64{{cx1, cy1}, {cx2, cy2}} {
		o.MoveTo(pt(c[0], c[1]-size)).
			LineTo(pt(c[0]+size, c[1]+size)).
			LineTo(pt(c[0]-size, c[1]+size)).
			Close()
	}
	return o.Path()
}

// overlappingRectangles builds two overlapping rectangles. Neither contains
// the other, so they become separate polygons and their union is filled.
func overlappingRectangles(x1a, y1a, x2a, y2a, x1b, y1b, x2b, y2b float64) path.Path {
	return rectangleOutline(x1a, y1a, x2a, y2a).
		Append(rectangleOutline(x1b, y1b, x2b, y2b)).
		Path()
}

// ringShape builds a square with a square hole.
func ringShape(cx, cy, outerSize, innerSize float64) path.Path {
	return square(cx, cy, outerSize).
		Append(square(cx, cy, innerSize)).
		Path()
}

// multipleRings builds three square rings side by side.
func multipleRings(cx, cy float64) path.Path {
	rings := []struct{ cx, cy, outer, inner float64 }{
		{cx - 30, cy - 30, 20, 10},
		{cx + 30, cy - 30, 20, 10},
		{cx, cy + 30, 20, 10},
	}

	o := &outline{}
	for _, ring := range rings {
		o.Append(square(ring.cx, ring.cy, ring.outer))
		o.Append(square(ring.cx, ring.cy, ring.inner))
	}
	return o.Path()
}

// manySmallShapes builds a grid of small triangles.
func manySmallShapes(rows, cols int) path.Path {
	const size = 5.0
	const spacing = 14.0

	o := &outline{}
	for row := range rows {
		for col := range cols {
			cx := 10.0 + float64(col)*spacing
			cy := 10.0 + float64(row)*spacing
			o.MoveTo(pt(cx, cy-size)).
				LineTo(pt(cx+size, cy+size)).
				LineTo(pt(cx-size, cy+size)).
				Close()
		}
	}
	return o.Path()
}

// target builds n concentric circles with decreasing radii. Alternating
// rings are solid, so the centre is filled if n is odd.
func target(cx, cy, r float64, n int) path.Path {
	o := &outline{}
	step := r / float64(n)
	for i := range n {
		o.Append(circle(cx, cy, r-float64(i)*step))
	}
	return o.Path()
}

// glyphLikeShape builds a shape similar to a lowercase 'a': a bowl with a
// counter, and a stem which overlaps the bowl.
func glyphLikeShape() path.Path {
	cx, cy := 32.0, 38.0
	return circle(cx, cy, 18).
		Append(circle(cx, cy, 8)).
		Append(rectangleOutline(cx+12, 10, cx+18, cy+18)).
		Path()
}

// square builds a square outline centred at (cx, cy).
func square(cx, cy, r float64) *outline {
	return rectangleOutline(cx-r, cy-r, cx+r, cy+r)
}
