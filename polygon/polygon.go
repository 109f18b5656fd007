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

// Package polygon implements the polygons of a printable layer and the
// point-in-polygon test used to rasterize them.
//
// A [Polygon] is a tree: an outer [Ring] with an ordered list of holes,
// where each hole may carry nested islands of its own. Rings are closed
// implicitly; the last point connects back to the first.
//
// Coordinates are in pixel space. A query point (x, y) is classified with
// the even-odd rule, casting a horizontal ray towards +x.
package polygon

import (
	"errors"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// ErrDegenerateEdge is returned for rings whose edges cannot be intersected
// with a scanline, because a coordinate is NaN or infinite.
var ErrDegenerateEdge = errors.New("degenerate edge")

// Ring is a closed sequence of boundary points.
type Ring []vec.Vec2

// Polygon is an outer ring together with its holes.
//
// The holes of a hole are islands: a point inside an island is inside the
// polygon again.
type Polygon struct {
	Outer Ring
	Holes []*Polygon
}

// Crossing reports whether the edge from p1 to p2 crosses the horizontal
// line at height y, and if so, the x-coordinate of the intersection.
//
// An edge crosses if exactly one of its end points has a y-coordinate of at
// least y. Horizontal edges therefore never cross.
func Crossing(p1, p2 vec.Vec2, y float64) (float64, bool) {
	if (p1.Y >= y) == (p2.Y >= y) {
		return 0, false
	}
	dy := p2.Y - p1.Y
	if dy == 0 {
		return 0, false
	}
	x := (p2.X-p1.X)*(y-p1.Y)/dy + p1.X
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

// Contains reports whether (x, y) lies inside the ring, using the
// even-odd rule.
func (r Ring) Contains(x, y float64) bool {
	n := len(r)
	if n == 0 {
		return false
	}
	inside := false
	p1 := r[n-1]
	for _, p2 := range r {
		if cx, ok := Crossing(p1, p2, y); ok && x < cx {
			inside = !inside
		}
		p1 = p2
	}
	return inside
}

// Contains reports whether (x, y) lies inside the polygon.
//
// The point must be inside the outer ring and outside every hole. Holes
// are classified with the same rule, so islands inside a hole count as
// inside again.
func (p *Polygon) Contains(x, y float64) bool {
	if !p.Outer.Contains(x, y) {
		return false
	}
	for _, h := range p.Holes {
		if h.Contains(x, y) {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of the outer ring.
// The zero rectangle is returned for an empty ring.
func (r Ring) Bounds() rect.Rect {
	if len(r) == 0 {
		return rect.Rect{}
	}
	b := rect.Rect{LLx: r[0].X, LLy: r[0].Y, URx: r[0].X, URy: r[0].Y}
	for _, p := range r[1:] {
		b.LLx = min(b.LLx, p.X)
		b.LLy = min(b.LLy, p.Y)
		b.URx = max(b.URx, p.X)
		b.URy = max(b.URy, p.Y)
	}
	return b
}

// Bounds returns the bounding box of the polygon. Holes lie inside the
// outer ring, so this is the bounding box of the outer ring.
func (p *Polygon) Bounds() rect.Rect {
	return p.Outer.Bounds()
}

// Area returns the signed area of the ring.
// The sign depends on the orientation of the ring.
func (r Ring) Area() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var sum float64
	p1 := r[n-1]
	for _, p2 := range r {
		sum += p1.X*p2.Y - p2.X*p1.Y
		p1 = p2
	}
	return sum / 2
}

// Validate checks that all coordinates of the polygon, including those of
// holes and islands, are finite.
func (p *Polygon) Validate() error {
	for _, pt := range p.Outer {
		if !isFinite(pt.X) || !isFinite(pt.Y) {
			return ErrDegenerateEdge
		}
	}
	for _, h := range p.Holes {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Depth returns the number of nesting levels of the polygon.
// A polygon without holes has depth 1.
func (p *Polygon) Depth() int {
	d := 0
	for _, h := range p.Holes {
		d = max(d, h.Depth())
	}
	return d + 1
}

// NumPoints returns the total number of points in the polygon tree.
func (p *Polygon) NumPoints() int {
	n := len(p.Outer)
	for _, h := range p.Holes {
		n += h.NumPoints()
	}
	return n
}

// Transform returns a copy of the polygon with all points mapped by m.
func (p *Polygon) Transform(m matrix.Matrix) *Polygon {
	res := &Polygon{
		Outer: make(Ring, len(p.Outer)),
	}
	for i, pt := range p.Outer {
		res.Outer[i] = vec.Vec2{
			X: m[0]*pt.X + m[2]*pt.Y + m[4],
			Y: m[1]*pt.X + m[3]*pt.Y + m[5],
		}
	}
	if len(p.Holes) > 0 {
		res.Holes = make([]*Polygon, len(p.Holes))
		for i, h := range p.Holes {
			res.Holes[i] = h.Transform(m)
		}
	}
	return res
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
