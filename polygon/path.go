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

package polygon

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// DefaultFlatness is the curve approximation tolerance used by [FromPath]
// when a non-positive flatness is given, in pixels.
const DefaultFlatness = 0.25

// MaxCurveSegments limits the number of line segments a single curve is
// split into.
const MaxCurveSegments = 1024

// FromPath converts every subpath of p into a ring.
// Curves are replaced by line segments which deviate from the curve by at
// most flatness pixels, using at most [MaxCurveSegments] segments per
// curve. Subpaths are closed implicitly, and subpaths with fewer than
// three distinct points are dropped.
func FromPath(p path.Path, flatness float64) []Ring {
	if !(flatness > 0) {
		flatness = DefaultFlatness
	}

	var rings []Ring
	var cur Ring
	var current vec.Vec2

	flush := func() {
		if n := len(cur); n > 1 && cur[n-1] == cur[0] {
			cur = cur[:n-1]
		}
		if len(cur) >= 3 {
			rings = append(rings, cur)
		}
		cur = nil
	}

	for cmd, pts := range p {
		// a segment after ClosePath starts a new subpath at the current point
		if cmd != path.CmdMoveTo && cmd != path.CmdClose && len(cur) == 0 {
			cur = append(cur, current)
		}

		switch cmd {
		case path.CmdMoveTo:
			flush()
			current = pts[0]
			cur = append(cur, current)
		case path.CmdLineTo:
			current = pts[0]
			cur = append(cur, current)
		case path.CmdQuadTo:
			cur = appendQuad(cur, current, pts[0], pts[1], flatness)
			current = pts[1]
		case path.CmdCubeTo:
			cur = appendCube(cur, current, pts[0], pts[1], pts[2], flatness)
			current = pts[2]
		case path.CmdClose:
			if len(cur) > 0 {
				current = cur[0]
			}
			flush()
		}
	}
	flush()

	return rings
}

// appendQuad appends the points of the quadratic Bézier curve from p0 to
// p2 with control point p1, excluding p0.
func appendQuad(r Ring, p0, p1, p2 vec.Vec2, flatness float64) Ring {
	dev := p0.Sub(p1.Mul(2)).Add(p2).Length() / 4
	n := curveSegments(dev, flatness)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		r = append(r, lerp(lerp(p0, p1, t), lerp(p1, p2, t), t))
	}
	return append(r, p2)
}

// appendCube appends the points of the cubic Bézier curve from p0 to p3
// with control points p1 and p2, excluding p0.
func appendCube(r Ring, p0, p1, p2, p3 vec.Vec2, flatness float64) Ring {
	dd1 := p0.Sub(p1.Mul(2)).Add(p2)
	dd2 := p1.Sub(p2.Mul(2)).Add(p3)
	dev := 0.75 * max(dd1.Length(), dd2.Length())
	n := curveSegments(dev, flatness)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		a, b, c := lerp(p0, p1, t), lerp(p1, p2, t), lerp(p2, p3, t)
		r = append(r, lerp(lerp(a, b, t), lerp(b, c, t), t))
	}
	return append(r, p3)
}

// curveSegments returns the number of equal parameter steps which keep a
// curve with second difference bound dev within flatness of its chords.
// Non-finite input gives a single segment.
func curveSegments(dev, flatness float64) int {
	n := math.Ceil(math.Sqrt(dev / flatness))
	switch {
	case !(n > 1):
		return 1
	case n > MaxCurveSegments:
		return MaxCurveSegments
	default:
		return int(n)
	}
}

func lerp(a, b vec.Vec2, t float64) vec.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}
