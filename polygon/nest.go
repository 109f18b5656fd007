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
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/rect"
)

// Nest arranges a set of non-intersecting rings into polygons.
//
// Each ring is attached to the smallest ring which encloses it. If deep is
// false, the result has at most one level of holes: rings at an even
// nesting depth become top-level polygons and rings at an odd depth become
// holes of their parent. If deep is true, only the outermost rings are
// returned and the complete containment tree is kept.
//
// The returned polygons are ordered by decreasing area.
func Nest(rings []Ring, deep bool) []*Polygon {
	type node struct {
		ring     Ring
		area     float64
		bounds   rect.Rect
		parent   int
		children []int
		depth    int
	}

	nodes := make([]node, 0, len(rings))
	for _, r := range rings {
		if len(r) == 0 {
			continue
		}
		nodes = append(nodes, node{
			ring:   r,
			area:   math.Abs(r.Area()),
			bounds: r.Bounds(),
			parent: -1,
		})
	}
	slices.SortStableFunc(nodes, func(a, b node) int {
		return cmp.Compare(a.area, b.area)
	})

	for i := range nodes {
		inner := &nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			outer := &nodes[j]
			if !boundsContain(outer.bounds, inner.bounds) {
				continue
			}
			if !outer.ring.Contains(inner.ring[0].X, inner.ring[0].Y) {
				continue
			}
			inner.parent = j
			outer.children = append(outer.children, i)
			break
		}
	}

	// parents always sort after their children
	for i := len(nodes) - 1; i >= 0; i-- {
		if p := nodes[i].parent; p >= 0 {
			nodes[i].depth = nodes[p].depth + 1
		}
	}

	var build func(i int) *Polygon
	build = func(i int) *Polygon {
		p := &Polygon{Outer: nodes[i].ring}
		for _, c := range nodes[i].children {
			if deep {
				p.Holes = append(p.Holes, build(c))
			} else {
				p.Holes = append(p.Holes, &Polygon{Outer: nodes[c].ring})
			}
		}
		return p
	}

	var tops []*Polygon
	for i := len(nodes) - 1; i >= 0; i-- {
		d := nodes[i].depth
		if deep && d == 0 || !deep && d%2 == 0 {
			tops = append(tops, build(i))
		}
	}
	return tops
}

func boundsContain(outer, inner rect.Rect) bool {
	return outer.LLx <= inner.LLx && outer.LLy <= inner.LLy &&
		outer.URx >= inner.URx && outer.URy >= inner.URy
}
