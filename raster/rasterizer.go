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

// Package raster converts the polygons of a layer into a binary [Mask].
//
// Every integer pixel position (x, y) inside the bounding box of a polygon
// is classified with the even-odd rule of [polygon.Polygon.Contains].
// Pixels inside the polygon are set to [On]; no pixel is ever cleared, so
// overlapping polygons are combined in the order they are drawn.
package raster

import (
	"cmp"
	"image"
	"math"
	"slices"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layermask/polygon"
	"seehuhn.de/go/layermask/wire"
)

// edge is one segment of a ring, with end points in ring order.
type edge struct {
	p1, p2     vec.Vec2
	yMin, yMax float64
	node       int // index into Rasterizer.nodes
}

// ringNode is one ring of the polygon tree being filled.
type ringNode struct {
	holes []int // indices of the hole nodes
}

// Rasterizer fills polygons into masks. Create one instance and reuse it
// for many polygons; internal buffers grow as needed but never shrink.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// smallPathThreshold is the maximum bounding box area (in pixels) for
	// classifying every pixel separately (Approach A). Polygons with larger
	// bounding boxes use the active edge list (Approach B).
	smallPathThreshold int

	// Internal buffers (reused across calls)
	nodes     []ringNode
	edges     []edge
	activeIdx []int       // indices of active edges
	xs        [][]float64 // per node: crossings of the current scanline
	xsPos     []int       // per node: number of crossings left of the current pixel
}

// NewRasterizer returns a new Rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{
		smallPathThreshold: smallPathThreshold,
	}
}

// Fill draws p into m. The scanned area is the bounding box of the outer
// ring, rounded outwards to whole pixels and clipped to the mask.
func (r *Rasterizer) Fill(m *Mask, p *polygon.Polygon) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.fill(m, p, PixelBounds(p.Bounds()))
	return nil
}

// FillRecord draws a decoded polygon record into m.
//
// Only pixels inside the bounding box stored in the record are scanned.
// Parts of the polygon outside this box are silently clipped.
func (r *Rasterizer) FillRecord(m *Mask, rec *wire.Record) {
	r.fill(m, rec.Polygon(), rec.Bounds)
}

// PixelBounds rounds a bounding box outwards to whole pixels.
// The maximum of the result is exclusive.
func PixelBounds(b rect.Rect) image.Rectangle {
	return image.Rect(
		clampInt(math.Floor(b.LLx)), clampInt(math.Floor(b.LLy)),
		clampInt(math.Ceil(b.URx)), clampInt(math.Ceil(b.URy)),
	)
}

func (r *Rasterizer) fill(m *Mask, p *polygon.Polygon, box image.Rectangle) {
	box = box.Intersect(image.Rect(0, 0, m.Width, m.Height))
	if box.Empty() || len(p.Outer) == 0 {
		return
	}

	if box.Dx()*box.Dy() < r.smallPathThreshold {
		r.fillSmallPath(m, p, box)
	} else {
		r.fillLargePath(m, p, box)
	}
}

// fillSmallPath classifies every pixel in the box separately (Approach A).
func (r *Rasterizer) fillSmallPath(m *Mask, p *polygon.Polygon, box image.Rectangle) {
	for x := box.Min.X; x < box.Max.X; x++ {
		col := m.Pix[x*m.Height : (x+1)*m.Height]
		fx := float64(x)
		for y := box.Min.Y; y < box.Max.Y; y++ {
			if p.Contains(fx, float64(y)) {
				col[y] = On
			}
		}
	}
}

// fillLargePath rasterizes using an active edge list (Approach B).
//
// For every scanline the crossings of each ring are collected and sorted.
// A pixel is inside a ring if an odd number of crossings lies strictly to
// its right; the ring results are then combined as in
// [polygon.Polygon.Contains]. Both approaches use [polygon.Crossing], so
// they classify every pixel identically.
func (r *Rasterizer) fillLargePath(m *Mask, p *polygon.Polygon, box image.Rectangle) {
	r.nodes = r.nodes[:0]
	r.edges = r.edges[:0]
	r.collectEdges(p)

	n := len(r.nodes)
	for len(r.xs) < n {
		r.xs = append(r.xs, nil)
	}
	r.xsPos = slices.Grow(r.xsPos[:0], n)[:n]

	// Sort edges by y_min
	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin, b.yMin)
	})

	r.activeIdx = r.activeIdx[:0]
	nextEdge := 0

	for y := box.Min.Y; y < box.Max.Y; y++ {
		yf := float64(y)

		// an edge can only cross if yMin < y <= yMax
		for nextEdge < len(r.edges) && r.edges[nextEdge].yMin < yf {
			r.activeIdx = append(r.activeIdx, nextEdge)
			nextEdge++
		}

		for i := range n {
			r.xs[i] = r.xs[i][:0]
		}
		for i := 0; i < len(r.activeIdx); {
			e := &r.edges[r.activeIdx[i]]
			if e.yMax < yf {
				// Remove from active list (swap with last)
				r.activeIdx[i] = r.activeIdx[len(r.activeIdx)-1]
				r.activeIdx = r.activeIdx[:len(r.activeIdx)-1]
				continue
			}
			if x, ok := polygon.Crossing(e.p1, e.p2, yf); ok {
				r.xs[e.node] = append(r.xs[e.node], x)
			}
			i++
		}
		if len(r.xs[0]) == 0 {
			continue // the outer ring does not meet this scanline
		}
		for i := range n {
			slices.Sort(r.xs[i])
			r.xsPos[i] = 0
		}

		for x := box.Min.X; x < box.Max.X; x++ {
			fx := float64(x)
			for i := range n {
				xs := r.xs[i]
				k := r.xsPos[i]
				for k < len(xs) && xs[k] <= fx {
					k++
				}
				r.xsPos[i] = k
			}
			if r.insideNode(0) {
				m.Pix[y+x*m.Height] = On
			}
		}
	}
}

// insideNode evaluates the polygon tree rooted at node i for the current
// pixel, using the crossing counts prepared by fillLargePath.
func (r *Rasterizer) insideNode(i int) bool {
	if (len(r.xs[i])-r.xsPos[i])%2 == 0 {
		return false
	}
	for _, h := range r.nodes[i].holes {
		if r.insideNode(h) {
			return false
		}
	}
	return true
}

// collectEdges appends the rings of p to r.nodes in pre-order and their
// edges to r.edges. It returns the index of the node for the outer ring.
func (r *Rasterizer) collectEdges(p *polygon.Polygon) int {
	idx := len(r.nodes)
	r.nodes = append(r.nodes, ringNode{})

	ring := p.Outer
	if n := len(ring); n > 0 {
		p1 := ring[n-1]
		for _, p2 := range ring {
			// horizontal edges never cross a scanline
			if p1.Y != p2.Y {
				r.edges = append(r.edges, edge{
					p1:   p1,
					p2:   p2,
					yMin: min(p1.Y, p2.Y),
					yMax: max(p1.Y, p2.Y),
					node: idx,
				})
			}
			p1 = p2
		}
	}

	for _, h := range p.Holes {
		child := r.collectEdges(h)
		r.nodes[idx].holes = append(r.nodes[idx].holes, child)
	}
	return idx
}

func clampInt(x float64) int {
	const limit = 1 << 30
	switch {
	case math.IsNaN(x):
		return 0
	case x < -limit:
		return -limit
	case x > limit:
		return limit
	default:
		return int(x)
	}
}

// smallPathThreshold is the default bounding box area (in pixels) below
// which pixels are classified one by one.
const smallPathThreshold = 4096
