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
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layermask/polygon"
)

// TestCase defines a single layer to be rasterized.
type TestCase struct {
	Name    string    // lowercase a-z, 0-9 and _ only
	Path    path.Path // layer outlines in pixel coordinates, y pointing down
	Width   int       // mask width in pixels
	Height  int       // mask height in pixels
	Nesting Nesting   // how the subpaths are grouped into polygons
}

// Nesting selects how the closed subpaths of a test case are grouped into
// polygons with holes.
type Nesting int

const (
	// Flat nesting produces polygons with a single level of holes.
	// Islands inside holes become separate polygons.
	Flat Nesting = iota

	// Deep nesting keeps the full containment tree, so that islands are
	// stored as holes of holes.
	Deep
)

// Polygons flattens the path of the test case and groups the resulting
// rings into polygons.
func (tc TestCase) Polygons() []*polygon.Polygon {
	rings := polygon.FromPath(tc.Path, polygon.DefaultFlatness)
	return polygon.Nest(rings, tc.Nesting == Deep)
}

// outline collects path segments. The zero value is an empty path.
type outline struct {
	cmds []path.Command
	pts  [][]vec.Vec2
}

func (o *outline) MoveTo(p vec.Vec2) *outline {
	return o.add(path.CmdMoveTo, p)
}

func (o *outline) LineTo(p vec.Vec2) *outline {
	return o.add(path.CmdLineTo, p)
}

func (o *outline) QuadTo(c, p vec.Vec2) *outline {
	return o.add(path.CmdQuadTo, c, p)
}

func (o *outline) CubeTo(c1, c2, p vec.Vec2) *outline {
	return o.add(path.CmdCubeTo, c1, c2, p)
}

func (o *outline) Close() *outline {
	return o.add(path.CmdClose)
}

// Append adds all segments of other to o.
func (o *outline) Append(other *outline) *outline {
	o.cmds = append(o.cmds, other.cmds...)
	o.pts = append(o.pts, other.pts...)
	return o
}

func (o *outline) add(cmd path.Command, pts ...vec.Vec2) *outline {
	o.cmds = append(o.cmds, cmd)
	o.pts = append(o.pts, pts)
	return o
}

// Path returns an iterator over the segments collected so far.
func (o *outline) Path() path.Path {
	cmds, pts := o.cmds, o.pts
	return func(yield func(path.Command, []vec.Vec2) bool) {
		for i, cmd := range cmds {
			if !yield(cmd, pts[i]) {
				return
			}
		}
	}
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
