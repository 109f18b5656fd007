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


// Command export writes every test case as a job file for slamask.
//
// The files are written to testdata/jobs/, one per test case. Each job uses
// a platform with one pixel per millimetre, so that slamask reproduces the
// masks of the test cases exactly.
package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/layermask/testcases"
)

func main() {
	outDir := filepath.Join("testdata", "jobs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			if err := writeJob(filepath.Join(outDir, name+".json"), name, tc); err != nil {
				panic(err)
			}
		}
	}
}

type jsonJob struct {
	Platform jsonPlatform `json:"platform"`
	Layers   []jsonLayer  `json:"layers"`
}

type jsonPlatform struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	BedWidth float64 `json:"bed_width"`
	BedDepth float64 `json:"bed_depth"`
}

type jsonLayer struct {
	Name    string        `json:"name"`
	Nesting string        `json:"nesting,omitempty"`
	Path    []jsonSegment `json:"path"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

func writeJob(fname, name string, tc testcases.TestCase) error {
	job := jsonJob{
		Platform: jsonPlatform{
			Width:    tc.Width,
			Height:   tc.Height,
			BedWidth: float64(tc.Width),
			BedDepth: float64(tc.Height),
		},
		Layers: []jsonLayer{{
			Name: name,
			Path: pathToJSON(tc.Path, tc.Width, tc.Height),
		}},
	}
	if tc.Nesting == testcases.Deep {
		job.Layers[0].Nesting = "deep"
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(job); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fname, err)
	}
	return f.Close()
}

// pathToJSON converts a path from pixel coordinates into bed coordinates,
// with the origin at the centre of the mask and y pointing up.
func pathToJSON(p path.Path, width, height int) []jsonSegment {
	w2, h2 := float64(width)/2, float64(height)/2
	segs := []jsonSegment{}
	for cmd, pts := range p {
		seg := jsonSegment{Pts: make([][]float64, len(pts))}
		switch cmd {
		case path.CmdMoveTo:
			seg.Cmd = "M"
		case path.CmdLineTo:
			seg.Cmd = "L"
		case path.CmdQuadTo:
			seg.Cmd = "Q"
		case path.CmdCubeTo:
			seg.Cmd = "C"
		case path.CmdClose:
			seg.Cmd = "Z"
		}
		for i, pt := range pts {
			seg.Pts[i] = []float64{pt.X - w2, h2 - pt.Y}
		}
		segs = append(segs, seg)
	}
	return segs
}
