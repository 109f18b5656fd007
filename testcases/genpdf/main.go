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


// Command genpdf generates vector proofs of the test cases.
//
// For every test case a PDF is written which fills the flattened polygons
// with the even-odd rule, exactly as they are passed to the rasterizer.
// With -png, the PDFs are also rendered to binary PNG images using
// Ghostscript, for visual comparison with the masks written by slamask.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/layermask/polygon"
	"seehuhn.de/go/layermask/testcases"
)

const proofDir = "testdata/proofs"

func main() {
	withPNG := flag.Bool("png", false, "render the proofs to PNG using Ghostscript")
	flag.Parse()

	if err := os.MkdirAll(proofDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			pdfPath := filepath.Join(proofDir, name+".pdf")
			pngPath := filepath.Join(proofDir, name+".png")

			if err := generatePDF(tc, pdfPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}

			if *withPNG {
				if err := renderPNG(pdfPath, pngPath); err != nil {
					panic(fmt.Errorf("%s: %w", name, err))
				}
			}
		}
	}
}

func generatePDF(tc testcases.TestCase, pdfPath string) error {
	// Page size in points (1 point = 1 pixel at 72 DPI)
	paper := &pdf.Rectangle{
		URx: float64(tc.Width),
		URy: float64(tc.Height),
	}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// unexposed pixels are black
	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, float64(tc.Width), float64(tc.Height))
	page.Fill()

	// PDF origin is bottom-left; masks use top-left.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(tc.Height)})

	// addRings adds the outer ring of p and, recursively, of all its
	// holes to the current path.
	var addRings func(p *polygon.Polygon)
	addRings = func(p *polygon.Polygon) {
		if len(p.Outer) > 0 {
			page.MoveTo(p.Outer[0].X, p.Outer[0].Y)
			for _, pt := range p.Outer[1:] {
				page.LineTo(pt.X, pt.Y)
			}
			page.ClosePath()
		}
		for _, h := range p.Holes {
			addRings(h)
		}
	}

	page.SetFillColor(color.DeviceGray(1))
	for _, p := range tc.Polygons() {
		// The rings of a polygon tree alternate between solid and empty
		// with every nesting level, which is the even-odd rule.
		addRings(p)
		page.FillEvenOdd()
	}

	return page.Close()
}

func renderPNG(pdfPath, pngPath string) error {
	// -sDEVICE=pnggray: 8-bit grayscale
	// -r72: 72 DPI (1 point = 1 pixel)
	// -dGraphicsAlphaBits=1: no anti-aliasing, masks are binary
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=1",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
