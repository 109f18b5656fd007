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
	"slices"

	"seehuhn.de/go/layermask/polygon"
	"seehuhn.de/go/layermask/raster"
	"seehuhn.de/go/layermask/rle"
	"seehuhn.de/go/layermask/wire"
)

// Slicer converts layers, given as polygons in bed coordinates, into
// exposure masks and their run-length encodings.
//
// A Slicer keeps its working buffer between calls. It is not safe for
// concurrent use.
type Slicer struct {
	// Platform describes the light source.
	Platform Platform

	// Format selects the framing of the run-length encoded planes.
	// The default is rle.FormatPhoton.
	Format rle.Format

	// AntiAlias is the number of encoded planes per layer. It must be 1, 2,
	// 4 or 8. The default is 1.
	AntiAlias int

	// heap holds the mask followed by the polygon records. After
	// rendering, the encoded planes overwrite the records.
	heap []byte
	r    *raster.Rasterizer
}

// NewSlicer returns a Slicer for the given platform, using the default
// settings.
func NewSlicer(p Platform) *Slicer {
	return &Slicer{
		Platform:  p,
		Format:    rle.FormatPhoton,
		AntiAlias: 1,
		r:         raster.NewRasterizer(),
	}
}

// Layer is the result of slicing one layer.
type Layer struct {
	// Mask is the rendered exposure mask.
	Mask *raster.Mask

	// Planes holds one run-length encoded stream per anti-aliasing level.
	Planes [][]byte

	// Empty is set if the layer contained no polygons.
	Empty bool
}

// SliceLayer renders the polygons of one layer and encodes the result.
// The polygons are given in bed coordinates, see [Platform].
func (s *Slicer) SliceLayer(polys []*polygon.Polygon) (*Layer, error) {
	if err := s.Platform.Validate(); err != nil {
		return nil, err
	}
	masks, err := rle.PlaneMasks(s.AntiAlias)
	if err != nil {
		return nil, err
	}
	if s.r == nil {
		s.r = raster.NewRasterizer()
	}

	pixPolys := s.Platform.Transform(polys)
	s.warnClipped(pixPolys)

	// lay out the working buffer as [mask][header, records]
	w, h := s.Platform.Width, s.Platform.Height
	imageLen := w * h
	heap := slices.Grow(s.heap[:0], 2*imageLen)[:imageLen]
	heap, err = wire.AppendLayer(heap, w, h, pixPolys)
	if err != nil {
		return nil, fmt.Errorf("encode layer: %w", err)
	}
	// the encoded planes need up to one byte per pixel
	if len(heap) < 2*imageLen {
		heap = heap[:2*imageLen]
	}
	s.heap = heap

	if _, err := render(s.r, heap, imageLen, 0); err != nil {
		return nil, err
	}

	layer := &Layer{
		Mask:  &raster.Mask{Width: w, Height: h, Pix: slices.Clone(heap[:imageLen])},
		Empty: len(polys) == 0,
	}
	for _, mask := range masks {
		n, err := EncodeRLE(heap, 0, imageLen, mask, imageLen, s.Format)
		if err != nil {
			return nil, err
		}
		layer.Planes = append(layer.Planes, slices.Clone(heap[imageLen:imageLen+n]))
	}

	points := 0
	for _, p := range polys {
		points += p.NumPoints()
	}
	Logger().Debug("layer sliced",
		"polys", len(polys),
		"points", points,
		"planes", len(layer.Planes),
		"encoded", len(layer.Planes[0]))
	return layer, nil
}

// warnClipped logs polygons which extend past the edge of the mask.
func (s *Slicer) warnClipped(polys []*polygon.Polygon) {
	logger := Logger()
	bed := s.Platform.Bounds()
	for i, p := range polys {
		b := p.Bounds()
		if b.LLx < bed.LLx || b.LLy < bed.LLy || b.URx > bed.URx || b.URy > bed.URy {
			logger.Warn("polygon extends past the platform",
				"index", i,
				"bounds", b)
		}
	}
}
