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


// Package layermask turns the polygons of a printable layer into the
// exposure mask of a resin printer.
//
// A layer is passed around as a flat byte buffer: a header with the mask
// size and a sequence of polygon records (see package [wire]). [Render]
// rasterizes such a buffer into a binary mask, and [EncodeRLE] compresses
// the mask into the run-length format expected by the printer (see package
// [rle]). Both work on a single caller-owned working buffer, so that a
// layer can be laid out, rendered and encoded without copying.
//
// The [Slicer] type wraps these steps for callers which start from
// polygons in bed coordinates.
package layermask

//go:generate go run ./testcases/export

import (
	"fmt"

	"seehuhn.de/go/layermask/polygon"
	"seehuhn.de/go/layermask/raster"
	"seehuhn.de/go/layermask/rle"
	"seehuhn.de/go/layermask/wire"
)

// Errors reported by [Render], [EncodeRLE] and the [Slicer].
// Returned errors wrap one of these values; use [errors.Is] to test for them.
var (
	ErrMalformedRecord   = wire.ErrMalformedRecord
	ErrBufferOverrun     = wire.ErrBufferOverrun
	ErrDegenerateEdge    = polygon.ErrDegenerateEdge
	ErrUnsupportedFormat = rle.ErrUnsupportedFormat
)

// Render rasterizes the layer stored at offset in of mem.
//
// The mask, width*height bytes in column-major order, is written to mem
// starting at offset out. Render returns the offset directly after the last
// polygon record of the layer.
//
// The whole layer is decoded before the mask is written. On error, mem is
// not modified.
func Render(mem []byte, in, out int) (int, error) {
	return render(raster.NewRasterizer(), mem, in, out)
}

func render(r *raster.Rasterizer, mem []byte, in, out int) (int, error) {
	if in < 0 || in > len(mem) {
		return in, fmt.Errorf("layer offset %d outside %d byte buffer: %w", in, len(mem), ErrBufferOverrun)
	}
	if out < 0 || out > len(mem) {
		return in, fmt.Errorf("mask offset %d outside %d byte buffer: %w", out, len(mem), ErrBufferOverrun)
	}

	m, next, err := r.RenderLayer(mem, in, mem[out:])
	if err != nil {
		return in, err
	}

	logger := Logger()
	logger.Debug("layer rendered",
		"width", m.Width,
		"height", m.Height,
		"bytes", next-in)
	return next, nil
}

// EncodeRLE run-length encodes the n bytes at offset in of mem, writing the
// result to mem starting at offset out. A byte counts as set if it shares a
// bit with mask. The number of bytes written is returned.
//
// The output may start at or before the input, since the encoded form is
// never longer than its input. An output region which starts inside the
// input, or which is too small for the encoded stream, is rejected before
// any byte is written.
func EncodeRLE(mem []byte, in, n int, mask byte, out int, f rle.Format) (int, error) {
	if in < 0 || n < 0 || n > len(mem)-in {
		return 0, fmt.Errorf("input %d+%d outside %d byte buffer: %w", in, n, len(mem), ErrBufferOverrun)
	}
	if out < 0 || out > len(mem) {
		return 0, fmt.Errorf("output offset %d outside %d byte buffer: %w", out, len(mem), ErrBufferOverrun)
	}
	if out > in && out < in+n {
		return 0, fmt.Errorf("output offset %d inside input %d+%d: %w", out, in, n, ErrBufferOverrun)
	}

	src := mem[in : in+n]
	size, err := rle.EncodedLen(src, mask, f)
	if err != nil {
		return 0, err
	}
	if size > len(mem)-out {
		return 0, fmt.Errorf("%d encoded bytes at offset %d exceed %d byte buffer: %w",
			size, out, len(mem), ErrBufferOverrun)
	}

	return rle.Encode(mem[out:out+size], src, mask, f)
}
