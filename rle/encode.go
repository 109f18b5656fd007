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


package rle

import "fmt"

// Encode writes the run-length encoding of src to dst and returns the number
// of bytes written. A byte of src has colour 1 if it shares a bit with mask.
//
// If dst is too small, ErrShortBuffer is returned and dst is not modified.
// An empty src encodes to zero bytes.
func Encode(dst, src []byte, mask byte, f Format) (int, error) {
	size, err := EncodedLen(src, mask, f)
	if err != nil {
		return 0, err
	}
	if size > len(dst) {
		return 0, fmt.Errorf("%d bytes of output space for %d encoded bytes: %w",
			len(dst), size, ErrShortBuffer)
	}

	n := 0
	runs(src, mask, f.MaxRun(), func(color byte, count int) bool {
		dst[n] = f.runByte(color, count)
		n++
		return true
	})
	return n, nil
}

// AppendEncode appends the run-length encoding of src to dst.
func AppendEncode(dst, src []byte, mask byte, f Format) ([]byte, error) {
	if err := f.check(); err != nil {
		return dst, err
	}
	runs(src, mask, f.MaxRun(), func(color byte, count int) bool {
		dst = append(dst, f.runByte(color, count))
		return true
	})
	return dst, nil
}

// EncodedLen returns the number of bytes [Encode] writes for src.
func EncodedLen(src []byte, mask byte, f Format) (int, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	n := 0
	runs(src, mask, f.MaxRun(), func(byte, int) bool {
		n++
		return true
	})
	return n, nil
}

// runs calls emit for every run of src, in order. Runs are split after
// maxRun bytes. It returns false if emit stopped the iteration.
func runs(src []byte, mask byte, maxRun int, emit func(color byte, count int) bool) bool {
	if len(src) == 0 {
		return true
	}

	color := bit(src[0], mask)
	count := 1
	for _, b := range src[1:] {
		next := bit(b, mask)
		if next != color || count == maxRun {
			if !emit(color, count) {
				return false
			}
			count = 0
		}
		count++
		color = next
	}
	return emit(color, count)
}

func bit(b, mask byte) byte {
	if b&mask != 0 {
		return 1
	}
	return 0
}
