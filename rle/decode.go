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

// Decode expands an encoded stream into one byte per pixel, holding the
// colour bit (0 or 1) of the pixel.
func Decode(src []byte, f Format) ([]byte, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	total := 0
	for _, b := range src {
		_, count := f.parseRun(b)
		total += count
	}
	res := make([]byte, total)
	_, err := DecodeInto(res, src, f, 1)
	return res, err
}

// DecodeInto expands an encoded stream into dst, writing the value on for
// pixels of colour 1 and zero for pixels of colour 0. It returns the number
// of pixels written.
func DecodeInto(dst, src []byte, f Format, on byte) (int, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	n := 0
	for i, b := range src {
		color, count := f.parseRun(b)
		if count > len(dst)-n {
			return n, fmt.Errorf("run %d needs %d bytes, %d left: %w",
				i, count, len(dst)-n, ErrShortBuffer)
		}
		v := byte(0)
		if color != 0 {
			v = on
		}
		run := dst[n : n+count]
		for j := range run {
			run[j] = v
		}
		n += count
	}
	return n, nil
}
