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

package raster

import (
	"fmt"
	"image"

	"seehuhn.de/go/layermask/wire"
)

// Pixel values stored in a Mask.
const (
	Off byte = 0
	On  byte = 255
)

// Mask is a binary layer image.
//
// Pixels are stored column by column: the pixel (x, y) is at
// Pix[y + x*Height]. This is the byte order expected by the light
// source, so the pixel data can be run-length encoded directly.
type Mask struct {
	Width, Height int
	Pix           []byte
}

// NewMask allocates an empty mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]byte, width*height)}
}

// MaskOn returns a mask which uses the first width*height bytes of pix as
// its pixel data. The pixel data is not cleared.
func MaskOn(pix []byte, width, height int) (*Mask, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid mask size %dx%d", width, height)
	}
	n := width * height
	if n > len(pix) {
		return nil, fmt.Errorf("%dx%d mask needs %d bytes, %d available: %w",
			width, height, n, len(pix), wire.ErrBufferOverrun)
	}
	return &Mask{Width: width, Height: height, Pix: pix[:n:n]}, nil
}

// Clear sets all pixels to Off.
func (m *Mask) Clear() {
	clear(m.Pix)
}

// At returns the value of pixel (x, y), or Off for pixels outside the mask.
func (m *Mask) At(x, y int) byte {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return Off
	}
	return m.Pix[y+x*m.Height]
}

// Set changes the value of pixel (x, y).
// Pixels outside the mask are ignored.
func (m *Mask) Set(x, y int, v byte) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y+x*m.Height] = v
}

// Count returns the number of pixels which are not Off.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != Off {
			n++
		}
	}
	return n
}

// Gray returns a copy of the mask as a grayscale image, with x increasing
// to the right and y increasing downwards.
func (m *Mask) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for x := range m.Width {
		col := m.Pix[x*m.Height : (x+1)*m.Height]
		for y, v := range col {
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}
