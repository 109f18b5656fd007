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

package photon

import (
	"encoding/binary"
	"image"

	"golang.org/x/image/draw"
)

// previewSource returns the image shown in the previews.
func (f *File) previewSource() image.Image {
	if f.Preview != nil {
		return f.Preview
	}
	return f.TopView()
}

// TopView returns a view of all layers from above. Each pixel shows the
// highest layer which exposes it, from dark (first layer) to white (last
// layer). Pixels which are never exposed are black.
func (f *File) TopView() *image.Gray {
	w, h := f.Platform.Width, f.Platform.Height
	img := image.NewGray(image.Rect(0, 0, w, h))
	if len(f.top) != w*h {
		return img
	}

	last := int32(len(f.layers) - 1)
	for i, idx := range f.top {
		switch {
		case idx < 0:
			// not exposed
		case last == 0:
			img.Pix[i] = 255
		default:
			img.Pix[i] = uint8(64 + 191*int64(idx)/int64(last))
		}
	}
	return img
}

// appendPreview appends a preview image block: width, height, data
// position and data length as u32, followed by the pixels in RGB565.
// src is scaled to fit, keeping its aspect ratio.
func appendPreview(buf []byte, src image.Image, width, height int) []byte {
	le := binary.LittleEndian

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if sb := src.Bounds(); !sb.Empty() {
		draw.ApproxBiLinear.Scale(dst, fitRect(sb, dst.Bounds()), src, sb, draw.Src, nil)
	}

	buf = le.AppendUint32(buf, uint32(width))
	buf = le.AppendUint32(buf, uint32(height))
	buf = le.AppendUint32(buf, uint32(len(buf)+8))
	buf = le.AppendUint32(buf, uint32(2*width*height))
	for i := 0; i < len(dst.Pix); i += 4 {
		p := dst.Pix[i : i+3 : i+3]
		buf = le.AppendUint16(buf, rgb565(p[0], p[1], p[2]))
	}
	return buf
}

// fitRect returns the largest rectangle with the aspect ratio of src which
// fits into dst, centred in dst.
func fitRect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	w, h := dw, sh*dw/sw
	if h > dh {
		w, h = sw*dh/sh, dh
	}
	x0 := dst.Min.X + (dw-w)/2
	y0 := dst.Min.Y + (dh-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// rgb565 packs a colour into 16 bits: five bits each for red (bits 11-15),
// green (bits 6-10) and blue (bits 0-4). Bit 5 stays clear.
func rgb565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>3)<<6 | uint16(b>>3)
}
