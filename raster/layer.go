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
	"seehuhn.de/go/layermask/wire"
)

// RenderLayer decodes the layer which starts at offset in of buf and draws
// it into a mask backed by pix. It returns the mask together with the
// offset directly after the last polygon record.
//
// All records are decoded before the first pixel is written, so pix may
// overlap the part of buf which holds the layer. If decoding fails, pix is
// left unchanged.
func (r *Rasterizer) RenderLayer(buf []byte, in int, pix []byte) (*Mask, int, error) {
	rd := wire.NewReader(buf, in, wire.SchemaRaster)
	h, recs, err := wire.DecodeLayer(rd)
	if err != nil {
		return nil, in, err
	}

	m, err := MaskOn(pix, h.Width, h.Height)
	if err != nil {
		return nil, in, err
	}
	m.Clear()

	for _, rec := range recs {
		r.FillRecord(m, rec)
	}

	return m, rd.Pos(), nil
}
