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

// PlaneMasks returns the bit masks used to encode a mask as the given number
// of anti-aliasing sub-layers. The first mask selects all bits; each
// following mask drops 8/levels of the high bits.
//
// The number of levels must be 1, 2, 4 or 8.
func PlaneMasks(levels int) ([]byte, error) {
	switch levels {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("%d anti-aliasing levels: must be 1, 2, 4 or 8", levels)
	}

	d := 8 / levels
	masks := make([]byte, levels)
	for i := range masks {
		masks[i] = 0xff >> (i * d)
	}
	return masks, nil
}
