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

package wire

import (
	"encoding/binary"
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layermask/polygon"
)

// ClipPointSize is the size of one point in the clip layout, in bytes.
const ClipPointSize = 8

// AppendClipPaths appends rings in the clip layout to dst:
//
//	u16 points, points × (i32 x, i32 y)
//
// for every ring, followed by a u16 zero count which terminates the list.
// Coordinates are multiplied by scale and rounded to the nearest integer.
// Empty rings are skipped, since a zero count ends the list.
func AppendClipPaths(dst []byte, rings []polygon.Ring, scale float64) ([]byte, error) {
	start := len(dst)
	for _, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		if len(ring) > math.MaxUint16 {
			return dst[:start], &DecodeError{
				Schema: SchemaClip,
				Offset: len(dst),
				Msg:    "too many points",
				Err:    ErrMalformedRecord,
			}
		}
		dst = binary.LittleEndian.AppendUint16(dst, uint16(len(ring)))
		for _, pt := range ring {
			x, okX := toInt32(pt.X * scale)
			y, okY := toInt32(pt.Y * scale)
			if !okX || !okY {
				return dst[:start], &DecodeError{
					Schema: SchemaClip,
					Offset: len(dst),
					Msg:    "coordinate out of range",
					Err:    polygon.ErrDegenerateEdge,
				}
			}
			dst = binary.LittleEndian.AppendUint32(dst, uint32(x))
			dst = binary.LittleEndian.AppendUint32(dst, uint32(y))
		}
	}
	return binary.LittleEndian.AppendUint16(dst, 0), nil
}

// DecodeClipPaths reads rings in the clip layout until the terminating
// zero count. Coordinates are divided by scale.
// On success the cursor is positioned directly after the terminator.
func DecodeClipPaths(r *Reader, scale float64) ([]polygon.Ring, error) {
	if scale == 0 || !isFinite(scale) {
		return nil, r.errorf(ErrMalformedRecord, "invalid scale %g", scale)
	}

	var rings []polygon.Ring
	for {
		start := r.Pos()
		n, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return rings, nil
		}
		if int(n)*ClipPointSize > r.Remaining() {
			return nil, r.errorAt(start, ErrBufferOverrun,
				"%d points need %d bytes, %d available", n, int(n)*ClipPointSize, r.Remaining())
		}
		ring := make(polygon.Ring, n)
		for i := range ring {
			x, _ := r.Int32()
			y, _ := r.Int32()
			ring[i] = vec.Vec2{X: float64(x) / scale, Y: float64(y) / scale}
		}
		rings = append(rings, ring)
	}
}

func toInt32(x float64) (int32, bool) {
	x = math.Round(x)
	if !(x >= math.MinInt32 && x <= math.MaxInt32) {
		return 0, false
	}
	return int32(x), true
}
