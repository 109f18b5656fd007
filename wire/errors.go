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
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord indicates that the length or count fields of a
	// record are inconsistent with each other or with the buffer.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrBufferOverrun indicates that a read or write would go past the end
	// of the available buffer.
	ErrBufferOverrun = errors.New("buffer overrun")
)

// Schema identifies one of the two binary polygon layouts.
// The layouts are not byte compatible with each other.
type Schema int

const (
	// SchemaRaster is the layout read by the rasterizer: a layer header
	// followed by records with a bounding box and float32 points.
	SchemaRaster Schema = iota

	// SchemaClip is the layout exchanged with the polygon offset and union
	// collaborator: a point count followed by int32 points, terminated by
	// a zero count.
	SchemaClip
)

func (s Schema) String() string {
	switch s {
	case SchemaRaster:
		return "raster"
	case SchemaClip:
		return "clip"
	default:
		return fmt.Sprintf("Schema(%d)", int(s))
	}
}

// DecodeError describes a failure to decode polygon data.
type DecodeError struct {
	Schema Schema
	Offset int    // byte offset where the problem was detected
	Msg    string // optional detail
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s data at offset %d: %v", e.Schema, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s data at offset %d: %v: %s", e.Schema, e.Offset, e.Err, e.Msg)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
