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
	"fmt"
	"math"
)

// Reader is a read cursor into a byte buffer.
// All reads are bounds-checked against the length of the buffer.
//
// A Reader is a plain value owned by the caller; there is no shared
// cursor state between Readers.
type Reader struct {
	buf    []byte
	pos    int
	schema Schema
}

// NewReader returns a cursor into buf, positioned at offset off.
func NewReader(buf []byte, off int, schema Schema) *Reader {
	return &Reader{buf: buf, pos: off, schema: schema}
}

// Pos returns the current read offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of bytes between the read offset and the
// end of the buffer.
func (r *Reader) Remaining() int {
	return max(len(r.buf)-r.pos, 0)
}

// Seek moves the cursor to the absolute offset off.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.buf) {
		return r.errorf(ErrBufferOverrun, "seek to %d in buffer of %d bytes", off, len(r.buf))
	}
	r.pos = off
	return nil
}

func (r *Reader) need(n int) error {
	if r.pos < 0 || n > len(r.buf)-r.pos {
		return r.errorf(ErrBufferOverrun, "need %d bytes, %d available", n, r.Remaining())
	}
	return nil
}

// Uint16 reads a little-endian 16-bit unsigned integer.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// Int32 reads a little-endian 32-bit signed integer.
func (r *Reader) Int32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v, nil
}

// Float32 reads a little-endian IEEE 754 single precision value.
func (r *Reader) Float32() (float32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v, nil
}

func (r *Reader) errorf(err error, format string, args ...any) error {
	return r.errorAt(r.pos, err, format, args...)
}

func (r *Reader) errorAt(off int, err error, format string, args ...any) error {
	return &DecodeError{
		Schema: r.schema,
		Offset: off,
		Msg:    fmt.Sprintf(format, args...),
		Err:    err,
	}
}
