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

// Package wire encodes and decodes polygons in the flat binary layouts used
// to pass layers between the slicer and the rasterizer.
//
// The raster layout ([SchemaRaster]) consists of a layer header
//
//	u16 width, u16 height, u16 polys
//
// followed by polys records of the form
//
//	u16 length, u16 inners, u16 points,
//	u16 minx, u16 maxx, u16 miny, u16 maxy,
//	points × (f32 x, f32 y),
//	inners × record
//
// where length is the total size of the record in bytes, including all
// nested inner records. All values are little-endian.
//
// The clip layout ([SchemaClip]) is described at [AppendClipPaths].
package wire

import (
	"encoding/binary"
	"image"
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layermask/polygon"
)

// Sizes of the fixed parts of the raster layout, in bytes.
const (
	HeaderSize       = 6
	RecordHeaderSize = 14
	PointSize        = 8
)

const (
	// MaxRecordSize is the largest record the u16 length field can describe.
	MaxRecordSize = math.MaxUint16

	// MaxPoints is the largest number of points a single record can hold.
	MaxPoints = (MaxRecordSize - RecordHeaderSize) / PointSize

	// MaxDepth limits the nesting of inner records.
	MaxDepth = 64
)

// Header is the fixed-size record at the start of a layer.
type Header struct {
	Width  int // image width in pixels
	Height int // image height in pixels
	Polys  int // number of top-level polygon records
}

// Record is a decoded polygon record of the raster layout.
type Record struct {
	Offset int // position of the record in the buffer
	Length int // size of the record in bytes, including inner records

	// Bounds is the pixel area scanned for this polygon.
	// Max is exclusive.
	Bounds image.Rectangle

	Ring   polygon.Ring
	Inners []*Record
}

// Polygon converts the record into a polygon tree.
func (rec *Record) Polygon() *polygon.Polygon {
	p := &polygon.Polygon{Outer: rec.Ring}
	for _, in := range rec.Inners {
		p.Holes = append(p.Holes, in.Polygon())
	}
	return p
}

// DecodeHeader reads a layer header.
func DecodeHeader(r *Reader) (Header, error) {
	var v [3]uint16
	for i := range v {
		x, err := r.Uint16()
		if err != nil {
			return Header{}, err
		}
		v[i] = x
	}
	return Header{Width: int(v[0]), Height: int(v[1]), Polys: int(v[2])}, nil
}

// DecodeRecord reads one polygon record, including all nested inner
// records. On success the cursor is positioned directly after the record.
//
// The length, inners and points fields are checked against each other and
// against the size of the buffer before any point data is read.
func DecodeRecord(r *Reader) (*Record, error) {
	return decodeRecord(r, 0)
}

func decodeRecord(r *Reader, depth int) (*Record, error) {
	start := r.Pos()
	if depth >= MaxDepth {
		return nil, r.errorf(ErrMalformedRecord, "inner records nested more than %d levels", MaxDepth)
	}
	if err := r.need(RecordHeaderSize); err != nil {
		return nil, err
	}

	var v [7]uint16
	for i := range v {
		v[i], _ = r.Uint16()
	}
	length, inners, points := int(v[0]), int(v[1]), int(v[2])
	minx, maxx, miny, maxy := int(v[3]), int(v[4]), int(v[5]), int(v[6])

	if length < RecordHeaderSize+points*PointSize+inners*RecordHeaderSize {
		return nil, r.errorAt(start, ErrMalformedRecord,
			"length %d too small for %d points and %d inner records", length, points, inners)
	}
	if length > len(r.buf)-start {
		return nil, r.errorAt(start, ErrBufferOverrun,
			"record length %d exceeds the %d bytes available", length, len(r.buf)-start)
	}
	if minx > maxx || miny > maxy {
		return nil, r.errorAt(start, ErrMalformedRecord,
			"inverted bounding box x=[%d,%d) y=[%d,%d)", minx, maxx, miny, maxy)
	}

	rec := &Record{
		Offset: start,
		Length: length,
		Bounds: image.Rect(minx, miny, maxx, maxy),
		Ring:   make(polygon.Ring, points),
	}
	for i := range rec.Ring {
		at := r.Pos()
		x, _ := r.Float32()
		y, _ := r.Float32()
		pt := vec.Vec2{X: float64(x), Y: float64(y)}
		if !isFinite(pt.X) || !isFinite(pt.Y) {
			return nil, r.errorAt(at, polygon.ErrDegenerateEdge, "point %d is (%g, %g)", i, x, y)
		}
		rec.Ring[i] = pt
	}

	end := start + length
	for range inners {
		if r.Pos() >= end {
			return nil, r.errorAt(start, ErrMalformedRecord, "inner records extend past the record length")
		}
		in, err := decodeRecord(r, depth+1)
		if err != nil {
			return nil, err
		}
		rec.Inners = append(rec.Inners, in)
	}

	if r.Pos() != end {
		return nil, r.errorAt(start, ErrMalformedRecord,
			"record length %d, but %d bytes were decoded", length, r.Pos()-start)
	}
	return rec, nil
}

// DecodeLayer reads a layer header followed by all of its records.
// Either the complete layer is returned, or an error.
func DecodeLayer(r *Reader) (Header, []*Record, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return Header{}, nil, err
	}
	recs := make([]*Record, 0, min(h.Polys, r.Remaining()/RecordHeaderSize))
	for range h.Polys {
		rec, err := DecodeRecord(r)
		if err != nil {
			return Header{}, nil, err
		}
		recs = append(recs, rec)
	}
	return h, recs, nil
}

// AppendHeader appends a layer header to dst.
func AppendHeader(dst []byte, h Header) ([]byte, error) {
	for _, v := range []int{h.Width, h.Height, h.Polys} {
		if v < 0 || v > math.MaxUint16 {
			return dst, &DecodeError{
				Schema: SchemaRaster,
				Offset: len(dst),
				Msg:    "header field out of range",
				Err:    ErrMalformedRecord,
			}
		}
	}
	dst = binary.LittleEndian.AppendUint16(dst, uint16(h.Width))
	dst = binary.LittleEndian.AppendUint16(dst, uint16(h.Height))
	dst = binary.LittleEndian.AppendUint16(dst, uint16(h.Polys))
	return dst, nil
}

// AppendRecord appends the record for p, including records for all holes,
// to dst. The bounding box of every record is computed from its ring,
// rounded outwards to whole pixels and clamped to the u16 range.
func AppendRecord(dst []byte, p *polygon.Polygon) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return dst, err
	}
	return appendRecord(dst, p, 0)
}

func appendRecord(dst []byte, p *polygon.Polygon, depth int) ([]byte, error) {
	start := len(dst)
	fail := func(msg string) ([]byte, error) {
		return dst[:start], &DecodeError{Schema: SchemaRaster, Offset: start, Msg: msg, Err: ErrMalformedRecord}
	}
	if depth >= MaxDepth {
		return fail("holes nested too deeply")
	}
	if len(p.Outer) > MaxPoints {
		return fail("too many points")
	}
	if len(p.Holes) > math.MaxUint16 {
		return fail("too many holes")
	}

	b := float32Bounds(p.Outer)
	dst = binary.LittleEndian.AppendUint16(dst, 0) // length, patched below
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(p.Holes)))
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(p.Outer)))
	dst = binary.LittleEndian.AppendUint16(dst, clampU16(math.Floor(b.LLx)))
	dst = binary.LittleEndian.AppendUint16(dst, clampU16(math.Ceil(b.URx)))
	dst = binary.LittleEndian.AppendUint16(dst, clampU16(math.Floor(b.LLy)))
	dst = binary.LittleEndian.AppendUint16(dst, clampU16(math.Ceil(b.URy)))
	for _, pt := range p.Outer {
		x, y := float32(pt.X), float32(pt.Y)
		if math.IsInf(float64(x), 0) || math.IsInf(float64(y), 0) {
			return dst[:start], &DecodeError{
				Schema: SchemaRaster,
				Offset: start,
				Msg:    "coordinate out of float32 range",
				Err:    polygon.ErrDegenerateEdge,
			}
		}
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(x))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(y))
	}

	for _, h := range p.Holes {
		var err error
		dst, err = appendRecord(dst, h, depth+1)
		if err != nil {
			return dst[:start], err
		}
	}

	length := len(dst) - start
	if length > MaxRecordSize {
		return fail("record larger than 65535 bytes")
	}
	binary.LittleEndian.PutUint16(dst[start:], uint16(length))
	return dst, nil
}

// AppendLayer appends a layer header and the records of all polygons to dst.
func AppendLayer(dst []byte, width, height int, polys []*polygon.Polygon) ([]byte, error) {
	start := len(dst)
	dst, err := AppendHeader(dst, Header{Width: width, Height: height, Polys: len(polys)})
	if err != nil {
		return dst[:start], err
	}
	for _, p := range polys {
		dst, err = AppendRecord(dst, p)
		if err != nil {
			return dst[:start], err
		}
	}
	return dst, nil
}

// float32Bounds returns the bounding box of the ring as it will be seen by
// the decoder, after rounding the coordinates to float32.
func float32Bounds(ring polygon.Ring) rect.Rect {
	var b rect.Rect
	for i, pt := range ring {
		x, y := float64(float32(pt.X)), float64(float32(pt.Y))
		if i == 0 {
			b = rect.Rect{LLx: x, LLy: y, URx: x, URy: y}
			continue
		}
		b.LLx = min(b.LLx, x)
		b.LLy = min(b.LLy, y)
		b.URx = max(b.URx, x)
		b.URy = max(b.URy, y)
	}
	return b
}

func clampU16(x float64) uint16 {
	switch {
	case x <= 0 || math.IsNaN(x):
		return 0
	case x >= math.MaxUint16:
		return math.MaxUint16
	default:
		return uint16(x)
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
