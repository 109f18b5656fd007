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


// Package rle run-length encodes binary layer masks for the light source
// of a resin printer.
//
// Every input byte is reduced to a colour bit by testing it against a mask:
// the colour is 1 if byte&mask is non-zero and 0 otherwise. Consecutive
// bytes of the same colour form a run, and every run is stored as one
// output byte. Runs which are longer than [MaxRun] are split.
//
// Two framings of the output bytes are supported, see [Format].
package rle

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for an unknown [Format] value.
	ErrUnsupportedFormat = errors.New("unsupported RLE format")

	// ErrShortBuffer is returned if the output buffer is too small to hold
	// the encoded data.
	ErrShortBuffer = errors.New("short RLE buffer")
)

// Format selects the framing of the run bytes.
type Format uint8

const (
	// FormatPhoton stores the colour in bit 7 and the run length (1-125)
	// in bits 0-6.
	FormatPhoton Format = 0

	// FormatPhotonS stores the colour in bit 0 and the run length minus
	// one (0-127) in bits 1-7, with the bit order reversed: bit 0 of the
	// length is stored in bit 7 of the output byte.
	FormatPhotonS Format = 1
)

func (f Format) String() string {
	switch f {
	case FormatPhoton:
		return "photon"
	case FormatPhotonS:
		return "photons"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// ParseFormat converts a format name, as returned by [Format.String], into
// a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "photon", "0":
		return FormatPhoton, nil
	case "photons", "1":
		return FormatPhotonS, nil
	default:
		return 0, fmt.Errorf("%q: %w", name, ErrUnsupportedFormat)
	}
}

// MaxRun returns the longest run which fits into a single output byte.
func (f Format) MaxRun() int {
	switch f {
	case FormatPhoton:
		return 125
	case FormatPhotonS:
		return 128
	default:
		return 0
	}
}

func (f Format) check() error {
	if f != FormatPhoton && f != FormatPhotonS {
		return fmt.Errorf("%s: %w", f, ErrUnsupportedFormat)
	}
	return nil
}

// runByte encodes a run of count pixels, 1 <= count <= f.MaxRun().
func (f Format) runByte(color byte, count int) byte {
	if f == FormatPhoton {
		return byte(count&0x7f) | (color<<7)&0x80
	}
	run := byte(count - 1)
	return reverse7(run)<<1 | color
}

// parseRun decodes a run byte.
func (f Format) parseRun(b byte) (color byte, count int) {
	if f == FormatPhoton {
		return b >> 7, int(b & 0x7f)
	}
	return b & 1, int(reverse7(b>>1)) + 1
}

// reverse7 reverses the order of the low 7 bits of x.
func reverse7(x byte) byte {
	var r byte
	for range 7 {
		r = r<<1 | x&1
		x >>= 1
	}
	return r
}
