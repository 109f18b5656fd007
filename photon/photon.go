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

// Package photon writes the printer files read by Photon and Photon S
// resin printers.
//
// A Photon file starts with a little-endian header holding the printer
// geometry, the exposure settings and the positions of the remaining
// parts: a print properties block, a table with one entry per layer and
// anti-aliasing plane, the run-length encoded planes, and two preview
// images in RGB565.
//
// A Photon S file uses a fixed-size big-endian header followed by the
// layers, each with a short header of its own. Only one plane per layer
// is stored.
//
// The run-length encoded planes must use the framing which matches the
// file type, [rle.FormatPhoton] or [rle.FormatPhotonS].
package photon

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"math"

	"seehuhn.de/go/layermask"
	"seehuhn.de/go/layermask/raster"
	"seehuhn.de/go/layermask/rle"
)

// File collects the layers of a print job and writes them as a printer file.
type File struct {
	Platform  layermask.Platform
	Format    rle.Format // FormatPhoton or FormatPhotonS
	AntiAlias int        // planes per layer
	Settings  Settings

	// Preview is shown on the printer display. If Preview is nil, a top
	// view of all layers, shaded by height, is used.
	Preview image.Image

	layers [][][]byte
	top    []int32 // row-major, index of the highest layer exposing a pixel
}

// NewFile returns an empty file using [DefaultSettings].
func NewFile(p layermask.Platform, f rle.Format, antiAlias int) *File {
	return &File{
		Platform:  p,
		Format:    f,
		AntiAlias: antiAlias,
		Settings:  DefaultSettings,
	}
}

// NumLayers returns the number of layers added so far.
func (f *File) NumLayers() int {
	return len(f.layers)
}

// AddLayer appends a layer produced by a [layermask.Slicer] configured with
// the same platform, format and anti-aliasing level.
func (f *File) AddLayer(l *layermask.Layer) error {
	w, h := f.Platform.Width, f.Platform.Height
	if l.Mask == nil || l.Mask.Width != w || l.Mask.Height != h {
		return fmt.Errorf("layer %d: mask size does not match the %dx%d platform",
			len(f.layers), w, h)
	}
	if len(l.Planes) != f.AntiAlias {
		return fmt.Errorf("layer %d: %d planes, want %d",
			len(f.layers), len(l.Planes), f.AntiAlias)
	}
	for i, plane := range l.Planes {
		if len(plane) > math.MaxUint32/8 {
			return fmt.Errorf("layer %d: plane %d too large", len(f.layers), i)
		}
	}

	f.addTop(l.Mask, int32(len(f.layers)))
	f.layers = append(f.layers, l.Planes)
	return nil
}

func (f *File) addTop(m *raster.Mask, index int32) {
	if f.top == nil {
		f.top = make([]int32, m.Width*m.Height)
		for i := range f.top {
			f.top[i] = -1
		}
	}
	for x := range m.Width {
		col := m.Pix[x*m.Height : (x+1)*m.Height]
		for y, v := range col {
			if v != raster.Off {
				f.top[y*m.Width+x] = index
			}
		}
	}
}

// WriteTo writes the printer file to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	data, err := f.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Bytes returns the contents of the printer file.
func (f *File) Bytes() ([]byte, error) {
	if err := f.Platform.Validate(); err != nil {
		return nil, err
	}
	if err := f.Settings.Validate(); err != nil {
		return nil, err
	}
	if _, err := rle.PlaneMasks(f.AntiAlias); err != nil {
		return nil, err
	}

	switch f.Format {
	case rle.FormatPhoton:
		return f.photon(), nil
	case rle.FormatPhotonS:
		if f.AntiAlias != 1 {
			return nil, fmt.Errorf("%s files hold one plane per layer, not %d",
				f.Format, f.AntiAlias)
		}
		return f.photonS(), nil
	default:
		return nil, fmt.Errorf("photon: format %d: %w", f.Format, rle.ErrUnsupportedFormat)
	}
}

// Layout of the Photon format.
const (
	photonMagic   = 0x1900fd12 // stored big-endian
	photonVersion = 2

	photonHeaderSize     = 100
	photonPropertiesSize = 60
	photonLayerEntrySize = 36

	largePreviewWidth  = 400
	largePreviewHeight = 300
	smallPreviewWidth  = 200
	smallPreviewHeight = 125
)

func (f *File) photon() []byte {
	le := binary.LittleEndian
	s := &f.Settings
	n := len(f.layers)

	size := photonHeaderSize + photonPropertiesSize +
		n*f.AntiAlias*photonLayerEntrySize +
		16 + 2*largePreviewWidth*largePreviewHeight +
		16 + 2*smallPreviewWidth*smallPreviewHeight
	for _, planes := range f.layers {
		for _, plane := range planes {
			size += len(plane)
		}
	}
	buf := make([]byte, 0, size)

	buf = binary.BigEndian.AppendUint32(buf, photonMagic)
	buf = le.AppendUint32(buf, photonVersion)
	// the printer x axis runs along the short side of the light source
	buf = appendF32(buf, f.Platform.BedDepth)
	buf = appendF32(buf, f.Platform.BedWidth)
	buf = appendF32(buf, s.BedHeight)
	buf = append(buf, make([]byte, 12)...)
	buf = appendF32(buf, s.LayerHeight)
	buf = appendF32(buf, s.ExposureTime)
	buf = appendF32(buf, s.BottomExposureTime)
	buf = appendF32(buf, s.LightOffTime)
	buf = le.AppendUint32(buf, uint32(s.BottomLayers))
	buf = le.AppendUint32(buf, uint32(f.Platform.Height))
	buf = le.AppendUint32(buf, uint32(f.Platform.Width))
	largePreviewPos := len(buf)
	buf = le.AppendUint32(buf, 0)
	layerTablePos := len(buf)
	buf = le.AppendUint32(buf, 0)
	buf = le.AppendUint32(buf, uint32(n))
	smallPreviewPos := len(buf)
	buf = le.AppendUint32(buf, 0)
	buf = le.AppendUint32(buf, s.printTime(n))
	buf = le.AppendUint32(buf, 1) // LCD projection
	propertiesPos := len(buf)
	buf = le.AppendUint32(buf, 0)
	buf = le.AppendUint32(buf, photonPropertiesSize)
	buf = le.AppendUint32(buf, uint32(f.AntiAlias))
	buf = le.AppendUint16(buf, 0xff) // light PWM
	buf = le.AppendUint16(buf, 0xff) // bottom light PWM

	le.PutUint32(buf[propertiesPos:], uint32(len(buf)))
	buf = appendF32(buf, s.BottomPeelDistance)
	buf = appendF32(buf, s.BottomPeelLiftSpeed*60)
	buf = appendF32(buf, s.PeelDistance)
	buf = appendF32(buf, s.PeelLiftSpeed*60)
	buf = appendF32(buf, s.PeelDropSpeed*60)
	buf = append(buf, make([]byte, 5*4)...) // volume, weight, cost, delays
	buf = le.AppendUint32(buf, uint32(s.BottomLayers))
	buf = append(buf, make([]byte, 4*4)...)

	// planes are grouped by anti-aliasing level
	le.PutUint32(buf[layerTablePos:], uint32(len(buf)))
	var dataPos []int
	for plane := range f.AntiAlias {
		for i, planes := range f.layers {
			z, on, off := s.layer(i)
			buf = appendF32(buf, z)
			buf = appendF32(buf, on)
			buf = appendF32(buf, off)
			dataPos = append(dataPos, len(buf))
			buf = le.AppendUint32(buf, 0)
			buf = le.AppendUint32(buf, uint32(len(planes[plane])))
			buf = append(buf, make([]byte, 16)...)
		}
	}
	k := 0
	for plane := range f.AntiAlias {
		for _, planes := range f.layers {
			le.PutUint32(buf[dataPos[k]:], uint32(len(buf)))
			buf = append(buf, planes[plane]...)
			k++
		}
	}

	src := f.previewSource()
	le.PutUint32(buf[largePreviewPos:], uint32(len(buf)))
	buf = appendPreview(buf, src, largePreviewWidth, largePreviewHeight)
	le.PutUint32(buf[smallPreviewPos:], uint32(len(buf)))
	buf = appendPreview(buf, src, smallPreviewWidth, smallPreviewHeight)

	return buf
}

// Layout of the Photon S format.
const (
	photonSHeaderSize     = 75366
	photonSLayerCountPos  = photonSHeaderSize - 4
	photonSLayerEntrySize = 28
	photonSMarker         = 69420 // in the header and before every layer
	photonSLayerFlags     = 0xa0055000
)

func (f *File) photonS() []byte {
	be := binary.BigEndian
	s := &f.Settings

	size := photonSHeaderSize
	for _, planes := range f.layers {
		size += photonSLayerEntrySize + len(planes[0])
	}
	buf := make([]byte, photonSHeaderSize, size)

	be.PutUint32(buf[0:], 2)
	be.PutUint32(buf[4:], 3227560)
	be.PutUint32(buf[8:], 824633720)
	be.PutUint16(buf[12:], 10)
	putF64(buf[14:], s.LayerHeight)
	putF64(buf[22:], s.ExposureTime)
	putF64(buf[30:], s.LightOffTime)
	putF64(buf[38:], s.BottomExposureTime)
	be.PutUint32(buf[46:], uint32(s.BottomLayers))
	putF64(buf[50:], s.PeelDistance)
	putF64(buf[58:], s.PeelLiftSpeed)
	putF64(buf[66:], s.PeelDropSpeed)
	putF64(buf[74:], photonSMarker)
	be.PutUint32(buf[82:], 224)
	be.PutUint32(buf[86:], 42)
	be.PutUint32(buf[90:], 168)
	be.PutUint32(buf[94:], 10)
	be.PutUint32(buf[photonSLayerCountPos:], uint32(len(f.layers)))

	for _, planes := range f.layers {
		data := planes[0]
		buf = be.AppendUint32(buf, photonSMarker)
		buf = be.AppendUint64(buf, 0)
		buf = be.AppendUint32(buf, uint32(f.Platform.Height))
		buf = be.AppendUint32(buf, uint32(f.Platform.Width))
		buf = be.AppendUint32(buf, uint32(len(data)*8+32))
		buf = be.AppendUint32(buf, photonSLayerFlags)
		buf = append(buf, data...)
	}
	return buf
}

func appendF32(buf []byte, x float64) []byte {
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(x)))
}

func putF64(buf []byte, x float64) {
	binary.BigEndian.PutUint64(buf, math.Float64bits(x))
}
