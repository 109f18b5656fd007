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
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"math"
	"testing"

	"seehuhn.de/go/layermask"
	"seehuhn.de/go/layermask/polygon"
	"seehuhn.de/go/layermask/raster"
	"seehuhn.de/go/layermask/rle"
)

var testPlatform = layermask.Platform{Width: 16, Height: 8, BedWidth: 16, BedDepth: 8}

func square(x0, y0, x1, y1 float64) *polygon.Polygon {
	return &polygon.Polygon{Outer: polygon.Ring{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}}
}

// sliceLayers slices one layer per entry of sizes, each a centred square
// with the given half-width in millimetres. A size of zero gives an empty
// layer.
func sliceLayers(t *testing.T, f rle.Format, antiAlias int, sizes ...float64) []*layermask.Layer {
	t.Helper()
	s := layermask.NewSlicer(testPlatform)
	s.Format = f
	s.AntiAlias = antiAlias

	var res []*layermask.Layer
	for _, a := range sizes {
		var polys []*polygon.Polygon
		if a > 0 {
			polys = append(polys, square(-a, -a, a, a))
		}
		l, err := s.SliceLayer(polys)
		if err != nil {
			t.Fatal(err)
		}
		res = append(res, l)
	}
	return res
}

func TestPhotonLayout(t *testing.T) {
	layers := sliceLayers(t, rle.FormatPhoton, 2, 3, 0, 2)

	file := NewFile(testPlatform, rle.FormatPhoton, 2)
	file.Settings.BottomLayers = 1
	for _, l := range layers {
		if err := file.AddLayer(l); err != nil {
			t.Fatal(err)
		}
	}
	var out bytes.Buffer
	if _, err := file.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	data := out.Bytes()

	le := binary.LittleEndian
	u32 := func(pos int) int { return int(le.Uint32(data[pos:])) }
	f32 := func(pos int) float32 { return math.Float32frombits(le.Uint32(data[pos:])) }

	if !bytes.Equal(data[:4], []byte{0x19, 0x00, 0xfd, 0x12}) {
		t.Errorf("magic % x", data[:4])
	}
	if v := u32(4); v != 2 {
		t.Errorf("version %d", v)
	}
	if f32(8) != 8 || f32(12) != 16 || f32(16) != 150 {
		t.Errorf("bed size %g x %g x %g", f32(8), f32(12), f32(16))
	}
	if u32(52) != 8 || u32(56) != 16 {
		t.Errorf("resolution %d x %d", u32(52), u32(56))
	}
	if n := u32(68); n != 3 {
		t.Errorf("%d layers, want 3", n)
	}
	// one bottom layer at 30s, two normal layers at 7s
	if pt := u32(76); pt != 44 {
		t.Errorf("print time %d, want 44", pt)
	}
	if u32(84) != photonHeaderSize || u32(88) != photonPropertiesSize {
		t.Errorf("properties at %d, %d bytes", u32(84), u32(88))
	}
	if aa := u32(92); aa != 2 {
		t.Errorf("anti-aliasing level %d", aa)
	}

	table := u32(64)
	if table != photonHeaderSize+photonPropertiesSize {
		t.Errorf("layer table at %d", table)
	}
	for plane := range 2 {
		for i, l := range layers {
			entry := table + (plane*len(layers)+i)*photonLayerEntrySize
			z := f32(entry)
			if want := float32(0.05 * float64(i)); z != want {
				t.Errorf("plane %d, layer %d: z=%g, want %g", plane, i, z, want)
			}
			wantOn := float32(7)
			if i == 0 {
				wantOn = 30
			}
			if on := f32(entry + 4); on != wantOn {
				t.Errorf("plane %d, layer %d: exposure %g, want %g", plane, i, on, wantOn)
			}
			pos, n := u32(entry+12), u32(entry+16)
			if !bytes.Equal(data[pos:pos+n], l.Planes[plane]) {
				t.Errorf("plane %d, layer %d: data differs", plane, i)
			}
		}
	}

	large := u32(60)
	if u32(large) != largePreviewWidth || u32(large+4) != largePreviewHeight {
		t.Errorf("large preview %dx%d", u32(large), u32(large+4))
	}
	if u32(large+8) != large+16 || u32(large+12) != 2*largePreviewWidth*largePreviewHeight {
		t.Errorf("large preview data at %d, %d bytes", u32(large+8), u32(large+12))
	}
	small := u32(72)
	if small != large+16+2*largePreviewWidth*largePreviewHeight {
		t.Errorf("small preview at %d", small)
	}
	if want := small + 16 + 2*smallPreviewWidth*smallPreviewHeight; len(data) != want {
		t.Errorf("file has %d bytes, want %d", len(data), want)
	}

	// the centre of the large preview shows the last layer
	centre := large + 16 + 2*(largePreviewHeight/2*largePreviewWidth+largePreviewWidth/2)
	if v := le.Uint16(data[centre:]); v != rgb565(255, 255, 255) {
		t.Errorf("preview centre %04x", v)
	}
}

func TestPhotonSLayout(t *testing.T) {
	layers := sliceLayers(t, rle.FormatPhotonS, 1, 2, 3)

	file := NewFile(testPlatform, rle.FormatPhotonS, 1)
	for _, l := range layers {
		if err := file.AddLayer(l); err != nil {
			t.Fatal(err)
		}
	}
	data, err := file.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	be := binary.BigEndian
	u32 := func(pos int) int { return int(be.Uint32(data[pos:])) }
	f64 := func(pos int) float64 { return math.Float64frombits(be.Uint64(data[pos:])) }

	if u32(0) != 2 || u32(4) != 3227560 || u32(8) != 824633720 || be.Uint16(data[12:]) != 10 {
		t.Errorf("header tags % x", data[:14])
	}
	if f64(14) != 0.05 || f64(22) != 7 || f64(38) != 30 {
		t.Errorf("settings %g %g %g", f64(14), f64(22), f64(38))
	}
	if n := u32(photonSLayerCountPos); n != 2 {
		t.Errorf("%d layers, want 2", n)
	}

	pos := photonSHeaderSize
	for i, l := range layers {
		plane := l.Planes[0]
		if u32(pos) != photonSMarker || u32(pos+12) != 8 || u32(pos+16) != 16 {
			t.Errorf("layer %d: header % x", i, data[pos:pos+photonSLayerEntrySize])
		}
		if bits := u32(pos + 20); bits != len(plane)*8+32 {
			t.Errorf("layer %d: size field %d", i, bits)
		}
		pos += photonSLayerEntrySize
		if !bytes.Equal(data[pos:pos+len(plane)], plane) {
			t.Errorf("layer %d: data differs", i)
		}
		pos += len(plane)
	}
	if pos != len(data) {
		t.Errorf("file has %d bytes, want %d", len(data), pos)
	}
}

func TestFileErrors(t *testing.T) {
	layers := sliceLayers(t, rle.FormatPhoton, 2, 3)

	file := NewFile(testPlatform, rle.FormatPhoton, 1)
	if err := file.AddLayer(layers[0]); err == nil {
		t.Error("layer with two planes accepted by single-plane file")
	}
	other := NewFile(layermask.Platform{Width: 8, Height: 8, BedWidth: 8, BedDepth: 8}, rle.FormatPhoton, 2)
	if err := other.AddLayer(layers[0]); err == nil {
		t.Error("layer for a different platform accepted")
	}

	file = NewFile(testPlatform, rle.FormatPhotonS, 2)
	if err := file.AddLayer(layers[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := file.Bytes(); err == nil {
		t.Error("Photon S file with two planes per layer written")
	}

	file.Format = rle.Format(9)
	if _, err := file.Bytes(); !errors.Is(err, rle.ErrUnsupportedFormat) {
		t.Errorf("got %v, want %v", err, rle.ErrUnsupportedFormat)
	}

	file = NewFile(testPlatform, rle.FormatPhoton, 1)
	file.Settings.ExposureTime = math.NaN()
	if _, err := file.Bytes(); err == nil {
		t.Error("NaN exposure time accepted")
	}
}

func TestTopView(t *testing.T) {
	// the second layer is smaller and covers the centre only
	layers := sliceLayers(t, rle.FormatPhoton, 1, 6, 2)

	file := NewFile(testPlatform, rle.FormatPhoton, 1)
	for _, l := range layers {
		if err := file.AddLayer(l); err != nil {
			t.Fatal(err)
		}
	}
	img := file.TopView()
	if v := img.GrayAt(8, 4).Y; v != 255 {
		t.Errorf("centre %d, want 255", v)
	}
	if v := img.GrayAt(3, 4).Y; v != 64 {
		t.Errorf("first layer only: %d, want 64", v)
	}
	if v := img.GrayAt(0, 4).Y; v != 0 {
		t.Errorf("outside: %d, want 0", v)
	}
	if layers[0].Mask.At(3, 4) != raster.On {
		t.Error("test layer does not cover (3, 4)")
	}
}

func TestFitRect(t *testing.T) {
	cases := []struct {
		src, dst, want image.Rectangle
	}{
		{image.Rect(0, 0, 16, 8), image.Rect(0, 0, 400, 300), image.Rect(0, 50, 400, 250)},
		{image.Rect(0, 0, 10, 20), image.Rect(0, 0, 200, 125), image.Rect(69, 0, 131, 125)},
		{image.Rect(0, 0, 4, 3), image.Rect(0, 0, 400, 300), image.Rect(0, 0, 400, 300)},
	}
	for _, c := range cases {
		if got := fitRect(c.src, c.dst); got != c.want {
			t.Errorf("fitRect(%v, %v) = %v, want %v", c.src, c.dst, got, c.want)
		}
	}
}

func TestRGB565(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint16
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 0xffdf},
		{255, 0, 0, 0xf800},
		{0, 255, 0, 0x07c0},
		{0, 0, 255, 0x001f},
	}
	for _, c := range cases {
		if got := rgb565(c.r, c.g, c.b); got != c.want {
			t.Errorf("rgb565(%d, %d, %d) = %04x, want %04x", c.r, c.g, c.b, got, c.want)
		}
	}
}
