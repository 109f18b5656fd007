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


package layermask

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"
	"testing"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layermask/polygon"
	"seehuhn.de/go/layermask/raster"
	"seehuhn.de/go/layermask/rle"
	"seehuhn.de/go/layermask/testcases"
	"seehuhn.de/go/layermask/wire"
)

func TestRenderMatchesFill(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			t.Run(category+"_"+tc.Name, func(t *testing.T) {
				// the wire format stores float32 coordinates
				polys := roundPolygons(tc.Polygons())

				imageLen := tc.Width * tc.Height
				mem := make([]byte, imageLen, 2*imageLen)
				mem, err := wire.AppendLayer(mem, tc.Width, tc.Height, polys)
				if err != nil {
					t.Fatal(err)
				}

				next, err := Render(mem, imageLen, 0)
				if err != nil {
					t.Fatal(err)
				}
				if next != len(mem) {
					t.Errorf("next = %d, want %d", next, len(mem))
				}

				want := raster.NewMask(tc.Width, tc.Height)
				r := raster.NewRasterizer()
				for _, p := range polys {
					if err := r.Fill(want, p); err != nil {
						t.Fatal(err)
					}
				}
				if !bytes.Equal(want.Pix, mem[:imageLen]) {
					t.Error("rendered mask differs from direct fill")
				}
			})
		}
	}
}

func roundPolygons(polys []*polygon.Polygon) []*polygon.Polygon {
	res := make([]*polygon.Polygon, len(polys))
	for i, p := range polys {
		q := &polygon.Polygon{Outer: make(polygon.Ring, len(p.Outer))}
		for j, pt := range p.Outer {
			q.Outer[j] = vec.Vec2{X: float64(float32(pt.X)), Y: float64(float32(pt.Y))}
		}
		q.Holes = roundPolygons(p.Holes)
		res[i] = q
	}
	return res
}

func square(x0, y0, x1, y1 float64) polygon.Ring {
	return polygon.Ring{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestRenderErrors(t *testing.T) {
	layer, err := wire.AppendLayer(nil, 8, 8, []*polygon.Polygon{{Outer: square(1, 1, 6, 6)}})
	if err != nil {
		t.Fatal(err)
	}
	mem := append(make([]byte, 64), layer...)
	for i := range 64 {
		mem[i] = 0x11
	}

	// shrink the length field of the record below its content
	bad := slices.Clone(mem)
	binary.LittleEndian.PutUint16(bad[64+wire.HeaderSize:], wire.RecordHeaderSize)
	if _, err := Render(bad, 64, 0); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("malformed record: got %v", err)
	}
	if bad[0] != 0x11 {
		t.Error("mask written despite error")
	}

	if _, err := Render(mem, 64, len(mem)-10); !errors.Is(err, ErrBufferOverrun) {
		t.Errorf("mask past the end: got %v", err)
	}
	if _, err := Render(mem, -1, 0); !errors.Is(err, ErrBufferOverrun) {
		t.Errorf("negative offset: got %v", err)
	}
	if _, err := Render(mem[:len(mem)-1], 64, 0); !errors.Is(err, ErrBufferOverrun) {
		t.Errorf("truncated layer: got %v", err)
	}

	nan := slices.Clone(mem)
	pt := 64 + wire.HeaderSize + wire.RecordHeaderSize
	binary.LittleEndian.PutUint32(nan[pt:], math.Float32bits(float32(math.Inf(1))))
	if _, err := Render(nan, 64, 0); !errors.Is(err, ErrDegenerateEdge) {
		t.Errorf("infinite coordinate: got %v", err)
	}
}

func TestEncodeRLE(t *testing.T) {
	mem := make([]byte, 400)
	for i := 50; i < 100; i++ {
		mem[i] = 255
	}

	n, err := EncodeRLE(mem, 0, 200, 0xff, 200, rle.FormatPhoton)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x32, 0xb2, 0x64}; !bytes.Equal(mem[200:200+n], want) {
		t.Errorf("got % x, want % x", mem[200:200+n], want)
	}

	// encoding in place is allowed
	src := slices.Clone(mem[:200])
	n, err = EncodeRLE(mem, 0, 200, 0xff, 0, rle.FormatPhotonS)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := rle.Decode(mem[:n], rle.FormatPhotonS)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range dec {
		if (v == 1) != (src[i] != 0) {
			t.Fatalf("pixel %d differs after in-place encoding", i)
		}
	}

	cases := []struct {
		name      string
		in, n     int
		out       int
		f         rle.Format
		wantError error
	}{
		{"input past end", 300, 200, 0, rle.FormatPhoton, ErrBufferOverrun},
		{"negative input", -1, 10, 0, rle.FormatPhoton, ErrBufferOverrun},
		{"output past end", 0, 10, 401, rle.FormatPhoton, ErrBufferOverrun},
		{"output inside input", 0, 200, 100, rle.FormatPhoton, ErrBufferOverrun},
		{"short output", 0, 200, 399, rle.FormatPhoton, ErrBufferOverrun},
		{"bad format", 0, 10, 200, rle.Format(7), ErrUnsupportedFormat},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := EncodeRLE(mem, c.in, c.n, 0xff, c.out, c.f)
			if !errors.Is(err, c.wantError) {
				t.Errorf("got %v, want %v", err, c.wantError)
			}
		})
	}
}

func TestEncodeRLEShortOutput(t *testing.T) {
	mem := make([]byte, 400)
	for i := 50; i < 100; i++ {
		mem[i] = 255
	}
	mem[398], mem[399] = 7, 7

	// the three encoded bytes do not fit into the last two bytes of mem
	_, err := EncodeRLE(mem, 0, 200, 0xff, 398, rle.FormatPhoton)
	if !errors.Is(err, ErrBufferOverrun) {
		t.Errorf("got %v, want %v", err, ErrBufferOverrun)
	}
	if mem[398] != 7 || mem[399] != 7 {
		t.Errorf("output modified after error: % x", mem[398:])
	}

	n, err := EncodeRLE(mem, 0, 200, 0xff, 397, rle.FormatPhoton)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("%d bytes written, want 3", n)
	}
}

func TestSlicer(t *testing.T) {
	s := NewSlicer(Platform{Width: 64, Height: 32, BedWidth: 64, BedDepth: 32})
	s.AntiAlias = 2

	// 20x10 mm rectangle around the bed centre
	layer, err := s.SliceLayer([]*polygon.Polygon{{Outer: square(-10, -5, 10, 5)}})
	if err != nil {
		t.Fatal(err)
	}
	if layer.Empty {
		t.Error("layer reported as empty")
	}
	m := layer.Mask
	if m.At(32, 16) != raster.On || m.At(22, 16) != raster.On {
		t.Error("centre of the rectangle not exposed")
	}
	if m.At(21, 16) != raster.Off || m.At(32, 5) != raster.Off {
		t.Error("pixel outside the rectangle exposed")
	}
	// the rows at y=11 and y=21 lie on the boundary and stay dark
	if n := m.Count(); n != 20*9 {
		t.Errorf("%d pixels exposed, want %d", n, 20*9)
	}

	if len(layer.Planes) != 2 {
		t.Fatalf("%d planes, want 2", len(layer.Planes))
	}
	for i, plane := range layer.Planes {
		dec, err := rle.Decode(plane, rle.FormatPhoton)
		if err != nil {
			t.Fatal(err)
		}
		if len(dec) != len(m.Pix) {
			t.Fatalf("plane %d: %d pixels", i, len(dec))
		}
		for j, v := range dec {
			if (v == 1) != (m.Pix[j] == raster.On) {
				t.Fatalf("plane %d differs from the mask at %d", i, j)
			}
		}
	}

	// the working buffer is reused; earlier results must stay intact
	before := slices.Clone(m.Pix)
	if _, err := s.SliceLayer(nil); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, m.Pix) {
		t.Error("second layer modified the first result")
	}
}

func TestSlicerEmpty(t *testing.T) {
	s := NewSlicer(Platform{Width: 64, Height: 32, BedWidth: 64, BedDepth: 32})
	layer, err := s.SliceLayer(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !layer.Empty {
		t.Error("layer not reported as empty")
	}
	if want := (64*32 + 124) / 125; len(layer.Planes[0]) != want {
		t.Errorf("%d encoded bytes, want %d", len(layer.Planes[0]), want)
	}
}

func TestSlicerConfig(t *testing.T) {
	s := NewSlicer(Platform{Width: 10, Height: 10, BedWidth: 10, BedDepth: 10})
	s.AntiAlias = 3
	if _, err := s.SliceLayer(nil); err == nil {
		t.Error("invalid anti-aliasing level accepted")
	}

	s = NewSlicer(Platform{Width: 10, Height: 10})
	if _, err := s.SliceLayer(nil); err == nil {
		t.Error("zero bed size accepted")
	}

	s = NewSlicer(Platform{Width: 10, Height: 10, BedWidth: 10, BedDepth: 10})
	s.Format = rle.Format(9)
	if _, err := s.SliceLayer(nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want %v", err, ErrUnsupportedFormat)
	}
}

func TestPlatformMatrix(t *testing.T) {
	p := DefaultPlatform
	ring := polygon.Ring{{X: 0, Y: 0}, {X: p.BedWidth / 2, Y: p.BedDepth / 2}, {X: -p.BedWidth / 2, Y: -p.BedDepth / 2}}
	got := p.Transform([]*polygon.Polygon{{Outer: ring}})[0].Outer
	want := polygon.Ring{{X: 1280, Y: 720}, {X: 2560, Y: 0}, {X: 0, Y: 1440}}
	for i := range want {
		if math.Abs(got[i].X-want[i].X) > 1e-9 || math.Abs(got[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("point %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s := NewSlicer(Platform{Width: 16, Height: 16, BedWidth: 16, BedDepth: 16})
	if _, err := s.SliceLayer([]*polygon.Polygon{{Outer: square(-20, -2, 2, 2)}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, msg := range []string{"layer rendered", "layer sliced", "points=4", "polygon extends past the platform"} {
		if !strings.Contains(out, msg) {
			t.Errorf("log output lacks %q:\n%s", msg, out)
		}
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("nil logger is enabled")
	}
}
