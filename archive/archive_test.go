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


package archive

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/layermask"
	"seehuhn.de/go/layermask/polygon"
	"seehuhn.de/go/layermask/rle"
)

func TestRoundTrip(t *testing.T) {
	meta := Metadata{
		Platform:  layermask.Platform{Width: 40, Height: 30, BedWidth: 20, BedDepth: 15},
		Format:    rle.FormatPhotonS,
		AntiAlias: 2,
	}
	s := layermask.NewSlicer(meta.Platform)
	s.Format = meta.Format
	s.AntiAlias = meta.AntiAlias

	var layers []*layermask.Layer
	for i := range 3 {
		r := float64(i + 2)
		ring := polygon.Ring{{X: -r, Y: -r}, {X: r, Y: -r}, {X: r, Y: r}, {X: -r, Y: r}}
		l, err := s.SliceLayer([]*polygon.Polygon{{Outer: ring}})
		if err != nil {
			t.Fatal(err)
		}
		layers = append(layers, l)
	}

	fname := filepath.Join(t.TempDir(), "job.sqlite")
	a, err := Create(fname, meta)
	if err != nil {
		t.Fatal(err)
	}
	for i, l := range layers {
		if err := a.WriteLayer(i, l); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	a, err = Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	got, err := a.Metadata()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(meta, got); d != "" {
		t.Errorf("metadata (-want +got):\n%s", d)
	}

	n, err := a.NumLayers()
	if err != nil {
		t.Fatal(err)
	}
	if n != len(layers) {
		t.Errorf("%d layers, want %d", n, len(layers))
	}

	exposed, err := a.Exposed()
	if err != nil {
		t.Fatal(err)
	}
	for i, l := range layers {
		planes, err := a.Planes(i)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(l.Planes, planes); d != "" {
			t.Errorf("layer %d planes (-want +got):\n%s", i, d)
		}

		m, err := a.Mask(i)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(l.Mask, m); d != "" {
			t.Errorf("layer %d mask (-want +got):\n%s", i, d)
		}
		if exposed[i] != l.Mask.Count() {
			t.Errorf("layer %d: %d pixels exposed, want %d", i, exposed[i], l.Mask.Count())
		}
	}
}

func TestMissingLayer(t *testing.T) {
	meta := Metadata{Platform: layermask.DefaultPlatform, AntiAlias: 1}
	a, err := Create(filepath.Join(t.TempDir(), "empty.sqlite"), meta)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if n, err := a.NumLayers(); err != nil || n != 0 {
		t.Errorf("NumLayers() = %d, %v", n, err)
	}
	if _, err := a.Planes(0); !errors.Is(err, ErrNoLayer) {
		t.Errorf("Planes: got %v, want %v", err, ErrNoLayer)
	}
	if _, err := a.Mask(0); !errors.Is(err, ErrNoLayer) {
		t.Errorf("Mask: got %v, want %v", err, ErrNoLayer)
	}
}

func TestCreateInvalid(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "bad.sqlite"), Metadata{})
	if err == nil {
		t.Error("invalid platform accepted")
	}
}
