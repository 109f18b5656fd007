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


package main

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"seehuhn.de/go/layermask/archive"
	"seehuhn.de/go/layermask/photon"
	"seehuhn.de/go/layermask/rle"
)

const testJob = `{
  "platform": {"width": 40, "height": 20, "bed_width": 40, "bed_depth": 20},
  "layers": [
    {
      "name": "ring",
      "path": [
        {"cmd": "M", "pts": [[-10, -5]]},
        {"cmd": "L", "pts": [[10, -5]]},
        {"cmd": "L", "pts": [[10, 5]]},
        {"cmd": "L", "pts": [[-10, 5]]},
        {"cmd": "Z", "pts": []},
        {"cmd": "M", "pts": [[-4, -2]]},
        {"cmd": "L", "pts": [[4, -2]]},
        {"cmd": "L", "pts": [[4, 2]]},
        {"cmd": "L", "pts": [[-4, 2]]},
        {"cmd": "Z", "pts": []}
      ]
    },
    {"path": []}
  ]
}`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	jobPath := filepath.Join(dir, "job.json")
	if err := os.WriteFile(jobPath, []byte(testJob), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, imgFormat := range []string{"png", "bmp"} {
		t.Run(imgFormat, func(t *testing.T) {
			out := filepath.Join(dir, imgFormat)
			cfg := &config{
				jobPath:   jobPath,
				outDir:    out,
				format:    rle.FormatPhotonS,
				antiAlias: 2,
				image:     imgFormat,
				archive:   filepath.Join(out, "job.sqlite"),
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if err := run(cfg, logger); err != nil {
				t.Fatal(err)
			}

			f, err := os.Open(filepath.Join(out, "ring."+imgFormat))
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			decode := png.Decode
			if imgFormat == "bmp" {
				decode = bmp.Decode
			}
			img, err := decode(f)
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
				t.Errorf("image size %v", b)
			}
			// solid part of the ring, and the hole in the middle
			if r, _, _, _ := img.At(12, 10).RGBA(); r == 0 {
				t.Error("ring not exposed")
			}
			if r, _, _, _ := img.At(20, 10).RGBA(); r != 0 {
				t.Error("hole exposed")
			}

			for _, name := range []string{"ring_0.rle", "ring_1.rle", "job_0001_0.rle"} {
				data, err := os.ReadFile(filepath.Join(out, name))
				if err != nil {
					t.Fatal(err)
				}
				pix, err := rle.Decode(data, rle.FormatPhotonS)
				if err != nil {
					t.Fatal(err)
				}
				if len(pix) != 40*20 {
					t.Errorf("%s: %d pixels", name, len(pix))
				}
			}

			a, err := archive.Open(cfg.archive)
			if err != nil {
				t.Fatal(err)
			}
			defer a.Close()
			if n, err := a.NumLayers(); err != nil || n != 2 {
				t.Errorf("archive has %d layers (%v)", n, err)
			}
		})
	}
}

func TestReadJobErrors(t *testing.T) {
	cases := []struct {
		name string
		job  string
	}{
		{"syntax", `{"layers": [`},
		{"unknown field", `{"layers": [], "colour": 1}`},
		{"bad platform", `{"platform": {"width": 0, "height": 10, "bed_width": 1, "bed_depth": 1}, "layers": []}`},
		{"bad settings", `{"settings": {"layer_height": 0}, "layers": []}`},
		{"unknown setting", `{"settings": {"uv_power": 1}, "layers": []}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, _, err := readJob(strings.NewReader(c.job)); err == nil {
				t.Error("no error")
			}
		})
	}
}

func TestLayerErrors(t *testing.T) {
	cases := []struct {
		name  string
		layer jsonLayer
	}{
		{"unknown command", jsonLayer{Path: []jsonSegment{{Cmd: "A", Pts: [][]float64{{1, 2}}}}}},
		{"missing point", jsonLayer{Path: []jsonSegment{{Cmd: "C", Pts: [][]float64{{1, 2}}}}}},
		{"short point", jsonLayer{Path: []jsonSegment{{Cmd: "M", Pts: [][]float64{{1}}}}}},
		{"nesting", jsonLayer{Nesting: "inside-out"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := c.layer.polygons(); err == nil {
				t.Error("no error")
			}
		})
	}
}

func TestDefaultPlatform(t *testing.T) {
	_, p, s, err := readJob(strings.NewReader(`{"layers": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Width != 2560 || p.Height != 1440 {
		t.Errorf("got %+v", p)
	}
	if s != photon.DefaultSettings {
		t.Errorf("got settings %+v", s)
	}
}

func TestJobSettings(t *testing.T) {
	job := `{"settings": {"layer_height": 0.1, "bottom_layers": 2}, "layers": []}`
	_, _, s, err := readJob(strings.NewReader(job))
	if err != nil {
		t.Fatal(err)
	}
	want := photon.DefaultSettings
	want.LayerHeight = 0.1
	want.BottomLayers = 2
	if s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
}

func TestRunPrinterFile(t *testing.T) {
	dir := t.TempDir()
	jobPath := filepath.Join(dir, "job.json")
	if err := os.WriteFile(jobPath, []byte(testJob), 0o644); err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("photon", func(t *testing.T) {
		out := filepath.Join(dir, "photon")
		cfg := &config{
			jobPath:   jobPath,
			outDir:    out,
			format:    rle.FormatPhotonS,
			antiAlias: 2,
			image:     "none",
			printer:   "photon",
		}
		if err := run(cfg, logger); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(filepath.Join(out, "job.photon"))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data[:4], []byte{0x19, 0x00, 0xfd, 0x12}) {
			t.Errorf("magic % x", data[:4])
		}
		le := binary.LittleEndian
		if n := le.Uint32(data[68:]); n != 2 {
			t.Errorf("%d layers, want 2", n)
		}
		if aa := le.Uint32(data[92:]); aa != 2 {
			t.Errorf("anti-aliasing level %d, want 2", aa)
		}

		// the planes use the framing of the printer file
		plane, err := os.ReadFile(filepath.Join(out, "ring_0.rle"))
		if err != nil {
			t.Fatal(err)
		}
		pix, err := rle.Decode(plane, rle.FormatPhoton)
		if err != nil || len(pix) != 40*20 {
			t.Errorf("ring_0.rle: %d pixels (%v)", len(pix), err)
		}
		if _, err := os.Stat(filepath.Join(out, "ring.png")); !os.IsNotExist(err) {
			t.Errorf("image written with -image none (%v)", err)
		}
	})

	t.Run("photons", func(t *testing.T) {
		out := filepath.Join(dir, "photons")
		cfg := &config{
			jobPath:   jobPath,
			outDir:    out,
			format:    rle.FormatPhoton,
			antiAlias: 1,
			image:     "none",
			printer:   "photons",
		}
		if err := run(cfg, logger); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(filepath.Join(out, "job.photons"))
		if err != nil {
			t.Fatal(err)
		}
		if n := binary.BigEndian.Uint32(data[75362:]); n != 2 {
			t.Errorf("%d layers, want 2", n)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := &config{
			jobPath:   jobPath,
			outDir:    filepath.Join(dir, "unknown"),
			antiAlias: 1,
			image:     "none",
			printer:   "cbddlp",
		}
		if err := run(cfg, logger); err == nil {
			t.Error("unknown printer file type accepted")
		}
	})
}
