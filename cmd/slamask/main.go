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


// Command slamask renders the layers of a print job into exposure masks.
//
// Usage:
//
//	slamask [flags] job.json
//
// For every layer of the job, slamask writes the mask as an image and the
// run-length encoded planes as .rle files into the output directory.
// With -out photon or -out photons, all layers are also written into a
// printer file for the Photon or Photon S, using the RLE framing of that
// printer. Optionally, all layers are collected in a SQLite archive.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"seehuhn.de/go/layermask"
	"seehuhn.de/go/layermask/archive"
	"seehuhn.de/go/layermask/photon"
	"seehuhn.de/go/layermask/rle"
)

func main() {
	var (
		outDir    = flag.String("o", ".", "output directory")
		format    = flag.String("format", "photon", "RLE format (photon or photons)")
		printer   = flag.String("out", "", "also write a printer file (photon or photons)")
		antiAlias = flag.Int("aa", 1, "number of anti-aliasing planes (1, 2, 4 or 8)")
		imgFormat = flag.String("image", "png", "mask image format (png, bmp or none)")
		archPath  = flag.String("archive", "", "also store all layers in this SQLite file")
		verbose   = flag.Bool("v", false, "log per-layer statistics")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] job.json\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	layermask.SetLogger(logger)

	cfg := &config{
		jobPath:   flag.Arg(0),
		outDir:    *outDir,
		antiAlias: *antiAlias,
		image:     *imgFormat,
		archive:   *archPath,
		printer:   *printer,
	}
	var err error
	cfg.format, err = rle.ParseFormat(*format)
	if err == nil {
		err = run(cfg, logger)
	}
	if err != nil {
		logger.Error("slamask failed", "err", err)
		os.Exit(1)
	}
}

type config struct {
	jobPath   string
	outDir    string
	format    rle.Format
	antiAlias int
	image     string
	archive   string
	printer   string // "", "photon" or "photons"
}

func run(cfg *config, logger *slog.Logger) error {
	switch cfg.image {
	case "png", "bmp", "none":
	default:
		return fmt.Errorf("unknown image format %q", cfg.image)
	}
	switch cfg.printer {
	case "":
	case "photon", "photons":
		// the printer file dictates the framing of the planes
		cfg.format, _ = rle.ParseFormat(cfg.printer)
	default:
		return fmt.Errorf("unknown printer file type %q", cfg.printer)
	}

	f, err := os.Open(cfg.jobPath)
	if err != nil {
		return err
	}
	job, platform, settings, err := readJob(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.jobPath, err)
	}

	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		return err
	}

	var arch *archive.Archive
	if cfg.archive != "" {
		arch, err = archive.Create(cfg.archive, archive.Metadata{
			Platform:  platform,
			Format:    cfg.format,
			AntiAlias: cfg.antiAlias,
		})
		if err != nil {
			return err
		}
	}

	var printerFile *photon.File
	if cfg.printer != "" {
		printerFile = photon.NewFile(platform, cfg.format, cfg.antiAlias)
		printerFile.Settings = settings
	}

	s := layermask.NewSlicer(platform)
	s.Format = cfg.format
	s.AntiAlias = cfg.antiAlias

	base := strings.TrimSuffix(filepath.Base(cfg.jobPath), filepath.Ext(cfg.jobPath))
	for i, jl := range job.Layers {
		name := jl.Name
		if name == "" {
			name = fmt.Sprintf("%s_%04d", base, i)
		}

		polys, err := jl.polygons()
		if err != nil {
			return closeArchive(arch, fmt.Errorf("layer %d: %w", i, err))
		}
		layer, err := s.SliceLayer(polys)
		if err != nil {
			return closeArchive(arch, fmt.Errorf("layer %d: %w", i, err))
		}

		if err := writeLayer(cfg, name, layer); err != nil {
			return closeArchive(arch, err)
		}
		if arch != nil {
			if err := arch.WriteLayer(i, layer); err != nil {
				return closeArchive(arch, err)
			}
		}
		if printerFile != nil {
			if err := printerFile.AddLayer(layer); err != nil {
				return closeArchive(arch, err)
			}
		}
		logger.Info("layer done",
			"layer", i,
			"name", name,
			"exposed", layer.Mask.Count(),
			"empty", layer.Empty)
	}

	if printerFile != nil {
		fname := filepath.Join(cfg.outDir, base+"."+cfg.printer)
		if err := writePrinterFile(fname, printerFile); err != nil {
			return closeArchive(arch, err)
		}
		logger.Info("printer file written",
			"file", fname,
			"layers", printerFile.NumLayers())
	}

	return closeArchive(arch, nil)
}

func closeArchive(arch *archive.Archive, err error) error {
	if arch == nil {
		return err
	}
	if cerr := arch.Close(); err == nil {
		err = cerr
	}
	return err
}

// writeLayer writes the mask image and the encoded planes of a layer.
func writeLayer(cfg *config, name string, layer *layermask.Layer) error {
	if cfg.image != "none" {
		fname := filepath.Join(cfg.outDir, name+"."+cfg.image)
		if err := writeImage(fname, cfg.image, layer.Mask.Gray()); err != nil {
			return err
		}
	}
	for i, plane := range layer.Planes {
		fname := filepath.Join(cfg.outDir, fmt.Sprintf("%s_%d.rle", name, i))
		if err := os.WriteFile(fname, plane, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func writePrinterFile(fname string, pf *photon.File) (err error) {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = pf.WriteTo(f)
	return err
}

func writeImage(fname, format string, img image.Image) (err error) {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if format == "bmp" {
		return bmp.Encode(f, img)
	}
	return png.Encode(f, img)
}
