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


// Package archive stores the sliced layers of a print job in a SQLite file.
//
// The file holds a metadata table with the platform settings, the run-length
// encoded planes of every layer, and a zstd-compressed copy of every mask
// for previews. The table layout follows the MBTiles convention of a
// name/value metadata table next to a table of blobs.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"

	"seehuhn.de/go/layermask"
	"seehuhn.de/go/layermask/raster"
	"seehuhn.de/go/layermask/rle"
)

// ErrNoLayer is returned when a requested layer is not in the archive.
var ErrNoLayer = errors.New("layer not found")

// Metadata describes how the layers of an archive were produced.
type Metadata struct {
	Platform  layermask.Platform
	Format    rle.Format
	AntiAlias int
}

// Archive is an open job file.
type Archive struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

var schema = []string{
	"PRAGMA synchronous=0",
	"PRAGMA journal_mode=DELETE",
	"create table if not exists metadata (name text, value text);",
	"create unique index if not exists name on metadata (name);",
	"create table if not exists planes (layer integer, plane integer, data blob);",
	"create unique index if not exists plane_index on planes (layer, plane);",
	"create table if not exists previews (layer integer, exposed integer, data blob);",
	"create unique index if not exists preview_index on previews (layer);",
}

// Create creates a new job file, replacing the metadata of an existing one.
func Create(path string, meta Metadata) (*Archive, error) {
	if err := meta.Platform.Validate(); err != nil {
		return nil, err
	}
	a, err := open(path)
	if err != nil {
		return nil, err
	}
	for _, q := range schema {
		if _, err := a.db.Exec(q); err != nil {
			a.db.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := a.writeMetadata(meta); err != nil {
		a.db.Close()
		return nil, err
	}
	return a, nil
}

// Open opens an existing job file.
func Open(path string) (*Archive, error) {
	a, err := open(path)
	if err != nil {
		return nil, err
	}
	if _, err := a.Metadata(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}
	return &Archive{db: db, enc: enc, dec: dec}, nil
}

// Close closes the job file.
func (a *Archive) Close() error {
	a.dec.Close()
	err := a.enc.Close()
	if _, err2 := a.db.Exec("ANALYZE;"); err == nil {
		err = err2
	}
	if err2 := a.db.Close(); err == nil {
		err = err2
	}
	return err
}

func (a *Archive) writeMetadata(meta Metadata) error {
	p := meta.Platform
	values := [][2]string{
		{"width", strconv.Itoa(p.Width)},
		{"height", strconv.Itoa(p.Height)},
		{"bed_width", strconv.FormatFloat(p.BedWidth, 'g', -1, 64)},
		{"bed_depth", strconv.FormatFloat(p.BedDepth, 'g', -1, 64)},
		{"format", meta.Format.String()},
		{"antialias", strconv.Itoa(meta.AntiAlias)},
	}
	for _, v := range values {
		_, err := a.db.Exec("insert or replace into metadata (name, value) values (?, ?);", v[0], v[1])
		if err != nil {
			return err
		}
	}
	return nil
}

// Metadata reads the job settings.
func (a *Archive) Metadata() (Metadata, error) {
	rows, err := a.db.Query("select name, value from metadata;")
	if err != nil {
		return Metadata{}, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, err
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return Metadata{}, err
	}

	var meta Metadata
	var errs []error
	atoi := func(name string) int {
		x, err := strconv.Atoi(values[name])
		errs = append(errs, err)
		return x
	}
	atof := func(name string) float64 {
		x, err := strconv.ParseFloat(values[name], 64)
		errs = append(errs, err)
		return x
	}
	meta.Platform.Width = atoi("width")
	meta.Platform.Height = atoi("height")
	meta.Platform.BedWidth = atof("bed_width")
	meta.Platform.BedDepth = atof("bed_depth")
	meta.AntiAlias = atoi("antialias")
	meta.Format, err = rle.ParseFormat(values["format"])
	errs = append(errs, err)
	if err := errors.Join(errs...); err != nil {
		return Metadata{}, fmt.Errorf("invalid metadata: %w", err)
	}
	return meta, nil
}

// WriteLayer stores the planes and the mask of a layer.
func (a *Archive) WriteLayer(index int, l *layermask.Layer) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, plane := range l.Planes {
		_, err := tx.Exec("insert or replace into planes (layer, plane, data) values (?, ?, ?);",
			index, i, plane)
		if err != nil {
			return err
		}
	}
	preview := a.enc.EncodeAll(l.Mask.Pix, nil)
	_, err = tx.Exec("insert or replace into previews (layer, exposed, data) values (?, ?, ?);",
		index, l.Mask.Count(), preview)
	if err != nil {
		return err
	}

	layermask.Logger().Debug("layer archived",
		"layer", index,
		"planes", len(l.Planes),
		"preview", len(preview))
	return tx.Commit()
}

// NumLayers returns one more than the highest layer index in the archive.
func (a *Archive) NumLayers() (int, error) {
	var n sql.NullInt64
	err := a.db.QueryRow("select max(layer) from previews;").Scan(&n)
	if err != nil || !n.Valid {
		return 0, err
	}
	return int(n.Int64) + 1, nil
}

// Planes returns the run-length encoded planes of a layer.
func (a *Archive) Planes(index int) ([][]byte, error) {
	rows, err := a.db.Query("select data from planes where layer = ? order by plane;", index)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var planes [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		planes = append(planes, data)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(planes) == 0 {
		return nil, fmt.Errorf("layer %d: %w", index, ErrNoLayer)
	}
	return planes, nil
}

// Mask returns the mask of a layer.
func (a *Archive) Mask(index int) (*raster.Mask, error) {
	meta, err := a.Metadata()
	if err != nil {
		return nil, err
	}

	var data []byte
	err = a.db.QueryRow("select data from previews where layer = ?;", index).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("layer %d: %w", index, ErrNoLayer)
	} else if err != nil {
		return nil, err
	}

	pix, err := a.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("layer %d: %w", index, err)
	}
	return raster.MaskOn(pix, meta.Platform.Width, meta.Platform.Height)
}

// Exposed returns the number of exposed pixels of every layer, indexed by
// layer number. Missing layers have a count of zero.
func (a *Archive) Exposed() ([]int, error) {
	n, err := a.NumLayers()
	if err != nil {
		return nil, err
	}
	res := make([]int, n)

	rows, err := a.db.Query("select layer, exposed from previews;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var layer, exposed int
		if err := rows.Scan(&layer, &exposed); err != nil {
			return nil, err
		}
		if layer >= 0 && layer < n {
			res[layer] = exposed
		}
	}
	return res, rows.Err()
}
