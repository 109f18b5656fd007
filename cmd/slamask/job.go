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
	"encoding/json"
	"fmt"
	"io"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/layermask"
	"seehuhn.de/go/layermask/photon"
	"seehuhn.de/go/layermask/polygon"
)

// jsonJob is the file format read by slamask.
type jsonJob struct {
	Platform *jsonPlatform `json:"platform,omitempty"`
	Settings *jsonSettings `json:"settings,omitempty"`
	Layers   []jsonLayer   `json:"layers"`
}

type jsonPlatform struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	BedWidth float64 `json:"bed_width"`
	BedDepth float64 `json:"bed_depth"`
}

// jsonSettings overrides the exposure settings stored in printer files.
// Missing fields keep the values of photon.DefaultSettings.
type jsonSettings struct {
	LayerHeight         *float64 `json:"layer_height,omitempty"`
	FirstLayerOffset    *float64 `json:"first_layer_offset,omitempty"`
	ExposureTime        *float64 `json:"exposure_time,omitempty"`
	LightOffTime        *float64 `json:"light_off_time,omitempty"`
	BottomLayers        *int     `json:"bottom_layers,omitempty"`
	BottomExposureTime  *float64 `json:"bottom_exposure_time,omitempty"`
	BottomLightOffTime  *float64 `json:"bottom_light_off_time,omitempty"`
	PeelDistance        *float64 `json:"peel_distance,omitempty"`
	PeelLiftSpeed       *float64 `json:"peel_lift_speed,omitempty"`
	PeelDropSpeed       *float64 `json:"peel_drop_speed,omitempty"`
	BottomPeelDistance  *float64 `json:"bottom_peel_distance,omitempty"`
	BottomPeelLiftSpeed *float64 `json:"bottom_peel_lift_speed,omitempty"`
}

func (js *jsonSettings) apply(s *photon.Settings) {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.LayerHeight, js.LayerHeight)
	set(&s.FirstLayerOffset, js.FirstLayerOffset)
	set(&s.ExposureTime, js.ExposureTime)
	set(&s.LightOffTime, js.LightOffTime)
	set(&s.BottomExposureTime, js.BottomExposureTime)
	set(&s.BottomLightOffTime, js.BottomLightOffTime)
	set(&s.PeelDistance, js.PeelDistance)
	set(&s.PeelLiftSpeed, js.PeelLiftSpeed)
	set(&s.PeelDropSpeed, js.PeelDropSpeed)
	set(&s.BottomPeelDistance, js.BottomPeelDistance)
	set(&s.BottomPeelLiftSpeed, js.BottomPeelLiftSpeed)
	if js.BottomLayers != nil {
		s.BottomLayers = *js.BottomLayers
	}
}

// jsonLayer holds the outlines of one layer in bed coordinates.
type jsonLayer struct {
	Name    string        `json:"name,omitempty"`
	Nesting string        `json:"nesting,omitempty"` // "flat" (default) or "deep"
	Path    []jsonSegment `json:"path"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

// readJob decodes a job file. If the file does not specify a platform,
// layermask.DefaultPlatform is used. Settings not given in the file are
// taken from photon.DefaultSettings.
func readJob(r io.Reader) (*jsonJob, layermask.Platform, photon.Settings, error) {
	job := &jsonJob{}
	settings := photon.DefaultSettings
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(job); err != nil {
		return nil, layermask.Platform{}, settings, err
	}

	p := layermask.DefaultPlatform
	if job.Platform != nil {
		p = layermask.Platform{
			Width:    job.Platform.Width,
			Height:   job.Platform.Height,
			BedWidth: job.Platform.BedWidth,
			BedDepth: job.Platform.BedDepth,
		}
	}
	if err := p.Validate(); err != nil {
		return nil, p, settings, err
	}

	if job.Settings != nil {
		job.Settings.apply(&settings)
	}
	if err := settings.Validate(); err != nil {
		return nil, p, settings, err
	}
	return job, p, settings, nil
}

// polygons converts the outlines of a layer into polygons.
func (l *jsonLayer) polygons() ([]*polygon.Polygon, error) {
	var deep bool
	switch l.Nesting {
	case "", "flat":
	case "deep":
		deep = true
	default:
		return nil, fmt.Errorf("unknown nesting %q", l.Nesting)
	}

	p, err := segmentsToPath(l.Path)
	if err != nil {
		return nil, err
	}
	rings := polygon.FromPath(p, polygon.DefaultFlatness)
	return polygon.Nest(rings, deep), nil
}

func segmentsToPath(segs []jsonSegment) (path.Path, error) {
	cmds := make([]path.Command, len(segs))
	pts := make([][]vec.Vec2, len(segs))
	for i, seg := range segs {
		var n int
		switch seg.Cmd {
		case "M":
			cmds[i], n = path.CmdMoveTo, 1
		case "L":
			cmds[i], n = path.CmdLineTo, 1
		case "Q":
			cmds[i], n = path.CmdQuadTo, 2
		case "C":
			cmds[i], n = path.CmdCubeTo, 3
		case "Z":
			cmds[i], n = path.CmdClose, 0
		default:
			return nil, fmt.Errorf("segment %d: unknown command %q", i, seg.Cmd)
		}
		if len(seg.Pts) != n {
			return nil, fmt.Errorf("segment %d: %q needs %d points, got %d", i, seg.Cmd, n, len(seg.Pts))
		}
		for j, xy := range seg.Pts {
			if len(xy) != 2 {
				return nil, fmt.Errorf("segment %d, point %d: need 2 coordinates", i, j)
			}
			pts[i] = append(pts[i], vec.Vec2{X: xy[0], Y: xy[1]})
		}
	}

	return func(yield func(path.Command, []vec.Vec2) bool) {
		for i, cmd := range cmds {
			if !yield(cmd, pts[i]) {
				return
			}
		}
	}, nil
}
