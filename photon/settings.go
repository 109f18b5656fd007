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
	"fmt"
	"math"
)

// Settings holds the exposure and motion parameters stored in a printer
// file. Lengths are in millimetres, times in seconds and speeds in
// millimetres per second.
type Settings struct {
	LayerHeight      float64
	FirstLayerOffset float64 // added to the height of every layer
	BedHeight        float64 // build volume height

	ExposureTime float64
	LightOffTime float64

	BottomLayers       int // number of layers using the bottom settings
	BottomExposureTime float64
	BottomLightOffTime float64

	PeelDistance  float64
	PeelLiftSpeed float64
	PeelDropSpeed float64

	BottomPeelDistance  float64
	BottomPeelLiftSpeed float64
}

// DefaultSettings are typical values for a standard resin on a 2K printer.
var DefaultSettings = Settings{
	LayerHeight: 0.05,
	BedHeight:   150,

	ExposureTime: 7,
	LightOffTime: 0.1,

	BottomLayers:       5,
	BottomExposureTime: 30,
	BottomLightOffTime: 0.1,

	PeelDistance:  6,
	PeelLiftSpeed: 1.5,
	PeelDropSpeed: 3,

	BottomPeelDistance:  6,
	BottomPeelLiftSpeed: 1.5,
}

// Validate checks that all values are finite and non-negative, and that
// the layer height is positive.
func (s *Settings) Validate() error {
	if !(s.LayerHeight > 0) {
		return fmt.Errorf("invalid layer height %g", s.LayerHeight)
	}
	if s.BottomLayers < 0 {
		return fmt.Errorf("invalid number of bottom layers %d", s.BottomLayers)
	}
	values := []struct {
		name string
		v    float64
	}{
		{"layer height", s.LayerHeight},
		{"first layer offset", s.FirstLayerOffset},
		{"bed height", s.BedHeight},
		{"exposure time", s.ExposureTime},
		{"light off time", s.LightOffTime},
		{"bottom exposure time", s.BottomExposureTime},
		{"bottom light off time", s.BottomLightOffTime},
		{"peel distance", s.PeelDistance},
		{"peel lift speed", s.PeelLiftSpeed},
		{"peel drop speed", s.PeelDropSpeed},
		{"bottom peel distance", s.BottomPeelDistance},
		{"bottom peel lift speed", s.BottomPeelLiftSpeed},
	}
	for _, x := range values {
		if !(x.v >= 0) || math.IsInf(x.v, 0) {
			return fmt.Errorf("invalid %s %g", x.name, x.v)
		}
	}
	return nil
}

// layer returns the height, exposure time and light off time of layer i.
func (s *Settings) layer(i int) (z, on, off float64) {
	z = s.FirstLayerOffset + s.LayerHeight*float64(i)
	if i < s.BottomLayers {
		return z, s.BottomExposureTime, s.BottomLightOffTime
	}
	return z, s.ExposureTime, s.LightOffTime
}

// printTime estimates the total exposure time of n layers in seconds.
func (s *Settings) printTime(n int) uint32 {
	bottom := min(n, s.BottomLayers)
	t := float64(bottom)*s.BottomExposureTime + float64(n-bottom)*s.ExposureTime
	if t >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(math.Round(t))
}
