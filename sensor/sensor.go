// altusrx - A decoder for AltOS rocket telemetry bit streams.
// Copyright (C) 2024 The gnuradio-rocket-tracker Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package sensor decodes the TeleMetrum, TeleMini and TeleNano sensor
// telemetry packets (types 0x01 through 0x03).
package sensor

import (
	"fmt"
	"strconv"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const (
	TeleMetrum = 0x01
	TeleMini   = 0x02
	TeleNano   = 0x03
)

func init() {
	parse.Register("sensor", New, TeleMetrum, TeleMini, TeleNano)
}

type Sensor struct {
	parse.Header

	State uint8 `xml:",attr" json:"state"`

	// Present only on TeleMetrum.
	Accel       int16 `xml:",attr" json:"accel,omitempty"`
	GroundAccel int16 `xml:",attr" json:"ground_accel,omitempty"`
	AccelPlusG  int16 `xml:",attr" json:"accel_plus_g,omitempty"`
	AccelMinusG int16 `xml:",attr" json:"accel_minus_g,omitempty"`

	Pressure       float64 `xml:",attr" json:"press"`
	GroundPressure float64 `xml:",attr" json:"grd_press"`
	Temperature    float64 `xml:",attr" json:"temp"`

	// Igniter continuity, absent on TeleNano.
	Apogee float64 `xml:",attr" json:"apogee,omitempty"`
	Main   float64 `xml:",attr" json:"main,omitempty"`

	Acceleration int16 `xml:",attr" json:"acceleration"`
	Speed        int16 `xml:",attr" json:"speed"`
	Height       int16 `xml:",attr" json:"height"`
}

func New(d parse.Data) parse.Message {
	s := Sensor{Header: parse.NewHeader(d)}

	s.State = d.Uint8(5)

	if s.Type == TeleMetrum {
		s.Accel = d.Int16(6)
		s.GroundAccel = d.Int16(26)
		s.AccelPlusG = d.Int16(28)
		s.AccelMinusG = d.Int16(30)
	}

	s.Pressure = parse.BarometerPressure(d.Int16(8))
	s.Temperature = parse.ThermistorTemperature(d.Int16(10))

	if s.Type == TeleMetrum || s.Type == TeleMini {
		s.Apogee = parse.ContinuityVoltage(d.Int16(14))
		s.Main = parse.ContinuityVoltage(d.Int16(16))
	}

	s.Acceleration = d.Int16(18)
	s.Speed = d.Int16(20)
	s.Height = d.Int16(22)
	s.GroundPressure = parse.BarometerPressure(d.Int16(24))

	return s
}

// HasAccel reports whether the packet carries accelerometer calibration.
func (s Sensor) HasAccel() bool {
	return s.Type == TeleMetrum
}

// HasContinuity reports whether the packet carries igniter continuity.
func (s Sensor) HasContinuity() bool {
	return s.Type != TeleNano
}

func (s Sensor) MsgType() string {
	return "Sensor"
}

func (s Sensor) String() string {
	str := fmt.Sprintf("{%s State:%d Press:%.0f GrdPress:%.0f Temp:%.1f",
		s.Header, s.State, s.Pressure, s.GroundPressure, s.Temperature,
	)
	if s.HasContinuity() {
		str += fmt.Sprintf(" Apogee:%.2f Main:%.2f", s.Apogee, s.Main)
	}
	if s.HasAccel() {
		str += fmt.Sprintf(" Accel:%d GrdAccel:%d +G:%d -G:%d",
			s.Accel, s.GroundAccel, s.AccelPlusG, s.AccelMinusG,
		)
	}
	return str + fmt.Sprintf(" Acceleration:%d Speed:%d Height:%d}", s.Acceleration, s.Speed, s.Height)
}

func (s Sensor) Record() (r []string) {
	r = s.Header.Record()
	r = append(r, strconv.FormatUint(uint64(s.State), 10))
	r = append(r, strconv.FormatInt(int64(s.Accel), 10))
	r = append(r, strconv.FormatFloat(s.Pressure, 'f', 1, 64))
	r = append(r, strconv.FormatFloat(s.Temperature, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(s.Apogee, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(s.Main, 'f', 2, 64))
	r = append(r, strconv.FormatInt(int64(s.Acceleration), 10))
	r = append(r, strconv.FormatInt(int64(s.Speed), 10))
	r = append(r, strconv.FormatInt(int64(s.Height), 10))
	r = append(r, strconv.FormatFloat(s.GroundPressure, 'f', 1, 64))
	r = append(r, strconv.FormatInt(int64(s.GroundAccel), 10))
	r = append(r, strconv.FormatInt(int64(s.AccelPlusG), 10))
	r = append(r, strconv.FormatInt(int64(s.AccelMinusG), 10))

	return
}
