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

// Package mini decodes TeleMini v2 (type 0x10) and v3 (type 0x11) packets.
package mini

import (
	"fmt"
	"strconv"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const (
	TwoType   = 0x10
	ThreeType = 0x11
)

func init() {
	parse.Register("mini", New, TwoType, ThreeType)
}

type Mini struct {
	parse.Header

	State  uint8   `xml:",attr" json:"state"`
	VBatt  float64 `xml:",attr" json:"v_batt"`
	SenseA float64 `xml:",attr" json:"sense_a"`
	SenseM float64 `xml:",attr" json:"sense_m"`

	Pressure     int32   `xml:",attr" json:"pres"`
	Temperature  float64 `xml:",attr" json:"temp"`
	Acceleration float64 `xml:",attr" json:"acceleration"`
	Speed        float64 `xml:",attr" json:"speed"`
	Height       int16   `xml:",attr" json:"height"`

	GroundPressure int32 `xml:",attr" json:"ground_pres"`
}

func New(d parse.Data) parse.Message {
	m := Mini{Header: parse.NewHeader(d)}

	battery, pyro := parse.MiniTwoVoltage, parse.MiniTwoVoltage
	if m.Type == ThreeType {
		battery, pyro = parse.MiniThreeBatteryVoltage, parse.MiniThreePyroVoltage
	}

	m.State = d.Uint8(5)
	m.VBatt = battery(d.Int16(6))
	m.SenseA = pyro(d.Int16(8))
	m.SenseM = pyro(d.Int16(10))

	m.Pressure = d.Int32(12)
	m.Temperature = float64(d.Int16(16)) / 100.0
	m.Acceleration = float64(d.Int16(18)) / 16.0
	m.Speed = float64(d.Int16(20)) / 16.0
	m.Height = d.Int16(22)

	m.GroundPressure = d.Int32(24)

	return m
}

func (m Mini) MsgType() string {
	return "Mini"
}

func (m Mini) String() string {
	return fmt.Sprintf("{%s State:%d VBatt:%.2f SenseA:%.2f SenseM:%.2f Press:%d Temp:%.2f "+
		"Acceleration:%.2f Speed:%.2f Height:%d GrdPress:%d}",
		m.Header, m.State, m.VBatt, m.SenseA, m.SenseM, m.Pressure, m.Temperature,
		m.Acceleration, m.Speed, m.Height, m.GroundPressure,
	)
}

func (m Mini) Record() (r []string) {
	r = m.Header.Record()
	r = append(r, strconv.FormatUint(uint64(m.State), 10))
	r = append(r, strconv.FormatFloat(m.VBatt, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(m.SenseA, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(m.SenseM, 'f', 2, 64))
	r = append(r, strconv.FormatInt(int64(m.Pressure), 10))
	r = append(r, strconv.FormatFloat(m.Temperature, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(m.Acceleration, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(m.Speed, 'f', 2, 64))
	r = append(r, strconv.FormatInt(int64(m.Height), 10))
	r = append(r, strconv.FormatInt(int64(m.GroundPressure), 10))

	return
}
