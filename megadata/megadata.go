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

// Package megadata decodes TeleMega flight state packets (types 0x09 and
// 0x15). Type 0x15 comes from boards with the 30V pyro sense divider.
package megadata

import (
	"fmt"
	"strconv"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const (
	Type    = 0x09
	Type30V = 0x15

	Pyros = 6
)

func init() {
	parse.Register("megadata", New, Type, Type30V)
}

type MegaData struct {
	parse.Header

	State uint8   `xml:",attr" json:"state"`
	VBatt float64 `xml:",attr" json:"v_batt"`
	VPyro float64 `xml:",attr" json:"v_pyro"`

	// Igniter sense voltages, one per pyro channel.
	Sense [Pyros]float64 `xml:"Sense" json:"pyro"`

	GroundPressure int32 `xml:",attr" json:"ground_pres"`
	GroundAccel    int16 `xml:",attr" json:"ground_accel"`
	AccelPlusG     int16 `xml:",attr" json:"accel_plus_g"`
	AccelMinusG    int16 `xml:",attr" json:"accel_minus_g"`
	Acceleration   int16 `xml:",attr" json:"accel"`
	Speed          int16 `xml:",attr" json:"speed"`
	Height         int16 `xml:",attr" json:"height"`
}

func New(d parse.Data) parse.Message {
	m := MegaData{Header: parse.NewHeader(d)}

	pyro := parse.MegaPyroVoltage
	if m.Type == Type30V {
		pyro = parse.MegaPyroVoltage30V
	}

	m.State = d.Uint8(5)
	m.VBatt = parse.MegaBatteryVoltage(d.Int16(6))
	m.VPyro = pyro(d.Int16(8))

	for i := range m.Sense {
		m.Sense[i] = pyro(parse.NibbleSwap(d.Uint8(10 + i)))
	}

	m.GroundPressure = d.Int32(16)
	m.GroundAccel = d.Int16(20)
	m.AccelPlusG = d.Int16(22)
	m.AccelMinusG = d.Int16(24)
	m.Acceleration = d.Int16(26)
	m.Speed = d.Int16(28)
	m.Height = d.Int16(30)

	return m
}

func (m MegaData) MsgType() string {
	return "MegaData"
}

func (m MegaData) String() string {
	return fmt.Sprintf("{%s State:%d VBatt:%.2f VPyro:%.2f Sense:%.2f GrdPress:%d GrdAccel:%d +G:%d -G:%d "+
		"Acceleration:%d Speed:%d Height:%d}",
		m.Header, m.State, m.VBatt, m.VPyro, m.Sense[:], m.GroundPressure, m.GroundAccel,
		m.AccelPlusG, m.AccelMinusG, m.Acceleration, m.Speed, m.Height,
	)
}

func (m MegaData) Record() (r []string) {
	r = m.Header.Record()
	r = append(r, strconv.FormatUint(uint64(m.State), 10))
	r = append(r, strconv.FormatFloat(m.VBatt, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(m.VPyro, 'f', 2, 64))
	for _, v := range m.Sense {
		r = append(r, strconv.FormatFloat(v, 'f', 2, 64))
	}
	r = append(r, strconv.FormatInt(int64(m.GroundPressure), 10))
	for _, v := range []int16{m.GroundAccel, m.AccelPlusG, m.AccelMinusG, m.Acceleration, m.Speed, m.Height} {
		r = append(r, strconv.FormatInt(int64(v), 10))
	}

	return
}
