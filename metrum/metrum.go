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

// Package metrum decodes the TeleMetrum v2 sensor (type 0x0A) and
// calibration (type 0x0B) packets.
package metrum

import (
	"fmt"
	"strconv"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const (
	SensorType = 0x0A
	DataType   = 0x0B
)

func init() {
	parse.Register("metrumsensor", NewSensor, SensorType)
	parse.Register("metrumdata", NewData, DataType)
}

type Sensor struct {
	parse.Header

	State       uint8   `xml:",attr" json:"state"`
	Accel       int16   `xml:",attr" json:"accel"`
	Pressure    int32   `xml:",attr" json:"pres"`
	Temperature float64 `xml:",attr" json:"temp"`

	// Acceleration and Speed are transmitted in sixteenths.
	Acceleration float64 `xml:",attr" json:"acceleration"`
	Speed        float64 `xml:",attr" json:"speed"`
	Height       int16   `xml:",attr" json:"height"`

	VBatt  float64 `xml:",attr" json:"v_batt"`
	SenseA float64 `xml:",attr" json:"sense_a"`
	SenseM float64 `xml:",attr" json:"sense_m"`
}

func NewSensor(d parse.Data) parse.Message {
	return Sensor{
		Header:       parse.NewHeader(d),
		State:        d.Uint8(5),
		Accel:        d.Int16(6),
		Pressure:     d.Int32(8),
		Temperature:  float64(d.Int16(12)) / 100.0,
		Acceleration: float64(d.Int16(14)) / 16.0,
		Speed:        float64(d.Int16(16)) / 16.0,
		Height:       d.Int16(18),
		VBatt:        parse.MegaBatteryVoltage(d.Int16(20)),
		SenseA:       parse.MegaPyroVoltage(d.Int16(22)),
		SenseM:       parse.MegaPyroVoltage(d.Int16(24)),
	}
}

func (s Sensor) MsgType() string {
	return "MetrumSensor"
}

func (s Sensor) String() string {
	return fmt.Sprintf("{%s State:%d Accel:%d Press:%d Temp:%.2f Acceleration:%.2f Speed:%.2f Height:%d "+
		"VBatt:%.2f SenseA:%.2f SenseM:%.2f}",
		s.Header, s.State, s.Accel, s.Pressure, s.Temperature, s.Acceleration, s.Speed, s.Height,
		s.VBatt, s.SenseA, s.SenseM,
	)
}

func (s Sensor) Record() (r []string) {
	r = s.Header.Record()
	r = append(r, strconv.FormatUint(uint64(s.State), 10))
	r = append(r, strconv.FormatInt(int64(s.Accel), 10))
	r = append(r, strconv.FormatInt(int64(s.Pressure), 10))
	r = append(r, strconv.FormatFloat(s.Temperature, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(s.Acceleration, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(s.Speed, 'f', 2, 64))
	r = append(r, strconv.FormatInt(int64(s.Height), 10))
	r = append(r, strconv.FormatFloat(s.VBatt, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(s.SenseA, 'f', 2, 64))
	r = append(r, strconv.FormatFloat(s.SenseM, 'f', 2, 64))

	return
}

type Data struct {
	parse.Header

	GroundPressure int32 `xml:",attr" json:"ground_pres"`
	GroundAccel    int16 `xml:",attr" json:"ground_accel"`
	AccelPlusG     int16 `xml:",attr" json:"accel_plus_g"`
	AccelMinusG    int16 `xml:",attr" json:"accel_minus_g"`
}

func NewData(d parse.Data) parse.Message {
	return Data{
		Header:         parse.NewHeader(d),
		GroundPressure: d.Int32(8),
		GroundAccel:    d.Int16(12),
		AccelPlusG:     d.Int16(14),
		AccelMinusG:    d.Int16(16),
	}
}

func (m Data) MsgType() string {
	return "MetrumData"
}

func (m Data) String() string {
	return fmt.Sprintf("{%s GrdPress:%d GrdAccel:%d +G:%d -G:%d}",
		m.Header, m.GroundPressure, m.GroundAccel, m.AccelPlusG, m.AccelMinusG,
	)
}

func (m Data) Record() (r []string) {
	r = m.Header.Record()
	r = append(r, strconv.FormatInt(int64(m.GroundPressure), 10))
	r = append(r, strconv.FormatInt(int64(m.GroundAccel), 10))
	r = append(r, strconv.FormatInt(int64(m.AccelPlusG), 10))
	r = append(r, strconv.FormatInt(int64(m.AccelMinusG), 10))

	return
}
