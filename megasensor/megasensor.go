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

// Package megasensor decodes TeleMega IMU sensor packets. Type 0x08 comes
// from boards with the MPU6000 and HMC5883 whose axes are rotated relative to
// the airframe; type 0x12 is already in airframe orientation.
package megasensor

import (
	"fmt"
	"strconv"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const (
	MPU6000 = 0x08
	MPU9250 = 0x12
)

func init() {
	parse.Register("megasensor", New, MPU6000, MPU9250)
}

type MegaSensor struct {
	parse.Header

	Orient      int8    `xml:",attr" json:"orient"`
	Accel       int16   `xml:",attr" json:"accel"`
	Pressure    int32   `xml:",attr" json:"pres"`
	Temperature float64 `xml:",attr" json:"temp"`

	AccelAlong   int16 `xml:",attr" json:"accel_along"`
	AccelAcross  int16 `xml:",attr" json:"accel_across"`
	AccelThrough int16 `xml:",attr" json:"accel_through"`

	GyroRoll  int16 `xml:",attr" json:"gyro_roll"`
	GyroPitch int16 `xml:",attr" json:"gyro_pitch"`
	GyroYaw   int16 `xml:",attr" json:"gyro_yaw"`

	MagAlong   int16 `xml:",attr" json:"mag_along"`
	MagAcross  int16 `xml:",attr" json:"mag_across"`
	MagThrough int16 `xml:",attr" json:"mag_through"`
}

func New(d parse.Data) parse.Message {
	m := MegaSensor{Header: parse.NewHeader(d)}

	m.Orient = d.Int8(5)
	m.Accel = d.Int16(6)
	m.Pressure = d.Int32(8)
	m.Temperature = float64(d.Int16(12)) / 100.0

	m.AccelThrough = d.Int16(18)
	m.GyroYaw = d.Int16(24)
	m.MagThrough = d.Int16(30)

	if m.Type == MPU6000 {
		m.AccelAcross = -d.Int16(16)
		m.AccelAlong = d.Int16(14)
		m.GyroRoll = d.Int16(20)
		m.GyroPitch = d.Int16(22)
		m.MagAcross = -d.Int16(28)
		m.MagAlong = d.Int16(26)
	} else {
		m.AccelAcross = d.Int16(14)
		m.AccelAlong = d.Int16(16)
		m.GyroRoll = d.Int16(22)
		m.GyroPitch = d.Int16(20)
		m.MagAcross = d.Int16(26)
		m.MagAlong = d.Int16(28)
	}

	return m
}

func (m MegaSensor) MsgType() string {
	return "MegaSensor"
}

func (m MegaSensor) String() string {
	return fmt.Sprintf("{%s Orient:%d Accel:%d Press:%d Temp:%.2f "+
		"IMU:{Accel:[%d %d %d] Gyro:[%d %d %d]} Mag:[%d %d %d]}",
		m.Header, m.Orient, m.Accel, m.Pressure, m.Temperature,
		m.AccelAlong, m.AccelAcross, m.AccelThrough,
		m.GyroRoll, m.GyroPitch, m.GyroYaw,
		m.MagAlong, m.MagAcross, m.MagThrough,
	)
}

func (m MegaSensor) Record() (r []string) {
	r = m.Header.Record()
	r = append(r, strconv.FormatInt(int64(m.Orient), 10))
	r = append(r, strconv.FormatInt(int64(m.Accel), 10))
	r = append(r, strconv.FormatInt(int64(m.Pressure), 10))
	r = append(r, strconv.FormatFloat(m.Temperature, 'f', 2, 64))
	for _, v := range []int16{
		m.AccelAlong, m.AccelAcross, m.AccelThrough,
		m.GyroRoll, m.GyroPitch, m.GyroYaw,
		m.MagAlong, m.MagAcross, m.MagThrough,
	} {
		r = append(r, strconv.FormatInt(int64(v), 10))
	}

	return
}
