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

// Package meganorm decodes TeleMega sensor packets with axes already
// normalized to the airframe (types 0x13 and 0x14).
package meganorm

import (
	"fmt"
	"strconv"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const (
	MPU6000 = 0x13
	BMI088  = 0x14
)

func init() {
	parse.Register("meganorm", New, MPU6000, BMI088)
}

type MegaNorm struct {
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
	return MegaNorm{
		Header:       parse.NewHeader(d),
		Orient:       d.Int8(5),
		Accel:        d.Int16(6),
		Pressure:     d.Int32(8),
		Temperature:  float64(d.Int16(12)) / 100.0,
		AccelAlong:   d.Int16(14),
		AccelAcross:  d.Int16(16),
		AccelThrough: d.Int16(18),
		GyroRoll:     d.Int16(20),
		GyroPitch:    d.Int16(22),
		GyroYaw:      d.Int16(24),
		MagAlong:     d.Int16(26),
		MagAcross:    d.Int16(28),
		MagThrough:   d.Int16(30),
	}
}

func (m MegaNorm) MsgType() string {
	return "MegaNorm"
}

func (m MegaNorm) String() string {
	return fmt.Sprintf("{%s Orient:%d Accel:%d Press:%d Temp:%.2f "+
		"IMU:{Accel:[%d %d %d] Gyro:[%d %d %d]} Mag:[%d %d %d]}",
		m.Header, m.Orient, m.Accel, m.Pressure, m.Temperature,
		m.AccelAlong, m.AccelAcross, m.AccelThrough,
		m.GyroRoll, m.GyroPitch, m.GyroYaw,
		m.MagAlong, m.MagAcross, m.MagThrough,
	)
}

func (m MegaNorm) Record() (r []string) {
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
