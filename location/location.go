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

// Package location decodes GPS fix packets (type 0x05).
package location

import (
	"fmt"
	"strconv"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const Type = 0x05

const (
	flagLocked    = 1 << 4
	flagConnected = 1 << 5
)

func init() {
	parse.Register("location", New, Type)
}

type Location struct {
	parse.Header

	NSat      uint8 `xml:",attr" json:"nsat"`
	Locked    bool  `xml:",attr" json:"locked"`
	Connected bool  `xml:",attr" json:"connected"`
	Mode      uint8 `xml:",attr" json:"mode"`

	// Meters. Mode != 0 extends the field to 24 bits.
	Altitude int32 `xml:",attr" json:"altitude"`

	// Units of 1e-7 degrees.
	Latitude  int32 `xml:",attr" json:"latitude"`
	Longitude int32 `xml:",attr" json:"longitude"`

	Year   uint8 `xml:",attr" json:"year"`
	Month  uint8 `xml:",attr" json:"month"`
	Day    uint8 `xml:",attr" json:"day"`
	Hour   uint8 `xml:",attr" json:"hour"`
	Minute uint8 `xml:",attr" json:"minute"`
	Second uint8 `xml:",attr" json:"second"`

	PDOP uint8 `xml:",attr" json:"pdop"`
	HDOP uint8 `xml:",attr" json:"hdop"`
	VDOP uint8 `xml:",attr" json:"vdop"`

	GroundSpeed uint16 `xml:",attr" json:"ground_speed"`
	ClimbRate   int16  `xml:",attr" json:"climb_rate"`
	Course      uint8  `xml:",attr" json:"course"`
}

func New(d parse.Data) parse.Message {
	l := Location{Header: parse.NewHeader(d)}

	flags := d.Uint8(5)
	l.NSat = flags & 0x0F
	l.Locked = flags&flagLocked != 0
	l.Connected = flags&flagConnected != 0

	l.Mode = d.Uint8(25)
	l.Altitude = int32(d.Int16(6))
	if l.Mode != 0 {
		l.Altitude = int32(d.Int8(31))<<16 | int32(d.Uint16(6))
	}

	l.Latitude = d.Int32(8)
	l.Longitude = d.Int32(12)

	l.Year = d.Uint8(16)
	l.Month = d.Uint8(17)
	l.Day = d.Uint8(18)
	l.Hour = d.Uint8(19)
	l.Minute = d.Uint8(20)
	l.Second = d.Uint8(21)

	l.PDOP = d.Uint8(22)
	l.HDOP = d.Uint8(23)
	l.VDOP = d.Uint8(24)

	l.GroundSpeed = d.Uint16(26)
	l.ClimbRate = d.Int16(28)
	l.Course = d.Uint8(30)

	return l
}

func (l Location) LatitudeDeg() float64 {
	return float64(l.Latitude) / 1e7
}

func (l Location) LongitudeDeg() float64 {
	return float64(l.Longitude) / 1e7
}

func (l Location) MsgType() string {
	return "Location"
}

func (l Location) String() string {
	return fmt.Sprintf("{%s NSat:%d Locked:%v Connected:%v Mode:%d Alt:%d Lat:%.7f Lon:%.7f "+
		"UTC:20%02d-%02d-%02dT%02d:%02d:%02d DOP:%d/%d/%d GndSpeed:%d Climb:%d Course:%d}",
		l.Header, l.NSat, l.Locked, l.Connected, l.Mode, l.Altitude, l.LatitudeDeg(), l.LongitudeDeg(),
		l.Year, l.Month, l.Day, l.Hour, l.Minute, l.Second,
		l.PDOP, l.HDOP, l.VDOP, l.GroundSpeed, l.ClimbRate, l.Course,
	)
}

func (l Location) Record() (r []string) {
	r = l.Header.Record()
	r = append(r, strconv.FormatUint(uint64(l.NSat), 10))
	r = append(r, strconv.FormatBool(l.Locked))
	r = append(r, strconv.FormatBool(l.Connected))
	r = append(r, strconv.FormatUint(uint64(l.Mode), 10))
	r = append(r, strconv.FormatInt(int64(l.Altitude), 10))
	r = append(r, strconv.FormatFloat(l.LatitudeDeg(), 'f', 7, 64))
	r = append(r, strconv.FormatFloat(l.LongitudeDeg(), 'f', 7, 64))
	for _, v := range []uint8{l.Year, l.Month, l.Day, l.Hour, l.Minute, l.Second, l.PDOP, l.HDOP, l.VDOP} {
		r = append(r, strconv.FormatUint(uint64(v), 10))
	}
	r = append(r, strconv.FormatUint(uint64(l.GroundSpeed), 10))
	r = append(r, strconv.FormatInt(int64(l.ClimbRate), 10))
	r = append(r, strconv.FormatUint(uint64(l.Course), 10))

	return
}
