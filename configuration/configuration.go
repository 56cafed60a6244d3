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

// Package configuration decodes the device configuration packet (type 0x04)
// sent periodically by every flight computer.
package configuration

import (
	"fmt"
	"strconv"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const Type = 0x04

func init() {
	parse.Register("configuration", New, Type)
}

type Configuration struct {
	parse.Header

	DeviceType  uint8  `xml:",attr" json:"device"`
	Flight      uint16 `xml:",attr" json:"flight"`
	ConfigMajor uint8  `xml:",attr" json:"conf_maj"`
	ConfigMinor uint8  `xml:",attr" json:"conf_min"`
	ApogeeDelay uint16 `xml:",attr" json:"apo_delay"`
	MainDeploy  uint16 `xml:",attr" json:"main_deploy"`

	// Shares its offset with ApogeeDelay.
	BatteryVoltage uint16 `xml:",attr" json:"v_batt"`

	FlightLogMax uint16 `xml:",attr" json:"max_log"`
	Callsign     string `xml:",attr" json:"callsign"`
	Version      string `xml:",attr" json:"version"`
}

func New(d parse.Data) parse.Message {
	return Configuration{
		Header:         parse.NewHeader(d),
		DeviceType:     d.Uint8(5),
		Flight:         d.Uint16(6),
		ConfigMajor:    d.Uint8(8),
		ConfigMinor:    d.Uint8(9),
		ApogeeDelay:    d.Uint16(10),
		MainDeploy:     d.Uint16(12),
		BatteryVoltage: d.Uint16(10),
		FlightLogMax:   d.Uint16(14),
		Callsign:       d.String(16, 8),
		Version:        d.String(24, 8),
	}
}

func (c Configuration) MsgType() string {
	return "Configuration"
}

func (c Configuration) String() string {
	return fmt.Sprintf("{%s Device:%d Flight:%d Config:%d.%d ApogeeDelay:%d Main:%d LogMax:%d Callsign:%q Version:%q}",
		c.Header, c.DeviceType, c.Flight, c.ConfigMajor, c.ConfigMinor,
		c.ApogeeDelay, c.MainDeploy, c.FlightLogMax, c.Callsign, c.Version,
	)
}

func (c Configuration) Record() (r []string) {
	r = c.Header.Record()
	r = append(r, strconv.FormatUint(uint64(c.DeviceType), 10))
	r = append(r, strconv.FormatUint(uint64(c.Flight), 10))
	r = append(r, strconv.FormatUint(uint64(c.ConfigMajor), 10))
	r = append(r, strconv.FormatUint(uint64(c.ConfigMinor), 10))
	r = append(r, strconv.FormatUint(uint64(c.ApogeeDelay), 10))
	r = append(r, strconv.FormatUint(uint64(c.MainDeploy), 10))
	r = append(r, strconv.FormatUint(uint64(c.BatteryVoltage), 10))
	r = append(r, strconv.FormatUint(uint64(c.FlightLogMax), 10))
	r = append(r, c.Callsign)
	r = append(r, c.Version)

	return
}
