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

// Package companion decodes packets relayed from a companion board attached
// to the flight computer (type 0x07).
package companion

import (
	"fmt"
	"strconv"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const (
	Type = 0x07

	MaxChannels = 12
)

func init() {
	parse.Register("companion", New, Type)
}

type Companion struct {
	parse.Header

	BoardID      uint8    `xml:",attr" json:"board_id"`
	UpdatePeriod uint8    `xml:",attr" json:"update_period"`
	Channels     uint8    `xml:",attr" json:"channels"`
	Data         []uint16 `xml:"Data" json:"data,omitempty"`
}

func New(d parse.Data) parse.Message {
	c := Companion{Header: parse.NewHeader(d)}

	c.BoardID = d.Uint8(5)
	c.UpdatePeriod = d.Uint8(6)

	// Twelve channels fill the payload.
	c.Channels = d.Uint8(7)
	if c.Channels > MaxChannels {
		c.Channels = MaxChannels
	}

	for i := 0; i < int(c.Channels); i++ {
		c.Data = append(c.Data, d.Uint16(8+i*2))
	}

	return c
}

func (c Companion) MsgType() string {
	return "Companion"
}

func (c Companion) String() string {
	return fmt.Sprintf("{%s Board:%d Period:%d Channels:%d Data:%v}",
		c.Header, c.BoardID, c.UpdatePeriod, c.Channels, c.Data,
	)
}

func (c Companion) Record() (r []string) {
	r = c.Header.Record()
	r = append(r, strconv.FormatUint(uint64(c.BoardID), 10))
	r = append(r, strconv.FormatUint(uint64(c.UpdatePeriod), 10))
	r = append(r, strconv.FormatUint(uint64(c.Channels), 10))
	for _, v := range c.Data {
		r = append(r, strconv.FormatUint(uint64(v), 10))
	}

	return
}
