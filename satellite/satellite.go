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

// Package satellite decodes GPS satellite status packets (type 0x06).
package satellite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const (
	Type = 0x06

	MaxChannels = 12
)

func init() {
	parse.Register("satellite", New, Type)
}

type Sat struct {
	SVID uint8 `xml:",attr" json:"svid"`
	CN0  uint8 `xml:",attr" json:"c_n_1"`
}

type Satellite struct {
	parse.Header

	Channels uint8 `xml:",attr" json:"channels"`
	Sats     []Sat `xml:"Sat" json:"sats,omitempty"`
}

func New(d parse.Data) parse.Message {
	s := Satellite{Header: parse.NewHeader(d)}

	s.Channels = d.Uint8(5)
	if s.Channels > MaxChannels {
		s.Channels = MaxChannels
	}

	for i := 0; i < int(s.Channels); i++ {
		s.Sats = append(s.Sats, Sat{
			SVID: d.Uint8(6 + i*2),
			CN0:  d.Uint8(7 + i*2),
		})
	}

	return s
}

func (s Satellite) MsgType() string {
	return "Satellite"
}

func (s Satellite) String() string {
	var sats []string
	for _, sat := range s.Sats {
		sats = append(sats, fmt.Sprintf("%d:%d", sat.SVID, sat.CN0))
	}
	return fmt.Sprintf("{%s Channels:%d Sats:[%s]}", s.Header, s.Channels, strings.Join(sats, " "))
}

func (s Satellite) Record() (r []string) {
	r = s.Header.Record()
	r = append(r, strconv.FormatUint(uint64(s.Channels), 10))
	for _, sat := range s.Sats {
		r = append(r, strconv.FormatUint(uint64(sat.SVID), 10))
		r = append(r, strconv.FormatUint(uint64(sat.CN0), 10))
	}

	return
}
