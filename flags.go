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

package main

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/klawil/gnuradio-rocket-tracker/csv"
	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

var configFile = flag.String("config", "", "path to yaml config file")

var input = flag.String("input", "", "bit stream to decode, - for stdin; adds a single channel")
var inputFormat = flag.String("informat", "byte", "bit stream format: byte, ascii or packed")
var freq = flag.Float64("freq", 434.550, "carrier frequency in MHz of -input")

var format = flag.String("format", "plain", "decoded message output format: plain, csv, json, or xml")
var keepInvalid = flag.Bool("keepinvalid", false, "output messages that fail the checksum")
var unique = flag.Bool("unique", false, "suppress duplicate messages from each transmitter")
var single = flag.Bool("single", false, "one shot execution, exit after the first message")

var logLevel = flag.String("loglevel", "info", "log level: debug, info, warn or error")
var logFile = flag.String("logfile", "", "rotated log file, in addition to stderr")
var metricsAddr = flag.String("metrics", "", "address to serve prometheus metrics on, ex. :9100")
var timeLimit = flag.Duration("duration", 0, "time to run for, 0 for infinite, ex. 1h5m10s")

var generate = flag.Int("generate", 0, "write n reference packets to stdout in -informat and exit")
var bitErrorRate = flag.Float64("ber", 0, "bit error rate applied to -generate output")
var seed = flag.Int64("seed", 1, "random seed for -generate")

var version = flag.Bool("version", false, "display build date and commit hash")

var serialFilter SerialFilter
var typeFilter TypeFilter

func RegisterFlags() {
	serialFilter = SerialFilter{make(UintMap)}
	typeFilter = TypeFilter{make(UintMap)}

	flag.Var(serialFilter, "filterserial", "display only messages matching a serial in a comma-separated list of serials.")
	flag.Var(typeFilter, "filtertype", "display only messages matching a type code or kind name in a comma-separated list.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		flag.CommandLine.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(os.Stderr, "  -%s=%s: %s\n", f.Name, f.Value, f.Usage)
		})
	}
}

func EnvOverride() {
	flag.VisitAll(func(f *flag.Flag) {
		envName := "ALTUSRX_" + strings.ToUpper(f.Name)
		flagValue := os.Getenv(envName)
		if flagValue != "" {
			if err := flag.Set(f.Name, flagValue); err != nil {
				logrus.WithFields(logrus.Fields{
					"env":   envName,
					"flag":  f.Name,
					"value": flagValue,
				}).WithError(err).Warn("environment variable failed to override flag")
			} else {
				logrus.WithFields(logrus.Fields{
					"env":   envName,
					"flag":  f.Name,
					"value": flagValue,
				}).Info("environment variable overrides flag")
			}
		}
	})
}

// HandleFlags applies every flag set on the command line or by environment
// over the config file.
func HandleFlags(cfg *Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Output = *format
		case "keepinvalid":
			cfg.KeepInvalid = *keepInvalid
		case "unique":
			cfg.Unique = *unique
		case "loglevel":
			cfg.Log.Level = *logLevel
		case "logfile":
			cfg.Log.File = *logFile
		case "metrics":
			cfg.MetricsAddr = *metricsAddr
		case "duration":
			cfg.Duration = *timeLimit
		case "filterserial":
			for serial := range serialFilter.UintMap {
				cfg.Serials = append(cfg.Serials, uint16(serial))
			}
		case "filtertype":
			for typ := range typeFilter.UintMap {
				cfg.Types = append(cfg.Types, uint8(typ))
			}
		}
	})

	if *input != "" {
		cfg.Channels = append(cfg.Channels, ChannelConfig{
			Freq:   *freq * 1e6,
			Input:  *input,
			Format: *inputFormat,
		})
	}
}

// NewFilterChain builds the record filters selected by cfg.
func NewFilterChain(cfg Config) (fc parse.FilterChain) {
	if len(cfg.Serials) > 0 {
		f := SerialFilter{make(UintMap)}
		for _, serial := range cfg.Serials {
			f.UintMap[uint(serial)] = true
		}
		fc.Add(f)
	}
	if len(cfg.Types) > 0 {
		f := TypeFilter{make(UintMap)}
		for _, typ := range cfg.Types {
			f.UintMap[uint(typ)] = true
		}
		fc.Add(f)
	}
	if cfg.Unique {
		fc.Add(NewUniqueFilter())
	}
	return fc
}

// JSON, XML and CSV all implement this interface so we can simplify log
// output formatting.
type Encoder interface {
	Encode(interface{}) error
}

func NewEncoder(name string, w io.Writer) Encoder {
	switch strings.ToLower(name) {
	case "csv":
		return csv.NewEncoder(w)
	case "json":
		return json.NewEncoder(w)
	case "xml":
		return XMLEncoder{xml.NewEncoder(w), w}
	}
	return PlainEncoder{w}
}

type UintMap map[uint]bool

func (m UintMap) String() (s string) {
	var values []string
	for k := range m {
		values = append(values, strconv.FormatUint(uint64(k), 10))
	}
	return strings.Join(values, ",")
}

// Set accepts decimal or 0x prefixed hexadecimal values.
func (m UintMap) Set(value string) error {
	values := strings.Split(value, ",")

	for _, v := range values {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 0, 16)
		if err != nil {
			return err
		}

		m[uint(n)] = true
	}

	return nil
}

type SerialFilter struct {
	UintMap
}

func (m SerialFilter) Filter(msg parse.Message) bool {
	return m.UintMap[uint(msg.Serial())]
}

type TypeFilter struct {
	UintMap
}

// Set accepts type codes or record kind names, ex. 0x05,sensor.
func (m TypeFilter) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)

		if codes := parse.Codes(strings.ToLower(v)); len(codes) > 0 {
			for _, code := range codes {
				m.UintMap[uint(code)] = true
			}
			continue
		}

		if err := m.UintMap.Set(v); err != nil {
			return err
		}
	}

	return nil
}

func (m TypeFilter) Filter(msg parse.Message) bool {
	return m.UintMap[uint(msg.TypeCode())]
}

// UniqueFilter passes a message only when its checksum differs from the last
// message of the same type from the same transmitter. Channels share it, so
// it locks.
type UniqueFilter struct {
	sync.Mutex
	last map[uint32][]byte
}

func NewUniqueFilter() *UniqueFilter {
	return &UniqueFilter{last: make(map[uint32][]byte)}
}

func (uf *UniqueFilter) Filter(msg parse.Message) bool {
	uf.Lock()
	defer uf.Unlock()

	checksum := msg.Checksum()
	key := uint32(msg.Serial())<<8 | uint32(msg.TypeCode())

	if val, ok := uf.last[key]; ok && bytes.Equal(val, checksum) {
		return false
	}

	uf.last[key] = checksum
	return true
}

type PlainEncoder struct {
	w io.Writer
}

func (pe PlainEncoder) Encode(msg interface{}) (err error) {
	_, err = fmt.Fprintln(pe.w, msg)
	return
}

// XMLEncoder writes one element per line.
type XMLEncoder struct {
	*xml.Encoder
	w io.Writer
}

func (xe XMLEncoder) Encode(msg interface{}) error {
	if err := xe.Encoder.Encode(msg); err != nil {
		return err
	}
	_, err := fmt.Fprintln(xe.w)
	return err
}
