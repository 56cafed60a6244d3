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
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/klawil/gnuradio-rocket-tracker/bitstream"
	"github.com/klawil/gnuradio-rocket-tracker/channel"
)

// ChannelConfig describes one demodulated bit stream.
type ChannelConfig struct {
	// Carrier frequency in Hz, only used to label records.
	Freq float64 `yaml:"freq"`

	// Path to the bit stream, "-" for stdin.
	Input string `yaml:"input"`

	// One of byte, ascii or packed.
	Format string `yaml:"format"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// Rotated log file, in addition to stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

type Config struct {
	Channels []ChannelConfig `yaml:"channels"`

	// Record output format: plain, csv, json or xml.
	Output string `yaml:"output"`

	KeepInvalid bool          `yaml:"keep_invalid"`
	Unique      bool          `yaml:"unique"`
	Serials     []uint16      `yaml:"serials"`
	Types       []uint8       `yaml:"types"`
	Duration    time.Duration `yaml:"duration"`

	Log         LogConfig `yaml:"log"`
	MetricsAddr string    `yaml:"metrics_addr"`
}

func DefaultConfig() Config {
	return Config{
		Output: "plain",
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxAgeDays: 28,
			MaxBackups: 5,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "open config")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, "decode config %s", path)
	}

	return cfg, nil
}

// Normalize fills in channel defaults and checks the config for errors.
// Channels without a frequency take the standard channel plan in order.
func (cfg *Config) Normalize() error {
	freqs := channel.DefaultFrequencies()
	stdin := -1

	for idx := range cfg.Channels {
		ch := &cfg.Channels[idx]

		if ch.Freq == 0 {
			if idx >= len(freqs) {
				return errors.Errorf("channel %d: no frequency given", idx)
			}
			ch.Freq = freqs[idx]
		}
		if ch.Input == "" {
			return errors.Errorf("channel %d: no input given", idx)
		}
		if ch.Input == "-" {
			if stdin >= 0 {
				return errors.Errorf("channel %d: stdin already read by channel %d", idx, stdin)
			}
			stdin = idx
		}
		if ch.Format == "" {
			ch.Format = bitstream.Byte.String()
		}
		if _, err := bitstream.ParseFormat(ch.Format); err != nil {
			return errors.Wrapf(err, "channel %d", idx)
		}
	}

	cfg.Output = strings.ToLower(cfg.Output)
	switch cfg.Output {
	case "plain", "csv", "json", "xml":
	default:
		return errors.Errorf("invalid output format: %q", cfg.Output)
	}

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return errors.Wrap(err, "log level")
	}

	return nil
}

// SetupLogging configures the standard logrus logger. When a log file is
// configured the returned rotator must be closed on exit.
func SetupLogging(cfg LogConfig) (*lumberjack.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, errors.Errorf("invalid log format: %q", cfg.Format)
	}

	if cfg.File == "" {
		logrus.SetOutput(os.Stderr)
		return nil, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, rotator))

	return rotator, nil
}
