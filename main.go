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
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/klawil/gnuradio-rocket-tracker/bitstream"
	"github.com/klawil/gnuradio-rocket-tracker/channel"
	"github.com/klawil/gnuradio-rocket-tracker/decode"
	"github.com/klawil/gnuradio-rocket-tracker/metrics"
)

var (
	buildTag   = "dev"     // v#.#.#
	buildDate  = "unknown" // date -u '+%Y-%m-%d'
	commitHash = "unknown" // git rev-parse HEAD
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	RegisterFlags()
	EnvOverride()
	flag.Parse()

	if *version {
		fmt.Println("Build Tag: ", buildTag)
		fmt.Println("Build Date:", buildDate)
		fmt.Println("Commit:    ", commitHash)
		os.Exit(0)
	}

	if *generate > 0 {
		f, err := bitstream.ParseFormat(*inputFormat)
		if err != nil {
			logrus.Fatal(err)
		}
		if err := Generate(os.Stdout, f, *generate, *bitErrorRate, *seed); err != nil {
			logrus.WithError(err).Fatal("generate")
		}
		return
	}

	cfg, err := LoadConfig(*configFile)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	HandleFlags(&cfg)

	if err := cfg.Normalize(); err != nil {
		logrus.WithError(err).Fatal("invalid config")
	}
	if len(cfg.Channels) == 0 {
		logrus.Fatal("no channels configured, give -input or a config file")
	}

	rotator, err := SetupLogging(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("setup logging")
	}
	if rotator != nil {
		defer rotator.Close()
	}

	decode.NewPacketConfig().Log(logrus.StandardLogger())

	opts := channel.Options{
		KeepInvalid: cfg.KeepInvalid,
		Filters:     NewFilterChain(cfg),
	}

	if cfg.MetricsAddr != "" {
		opts.Observer = metrics.New(nil)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			logrus.WithField("addr", cfg.MetricsAddr).Info("serving metrics")
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logrus.WithError(err).Error("metrics server")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Duration != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	rcvr, err := NewReceiver(cfg, opts, NewEncoder(cfg.Output, os.Stdout))
	if err != nil {
		logrus.WithError(err).Fatal("open inputs")
	}
	defer rcvr.Close()

	if err := rcvr.Run(ctx, *single); err != nil {
		logrus.WithError(err).Fatal("receive")
	}
}
