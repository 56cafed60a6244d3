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
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/klawil/gnuradio-rocket-tracker/bitstream"
	"github.com/klawil/gnuradio-rocket-tracker/channel"
	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

type worker struct {
	ch     *channel.Channel
	src    io.ReadCloser
	format bitstream.Format
}

// Receiver runs one worker per channel and encodes their records from a
// single goroutine.
type Receiver struct {
	workers []worker
	encoder Encoder
}

func NewReceiver(cfg Config, opts channel.Options, encoder Encoder) (*Receiver, error) {
	rcvr := &Receiver{encoder: encoder}

	for _, chCfg := range cfg.Channels {
		f, err := bitstream.ParseFormat(chCfg.Format)
		if err != nil {
			rcvr.Close()
			return nil, err
		}

		src, err := openInput(chCfg.Input)
		if err != nil {
			rcvr.Close()
			return nil, err
		}

		rcvr.workers = append(rcvr.workers, worker{
			ch:     channel.New(chCfg.Freq, opts, nil),
			src:    src,
			format: f,
		})
	}

	return rcvr, nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return os.Stdin, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	return f, nil
}

func (rcvr *Receiver) Close() {
	for _, w := range rcvr.workers {
		w.src.Close()
	}
}

// Run decodes every input until all are exhausted or ctx is cancelled. With
// single set it returns after the first record.
func (rcvr *Receiver) Run(ctx context.Context, single bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	out := make(chan parse.LogMessage, len(rcvr.workers))

	var wg sync.WaitGroup
	errs := make(chan error, len(rcvr.workers))

	for _, w := range rcvr.workers {
		wg.Add(1)
		go func(w worker) {
			defer wg.Done()

			err := w.ch.Run(ctx, bitstream.NewReader(w.src, w.format), out)
			if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
				errs <- err
			}
		}(w)
	}

	// Closing the sources unblocks workers waiting on idle inputs.
	go func() {
		<-ctx.Done()
		rcvr.Close()
	}()

	go func() {
		wg.Wait()
		close(out)
		close(errs)
	}()

	for msg := range out {
		if err := rcvr.encoder.Encode(msg); err != nil {
			return errors.Wrap(err, "encode message")
		}

		if single {
			cancel()
			break
		}
	}

	// Drain so workers blocked on send can observe cancellation.
	for range out {
	}

	if ctx.Err() == context.DeadlineExceeded {
		logrus.WithField("elapsed", time.Since(start)).Info("time limit reached")
	}

	if err, ok := <-errs; ok {
		return err
	}
	return nil
}
