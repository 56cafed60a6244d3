// Package channel turns the bit stream of a single radio channel into
// telemetry records. A Channel owns one decoder and is driven by a single
// goroutine.
package channel

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/klawil/gnuradio-rocket-tracker/bitstream"
	"github.com/klawil/gnuradio-rocket-tracker/decode"
	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const (
	// Symbols read from a source per iteration of Run.
	BlockSize = 4096

	channelCount   = 10
	firstFrequency = 434550000
	channelSpacing = 100000
)

// DefaultFrequencies are the ten standard AltOS channels from 434.550 MHz to
// 435.450 MHz.
func DefaultFrequencies() []float64 {
	freqs := make([]float64, channelCount)
	for idx := range freqs {
		freqs[idx] = firstFrequency + float64(idx*channelSpacing)
	}
	return freqs
}

// Observer is notified of every decoded frame and resynchronization.
type Observer interface {
	Frame(freq float64, valid bool)
	Resync(freq float64, abandoned bool)
}

type Options struct {
	// Forward frames that fail the checksum with Valid set to false instead
	// of discarding them.
	KeepInvalid bool

	Filters  parse.FilterChain
	Observer Observer
}

type Channel struct {
	Freq float64

	opts Options
	dec  *decode.Decoder
	log  *logrus.Entry
	now  func() time.Time
}

// New returns a channel decoding at freq Hz. A nil log uses the standard
// logger.
func New(freq float64, opts Options, log *logrus.Entry) *Channel {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("freq", strconv.FormatFloat(freq/1e6, 'f', 3, 64))

	return &Channel{
		Freq: freq,
		opts: opts,
		dec:  decode.NewDecoder(log),
		log:  log,
		now:  time.Now,
	}
}

func (ch *Channel) Stats() decode.Stats {
	return ch.dec.Stats()
}

// Resync discards any message in progress.
func (ch *Channel) Resync() {
	abandoned := ch.dec.InProgress()
	ch.dec.Resync()

	if ch.opts.Observer != nil {
		ch.opts.Observer.Resync(ch.Freq, abandoned)
	}
}

// Feed consumes a single bit and returns a record when the bit completes a
// message that passes the channel's policy and filters.
func (ch *Channel) Feed(bit byte) (msg parse.LogMessage, ok bool) {
	f, done := ch.dec.Feed(bit)
	if !done {
		return
	}

	if ch.opts.Observer != nil {
		ch.opts.Observer.Frame(ch.Freq, f.Valid)
	}

	if !f.Valid && !ch.opts.KeepInvalid {
		return
	}

	msg = parse.LogMessage{
		Time:    ch.now(),
		Freq:    ch.Freq,
		Valid:   f.Valid,
		Raw:     append(parse.Hex{}, f.Bytes[:]...),
		Message: parse.Parse(f.Bytes[:]),
	}

	if !ch.opts.Filters.Match(msg.Message) {
		return parse.LogMessage{}, false
	}

	return msg, true
}

// Symbol consumes a bit or a bitstream.Resync marker.
func (ch *Channel) Symbol(sym byte) (parse.LogMessage, bool) {
	if sym == bitstream.Resync {
		ch.Resync()
		return parse.LogMessage{}, false
	}
	return ch.Feed(sym)
}

// Write consumes a block of symbols and returns every record produced.
func (ch *Channel) Write(syms []byte) (msgs []parse.LogMessage) {
	for _, sym := range syms {
		if msg, ok := ch.Symbol(sym); ok {
			msgs = append(msgs, msg)
		}
	}
	return
}

// Run reads symbols from src until it is exhausted or ctx is cancelled,
// sending each record on out. It returns nil at the end of src. A read
// blocked on an idle source only returns once the caller closes src.
func (ch *Channel) Run(ctx context.Context, src io.Reader, out chan<- parse.LogMessage) error {
	ch.log.Info("channel started")
	defer func() {
		stats := ch.Stats()
		ch.log.WithFields(logrus.Fields{
			"total":     stats.Attempted,
			"passed":    stats.Passed,
			"resyncs":   stats.Resyncs,
			"abandoned": stats.Abandoned,
		}).Info("channel stopped")
	}()

	block := make([]byte, BlockSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := src.Read(block)

		for _, sym := range block[:n] {
			msg, ok := ch.Symbol(sym)
			if !ok {
				continue
			}

			select {
			case out <- msg:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err == io.EOF {
			return nil
		}
		if err != nil && ctx.Err() != nil {
			// The source was closed to interrupt a blocked read.
			return ctx.Err()
		}
		if err != nil {
			return errors.Wrapf(err, "channel %.3f MHz", ch.Freq/1e6)
		}
	}
}
