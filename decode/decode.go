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

package decode

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/klawil/gnuradio-rocket-tracker/crc"
	"github.com/klawil/gnuradio-rocket-tracker/fec"
	"github.com/klawil/gnuradio-rocket-tracker/preamble"
	"github.com/klawil/gnuradio-rocket-tracker/whiten"
)

const (
	// 32 bytes of data, 2 bytes of checksum and 2 trellis terminator bytes.
	MessageBytes = 36
	PayloadBytes = 32
	CRCOffset    = PayloadBytes

	// Each interleaved block carries two message bytes.
	BlocksPerMessage = MessageBytes / 2
)

// PacketConfig describes the framing the decoder expects. The sync word,
// block size and traceback depth are fixed by the preamble and fec packages.
type PacketConfig struct {
	MessageBytes     int
	PayloadBytes     int
	BlocksPerMessage int
	CRC              crc.CRC
}

func NewPacketConfig() PacketConfig {
	return PacketConfig{
		MessageBytes:     MessageBytes,
		PayloadBytes:     PayloadBytes,
		BlocksPerMessage: BlocksPerMessage,
		CRC:              crc.NewAltOS(),
	}
}

func (cfg PacketConfig) Log(log logrus.FieldLogger) {
	log.WithFields(logrus.Fields{
		"sync":    fmt.Sprintf("0x%04X", preamble.SyncWord),
		"bytes":   cfg.MessageBytes,
		"payload": cfg.PayloadBytes,
		"blocks":  cfg.BlocksPerMessage,
		"history": fec.History,
		"crc":     cfg.CRC.String(),
	}).Info("packet config")
}

// Frame is a complete de-whitened message and the result of its checksum.
type Frame struct {
	Bytes    [MessageBytes]byte
	Computed uint16
	Received uint16
	Valid    bool
}

func (f Frame) String() string {
	return fmt.Sprintf("{Valid:%v Computed:0x%04X Received:0x%04X Bytes:%02X}",
		f.Valid, f.Computed, f.Received, f.Bytes[:],
	)
}

// Stats are diagnostic counters for a single decoder.
type Stats struct {
	Attempted uint64 // complete messages decoded
	Passed    uint64 // messages with a matching checksum
	Resyncs   uint64 // resynchronize requests
	Abandoned uint64 // messages discarded by a resynchronize
}

func (s Stats) Failed() uint64 {
	return s.Attempted - s.Passed
}

// Decoder turns a stream of hard bits into frames. It is a single goroutine
// state machine: nothing blocks and nothing is shared.
type Decoder struct {
	Cfg PacketConfig

	sync preamble.Detector

	// Raw bits of the block being received.
	block    uint32
	blockIdx int
	blocks   int

	viterbi *fec.Viterbi
	lfsr    whiten.LFSR

	computed uint16
	received uint16

	stats Stats
	log   *logrus.Entry
}

// NewDecoder returns a decoder in its initial state. A nil log uses the
// standard logger.
func NewDecoder(log *logrus.Entry) *Decoder {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	d := &Decoder{
		Cfg: NewPacketConfig(),
		log: log,
	}
	d.viterbi = fec.NewViterbi(d.Cfg.MessageBytes)
	d.Reset()

	return d
}

// Reset returns every piece of per-message state to its initial value.
func (d *Decoder) Reset() {
	d.sync.Reset()

	d.block = 0
	d.blockIdx = 0
	d.blocks = 0

	d.viterbi.Reset()
	d.lfsr.Reset()

	d.computed = d.Cfg.CRC.Init
	d.received = 0
}

// Resync discards any message in progress and starts searching for the sync
// word again. It is safe to call between any two bits.
func (d *Decoder) Resync() {
	d.stats.Resyncs++
	if d.sync.Locked() {
		d.stats.Abandoned++
		if d.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
			d.log.WithFields(logrus.Fields{
				"blocks": d.blocks,
				"bits":   d.blockIdx,
			}).Debug("resync abandoned message")
		}
	}
	d.Reset()
}

// InProgress reports whether the sync word has been seen and a message is
// being accumulated.
func (d *Decoder) InProgress() bool {
	return d.sync.Locked()
}

func (d *Decoder) Stats() Stats {
	return d.stats
}

// Feed consumes a single bit. When the bit completes a message the frame is
// returned with ok set, and the decoder is reset for the next one.
func (d *Decoder) Feed(bit byte) (f Frame, ok bool) {
	if !d.sync.Locked() {
		d.sync.Push(bit)
		return
	}

	d.block = d.block<<1 | uint32(bit&1)
	d.blockIdx++

	if d.blockIdx < fec.BlockBits {
		return
	}

	d.viterbi.Decode(fec.Deinterleave(d.block))
	d.block = 0
	d.blockIdx = 0
	d.blocks++

	if d.blocks < d.Cfg.BlocksPerMessage {
		return
	}

	f = d.finish()
	d.Reset()

	return f, true
}

// Write feeds each bit of p in order and returns every completed frame.
func (d *Decoder) Write(p []byte) (frames []Frame) {
	for _, bit := range p {
		if f, ok := d.Feed(bit); ok {
			frames = append(frames, f)
		}
	}
	return
}

// finish de-whitens the decoded message and checks it.
func (d *Decoder) finish() (f Frame) {
	copy(f.Bytes[:], d.viterbi.Bytes())

	for idx := range f.Bytes {
		f.Bytes[idx] = d.lfsr.Byte(f.Bytes[idx])

		switch {
		case idx < d.Cfg.PayloadBytes:
			d.computed = d.Cfg.CRC.Update(d.computed, f.Bytes[idx])
		case idx < d.Cfg.PayloadBytes+2:
			d.received = d.received<<8 | uint16(f.Bytes[idx])
		}
		// The trellis terminator is not covered by the checksum.
	}

	f.Computed = d.computed
	f.Received = d.received
	f.Valid = f.Computed == f.Received

	d.stats.Attempted++
	if f.Valid {
		d.stats.Passed++
	} else if d.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		d.log.WithFields(logrus.Fields{
			"type":     f.Bytes[4],
			"computed": fmt.Sprintf("0x%04X", f.Computed),
			"received": fmt.Sprintf("0x%04X", f.Received),
			"passed":   d.stats.Passed,
			"total":    d.stats.Attempted,
		}).Debug("checksum mismatch")
	}

	return f
}
