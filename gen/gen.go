// Package gen builds reference AltOS packets for tests and synthetic input
// streams: it lays out a message, computes its checksum, whitens,
// convolutionally encodes and interleaves it exactly as a transmitter would.
package gen

import (
	"encoding/binary"
	"math/rand"

	"github.com/klawil/gnuradio-rocket-tracker/crc"
	"github.com/klawil/gnuradio-rocket-tracker/decode"
	"github.com/klawil/gnuradio-rocket-tracker/fec"
	"github.com/klawil/gnuradio-rocket-tracker/preamble"
	"github.com/klawil/gnuradio-rocket-tracker/whiten"
)

// Bytes of type specific payload following the header.
const PayloadLen = decode.PayloadBytes - 5

// NewMessage lays out a plain (unwhitened) message with a valid checksum.
// Payload is copied to offset 5 and truncated to PayloadLen bytes.
//
// The two trailing bytes are chosen so that after whitening they are zero,
// driving the encoder back to the zero state where the decoder expects it.
func NewMessage(serial, rtime uint16, typ uint8, payload []byte) []byte {
	msg := make([]byte, decode.MessageBytes)

	binary.LittleEndian.PutUint16(msg[0:2], serial)
	binary.LittleEndian.PutUint16(msg[2:4], rtime)
	msg[4] = typ
	copy(msg[5:decode.PayloadBytes], payload)

	Seal(msg)

	return msg
}

// Seal writes the checksum and trellis terminator of a 36 byte message.
func Seal(msg []byte) {
	checksum := crc.NewAltOS().Checksum(msg[:decode.PayloadBytes])
	binary.BigEndian.PutUint16(msg[decode.CRCOffset:], checksum)

	seq := whiten.Sequence(decode.MessageBytes)
	copy(msg[decode.CRCOffset+2:], seq[decode.CRCOffset+2:])
}

// NewRandMessage returns a message of the given type with a random header
// and payload.
func NewRandMessage(r *rand.Rand, typ uint8) []byte {
	payload := make([]byte, PayloadLen)
	r.Read(payload)

	return NewMessage(uint16(r.Intn(1<<16)), uint16(r.Intn(1<<16)), typ, payload)
}

// Encode returns the transmitted bits of msg, excluding preamble and sync
// word.
func Encode(msg []byte) []byte {
	whitened := make([]byte, len(msg))
	copy(whitened, msg)
	whiten.Block(whitened)

	return fec.Unpack(fec.Encode(whitened))
}

// Preamble returns n alternating bits as sent before the sync word.
func Preamble(n int) []byte {
	bits := make([]byte, n)
	for idx := range bits {
		bits[idx] = byte(idx&1) ^ 1
	}
	return bits
}

// Packet returns a complete over the air bit sequence: preamble bits, the
// sync word and the encoded message.
func Packet(preambleBits int, msg []byte) []byte {
	bits := Preamble(preambleBits)
	bits = append(bits, preamble.Bits()...)
	return append(bits, Encode(msg)...)
}

// UnpackBits expands bytes into bits, most significant first.
func UnpackBits(data []byte) []byte {
	bits := make([]byte, len(data)<<3)

	for idx, b := range data {
		offset := idx << 3
		for bit := 7; bit >= 0; bit-- {
			bits[offset+(7-bit)] = (b >> uint8(bit)) & 0x01
		}
	}

	return bits
}

// PackBits is the inverse of UnpackBits. Trailing bits that don't fill a
// byte are left aligned in the last byte.
func PackBits(bits []byte) []byte {
	data := make([]byte, (len(bits)+7)>>3)
	for idx, bit := range bits {
		data[idx>>3] |= (bit & 1) << uint(7-idx&7)
	}
	return data
}

// FlipBit returns a copy of bits with the given bit inverted.
func FlipBit(bits []byte, idx int) []byte {
	out := make([]byte, len(bits))
	copy(out, bits)
	out[idx] ^= 1
	return out
}
