// Package fec implements the rate 1/2, constraint length 4 convolutional code
// used by AltOS telemetry together with its block interleaver.
package fec

import "math/bits"

const (
	// Trellis states, the encoder's 3-bit shift register.
	States = 8

	// Decoded bits kept per survivor path before committing to a byte.
	History = 24

	// Raw bits per interleaved block.
	BlockBits = 32

	// Starting metric for every state but zero, the encoder always starts
	// from the zero state.
	initialCost = 1 << 7
)

// EncodeTable maps (previous state << 1 | input bit) to the two code bits
// produced by the encoder.
var EncodeTable = [States * 2]byte{
	0, 3, // 000
	1, 2, // 001
	3, 0, // 010
	2, 1, // 011
	3, 0, // 100
	2, 1, // 101
	0, 3, // 110
	1, 2, // 111
}

// Viterbi is a hard decision decoder producing a fixed length message.
//
// Path metrics and survivor histories are double buffered: idx selects the
// buffer written by the most recent step and idx^1 holds its predecessors.
type Viterbi struct {
	cost [2][States]uint8
	hist [2][States]uint32
	idx  int

	parsed int // decoded bits since reset
	saved  int // decoded bits not yet committed to a byte

	msg []byte
	n   int
}

// NewViterbi returns a decoder producing messages of length bytes.
func NewViterbi(length int) *Viterbi {
	v := &Viterbi{msg: make([]byte, length)}
	v.Reset()
	return v
}

func (v *Viterbi) Reset() {
	v.idx = 0
	for state := range v.cost[0] {
		v.cost[0][state] = initialCost
		v.hist[0][state] = 0
	}
	v.cost[0][0] = 0

	v.parsed = 0
	v.saved = 0
	v.n = 0
}

// Decode runs the trellis over a deinterleaved block of 16 symbols, most
// significant symbol first.
func (v *Viterbi) Decode(word uint32) {
	for d := uint(0); d < BlockBits; d += 2 {
		v.Step(byte(word>>(BlockBits-d-2)) & 0x3)
	}
}

// Step performs add-compare-select for a single received symbol and commits
// a byte whenever enough history has accumulated.
func (v *Viterbi) Step(sym byte) {
	prev := v.idx
	v.idx ^= 1

	for state := 0; state < States; state++ {
		// Both transitions into state share its low bit as the input bit;
		// they differ in the oldest bit of the predecessor.
		t1 := state
		t2 := state | States

		c1 := addCost(v.cost[prev][t1>>1], hamming(sym, EncodeTable[t1]))
		c2 := addCost(v.cost[prev][t2>>1], hamming(sym, EncodeTable[t2]))

		best, cost := t2, c2
		if c1 < c2 {
			best, cost = t1, c1
		}

		v.hist[v.idx][state] = v.hist[prev][best>>1]<<1 | uint32(best&1)
		v.cost[v.idx][state] = cost
	}

	v.parsed++
	v.saved++
	if v.saved >= 8+History {
		v.saved -= 8
		v.commit()
	}
}

func (v *Viterbi) commit() {
	end := len(v.msg) * 8

	// The trellis terminator returns the encoder to state zero.
	state := 0
	if v.parsed != end-8 && v.parsed != end {
		state = v.minState()
	}

	hist := v.hist[v.idx][state]

	if v.parsed < end {
		v.push(byte(hist >> History))
		return
	}

	// Flush whatever history remains at the end of the message.
	for b := 0; b <= v.saved && v.n < len(v.msg); b += 8 {
		v.push(byte(hist >> uint(History-b)))
	}
}

func (v *Viterbi) minState() (state int) {
	min := v.cost[v.idx][0]
	for s := 1; s < States; s++ {
		if c := v.cost[v.idx][s]; c < min {
			state, min = s, c
		}
	}
	return
}

func (v *Viterbi) push(b byte) {
	if v.n < len(v.msg) {
		v.msg[v.n] = b
		v.n++
	}
}

// Len is the number of message bytes decoded since the last reset.
func (v *Viterbi) Len() int {
	return v.n
}

// Done reports whether the full message has been decoded.
func (v *Viterbi) Done() bool {
	return v.n == len(v.msg)
}

// Bytes returns the decoder's message buffer. It is overwritten after the
// next Reset.
func (v *Viterbi) Bytes() []byte {
	return v.msg[:v.n]
}

func hamming(a, b byte) uint8 {
	return uint8(bits.OnesCount8(a ^ b))
}

// addCost adds a branch metric, saturating at 0xFF.
func addCost(cost, metric uint8) uint8 {
	if sum := uint16(cost) + uint16(metric); sum < 0xFF {
		return uint8(sum)
	}
	return 0xFF
}
