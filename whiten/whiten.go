// Package whiten implements the PN9 data whitening applied by AltOS radios
// to every transmitted byte. Whitening is a pure xor with a position
// dependent sequence, so the same operation both whitens and de-whitens.
package whiten

// Seed is the register value at the start of every message.
const Seed = 0x1FF

// LFSR is a 9-bit linear feedback shift register with taps at bits 0 and 5.
type LFSR uint16

func New() LFSR {
	return Seed
}

func (l *LFSR) Reset() {
	*l = Seed
}

// Step advances the register by one bit.
func (l *LFSR) Step() {
	s := uint16(*l)
	feedback := (s ^ s>>5) & 1
	*l = LFSR((s>>1 | feedback<<8) & 0x1FF)
}

// Byte xors b with the low byte of the register then advances it once per
// bit of b.
func (l *LFSR) Byte(b byte) byte {
	out := b ^ byte(*l)
	for i := 0; i < 8; i++ {
		l.Step()
	}
	return out
}

// Block whitens (or de-whitens) p in place using a freshly seeded register.
func Block(p []byte) {
	l := New()
	for idx := range p {
		p[idx] = l.Byte(p[idx])
	}
}

// Sequence returns the first n bytes of the whitening sequence.
func Sequence(n int) []byte {
	seq := make([]byte, n)
	Block(seq)
	return seq
}
