// Package preamble detects the AltOS sync word in a stream of hard bits.
package preamble

// SyncWord marks the start of every AltOS packet. It follows a run of
// alternating preamble bits and precedes the first interleaved FEC block.
const SyncWord uint16 = 0xD391

// Detector is a 16-bit shift register compared against SyncWord after every
// bit. There is no error tolerance: only an exact match locks.
type Detector struct {
	reg    uint16
	locked bool
}

// Push shifts a bit into the register and reports whether the sync word was
// found on this bit. Once locked, the detector stays locked until Reset.
func (d *Detector) Push(bit byte) bool {
	d.reg = d.reg<<1 | uint16(bit&1)
	if d.reg == SyncWord {
		d.locked = true
		return true
	}
	return false
}

func (d *Detector) Locked() bool {
	return d.locked
}

// Reset clears the lock and the register.
func (d *Detector) Reset() {
	d.reg = 0
	d.locked = false
}

// Bits returns the sync word as a slice of bits, most significant first.
func Bits() []byte {
	bits := make([]byte, 16)
	for idx := range bits {
		bits[idx] = byte(SyncWord>>uint(15-idx)) & 1
	}
	return bits
}
