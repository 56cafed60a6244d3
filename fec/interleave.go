package fec

// Symbols per interleaved block. Each symbol is two code bits, so a block is
// one 32-bit word carrying two message bytes.
const BlockSymbols = 16

// offset returns the bit offset in the transmitted word of the k'th symbol in
// decoder order. The transmitter writes a 4x4 matrix of symbols row-wise and
// sends it column-wise.
func offset(k uint) uint {
	return (k>>2)*2 + (k&3)*8
}

// Deinterleave reorders the 16 two-bit symbols of a received word into
// encoder order, first symbol in the most significant bits.
func Deinterleave(word uint32) (out uint32) {
	for k := uint(0); k < BlockSymbols; k++ {
		out = out<<2 | (word>>offset(k))&0x3
	}
	return
}

// Interleave is the inverse of Deinterleave.
func Interleave(word uint32) (out uint32) {
	for k := uint(0); k < BlockSymbols; k++ {
		sym := (word >> (30 - 2*k)) & 0x3
		out |= sym << offset(k)
	}
	return
}
