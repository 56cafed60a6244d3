package fec

// Encoder is the transmit side convolutional encoder. It is used to build
// reference bit streams; the receiver never encodes.
type Encoder struct {
	state byte
}

// Bit encodes a single input bit and returns its two code bits.
func (e *Encoder) Bit(bit byte) byte {
	idx := e.state<<1 | bit&1
	e.state = idx & (States - 1)
	return EncodeTable[idx]
}

// State is the encoder's shift register, the last three input bits.
func (e *Encoder) State() byte {
	return e.state
}

func (e *Encoder) Reset() {
	e.state = 0
}

// Encode convolutionally encodes data, most significant bit first, and
// interleaves each pair of bytes into a 32-bit block. An odd trailing byte is
// padded with zero.
func Encode(data []byte) (words []uint32) {
	var e Encoder

	for idx := 0; idx < len(data); idx += 2 {
		pair := [2]byte{data[idx], 0}
		if idx+1 < len(data) {
			pair[1] = data[idx+1]
		}

		var word uint32
		for _, b := range pair {
			for bit := 7; bit >= 0; bit-- {
				word = word<<2 | uint32(e.Bit(b>>uint(bit)))
			}
		}

		words = append(words, Interleave(word))
	}

	return words
}

// Unpack expands words into bits in transmission order.
func Unpack(words []uint32) []byte {
	bits := make([]byte, 0, len(words)*BlockBits)
	for _, w := range words {
		for bit := BlockBits - 1; bit >= 0; bit-- {
			bits = append(bits, byte(w>>uint(bit))&1)
		}
	}
	return bits
}
