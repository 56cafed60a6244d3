package crc

import "fmt"

// AltOS telemetry checksum parameters. Computed MSB-first over the whitened
// payload with no reflection and no final xor.
const (
	AltOSInit = 0xFFFF
	AltOSPoly = 0x8005
)

type CRC struct {
	Name    string
	Init    uint16
	Poly    uint16
	Residue uint16

	tbl Table
}

func NewCRC(name string, init, poly, residue uint16) (crc CRC) {
	crc.Name = name
	crc.Init = init
	crc.Poly = poly
	crc.Residue = residue
	crc.tbl = NewTable(crc.Poly)

	return
}

// NewAltOS returns the CRC used by AltOS telemetry packets.
func NewAltOS() CRC {
	return NewCRC("AltOS", AltOSInit, AltOSPoly, 0)
}

func (crc CRC) String() string {
	return fmt.Sprintf("{Name:%s Init:0x%04X Poly:0x%04X Residue:0x%04X}", crc.Name, crc.Init, crc.Poly, crc.Residue)
}

func (crc CRC) Checksum(data []byte) uint16 {
	return Checksum(crc.Init, data, crc.tbl)
}

// Update folds a single byte into a running checksum. Starting from Init and
// calling Update for each byte is equivalent to Checksum over the same bytes.
func (crc CRC) Update(sum uint16, b byte) uint16 {
	return sum<<8 ^ crc.tbl[sum>>8^uint16(b)]
}

// Valid reports whether data followed by its big-endian checksum leaves the
// expected residue.
func (crc CRC) Valid(data []byte) bool {
	return crc.Checksum(data) == crc.Residue
}

type Table [256]uint16

func NewTable(poly uint16) (table Table) {
	for tIdx := range table {
		crc := uint16(tIdx) << 8
		for bIdx := 0; bIdx < 8; bIdx++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc = crc << 1
			}
		}
		table[tIdx] = crc
	}
	return table
}

func Checksum(init uint16, data []byte, table Table) (crc uint16) {
	crc = init
	for _, v := range data {
		crc = crc<<8 ^ table[crc>>8^uint16(v)]
	}
	return
}

// Bitwise computes the same checksum one bit at a time.
func Bitwise(init, poly uint16, data []byte) uint16 {
	crc := init
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bit := uint16(b>>uint(i)) & 1
			if (crc&0x8000)^(bit<<15) != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc = crc << 1
			}
		}
	}
	return crc
}
