package preamble

import (
	"math/rand"
	"testing"
)

func TestDetect(t *testing.T) {
	var d Detector

	// Alternating preamble bits never alias the sync word.
	for idx := 0; idx < 64; idx++ {
		if d.Push(byte(idx & 1)) {
			t.Fatalf("false lock at preamble bit %d\n", idx)
		}
	}

	bits := Bits()
	for idx, bit := range bits {
		found := d.Push(bit)
		if found != (idx == len(bits)-1) {
			t.Fatalf("unexpected detection result %v at sync bit %d\n", found, idx)
		}
	}

	if !d.Locked() {
		t.Fatal("detector should be locked after sync word")
	}
}

func TestAnywhere(t *testing.T) {
	var d Detector

	for idx := 0; idx < 37; idx++ {
		d.Push(byte(rand.Intn(2)))
	}

	bits := Bits()
	for _, bit := range bits[:len(bits)-1] {
		d.Push(bit)
	}

	if !d.Push(bits[len(bits)-1]) {
		t.Fatal("sync word not found after random prefix")
	}
}

func TestReset(t *testing.T) {
	var d Detector
	for _, bit := range Bits() {
		d.Push(bit)
	}

	d.Reset()
	if d.Locked() {
		t.Fatal("reset did not clear lock")
	}

	// The register is cleared too, so the last 15 bits of the sync word plus
	// a single bit can't complete a match.
	if d.Push(1) {
		t.Fatal("register survived reset")
	}
}

func TestBits(t *testing.T) {
	var word uint16
	for _, bit := range Bits() {
		word = word<<1 | uint16(bit)
	}
	if word != SyncWord {
		t.Fatalf("Expected 0x%04X got 0x%04X\n", SyncWord, word)
	}
}
