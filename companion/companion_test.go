package companion

import (
	"encoding/binary"
	"testing"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

func newPacket(channels uint8) []byte {
	buf := make([]byte, 36)
	buf[4] = Type
	buf[5] = 7
	buf[6] = 50
	buf[7] = channels
	for i := 0; i < MaxChannels; i++ {
		binary.LittleEndian.PutUint16(buf[8+i*2:], uint16(1000*(i+1)))
	}
	return buf
}

func TestCompanion(t *testing.T) {
	msg := parse.Parse(newPacket(3))
	c, ok := msg.(Companion)
	if !ok {
		t.Fatalf("Expected Companion got %T\n", msg)
	}

	if c.BoardID != 7 || c.UpdatePeriod != 50 || c.Channels != 3 {
		t.Fatalf("bad header fields: %s\n", c)
	}
	if len(c.Data) != 3 || c.Data[0] != 1000 || c.Data[2] != 3000 {
		t.Fatalf("bad data: %v\n", c.Data)
	}
}

func TestClamp(t *testing.T) {
	c := New(parse.NewData(newPacket(0xFF))).(Companion)

	if c.Channels != MaxChannels || len(c.Data) != MaxChannels {
		t.Fatalf("Expected %d channels got %d\n", MaxChannels, len(c.Data))
	}
	if c.Data[MaxChannels-1] != 12000 {
		t.Fatalf("Expected last channel 12000 got %d\n", c.Data[MaxChannels-1])
	}
}
