package location

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

func newPacket(mode uint8) []byte {
	buf := make([]byte, 36)
	buf[4] = Type
	buf[5] = 9 | flagLocked

	lat, lon := int32(403456789), int32(-1051234567)
	binary.LittleEndian.PutUint16(buf[6:], 0xF000)
	binary.LittleEndian.PutUint32(buf[8:], uint32(lat))
	binary.LittleEndian.PutUint32(buf[12:], uint32(lon))
	copy(buf[16:22], []byte{24, 6, 15, 18, 30, 45})
	copy(buf[22:25], []byte{12, 9, 15})
	buf[25] = mode
	binary.LittleEndian.PutUint16(buf[26:], 340)
	binary.LittleEndian.PutUint16(buf[28:], uint16(0xFF38)) // -200
	buf[30] = 90
	buf[31] = 0x01

	return buf
}

func TestLocation(t *testing.T) {
	msg := parse.Parse(newPacket(0))
	l, ok := msg.(Location)
	if !ok {
		t.Fatalf("Expected Location got %T\n", msg)
	}

	if l.NSat != 9 || !l.Locked || l.Connected {
		t.Fatalf("bad flags: %s\n", l)
	}
	if l.Altitude != -4096 {
		t.Fatalf("Expected 16 bit altitude -4096 got %d\n", l.Altitude)
	}
	if l.Latitude != 403456789 || l.Longitude != -1051234567 {
		t.Fatalf("bad position: %s\n", l)
	}
	if math.Abs(l.LatitudeDeg()-40.3456789) > 1e-9 || math.Abs(l.LongitudeDeg()+105.1234567) > 1e-9 {
		t.Fatalf("bad degrees: %f %f\n", l.LatitudeDeg(), l.LongitudeDeg())
	}
	if l.Year != 24 || l.Month != 6 || l.Day != 15 || l.Hour != 18 || l.Minute != 30 || l.Second != 45 {
		t.Fatalf("bad timestamp: %s\n", l)
	}
	if l.PDOP != 12 || l.HDOP != 9 || l.VDOP != 15 {
		t.Fatalf("bad dilution: %s\n", l)
	}
	if l.GroundSpeed != 340 || l.ClimbRate != -200 || l.Course != 90 {
		t.Fatalf("bad velocity: %s\n", l)
	}
}

func TestExtendedAltitude(t *testing.T) {
	l := New(parse.NewData(newPacket(1))).(Location)

	if want := int32(0x1F000); l.Altitude != want {
		t.Fatalf("Expected altitude %d got %d\n", want, l.Altitude)
	}

	buf := newPacket(1)
	buf[31] = 0xFF
	l = New(parse.NewData(buf)).(Location)

	if want := int32(-0x1000); l.Altitude != want {
		t.Fatalf("Expected altitude %d got %d\n", want, l.Altitude)
	}
}
