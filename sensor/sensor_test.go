package sensor

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const epsilon = 1e-9

func put16(buf []byte, offset int, v int16) {
	binary.LittleEndian.PutUint16(buf[offset:], uint16(v))
}

func newPacket(typ uint8) []byte {
	buf := make([]byte, 36)
	binary.LittleEndian.PutUint16(buf[0:], 4321)
	binary.LittleEndian.PutUint16(buf[2:], 1500)
	buf[4] = typ
	buf[5] = 3

	put16(buf, 6, -120)
	put16(buf, 8, 20000)
	put16(buf, 10, 24000)
	put16(buf, 14, 16000)
	put16(buf, 16, 32767)
	put16(buf, 18, 256)
	put16(buf, 20, -32)
	put16(buf, 22, 1200)
	put16(buf, 24, 20100)
	put16(buf, 26, 1234)
	put16(buf, 28, 1900)
	put16(buf, 30, -1900)

	return buf
}

func TestTeleMetrum(t *testing.T) {
	msg := parse.Parse(newPacket(TeleMetrum))

	s, ok := msg.(Sensor)
	if !ok {
		t.Fatalf("Expected Sensor got %T\n", msg)
	}

	if s.Serial() != 4321 || s.RocketTime() != 1500 || s.TypeCode() != TeleMetrum {
		t.Fatalf("bad header: %+v\n", s.Header)
	}

	if s.State != 3 || s.Accel != -120 || s.GroundAccel != 1234 || s.AccelPlusG != 1900 || s.AccelMinusG != -1900 {
		t.Fatalf("bad accelerometer fields: %s\n", s)
	}

	floats := []struct {
		name      string
		got, want float64
	}{
		{"pressure", s.Pressure, 78405.5257015687},
		{"ground pressure", s.GroundPressure, 78744.77555229876},
		{"temperature", s.Temperature, 65.07959854603321},
		{"apogee", s.Apogee, 7.324442274239326},
		{"main", s.Main, 15.0},
	}
	for _, f := range floats {
		if math.Abs(f.got-f.want) > epsilon {
			t.Errorf("%s: Expected %v got %v\n", f.name, f.want, f.got)
		}
	}

	if s.Acceleration != 256 || s.Speed != -32 || s.Height != 1200 {
		t.Fatalf("bad kinematics: %s\n", s)
	}
}

func TestTeleMini(t *testing.T) {
	s := New(parse.NewData(newPacket(TeleMini))).(Sensor)

	if s.HasAccel() || s.Accel != 0 || s.GroundAccel != 0 {
		t.Fatalf("TeleMini should not carry accelerometer fields: %s\n", s)
	}
	if !s.HasContinuity() || s.Main != 15.0 {
		t.Fatalf("TeleMini should carry continuity: %s\n", s)
	}
}

func TestTeleNano(t *testing.T) {
	s := New(parse.NewData(newPacket(TeleNano))).(Sensor)

	if s.HasContinuity() || s.Apogee != 0 || s.Main != 0 {
		t.Fatalf("TeleNano should not carry continuity: %s\n", s)
	}
	if s.Height != 1200 {
		t.Fatalf("Expected height 1200 got %d\n", s.Height)
	}
}

func TestRecord(t *testing.T) {
	s := New(parse.NewData(newPacket(TeleMetrum))).(Sensor)

	r := s.Record()
	if len(r) != 16 {
		t.Fatalf("Expected 16 fields got %d: %q\n", len(r), r)
	}
	if r[0] != "4321" || r[2] != "1" {
		t.Fatalf("bad header fields: %q\n", r)
	}
}

// Offset 24 belongs to GroundPressure. GroundAccel is the word at 26 and must
// not be decoded from the same bytes as the pressure.
func TestGroundAccelOffset(t *testing.T) {
	buf := newPacket(TeleMetrum)
	put16(buf, 24, 0x1111)
	put16(buf, 26, 0x2222)

	s := New(parse.NewData(buf)).(Sensor)
	if s.GroundAccel != 0x2222 {
		t.Fatalf("Expected GroundAccel 0x2222 got 0x%04X\n", s.GroundAccel)
	}
	if math.Abs(s.GroundPressure-parse.BarometerPressure(0x1111)) > epsilon {
		t.Fatalf("GroundPressure not decoded from offset 24: %v\n", s.GroundPressure)
	}
}
