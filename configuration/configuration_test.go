package configuration

import (
	"encoding/binary"
	"testing"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

func TestConfiguration(t *testing.T) {
	buf := make([]byte, 36)
	binary.LittleEndian.PutUint16(buf[0:], 2048)
	buf[4] = Type
	buf[5] = 0x22
	binary.LittleEndian.PutUint16(buf[6:], 17)
	buf[8], buf[9] = 1, 25
	binary.LittleEndian.PutUint16(buf[10:], 2)
	binary.LittleEndian.PutUint16(buf[12:], 250)
	binary.LittleEndian.PutUint16(buf[14:], 3008)
	copy(buf[16:], "KD2XYZ")
	copy(buf[24:], "1.9.18ab")

	msg := parse.Parse(buf)
	c, ok := msg.(Configuration)
	if !ok {
		t.Fatalf("Expected Configuration got %T\n", msg)
	}

	if c.Serial() != 2048 || c.DeviceType != 0x22 || c.Flight != 17 {
		t.Fatalf("bad identity: %s\n", c)
	}
	if c.ConfigMajor != 1 || c.ConfigMinor != 25 {
		t.Fatalf("bad config version: %s\n", c)
	}
	if c.ApogeeDelay != 2 || c.BatteryVoltage != 2 || c.MainDeploy != 250 || c.FlightLogMax != 3008 {
		t.Fatalf("bad settings: %s\n", c)
	}

	// NUL padding is trimmed, a full width field is kept whole.
	if c.Callsign != "KD2XYZ" {
		t.Fatalf("Expected callsign %q got %q\n", "KD2XYZ", c.Callsign)
	}
	if c.Version != "1.9.18ab" {
		t.Fatalf("Expected version %q got %q\n", "1.9.18ab", c.Version)
	}
}
