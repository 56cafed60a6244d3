package metrum

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

const epsilon = 1e-9

func TestSensor(t *testing.T) {
	buf := make([]byte, 36)
	buf[4] = SensorType
	buf[5] = 4
	binary.LittleEndian.PutUint16(buf[6:], 1800)
	binary.LittleEndian.PutUint32(buf[8:], 98000)
	binary.LittleEndian.PutUint16(buf[12:], uint16(0xFF9C)) // -100
	binary.LittleEndian.PutUint16(buf[14:], 40)
	binary.LittleEndian.PutUint16(buf[16:], uint16(0xFFF8)) // -8
	binary.LittleEndian.PutUint16(buf[18:], 500)
	binary.LittleEndian.PutUint16(buf[20:], 3000)
	binary.LittleEndian.PutUint16(buf[22:], 2000)
	binary.LittleEndian.PutUint16(buf[24:], 0)

	msg := parse.Parse(buf)
	s, ok := msg.(Sensor)
	if !ok {
		t.Fatalf("Expected Sensor got %T\n", msg)
	}

	if s.State != 4 || s.Accel != 1800 || s.Pressure != 98000 || s.Temperature != -1.0 {
		t.Fatalf("bad sensor fields: %s\n", s)
	}
	if s.Acceleration != 2.5 || s.Speed != -0.5 || s.Height != 500 {
		t.Fatalf("bad kinematics: %s\n", s)
	}
	if math.Abs(s.VBatt-3.771428571428571) > epsilon || math.Abs(s.SenseA-7.581060914394247) > epsilon || s.SenseM != 0 {
		t.Fatalf("bad voltages: %s\n", s)
	}
}

func TestData(t *testing.T) {
	buf := make([]byte, 36)
	buf[4] = DataType
	binary.LittleEndian.PutUint32(buf[8:], 85000)
	binary.LittleEndian.PutUint16(buf[12:], 1490)
	binary.LittleEndian.PutUint16(buf[14:], 1510)
	binary.LittleEndian.PutUint16(buf[16:], uint16(0xFA1A)) // -1510

	msg := parse.Parse(buf)
	d, ok := msg.(Data)
	if !ok {
		t.Fatalf("Expected Data got %T\n", msg)
	}

	if d.GroundPressure != 85000 || d.GroundAccel != 1490 || d.AccelPlusG != 1510 || d.AccelMinusG != -1510 {
		t.Fatalf("bad calibration: %s\n", d)
	}
}
