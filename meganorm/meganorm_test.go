package meganorm

import (
	"encoding/binary"
	"testing"

	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

func TestMegaNorm(t *testing.T) {
	for _, typ := range []uint8{MPU6000, BMI088} {
		buf := make([]byte, 36)
		buf[4] = typ
		buf[5] = 0x05
		binary.LittleEndian.PutUint16(buf[6:], 1950)
		binary.LittleEndian.PutUint32(buf[8:], 77000)
		binary.LittleEndian.PutUint16(buf[12:], 1875)
		for offset := 14; offset < 32; offset += 2 {
			binary.LittleEndian.PutUint16(buf[offset:], uint16(-offset))
		}

		msg := parse.Parse(buf)
		m, ok := msg.(MegaNorm)
		if !ok {
			t.Fatalf("0x%02X: Expected MegaNorm got %T\n", typ, msg)
		}

		if m.Orient != 5 || m.Accel != 1950 || m.Pressure != 77000 || m.Temperature != 18.75 {
			t.Fatalf("0x%02X: bad common fields: %s\n", typ, m)
		}

		axes := []int16{
			m.AccelAlong, m.AccelAcross, m.AccelThrough,
			m.GyroRoll, m.GyroPitch, m.GyroYaw,
			m.MagAlong, m.MagAcross, m.MagThrough,
		}
		for idx, v := range axes {
			if want := -int16(14 + idx*2); v != want {
				t.Fatalf("0x%02X: axis %d: Expected %d got %d\n", typ, idx, want, v)
			}
		}
	}
}
