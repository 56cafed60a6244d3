package main

import (
	"io"
	"math/rand"
	"sort"

	"github.com/klawil/gnuradio-rocket-tracker/bitstream"
	"github.com/klawil/gnuradio-rocket-tracker/gen"
	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

// Generate writes count reference packets, cycling through every registered
// type code, with each transmitted bit flipped with probability ber. The
// output feeds -input for testing decoding over a lossy channel.
func Generate(w io.Writer, format bitstream.Format, count int, ber float64, seed int64) error {
	r := rand.New(rand.NewSource(seed))

	var codes []uint8
	for code := range parse.Registered() {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	bw := bitstream.NewWriter(w, format)
	for idx := 0; idx < count; idx++ {
		bits := gen.Packet(32, gen.NewRandMessage(r, codes[idx%len(codes)]))

		if ber > 0 {
			for bit := range bits {
				if r.Float64() < ber {
					bits[bit] ^= 1
				}
			}
		}

		if _, err := bw.Write(bits); err != nil {
			return err
		}
	}

	return bw.Flush()
}
