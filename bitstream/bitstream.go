// Package bitstream reads and writes demodulated bit streams. Every format is
// normalized to a stream of symbols: one byte per bit holding 0 or 1, or the
// Resync marker where the demodulator reported a loss of lock.
package bitstream

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Resync marks a loss of lock in a symbol stream.
const Resync byte = 0xFF

type Format int

const (
	// One byte per bit as written by GNU Radio's unpacked file sinks. Only
	// the least significant bit is used, 0xFF is a resync marker.
	Byte Format = iota

	// Characters '0' and '1', '|' is a resync marker. Anything else is
	// ignored so streams may be wrapped or annotated with whitespace.
	ASCII

	// Eight bits per byte, most significant first. Cannot carry markers.
	Packed
)

var formatNames = map[Format]string{
	Byte:   "byte",
	ASCII:  "ascii",
	Packed: "packed",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(s)
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return 0, errors.Errorf("invalid bitstream format: %q", s)
}

// expand appends the symbols carried by a single input byte to dst.
func (f Format) expand(dst []byte, b byte) []byte {
	switch f {
	case Byte:
		if b == Resync {
			return append(dst, Resync)
		}
		return append(dst, b&1)
	case ASCII:
		switch b {
		case '0', '1':
			return append(dst, b-'0')
		case '|':
			return append(dst, Resync)
		}
		return dst
	case Packed:
		for bit := 7; bit >= 0; bit-- {
			dst = append(dst, (b>>uint(bit))&1)
		}
	}
	return dst
}

// Reader converts an encoded bit stream into symbols.
type Reader struct {
	br      *bufio.Reader
	format  Format
	buf     []byte
	pending []byte
}

func NewReader(r io.Reader, format Format) *Reader {
	return &Reader{
		br:     bufio.NewReader(r),
		format: format,
		buf:    make([]byte, 0, 8),
	}
}

func (r *Reader) Format() Format {
	return r.format
}

// Read fills p with symbols. It returns early rather than block once at least
// one symbol is available, so live sources are decoded as they arrive.
func (r *Reader) Read(p []byte) (n int, err error) {
	for n < len(p) {
		if len(r.pending) > 0 {
			c := copy(p[n:], r.pending)
			r.pending = r.pending[c:]
			n += c
			continue
		}

		if n > 0 && r.br.Buffered() == 0 {
			return n, nil
		}

		b, err := r.br.ReadByte()
		if err == io.EOF {
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		if err != nil {
			return n, errors.Wrap(err, "read bitstream")
		}

		r.pending = r.format.expand(r.buf[:0], b)
	}

	return n, nil
}

// Writer encodes symbols in one of the stream formats.
type Writer struct {
	bw     *bufio.Writer
	format Format

	// Partial byte for the packed format.
	acc  byte
	bits int
}

func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{bw: bufio.NewWriter(w), format: format}
}

// Write encodes each symbol of p. Resync markers can't be represented in the
// packed format and are rejected.
func (w *Writer) Write(p []byte) (n int, err error) {
	for n = range p {
		sym := p[n]

		switch w.format {
		case Byte:
			err = w.bw.WriteByte(sym)
		case ASCII:
			c := byte('0' + sym&1)
			if sym == Resync {
				c = '|'
			}
			err = w.bw.WriteByte(c)
		case Packed:
			if sym == Resync {
				return n, errors.New("packed bitstream cannot carry resync markers")
			}
			w.acc = w.acc<<1 | sym&1
			w.bits++
			if w.bits == 8 {
				err = w.bw.WriteByte(w.acc)
				w.acc, w.bits = 0, 0
			}
		default:
			return n, errors.Errorf("invalid bitstream format: %d", w.format)
		}

		if err != nil {
			return n, errors.Wrap(err, "write bitstream")
		}
	}

	return len(p), nil
}

// Flush writes any buffered data. A trailing partial byte of the packed
// format is padded with zeros.
func (w *Writer) Flush() error {
	if w.format == Packed && w.bits > 0 {
		if err := w.bw.WriteByte(w.acc << uint(8-w.bits)); err != nil {
			return errors.Wrap(err, "write bitstream")
		}
		w.acc, w.bits = 0, 0
	}
	return errors.Wrap(w.bw.Flush(), "flush bitstream")
}
