package csv

import (
	"encoding/csv"
	"io"

	"golang.org/x/xerrors"
)

// Produces a list of fields making up a record.
type Recorder interface {
	Record() []string
}

// An Encoder writes CSV records to an output stream.
type Encoder struct {
	w *csv.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: csv.NewWriter(w)}
}

// Encode writes a CSV record representing v to the stream and flushes it, so
// records from a long running receiver are visible as they arrive. Value
// given must implement the Recorder interface; a nil or non-Recorder value is
// reported as an error rather than a panic.
func (enc *Encoder) Encode(v interface{}) (err error) {
	defer func() {
		if r, ok := recover().(error); ok {
			err = xerrors.Errorf("recovered: %w", r)
		}
	}()

	if err = enc.w.Write(v.(Recorder).Record()); err != nil {
		return xerrors.Errorf("write record: %w", err)
	}

	enc.w.Flush()
	if err = enc.w.Error(); err != nil {
		return xerrors.Errorf("flush record: %w", err)
	}

	return nil
}
