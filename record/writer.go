package record

import (
	"io"

	"github.com/pkg/errors"

	"github.com/oy3o/biff"
)

// Writer encodes records onto a stream.
type Writer struct {
	rw *biff.RecordWriter
}

// NewWriter creates a Writer on dst. The options configure the framing
// layer.
func NewWriter(dst io.Writer, opts ...biff.WriterOption) (*Writer, error) {
	rw, err := biff.NewRecordWriter(dst, opts...)
	if err != nil {
		return nil, err
	}
	return &Writer{rw: rw}, nil
}

// Write encodes r and frames it, adding CONTINUE records as needed.
func (w *Writer) Write(r Record) error {
	body, err := Encode(r)
	if err != nil {
		return errors.Wrapf(err, "encode sid 0x%04X", r.Sid())
	}
	return w.rw.WriteRecord(r.Sid(), body)
}

// Count returns the bytes written so far.
func (w *Writer) Count() int64 { return w.rw.Count() }

// Flush writes buffered records to the destination.
func (w *Writer) Flush() error { return w.rw.Flush() }

// WriteAll encodes records in order and flushes. It returns the number of
// bytes written.
func WriteAll(dst io.Writer, records []Record, opts ...biff.WriterOption) (int64, error) {
	w, err := NewWriter(dst, opts...)
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return w.Count(), err
		}
	}
	return w.Count(), w.Flush()
}
