package biff

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/oy3o/biff/internal/options"
)

const (
	// HeaderSize is the size of sid plus length.
	HeaderSize = 4
	// MaxRecordLength is the largest physical payload a reader accepts.
	MaxRecordLength = 8228
	// MaxDataSize is the largest physical payload the writer emits.
	MaxDataSize = 8224
	// SidContinue marks a record that extends the previous one.
	SidContinue uint16 = 0x003C
)

// Payload is one logical record: a primary record merged with the
// CONTINUE records that follow it.
type Payload struct {
	Sid    uint16
	Offset int64  // stream offset of the primary header
	Data   []byte // concatenated payloads
	// Breaks holds the offsets in Data where a CONTINUE payload begins.
	Breaks []int
}

// PhysicalSize returns the number of stream bytes the payload occupied.
func (p Payload) PhysicalSize() int {
	return HeaderSize*(1+len(p.Breaks)) + len(p.Data)
}

// Body returns the payload in the shape RecordWriter re-splits identically.
func (p Payload) Body() Body {
	return Body{Data: p.Data, Breaks: p.Breaks}
}

// RecordReader splits a stream into logical records.
type RecordReader struct {
	r      *Reader
	logger *slog.Logger
	last   uint16 // sid of the previous primary record
	err    error
}

// ReaderOption configures a RecordReader.
type ReaderOption = options.Option[*RecordReader]

// WithReaderLogger sets the logger for framing events.
func WithReaderLogger(l *slog.Logger) ReaderOption {
	return options.NoError(func(rr *RecordReader) {
		if l != nil {
			rr.logger = l
		}
	})
}

// NewRecordReader creates a RecordReader over src, which must be
// positioned at a record boundary.
func NewRecordReader(src io.Reader, opts ...ReaderOption) (*RecordReader, error) {
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	rr := &RecordReader{r: r, logger: DiscardLogger()}
	if err := options.Apply(rr, opts...); err != nil {
		return nil, err
	}
	return rr, nil
}

// Offset returns the number of stream bytes consumed so far.
func (rr *RecordReader) Offset() int64 { return rr.r.Count() }

// Next returns the next logical record. It returns io.EOF at a clean end
// of stream. Any other error wraps ErrFraming and is sticky.
func (rr *RecordReader) Next() (Payload, error) {
	if rr.err != nil {
		return Payload{}, rr.err
	}
	p, err := rr.next()
	if err != nil {
		rr.err = err
	}
	return p, err
}

func (rr *RecordReader) next() (Payload, error) {
	offset := rr.r.Count()
	sid, data, err := rr.readPhysical()
	if err != nil {
		return Payload{}, err
	}
	p := Payload{Sid: sid, Offset: offset, Data: data}
	if sid == SidContinue {
		rr.logger.Debug("continue record without primary", "offset", offset, "after", rr.last)
		return p, nil
	}
	rr.last = sid

	for {
		head, _ := rr.r.Peek(2)
		if len(head) < 2 || Order.Uint16(head) != SidContinue {
			return p, nil
		}
		_, more, err := rr.readPhysical()
		if err != nil {
			return Payload{}, err
		}
		p.Breaks = append(p.Breaks, len(p.Data))
		p.Data = append(p.Data, more...)
	}
}

// readPhysical reads one header and its payload.
func (rr *RecordReader) readPhysical() (uint16, []byte, error) {
	offset := rr.r.Count()
	head, err := rr.r.Peek(HeaderSize)
	if len(head) == 0 && (err == io.EOF || err == nil) {
		return 0, nil, io.EOF
	}
	if len(head) < HeaderSize {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %d header bytes at offset %d", ErrTruncatedRecord, len(head), offset)
	}
	var sid, length uint16
	rr.r.ReadUint16(&sid)
	rr.r.ReadUint16(&length)
	if length > MaxRecordLength {
		return 0, nil, fmt.Errorf("%w: sid 0x%04X length %d at offset %d", ErrRecordTooLarge, sid, length, offset)
	}
	data := rr.r.ReadBytes(int(length))
	if err := rr.r.Err(); err != nil {
		if errors.Is(err, ErrOutOfData) {
			return 0, nil, fmt.Errorf("%w: sid 0x%04X length %d at offset %d", ErrTruncatedRecord, sid, length, offset)
		}
		return 0, nil, err
	}
	if data == nil {
		data = []byte{}
	}
	return sid, data, nil
}

// All iterates over the remaining records. Iteration stops after the
// first error, which is yielded once. A clean end of stream is not an error.
func (rr *RecordReader) All() iter.Seq2[Payload, error] {
	return func(yield func(Payload, error) bool) {
		for {
			p, err := rr.Next()
			if err == io.EOF {
				return
			}
			if !yield(p, err) || err != nil {
				return
			}
		}
	}
}
