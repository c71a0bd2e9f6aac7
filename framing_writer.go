package biff

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/oy3o/biff/internal/options"
)

// SpanKind tells the splitter how a region of a Body may be divided.
type SpanKind uint8

const (
	// SpanAtomic regions are never divided. A short record is emitted
	// instead.
	SpanAtomic SpanKind = iota + 1
	// SpanChars regions hold string characters. They are divided only on
	// character boundaries, and every CONTINUE that starts inside one
	// begins with a fresh option flag byte.
	SpanChars
)

// Span is a layout hint over Body.Data[Start:End].
type Span struct {
	Start, End int
	Kind       SpanKind
	Wide       bool // two bytes per character, SpanChars only
}

// Body is a logical payload plus the hints needed to split it.
type Body struct {
	Data []byte
	// Breaks forces a CONTINUE at each offset. Opaque records keep the
	// breaks they were read with.
	Breaks []int
	// Spans must be ordered and non-overlapping.
	Spans []Span
}

// Validate checks that the hints lie inside the payload and are ordered.
func (b Body) Validate() error {
	prev := 0
	for _, br := range b.Breaks {
		if br < prev || br > len(b.Data) {
			return fmt.Errorf("%w: break %d", ErrBadSpan, br)
		}
		prev = br
	}
	prev = 0
	for _, s := range b.Spans {
		if s.Start < prev || s.End < s.Start || s.End > len(b.Data) {
			return fmt.Errorf("%w: [%d,%d)", ErrBadSpan, s.Start, s.End)
		}
		prev = s.End
	}
	return nil
}

// Split divides a body into physical payloads of at most max bytes. The
// first chunk belongs to the primary record, the rest to CONTINUE records.
// An empty body yields one empty chunk. Every explicit break starts a new
// chunk, even an empty one.
func Split(b Body, max int) [][]byte {
	sp := splitter{body: b, max: max}
	lo := 0
	for _, hi := range b.Breaks {
		sp.splitRange(lo, hi)
		lo = hi
	}
	sp.splitRange(lo, len(b.Data))
	return sp.chunks
}

type splitter struct {
	body   Body
	max    int
	si     int // first span that may still contain a chunk start
	chunks [][]byte
}

// splitRange emits Data[lo:hi] as one or more chunks.
func (sp *splitter) splitRange(lo, hi int) {
	data, spans := sp.body.Data, sp.body.Spans
	start := lo
	for {
		for sp.si < len(spans) && spans[sp.si].End <= start {
			sp.si++
		}

		var flag []byte
		capacity := sp.max
		if len(sp.chunks) > 0 && sp.si < len(spans) {
			if s := spans[sp.si]; s.Kind == SpanChars && s.Start <= start {
				flag = []byte{0}
				if s.Wide {
					flag[0] = 1
				}
				capacity--
			}
		}

		end := min(start+capacity, hi)
		if end < hi {
			end = alignEnd(spans[sp.si:], start, end)
		}

		chunk := make([]byte, 0, len(flag)+end-start)
		chunk = append(chunk, flag...)
		chunk = append(chunk, data[start:end]...)
		sp.chunks = append(sp.chunks, chunk)
		start = end
		if start >= hi {
			return
		}
	}
}

// alignEnd moves a chunk end off the inside of an atomic span or a
// character. The end never moves to or before start.
func alignEnd(spans []Span, start, end int) int {
	for _, s := range spans {
		if s.Start >= end {
			break
		}
		if end >= s.End {
			continue
		}
		switch s.Kind {
		case SpanAtomic:
			if s.Start > start && end > s.Start {
				return s.Start
			}
		case SpanChars:
			if s.Wide {
				aligned := s.Start + (end-s.Start)&^1
				if aligned > start {
					return aligned
				}
			}
		}
		return end
	}
	return end
}

// RecordWriter frames logical payloads into records.
type RecordWriter struct {
	w       *Writer
	maxData int
	logger  *slog.Logger
}

// WriterOption configures a RecordWriter.
type WriterOption = options.Option[*RecordWriter]

// WithMaxDataSize sets the largest physical payload. Values from 16 up to
// MaxRecordLength are accepted.
func WithMaxDataSize(n int) WriterOption {
	return options.New(func(rw *RecordWriter) error {
		if n < 16 || n > MaxRecordLength {
			return fmt.Errorf("%w: %d", ErrInvalidMaxDataSize, n)
		}
		rw.maxData = n
		return nil
	})
}

// WithWriterLogger sets the logger for framing events.
func WithWriterLogger(l *slog.Logger) WriterOption {
	return options.NoError(func(rw *RecordWriter) {
		if l != nil {
			rw.logger = l
		}
	})
}

// NewRecordWriter creates a RecordWriter on dst.
func NewRecordWriter(dst io.Writer, opts ...WriterOption) (*RecordWriter, error) {
	w, err := NewWriter(dst)
	if err != nil {
		return nil, err
	}
	rw := &RecordWriter{w: w, maxData: MaxDataSize, logger: DiscardLogger()}
	if err := options.Apply(rw, opts...); err != nil {
		return nil, err
	}
	return rw, nil
}

// MaxData returns the configured physical payload limit.
func (rw *RecordWriter) MaxData() int { return rw.maxData }

// WriteRecord emits sid with body, followed by as many CONTINUE records as
// the body needs.
func (rw *RecordWriter) WriteRecord(sid uint16, body Body) error {
	if err := body.Validate(); err != nil {
		return err
	}
	chunks := Split(body, rw.maxData)
	if len(chunks) > 1 {
		rw.logger.Debug("record split", "sid", sid, "size", len(body.Data), "continues", len(chunks)-1)
	}
	buf := getBuffer()
	defer putBuffer(buf)
	framed := buf.AvailableBuffer()
	for i, chunk := range chunks {
		id := sid
		if i > 0 {
			id = SidContinue
		}
		framed = appendChunk(framed, id, chunk)
	}
	rw.w.WriteBytes(framed)
	return rw.w.Err()
}

// Count returns the bytes written so far, including buffered bytes.
func (rw *RecordWriter) Count() int64 { return rw.w.Count() }

// Flush writes buffered records to the destination.
func (rw *RecordWriter) Flush() error { return rw.w.Flush() }

// FrameSize returns the stream size of body once split with max.
func FrameSize(body Body, max int) int {
	n := 0
	for _, c := range Split(body, max) {
		n += HeaderSize + len(c)
	}
	return n
}

// AppendRecord appends the framed form of body to dst.
func AppendRecord(dst []byte, sid uint16, body Body, max int) []byte {
	for i, chunk := range Split(body, max) {
		id := sid
		if i > 0 {
			id = SidContinue
		}
		dst = appendChunk(dst, id, chunk)
	}
	return dst
}

func appendChunk(dst []byte, sid uint16, chunk []byte) []byte {
	dst = Order.AppendUint16(dst, sid)
	dst = Order.AppendUint16(dst, uint16(len(chunk)))
	return append(dst, chunk...)
}
