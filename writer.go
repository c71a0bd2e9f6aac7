package biff

import (
	"bufio"
	"bytes"
	"io"
	"math"
)

// WriterPro is the sink a Writer pushes to.
type WriterPro interface {
	io.Writer
	io.ByteWriter
	Size() int
	Flush() error
}

// Writer writes the little-endian fields of a record payload. It tracks
// the first error that occurs. After an error, all subsequent write
// operations become no-ops.
type Writer struct {
	w       WriterPro
	count   int64  // total bytes written
	err     error  // first error encountered. Subsequent writes become no-ops.
	spans   []Span // layout hints for the record splitter
	scratch [8]byte
}

var _ WriterPro = (*Writer)(nil)

// NewWriterSize creates a new Writer with a specified buffer size.
// It returns an error to prevent double-buffering, a common source of bugs.
func NewWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}

	switch bw := w.(type) {
	// prevent unpredictable double-buffering.
	case *bufio.Writer:
		if bw.Size() >= size {
			return &Writer{w: &bufioWriterAdapter{bw}}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesWriter:
		return &Writer{w: bw}, nil
	case *bytes.Buffer:
		return &Writer{w: &bytesBufferWriterAdapter{bw}}, nil
	}

	return &Writer{w: &bufioWriterAdapter{bufio.NewWriterSize(w, size)}}, nil
}

// NewWriter creates a new Writer with a default buffer size.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterSize(w, 0)
}

// Write implements the io.Writer interface.
func (w *Writer) Write(buf []byte) (int, error) {
	if buf == nil || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

func (w *Writer) Size() int    { return w.w.Size() }
func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// Mark records a layout hint over the bytes written since start.
func (w *Writer) Mark(kind SpanKind, start int64, wide bool) {
	if w.count > start {
		w.spans = append(w.spans, Span{Start: int(start), End: int(w.count), Kind: kind, Wide: wide})
	}
}

// Spans returns the layout hints recorded so far.
func (w *Writer) Spans() []Span { return w.spans }

// setError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	err := w.w.Flush()
	w.setError(err)
	return err
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(buf []byte) {
	if len(buf) == 0 || w.err != nil {
		return
	}
	_, _ = w.Write(buf)
}

// WriteZeros writes n zero bytes, often for reserved fields.
func (w *Writer) WriteZeros(n int64) {
	if w.err != nil || n <= 0 {
		return
	}
	for n > 0 && w.err == nil {
		chunk := min(n, BUFFER_SIZE)
		w.Write(empty[:chunk])
		n -= chunk
	}
}

func (w *Writer) WriteByte(v byte) error {
	if w.err != nil {
		return w.err
	}
	err := w.w.WriteByte(v)
	if err == nil {
		w.count++
	} else {
		w.err = err
	}
	return err
}

func (w *Writer) WriteUint8(v uint8) {
	_ = w.WriteByte(v)
}

func (w *Writer) WriteUint16(v uint16) {
	if w.err == nil {
		_, _ = w.Write(Order.AppendUint16(w.scratch[:0], v))
	}
}

func (w *Writer) WriteUint32(v uint32) {
	if w.err == nil {
		_, _ = w.Write(Order.AppendUint32(w.scratch[:0], v))
	}
}

func (w *Writer) WriteUint64(v uint64) {
	if w.err == nil {
		_, _ = w.Write(Order.AppendUint64(w.scratch[:0], v))
	}
}

func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}
