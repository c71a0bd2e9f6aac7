package biff

import (
	"bufio"
	"bytes"
	"io"
	"math"
)

// ReaderPro is the source a Reader pulls from: a byte stream that can
// report its buffer size and look ahead without consuming.
type ReaderPro interface {
	io.Reader
	io.ByteReader
	Peek(n int) ([]byte, error)
	Size() int
}

// Reader reads the little-endian fields of a record stream. It tracks the
// first error. Subsequent reads become no-ops.
type Reader struct {
	r     ReaderPro
	count int64 // total bytes read
	err   error // first error encountered.
}

var _ ReaderPro = (*Reader)(nil)

// NewReaderSize creates a new Reader with a specified buffer size.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	// Reuse the underlying buffer if it's already a compatible Reader.
	case *Reader:
		if reader.r.Size() >= size {
			return &Reader{r: reader.r}, nil
		}

	// prevent unpredictable double-buffering.
	case *bufio.Reader:
		if reader.Size() >= size {
			return &Reader{r: &bufioReaderAdapter{Reader: reader}}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesReader:
		return &Reader{r: reader}, nil
	case *bytes.Reader:
		return &Reader{r: &bytesReaderAdapter{reader}}, nil
	case *bytes.Buffer:
		return &Reader{r: &bytesBufferReaderAdapter{reader}}, nil
	}

	if size == 0 {
		size = CHUNK_SIZE
	}
	if size < 16 {
		return nil, ErrSizeTooSmall
	}

	return &Reader{r: &bufioReaderAdapter{Reader: bufio.NewReaderSize(r, size)}}, nil
}

// NewReader creates a new Reader with a default buffer size.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, 0)
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

// Peek returns the next n bytes without advancing. Fewer bytes are returned
// together with io.EOF at the end of the stream. Peek does not latch errors.
func (r *Reader) Peek(n int) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.r.Peek(n)
}

func (r *Reader) Size() int    { return r.r.Size() }
func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// readFull is an internal helper to read an exact number of bytes.
func (r *Reader) readFull(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// A short typed read is a malformed payload, not a clean end.
			r.err = ErrOutOfData
		} else {
			r.err = err
		}
		return nil
	}
	return buf
}

// readByte reads one byte, mapping a clean EOF to ErrOutOfData.
func (r *Reader) readByte() (byte, bool) {
	if r.err != nil {
		return 0, false
	}
	b, err := r.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = ErrOutOfData
		}
		r.err = err
		return 0, false
	}
	r.count++
	return b, true
}

// ReadBytes reads n bytes and returns a new byte slice.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return r.readFull(n)
}

func (r *Reader) ReadBytesTo(dest []byte) {
	if r.err != nil || len(dest) == 0 {
		return
	}
	if _, err := io.ReadFull(r, dest); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = ErrOutOfData
		}
		r.err = err
	}
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) {
	if r.err != nil || n <= 0 {
		return
	}
	if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = ErrOutOfData
		}
		r.err = err
	}
}

// Typed reads leave dest untouched once an error is latched.

func (r *Reader) ReadByte() (byte, error) {
	b, _ := r.readByte()
	return b, r.err
}

func (r *Reader) ReadUint8(dest *uint8) {
	if b, ok := r.readByte(); ok {
		*dest = b
	}
}

func (r *Reader) ReadUint16(dest *uint16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = Order.Uint16(buf)
	}
}

func (r *Reader) ReadUint32(dest *uint32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = Order.Uint32(buf)
	}
}

func (r *Reader) ReadUint64(dest *uint64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = Order.Uint64(buf)
	}
}

func (r *Reader) ReadInt16(dest *int16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = int16(Order.Uint16(buf))
	}
}

func (r *Reader) ReadInt32(dest *int32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = int32(Order.Uint32(buf))
	}
}

func (r *Reader) ReadFloat64(dest *float64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = math.Float64frombits(Order.Uint64(buf))
	}
}
