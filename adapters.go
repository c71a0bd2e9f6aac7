package biff

import (
	"bufio"
	"bytes"
	"io"
)

type (
	bytesReaderAdapter       struct{ *bytes.Reader }
	bytesBufferReaderAdapter struct{ *bytes.Buffer }
	bytesBufferWriterAdapter struct{ *bytes.Buffer }
	bufioWriterAdapter       struct{ *bufio.Writer }
	bufioReaderAdapter       struct{ *bufio.Reader }
)

func (w *bytesBufferWriterAdapter) Flush() error { return nil }
func (w *bytesBufferWriterAdapter) Size() int    { return w.Available() }
func (r *bytesBufferReaderAdapter) Size() int    { return r.Len() }
func (r *bytesReaderAdapter) Size() int          { return int(r.Reader.Size()) }

// Peek reads ahead with ReadAt so the reader's offset is untouched.
func (r *bytesReaderAdapter) Peek(n int) ([]byte, error) {
	pos := r.Reader.Size() - int64(r.Reader.Len())
	buf := make([]byte, n)
	read, err := r.Reader.ReadAt(buf, pos)
	return buf[:read], err
}

// Peek returns the unread prefix of the buffer.
func (r *bytesBufferReaderAdapter) Peek(n int) ([]byte, error) {
	b := r.Buffer.Bytes()
	if len(b) < n {
		return b, io.EOF
	}
	return b[:n], nil
}

// Size returns the size of the underlying buffer.
func (b *bufioReaderAdapter) Size() int {
	return b.Reader.Size()
}
