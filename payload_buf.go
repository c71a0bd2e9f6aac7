package biff

import "io"

// BytesReader reads a payload held in memory. Cursors read through it so
// Peek and ReadByte never copy.
type BytesReader struct {
	B []byte // payload
	N int    // read position
}

func NewBytesReader(b []byte) *BytesReader { return &BytesReader{B: b} }

func (r *BytesReader) Read(p []byte) (int, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	n := copy(p, r.B[r.N:])
	r.N += n
	return n, nil
}

func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	r.N++
	return r.B[r.N-1], nil
}

// Peek returns up to n unread bytes without advancing.
func (r *BytesReader) Peek(n int) ([]byte, error) {
	rest := r.B[min(r.N, len(r.B)):]
	if len(rest) < n {
		return rest, io.EOF
	}
	return rest[:n], nil
}

// Size returns the payload length.
func (r *BytesReader) Size() int { return len(r.B) }

// BytesWriter encodes a payload into a buffer sized in advance from
// DataSize. It never grows: a write past the end is a short write, which
// means the size a record reported was wrong.
type BytesWriter struct {
	B []byte // destination
	N int    // bytes written
}

func NewBytesWriter(p []byte) *BytesWriter { return &BytesWriter{B: p[:cap(p)]} }

func (w *BytesWriter) Write(p []byte) (int, error) {
	n := copy(w.B[w.N:], p)
	w.N += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

func (w *BytesWriter) WriteByte(c byte) error {
	if w.N >= len(w.B) {
		return io.ErrShortWrite
	}
	w.B[w.N] = c
	w.N++
	return nil
}

func (w *BytesWriter) Flush() error { return nil }
func (w *BytesWriter) Reset()       { w.N = 0 }
func (w *BytesWriter) Len() int     { return w.N }
func (w *BytesWriter) Size() int    { return len(w.B) }

// Bytes returns the encoded bytes.
func (w *BytesWriter) Bytes() []byte { return w.B[:w.N] }
