package biff

import "fmt"

// EncodeBody serializes v into a Body carrying its layout hints.
func EncodeBody[T Serializer](v T) (Body, error) {
	expectedSize := v.DataSize()
	bw := NewBytesWriter(make([]byte, expectedSize))
	w, _ := NewWriter(bw)
	v.Serialize(w)
	if err := w.Err(); err != nil {
		return Body{}, fmt.Errorf("biff: serialize %T: %w", v, err)
	}
	if n := bw.Len(); n != expectedSize {
		return Body{}, fmt.Errorf("%w: %T expected %d bytes, but wrote %d", ErrTruncatedData, v, expectedSize, n)
	}
	return Body{Data: bw.Bytes(), Spans: w.Spans()}, nil
}

// MarshalPayload returns the logical payload of v.
func MarshalPayload[T Serializer](v T) ([]byte, error) {
	body, err := EncodeBody(v)
	return body.Data, err
}
