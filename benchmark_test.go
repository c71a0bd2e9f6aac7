package biff

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

type BenchmarkPayload struct {
	Row, Col uint16
	XF       uint16
	Value    float64
	Options  uint16
	Chn      uint32
}

func BenchmarkEncodeFixed(b *testing.B) {
	p := BenchmarkPayload{Row: 1, Col: 2, Value: 100}
	buf := make([]byte, FixedSize[BenchmarkPayload]())
	bw := NewBytesWriter(buf)
	w, _ := NewWriter(bw)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bw.Reset()
		EncodeFixed(w, &p)
	}
}

func BenchmarkDecodeFixed(b *testing.B) {
	data, _ := binary.Append(nil, Order, &BenchmarkPayload{Row: 1, Col: 2, Value: 100})
	var p BenchmarkPayload
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = DecodeFixed(NewCursorBytes(0x0006, data), &p)
	}
}

// Baseline comparison using only binary.Write directly, to see overhead of the wrapper
func BenchmarkStandardBinaryWrite(b *testing.B) {
	payload := BenchmarkPayload{Row: 1, Col: 2, Value: 100}
	buf := make([]byte, binary.Size(payload))
	w := NewBytesWriter(buf)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Reset()
		_ = binary.Write(w, Order, &payload)
	}
}

func BenchmarkReadLargeRecord(b *testing.B) {
	var stream []byte
	stream = AppendRecord(stream, 0x00FC, Body{Data: make([]byte, 5*MaxDataSize)}, MaxDataSize)
	b.SetBytes(int64(len(stream)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr, _ := NewRecordReader(bytes.NewReader(stream))
		_, _ = rr.Next()
	}
}

func BenchmarkReadChars(b *testing.B) {
	data := bytes.Repeat([]byte("Rate_Date "), 800)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewCursorBytes(0x00FC, data).ReadChars(len(data), false)
	}
}

func BenchmarkWriteRecord(b *testing.B) {
	rw, _ := NewRecordWriter(io.Discard)
	body := Body{Data: make([]byte, 3*MaxDataSize+17)}
	b.SetBytes(int64(len(body.Data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rw.WriteRecord(0x00FC, body)
	}
}
