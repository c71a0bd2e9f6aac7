package biff

import (
	"bytes"
	"sync"
)

// bytesBufPool reuses buffers for assembling framed records.
// A buffer sized for one full record plus a few continuations covers the
// common case without growth.
var bytesBufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 4*MaxRecordLength))
	},
}

func getBuffer() *bytes.Buffer {
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	// Oversized buffers are dropped so one huge SST does not pin memory.
	if buf.Cap() > 64*MaxRecordLength {
		return
	}
	bytesBufPool.Put(buf)
}
