package biff

import (
	"encoding/binary"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// sizeCache avoids the high performance cost of reflection in `binary.Size`
// on every call. Records are decoded from many goroutines when callers read
// sheets in parallel, so the cache is concurrent-safe.
var sizeCache = xsync.NewMap[reflect.Type, int]()

// FixedSize returns the encoded size of Body, a struct composed only of
// fixed-size fields.
//
// Constraint: Body MUST NOT contain variable-size fields like slices,
// maps, or strings, as this will cause `binary.Size` to fail.
func FixedSize[Body any]() int {
	bodyType := reflect.TypeFor[Body]()

	if size, ok := sizeCache.Load(bodyType); ok {
		return size
	}

	var zero Body
	size := binary.Size(&zero)
	sizeCache.Store(bodyType, size)
	return size
}

// DecodeFixed fills v from the next FixedSize[Body]() bytes of c.
func DecodeFixed[Body any](c *Cursor, v *Body) error {
	buf := c.ReadBytes(FixedSize[Body]())
	if err := c.Err(); err != nil {
		return err
	}
	if _, err := binary.Decode(buf, Order, v); err != nil {
		// binary.Decode only fails with an unexported buffer too small error.
		return ErrTruncatedData
	}
	return nil
}

// EncodeFixed writes v in field order.
func EncodeFixed[Body any](w *Writer, v *Body) {
	if w.err != nil {
		return
	}
	buf, err := binary.Append(make([]byte, 0, FixedSize[Body]()), Order, v)
	if err != nil {
		w.setError(err)
		return
	}
	w.WriteBytes(buf)
}
