package biff

import "sort"

// Cursor reads the fields of one logical record. It embeds a Reader over
// the merged payload, so every typed read advances by its exact width and
// the first failure is sticky.
type Cursor struct {
	Reader
	src *BytesReader
	p   Payload
}

// NewCursor returns a cursor at offset 0 of p.
func NewCursor(p Payload) *Cursor {
	src := NewBytesReader(p.Data)
	return &Cursor{Reader: Reader{r: src}, src: src, p: p}
}

// NewCursorBytes returns a cursor over data with no continuation breaks.
func NewCursorBytes(sid uint16, data []byte) *Cursor {
	return NewCursor(Payload{Sid: sid, Data: data})
}

func (c *Cursor) Sid() uint16         { return c.p.Sid }
func (c *Cursor) Payload() Payload    { return c.p }
func (c *Cursor) Offset() int         { return c.src.N }
func (c *Cursor) Len() int            { return len(c.src.B) }
func (c *Cursor) Remaining() int      { return max(len(c.src.B)-c.src.N, 0) }
func (c *Cursor) StreamOffset() int64 { return c.p.Offset }

// Fail latches err unless an earlier error is already latched.
func (c *Cursor) Fail(err error) { c.setError(err) }

// ReadBytes reads n bytes. It checks the remaining length first, so a
// corrupt count never allocates more than the payload holds.
func (c *Cursor) ReadBytes(n int) []byte {
	if c.err != nil || n <= 0 {
		return nil
	}
	if n > c.Remaining() {
		c.setError(ErrOutOfData)
		return nil
	}
	return c.Reader.ReadBytes(n)
}

// ReadRest reads every remaining byte.
func (c *Cursor) ReadRest() []byte {
	if c.err != nil {
		return nil
	}
	return c.ReadBytes(c.Remaining())
}

// Skip discards n bytes.
func (c *Cursor) Skip(n int) {
	if c.err != nil || n <= 0 {
		return
	}
	if n > c.Remaining() {
		c.setError(ErrOutOfData)
		return
	}
	c.src.N += n
	c.count += int64(n)
}

// U8, U16 and friends are value-returning forms of the typed reads.
func (c *Cursor) U8() uint8 {
	var v uint8
	c.ReadUint8(&v)
	return v
}

func (c *Cursor) U16() uint16 {
	var v uint16
	c.ReadUint16(&v)
	return v
}

func (c *Cursor) U32() uint32 {
	var v uint32
	c.ReadUint32(&v)
	return v
}

func (c *Cursor) I16() int16 {
	var v int16
	c.ReadInt16(&v)
	return v
}

func (c *Cursor) I32() int32 {
	var v int32
	c.ReadInt32(&v)
	return v
}

func (c *Cursor) F64() float64 {
	var v float64
	c.ReadFloat64(&v)
	return v
}

// nextBreak returns the first continuation boundary at or after the
// current offset, or -1.
func (c *Cursor) nextBreak() int {
	br := c.p.Breaks
	i := sort.SearchInts(br, c.src.N)
	if i == len(br) {
		return -1
	}
	return br[i]
}
