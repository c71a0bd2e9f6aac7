package record

import (
	"github.com/pkg/errors"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/internal/hash"
)

// SST is the shared string table. String cells refer to its entries by
// index. Large tables span CONTINUE records; a string whose characters
// cross a boundary resumes after a fresh option byte.
type SST struct {
	// Total counts every string cell in the workbook, repeats included.
	Total   uint32
	Strings []biff.UnicodeString

	index   map[uint64][]int
	indexed int
}

func (r *SST) Sid() uint16 { return SidSST }

// Len returns the number of unique strings.
func (r *SST) Len() int { return len(r.Strings) }

// String returns the entry at i.
func (r *SST) String(i int) biff.UnicodeString { return r.Strings[i] }

// AddString counts one more use of s and returns its index, appending it
// if no equal string is stored yet. Equal means same text, runs and
// phonetic data.
func (r *SST) AddString(s biff.UnicodeString) int {
	r.Total++
	if i, ok := r.Find(s); ok {
		return i
	}
	r.Strings = append(r.Strings, s)
	i := len(r.Strings) - 1
	key := hash.ID(s.Key())
	r.index[key] = append(r.index[key], i)
	r.indexed = len(r.Strings)
	return i
}

// Find returns the index of a string equal to s.
func (r *SST) Find(s biff.UnicodeString) (int, bool) {
	r.reindex()
	key := s.Key()
	for _, i := range r.index[hash.ID(key)] {
		if r.Strings[i].Key() == key {
			return i, true
		}
	}
	return 0, false
}

// reindex catches the index up with strings appended directly.
func (r *SST) reindex() {
	if r.index == nil || r.indexed > len(r.Strings) {
		r.index = make(map[uint64][]int, len(r.Strings))
		r.indexed = 0
	}
	for i := r.indexed; i < len(r.Strings); i++ {
		key := hash.ID(r.Strings[i].Key())
		r.index[key] = append(r.index[key], i)
	}
	r.indexed = len(r.Strings)
}

func (r *SST) DataSize() int {
	n := 8
	for _, s := range r.Strings {
		n += s.DataSize()
	}
	return n
}

func (r *SST) Serialize(w *biff.Writer) {
	w.WriteUint32(r.Total)
	w.WriteUint32(uint32(len(r.Strings)))
	for _, s := range r.Strings {
		w.WriteUnicodeString(s)
	}
}

func decodeSST(c *biff.Cursor) (Record, error) {
	r := &SST{Total: c.U32()}
	unique := c.U32()
	if err := c.Err(); err != nil {
		return nil, err
	}
	// every string takes at least three bytes
	if int64(unique)*3 > int64(c.Remaining()) {
		return nil, errors.Wrapf(ErrBadLength, "%d unique strings in %d bytes", unique, c.Remaining())
	}
	r.Strings = make([]biff.UnicodeString, 0, unique)
	for i := uint32(0); i < unique; i++ {
		s := c.ReadUnicodeString()
		if err := c.Err(); err != nil {
			return nil, errors.Wrapf(err, "string %d of %d", i, unique)
		}
		r.Strings = append(r.Strings, s)
	}
	return r, nil
}

// ExtSST locates every n-th string of the SST in the stream, so a reader
// can seek to a string without decoding the ones before it.
type ExtSST struct {
	BucketSize uint16
	Buckets    []ExtSSTBucket
}

// ExtSSTBucket points at the first string of a bucket.
type ExtSSTBucket struct {
	StreamPos uint32 // absolute stream offset of the string
	Offset    uint16 // offset of the string inside its record, header included
	Reserved  uint16
}

func (r *ExtSST) Sid() uint16   { return SidExtSST }
func (r *ExtSST) DataSize() int { return 2 + 8*len(r.Buckets) }

func (r *ExtSST) Serialize(w *biff.Writer) {
	w.WriteUint16(r.BucketSize)
	for i := range r.Buckets {
		biff.EncodeFixed(w, &r.Buckets[i])
	}
}

func decodeExtSST(c *biff.Cursor) (Record, error) {
	r := &ExtSST{BucketSize: c.U16()}
	if n := c.Remaining() / 8; n > 0 {
		r.Buckets = make([]ExtSSTBucket, n)
		for i := range r.Buckets {
			if err := biff.DecodeFixed(c, &r.Buckets[i]); err != nil {
				return nil, err
			}
		}
	}
	return r, c.Err()
}
