package ptg

import (
	"github.com/pkg/errors"

	"github.com/oy3o/biff"
)

// ConstKind tags the value of an array constant.
type ConstKind uint8

const (
	ConstEmpty  ConstKind = 0x00
	ConstNumber ConstKind = 0x01
	ConstString ConstKind = 0x02
	ConstBool   ConstKind = 0x04
	ConstError  ConstKind = 0x10
)

// Constant is one element of a constant array. Only the field selected by
// Kind is meaningful. The 8-byte slots of empty, bool and error values are
// kept raw so reserved bytes survive a round trip.
type Constant struct {
	Kind ConstKind
	Num  float64
	Str  biff.XLString
	Raw  [8]byte
}

func NumberConst(v float64) Constant { return Constant{Kind: ConstNumber, Num: v} }
func StringConst(s string) Constant  { return Constant{Kind: ConstString, Str: biff.NewXLString(s)} }
func EmptyConst() Constant           { return Constant{Kind: ConstEmpty} }

func BoolConst(v bool) Constant {
	c := Constant{Kind: ConstBool}
	if v {
		c.Raw[0] = 1
	}
	return c
}

func ErrorConst(code uint8) Constant {
	c := Constant{Kind: ConstError}
	c.Raw[0] = code
	return c
}

// Bool returns the value of a boolean constant.
func (c Constant) Bool() bool { return c.Raw[0] != 0 }

// Code returns the error code of an error constant.
func (c Constant) Code() uint8 { return c.Raw[0] }

func (c Constant) size() int {
	if c.Kind == ConstString {
		return 4 + c.Str.CharsSize()
	}
	return 9
}

// ConstArray is a constant array stored row by row.
type ConstArray struct {
	Cols, Rows int
	Values     []Constant
}

// At returns the value at row r, column col.
func (a ConstArray) At(r, col int) Constant { return a.Values[r*a.Cols+col] }

// DataSize returns the encoded size of the array in the trailing data.
func (a ConstArray) DataSize() int {
	n := 3
	for _, v := range a.Values {
		n += v.size()
	}
	return n
}

// ReadConstArray reads the dimensions and values of one constant array.
func ReadConstArray(c *biff.Cursor) (ConstArray, error) {
	a := ConstArray{Cols: int(c.U8()) + 1, Rows: int(c.U16()) + 1}
	if err := c.Err(); err != nil {
		return a, errors.Wrap(ErrBadArray, "dimensions")
	}
	n := a.Cols * a.Rows
	// every value takes at least three bytes
	if 3*n > c.Remaining() {
		return a, errors.Wrapf(ErrBadArray, "%dx%d values in %d bytes", a.Cols, a.Rows, c.Remaining())
	}
	a.Values = make([]Constant, n)
	for i := range a.Values {
		v := Constant{Kind: ConstKind(c.U8())}
		switch v.Kind {
		case ConstNumber:
			v.Num = c.F64()
		case ConstString:
			v.Str = c.ReadLongString()
		case ConstEmpty, ConstBool, ConstError:
			c.ReadBytesTo(v.Raw[:])
		default:
			return a, errors.Wrapf(ErrBadArray, "value type 0x%02X", uint8(v.Kind))
		}
		if err := c.Err(); err != nil {
			return a, errors.Wrapf(ErrBadArray, "value %d: %v", i, err)
		}
		a.Values[i] = v
	}
	return a, nil
}

// WriteConstArray writes a in the layout ReadConstArray reads.
func WriteConstArray(w *biff.Writer, a ConstArray) {
	w.WriteUint8(uint8(a.Cols - 1))
	w.WriteUint16(uint16(a.Rows - 1))
	for _, v := range a.Values {
		w.WriteUint8(uint8(v.Kind))
		switch v.Kind {
		case ConstNumber:
			w.WriteFloat64(v.Num)
		case ConstString:
			w.WriteLongString(v.Str)
		default:
			w.WriteBytes(v.Raw[:])
		}
	}
}

// ArrayValues decodes the constant arrays of the expression in token
// order. Memory-area range lists stored in the same trailing data are
// skipped.
func (e Expression) ArrayValues() ([]ConstArray, error) {
	c := biff.NewCursorBytes(0, e.Extra)
	var out []ConstArray
	for _, t := range e.Tokens {
		switch t := t.(type) {
		case Array:
			a, err := ReadConstArray(c)
			if err != nil {
				return out, err
			}
			out = append(out, a)
		case Mem:
			if t.Base != opMemArea {
				continue
			}
			n := int(c.U16())
			c.Skip(8 * n)
			if err := c.Err(); err != nil {
				return out, errors.Wrapf(ErrBadArray, "memory area list of %d ranges", n)
			}
		}
	}
	return out, nil
}

// ReadExtra reads exactly the trailing data the tokens refer to: one
// constant array per Array token and one range list per MemArea token.
// Records that store more after a formula use it to find where the
// formula ends.
func ReadExtra(c *biff.Cursor, tokens []Token) ([]byte, error) {
	start := c.Offset()
	data := c.Payload().Data
	for _, t := range tokens {
		switch t := t.(type) {
		case Array:
			if _, err := ReadConstArray(c); err != nil {
				return nil, err
			}
		case Mem:
			if t.Base != opMemArea {
				continue
			}
			n := int(c.U16())
			c.Skip(8 * n)
			if err := c.Err(); err != nil {
				return nil, errors.Wrapf(ErrBadArray, "memory area list of %d ranges", n)
			}
		}
	}
	if c.Offset() == start {
		return nil, nil
	}
	return append([]byte(nil), data[start:c.Offset()]...), nil
}

// EncodeArrays returns the trailing data holding arrays.
func EncodeArrays(arrays []ConstArray) ([]byte, error) {
	n := 0
	for _, a := range arrays {
		n += a.DataSize()
	}
	bw := biff.NewBytesWriter(make([]byte, n))
	w, _ := biff.NewWriter(bw)
	for _, a := range arrays {
		WriteConstArray(w, a)
	}
	if err := w.Err(); err != nil {
		return nil, errors.Wrapf(err, "%d arrays in %d bytes", len(arrays), n)
	}
	if w.Count() != int64(n) {
		return nil, errors.Errorf("%d arrays: wrote %d of %d bytes", len(arrays), w.Count(), n)
	}
	return bw.Bytes(), nil
}
