package record

import (
	"github.com/oy3o/biff"
)

// Cell is a record that holds the value of one cell.
type Cell interface {
	Record
	Position() (row, col uint16)
}

var (
	_ Cell = (*Formula)(nil)
	_ Cell = (*LabelSST)(nil)
	_ Cell = (*Number)(nil)
	_ Cell = (*Blank)(nil)
	_ Cell = (*BoolErr)(nil)
)

// fixedRecord is a record whose payload is a single fixed-layout struct.
type fixedRecord[T any] interface {
	*T
	Record
}

func decodeFixed[T any, P fixedRecord[T]](c *biff.Cursor) (Record, error) {
	v := new(T)
	if err := biff.DecodeFixed(c, v); err != nil {
		return nil, err
	}
	return P(v), nil
}

// LabelSST is a string cell referring to the shared string table.
type LabelSST struct {
	Row, Col, XF uint16
	SST          uint32
}

func (r *LabelSST) Sid() uint16                 { return SidLabelSST }
func (r *LabelSST) Position() (row, col uint16) { return r.Row, r.Col }
func (r *LabelSST) DataSize() int               { return biff.FixedSize[LabelSST]() }
func (r *LabelSST) Serialize(w *biff.Writer)    { biff.EncodeFixed(w, r) }

// Number is a floating point cell.
type Number struct {
	Row, Col, XF uint16
	Value        float64
}

func (r *Number) Sid() uint16                 { return SidNumber }
func (r *Number) Position() (row, col uint16) { return r.Row, r.Col }
func (r *Number) DataSize() int               { return biff.FixedSize[Number]() }
func (r *Number) Serialize(w *biff.Writer)    { biff.EncodeFixed(w, r) }

// Blank is a formatted cell without a value.
type Blank struct {
	Row, Col, XF uint16
}

func (r *Blank) Sid() uint16                 { return SidBlank }
func (r *Blank) Position() (row, col uint16) { return r.Row, r.Col }
func (r *Blank) DataSize() int               { return biff.FixedSize[Blank]() }
func (r *Blank) Serialize(w *biff.Writer)    { biff.EncodeFixed(w, r) }

// BoolErr is a boolean or error cell.
type BoolErr struct {
	Row, Col, XF uint16
	Value        uint8
	IsError      uint8
}

func (r *BoolErr) Sid() uint16                 { return SidBoolErr }
func (r *BoolErr) Position() (row, col uint16) { return r.Row, r.Col }
func (r *BoolErr) DataSize() int               { return biff.FixedSize[BoolErr]() }
func (r *BoolErr) Serialize(w *biff.Writer)    { biff.EncodeFixed(w, r) }

// Bool returns the value of a boolean cell.
func (r *BoolErr) Bool() bool { return r.IsError == 0 && r.Value != 0 }

var (
	rowOutline   = biff.NewBitField[uint16](0x0007)
	rowCollapsed = biff.NewBitField[uint16](0x0010)
	rowHidden    = biff.NewBitField[uint16](0x0020)
	rowFormatted = biff.NewBitField[uint16](0x0080)
	rowXF        = biff.NewBitField[uint16](0x0FFF)
)

// Row describes one row: its cell extent, height and formatting.
type Row struct {
	Row      uint16
	FirstCol uint16
	LastCol  uint16 // one past the last cell
	Height   uint16
	Reserved uint16
	Unused   uint16
	Flags    uint16
	XFFlags  uint16
}

func (r *Row) Sid() uint16              { return SidRow }
func (r *Row) DataSize() int            { return biff.FixedSize[Row]() }
func (r *Row) Serialize(w *biff.Writer) { biff.EncodeFixed(w, r) }

func (r *Row) OutlineLevel() uint16 { return rowOutline.Value(r.Flags) }
func (r *Row) Collapsed() bool      { return rowCollapsed.IsSet(r.Flags) }
func (r *Row) Hidden() bool         { return rowHidden.IsSet(r.Flags) }
func (r *Row) Formatted() bool      { return rowFormatted.IsSet(r.Flags) }
func (r *Row) XF() uint16           { return rowXF.Value(r.XFFlags) }

func (r *Row) SetOutlineLevel(v uint16) { r.Flags = rowOutline.SetValue(r.Flags, v) }
func (r *Row) SetHidden(on bool)        { r.Flags = rowHidden.SetBool(r.Flags, on) }

// Dimensions records the used range of a sheet. The last row and column
// are one past the last used cell.
type Dimensions struct {
	FirstRow, LastRow uint32
	FirstCol, LastCol uint16
	Reserved          uint16
}

func (r *Dimensions) Sid() uint16              { return SidDimensions }
func (r *Dimensions) DataSize() int            { return biff.FixedSize[Dimensions]() }
func (r *Dimensions) Serialize(w *biff.Writer) { biff.EncodeFixed(w, r) }
