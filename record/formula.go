package record

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/ptg"
)

var (
	formulaAlwaysCalc = biff.NewBitField[uint16](0x0001)
	formulaCalcOnLoad = biff.NewBitField[uint16](0x0002)
	formulaShared     = biff.NewBitField[uint16](0x0008)
)

// ResultKind tags the cached result of a formula cell.
type ResultKind uint8

const (
	ResultNumber ResultKind = iota
	ResultString
	ResultBool
	ResultError
	ResultEmpty
)

// Formula is a formula cell with its cached result.
type Formula struct {
	Row, Col, XF uint16
	// Result is a float64, or a tagged value when the top two bytes are
	// 0xFFFF.
	Result   [8]byte
	Options  uint16
	Reserved uint32
	Expr     ptg.Expression
}

func (r *Formula) Sid() uint16 { return SidFormula }

func (r *Formula) AlwaysCalc() bool { return formulaAlwaysCalc.IsSet(r.Options) }
func (r *Formula) CalcOnLoad() bool { return formulaCalcOnLoad.IsSet(r.Options) }
func (r *Formula) Shared() bool     { return formulaShared.IsSet(r.Options) }

func (r *Formula) SetAlwaysCalc(on bool) { r.Options = formulaAlwaysCalc.SetBool(r.Options, on) }
func (r *Formula) SetCalcOnLoad(on bool) { r.Options = formulaCalcOnLoad.SetBool(r.Options, on) }
func (r *Formula) SetShared(on bool)     { r.Options = formulaShared.SetBool(r.Options, on) }

// ResultKind returns the type of the cached result.
func (r *Formula) ResultKind() ResultKind {
	if r.Result[6] != 0xFF || r.Result[7] != 0xFF {
		return ResultNumber
	}
	switch r.Result[0] {
	case 0:
		return ResultString
	case 1:
		return ResultBool
	case 2:
		return ResultError
	}
	return ResultEmpty
}

// Number returns the cached numeric result.
func (r *Formula) Number() float64 {
	return math.Float64frombits(biff.Order.Uint64(r.Result[:]))
}

// Value returns the byte of a cached boolean or error result.
func (r *Formula) Value() uint8 { return r.Result[2] }

// SetNumber caches a numeric result.
func (r *Formula) SetNumber(v float64) {
	biff.Order.PutUint64(r.Result[:], math.Float64bits(v))
}

// SetStringResult marks the cached result as a string held by the String
// record that follows the formula.
func (r *Formula) SetStringResult() {
	r.Result = [8]byte{0, 0, 0, 0, 0, 0, 0xFF, 0xFF}
}

// Position returns the row and column of the cell.
func (r *Formula) Position() (row, col uint16) { return r.Row, r.Col }

// SharedBase returns the cell holding the shared formula this cell uses,
// when the expression is a single Exp token.
func (r *Formula) SharedBase() (row, col uint16, ok bool) {
	if len(r.Expr.Tokens) != 1 {
		return 0, 0, false
	}
	exp, ok := r.Expr.Tokens[0].(ptg.Exp)
	if !ok {
		return 0, 0, false
	}
	return exp.Row, exp.Col, true
}

func (r *Formula) DataSize() int { return 22 + r.Expr.DataSize() }

func (r *Formula) Serialize(w *biff.Writer) {
	w.WriteUint16(r.Row)
	w.WriteUint16(r.Col)
	w.WriteUint16(r.XF)
	w.WriteBytes(r.Result[:])
	w.WriteUint16(r.Options)
	w.WriteUint32(r.Reserved)
	writeExpression(w, r.Expr)
}

func decodeFormula(c *biff.Cursor) (Record, error) {
	r := &Formula{Row: c.U16(), Col: c.U16(), XF: c.U16()}
	c.ReadBytesTo(r.Result[:])
	r.Options = c.U16()
	r.Reserved = c.U32()
	var err error
	r.Expr, err = readExpression(c)
	return r, err
}

// readExpression reads a 16-bit token size, the tokens and every remaining
// byte as trailing data.
func readExpression(c *biff.Cursor) (ptg.Expression, error) {
	size := int(c.U16())
	if err := c.Err(); err != nil {
		return ptg.Expression{}, err
	}
	if size > c.Remaining() {
		return ptg.Expression{}, errors.Wrapf(ErrBadLength, "token size %d, %d bytes left", size, c.Remaining())
	}
	return ptg.ReadExpression(c, size, c.Remaining())
}

func writeExpression(w *biff.Writer, e ptg.Expression) {
	w.WriteUint16(uint16(e.TokenSize()))
	e.WriteTokens(w)
	e.WriteExtra(w)
}

// SharedFormula holds the formula shared by a rectangle of cells. Its
// references are relative to whichever member cell uses it.
type SharedFormula struct {
	Range    CellRange
	Reserved uint8
	Uses     uint8
	Expr     ptg.Expression
}

func (r *SharedFormula) Sid() uint16 { return SidSharedFormula }

// FormulaAt returns the formula of the member cell at row, col with every
// shared reference resolved to a plain one. It panics when the cell is
// outside the range.
func (r *SharedFormula) FormulaAt(row, col uint16) ptg.Expression {
	if !r.Range.Contains(row, col) {
		panic(fmt.Sprintf("record: cell R%dC%d outside shared formula range %s", row, col, r.Range))
	}
	return ptg.MaterializeExpression(r.Expr, row, col)
}

func (r *SharedFormula) DataSize() int { return 10 + r.Expr.DataSize() }

func (r *SharedFormula) Serialize(w *biff.Writer) {
	sr := toShortRange(r.Range)
	biff.EncodeFixed(w, &sr)
	w.WriteUint8(r.Reserved)
	w.WriteUint8(r.Uses)
	writeExpression(w, r.Expr)
}

func decodeSharedFormula(c *biff.Cursor) (Record, error) {
	var sr shortRange
	if err := biff.DecodeFixed(c, &sr); err != nil {
		return nil, err
	}
	r := &SharedFormula{Range: sr.cells(), Reserved: c.U8(), Uses: c.U8()}
	var err error
	r.Expr, err = readExpression(c)
	return r, err
}

// Array holds an array formula entered over a range.
type Array struct {
	Range    CellRange
	Options  uint16
	Reserved uint32
	Expr     ptg.Expression
}

func (r *Array) Sid() uint16      { return SidArray }
func (r *Array) AlwaysCalc() bool { return formulaAlwaysCalc.IsSet(r.Options) }
func (r *Array) DataSize() int    { return 14 + r.Expr.DataSize() }

func (r *Array) Serialize(w *biff.Writer) {
	sr := toShortRange(r.Range)
	biff.EncodeFixed(w, &sr)
	w.WriteUint16(r.Options)
	w.WriteUint32(r.Reserved)
	writeExpression(w, r.Expr)
}

func decodeArray(c *biff.Cursor) (Record, error) {
	var sr shortRange
	if err := biff.DecodeFixed(c, &sr); err != nil {
		return nil, err
	}
	r := &Array{Range: sr.cells(), Options: c.U16(), Reserved: c.U32()}
	var err error
	r.Expr, err = readExpression(c)
	return r, err
}

// String is the string result of the formula cell before it.
type String struct {
	Value biff.XLString
}

func (r *String) Sid() uint16   { return SidString }
func (r *String) DataSize() int { return 3 + r.Value.CharsSize() }

func (r *String) Serialize(w *biff.Writer) { w.WriteLongString(r.Value) }

func decodeString(c *biff.Cursor) (Record, error) {
	return &String{Value: c.ReadLongString()}, nil
}
