// Package ptg decodes, encodes and rewrites the postfix token streams
// stored in formula-bearing records.
//
// A token's first byte carries its opcode. Operand tokens (opcodes 0x20
// and up) additionally carry an operand class in bits 5 and 6: the same
// logical token has a reference, a value and an array encoding, and the
// three are never conflated. Every rewrite in this package keeps the class
// of the tokens it touches.
package ptg

import (
	"fmt"

	"github.com/oy3o/biff"
)

// Class is the operand class of a token.
type Class uint8

const (
	ClassNone  Class = 0
	ClassRef   Class = 1
	ClassValue Class = 2
	ClassArray Class = 3
)

func (c Class) String() string {
	switch c {
	case ClassRef:
		return "ref"
	case ClassValue:
		return "value"
	case ClassArray:
		return "array"
	}
	return "none"
}

// opcode combines base with the class bits. A zero class encodes as
// ClassRef so that an operand token never collides with an operator.
func (c Class) opcode(base uint8) uint8 {
	if c == ClassNone {
		c = ClassRef
	}
	return base&0x1F | uint8(c&3)<<5
}

// Base opcodes. Operand token bases are combined with a Class.
const (
	opExp      uint8 = 0x01
	opTbl      uint8 = 0x02
	opStr      uint8 = 0x17
	opAttr     uint8 = 0x19
	opErr      uint8 = 0x1C
	opBool     uint8 = 0x1D
	opInt      uint8 = 0x1E
	opNum      uint8 = 0x1F
	opArray    uint8 = 0x00
	opFunc     uint8 = 0x01
	opFuncVar  uint8 = 0x02
	opName     uint8 = 0x03
	opRef      uint8 = 0x04
	opArea     uint8 = 0x05
	opMemArea  uint8 = 0x06
	opMemErr   uint8 = 0x07
	opMemNoMem uint8 = 0x08
	opMemFunc  uint8 = 0x09
	opRefErr   uint8 = 0x0A
	opAreaErr  uint8 = 0x0B
	opRefN     uint8 = 0x0C
	opAreaN    uint8 = 0x0D
	opNameX    uint8 = 0x19
	opRef3d    uint8 = 0x1A
	opArea3d   uint8 = 0x1B
	opRefErr3d uint8 = 0x1C
	opArea3dEr uint8 = 0x1D
)

// Token is one element of a postfix expression. The set of tokens is
// closed; callers inspect them with a type switch.
type Token interface {
	// Opcode returns the first encoded byte, class bits included.
	Opcode() uint8
	// Size returns the encoded size in bytes.
	Size() int
	write(w *biff.Writer)
}

// Operand is a token that carries an operand class.
type Operand interface {
	Token
	OperandClass() Class
}

// --- Control tokens ---

// Exp points a cell at the shared or array formula anchored at Row, Col.
type Exp struct{ Row, Col uint16 }

func (Exp) Opcode() uint8 { return opExp }
func (Exp) Size() int     { return 5 }
func (t Exp) write(w *biff.Writer) {
	w.WriteUint8(opExp)
	w.WriteUint16(t.Row)
	w.WriteUint16(t.Col)
}

// Tbl points a cell at a data table anchored at Row, Col.
type Tbl struct{ Row, Col uint16 }

func (Tbl) Opcode() uint8 { return opTbl }
func (Tbl) Size() int     { return 5 }
func (t Tbl) write(w *biff.Writer) {
	w.WriteUint8(opTbl)
	w.WriteUint16(t.Row)
	w.WriteUint16(t.Col)
}

// Op is an operator token without operands of its own.
type Op uint8

const (
	OpAdd     Op = 0x03
	OpSub     Op = 0x04
	OpMul     Op = 0x05
	OpDiv     Op = 0x06
	OpPower   Op = 0x07
	OpConcat  Op = 0x08
	OpLT      Op = 0x09
	OpLE      Op = 0x0A
	OpEQ      Op = 0x0B
	OpGE      Op = 0x0C
	OpGT      Op = 0x0D
	OpNE      Op = 0x0E
	OpIsect   Op = 0x0F
	OpUnion   Op = 0x10
	OpRange   Op = 0x11
	OpUplus   Op = 0x12
	OpUminus  Op = 0x13
	OpPercent Op = 0x14
	OpParen   Op = 0x15
	OpMissArg Op = 0x16
)

var opSymbols = map[Op]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpPower: "^", OpConcat: "&",
	OpLT: "<", OpLE: "<=", OpEQ: "=", OpGE: ">=", OpGT: ">", OpNE: "<>",
	OpIsect: " ", OpUnion: ",", OpRange: ":",
}

func (o Op) Opcode() uint8        { return uint8(o) }
func (Op) Size() int              { return 1 }
func (o Op) write(w *biff.Writer) { w.WriteUint8(uint8(o)) }
func (o Op) Binary() bool         { return o >= OpAdd && o <= OpRange }
func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(0x%02X)", uint8(o))
}

// --- Constants ---

// Str is a string constant with an 8-bit length.
type Str struct{ Value biff.XLString }

func (Str) Opcode() uint8 { return opStr }
func (t Str) Size() int   { return 3 + t.Value.CharsSize() }
func (t Str) write(w *biff.Writer) {
	w.WriteUint8(opStr)
	w.WriteShortString(t.Value)
}

// Attribute option bits of an Attr token.
const (
	AttrVolatile uint8 = 0x01
	AttrIf       uint8 = 0x02
	AttrChoose   uint8 = 0x04
	AttrSkip     uint8 = 0x08
	AttrSum      uint8 = 0x10
	AttrAssign   uint8 = 0x20
	AttrSpace    uint8 = 0x40
)

// Attr carries evaluation hints. A choose attribute is followed by
// Data+1 jump offsets.
type Attr struct {
	Options uint8
	Data    uint16
	Jumps   []uint16
}

func (Attr) Opcode() uint8 { return opAttr }
func (t Attr) Size() int   { return 4 + 2*len(t.Jumps) }
func (t Attr) write(w *biff.Writer) {
	w.WriteUint8(opAttr)
	w.WriteUint8(t.Options)
	w.WriteUint16(t.Data)
	for _, j := range t.Jumps {
		w.WriteUint16(j)
	}
}

// Error codes of Err tokens and error constants.
const (
	ErrNull  uint8 = 0x00
	ErrDiv0  uint8 = 0x07
	ErrValue uint8 = 0x0F
	ErrRef   uint8 = 0x17
	ErrName  uint8 = 0x1D
	ErrNum   uint8 = 0x24
	ErrNA    uint8 = 0x2A
)

var errorTexts = map[uint8]string{
	ErrNull: "#NULL!", ErrDiv0: "#DIV/0!", ErrValue: "#VALUE!", ErrRef: "#REF!",
	ErrName: "#NAME?", ErrNum: "#NUM!", ErrNA: "#N/A",
}

// Err is an error constant.
type Err struct{ Code uint8 }

func (Err) Opcode() uint8 { return opErr }
func (Err) Size() int     { return 2 }
func (t Err) write(w *biff.Writer) {
	w.WriteUint8(opErr)
	w.WriteUint8(t.Code)
}

// Bool is a boolean constant. The stored byte is kept as is.
type Bool struct{ Value uint8 }

func (Bool) Opcode() uint8 { return opBool }
func (Bool) Size() int     { return 2 }
func (t Bool) True() bool  { return t.Value != 0 }
func (t Bool) write(w *biff.Writer) {
	w.WriteUint8(opBool)
	w.WriteUint8(t.Value)
}

// Int is an unsigned 16-bit integer constant.
type Int struct{ Value uint16 }

func (Int) Opcode() uint8 { return opInt }
func (Int) Size() int     { return 3 }
func (t Int) write(w *biff.Writer) {
	w.WriteUint8(opInt)
	w.WriteUint16(t.Value)
}

// Num is a floating point constant.
type Num struct{ Value float64 }

func (Num) Opcode() uint8 { return opNum }
func (Num) Size() int     { return 9 }
func (t Num) write(w *biff.Writer) {
	w.WriteUint8(opNum)
	w.WriteFloat64(t.Value)
}

// --- Operand tokens ---

// ColField is the column word of a reference. Bit 15 marks the row as
// relative, bit 14 the column; the low 14 bits hold the column.
type ColField uint16

var (
	rowRelative = biff.NewBitField[uint16](0x8000)
	colRelative = biff.NewBitField[uint16](0x4000)
	colIndex    = biff.NewBitField[uint16](0x3FFF)
)

// Col builds a column word.
func Col(col uint16, rowRel, colRel bool) ColField {
	v := colIndex.SetValue(0, col)
	v = rowRelative.SetBool(v, rowRel)
	return ColField(colRelative.SetBool(v, colRel))
}

func (f ColField) Col() uint16       { return colIndex.Value(uint16(f)) }
func (f ColField) RowRelative() bool { return rowRelative.IsSet(uint16(f)) }
func (f ColField) ColRelative() bool { return colRelative.IsSet(uint16(f)) }

// WithCol replaces the column and keeps both relative flags.
func (f ColField) WithCol(col uint16) ColField {
	return ColField(colIndex.SetValue(uint16(f), col))
}

// Array marks a constant array. Its values live in the expression's
// trailing data, see Expression.ArrayValues.
type Array struct {
	Class    Class
	Reserved [7]byte
}

func (t Array) Opcode() uint8       { return t.Class.opcode(opArray) }
func (Array) Size() int             { return 8 }
func (t Array) OperandClass() Class { return t.Class }
func (t Array) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteBytes(t.Reserved[:])
}

// Func calls a built-in function with a fixed argument count.
type Func struct {
	Class Class
	Index uint16
}

func (t Func) Opcode() uint8       { return t.Class.opcode(opFunc) }
func (Func) Size() int             { return 3 }
func (t Func) OperandClass() Class { return t.Class }
func (t Func) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint16(t.Index)
}

// FuncVar calls a function with Argc arguments. Bit 15 of Index marks a
// command-equivalent function and bit 7 of Argc a prompt.
type FuncVar struct {
	Class Class
	Argc  uint8
	Index uint16
}

func (t FuncVar) Opcode() uint8       { return t.Class.opcode(opFuncVar) }
func (FuncVar) Size() int             { return 4 }
func (t FuncVar) OperandClass() Class { return t.Class }
func (t FuncVar) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint8(t.Argc)
	w.WriteUint16(t.Index)
}

// Name refers to a defined name by its one-based index.
type Name struct {
	Class    Class
	Index    uint16
	Reserved uint16
}

func (t Name) Opcode() uint8       { return t.Class.opcode(opName) }
func (Name) Size() int             { return 5 }
func (t Name) OperandClass() Class { return t.Class }
func (t Name) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint16(t.Index)
	w.WriteUint16(t.Reserved)
}

// Ref is a single cell reference.
type Ref struct {
	Class Class
	Row   uint16
	Col   ColField
}

func (t Ref) Opcode() uint8       { return t.Class.opcode(opRef) }
func (Ref) Size() int             { return 5 }
func (t Ref) OperandClass() Class { return t.Class }
func (t Ref) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint16(t.Row)
	w.WriteUint16(uint16(t.Col))
}

// Area is a rectangular range reference.
type Area struct {
	Class             Class
	FirstRow, LastRow uint16
	FirstCol, LastCol ColField
}

func (t Area) Opcode() uint8       { return t.Class.opcode(opArea) }
func (Area) Size() int             { return 9 }
func (t Area) OperandClass() Class { return t.Class }
func (t Area) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	writeArea(w, t.FirstRow, t.LastRow, t.FirstCol, t.LastCol)
}

// Mem wraps a sub-expression of Length bytes that follows it. Base is one
// of the MemArea, MemErr or MemNoMem opcodes.
type Mem struct {
	Base     uint8
	Class    Class
	Reserved uint32
	Length   uint16
}

func (t Mem) Opcode() uint8       { return t.Class.opcode(t.Base) }
func (Mem) Size() int             { return 7 }
func (t Mem) OperandClass() Class { return t.Class }
func (t Mem) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint32(t.Reserved)
	w.WriteUint16(t.Length)
}

// MemFunc wraps a sub-expression of Length bytes whose value is computed
// on every evaluation.
type MemFunc struct {
	Class  Class
	Length uint16
}

func (t MemFunc) Opcode() uint8       { return t.Class.opcode(opMemFunc) }
func (MemFunc) Size() int             { return 3 }
func (t MemFunc) OperandClass() Class { return t.Class }
func (t MemFunc) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint16(t.Length)
}

// RefErr is a cell reference that no longer points anywhere.
type RefErr struct {
	Class    Class
	Reserved uint32
}

func (t RefErr) Opcode() uint8       { return t.Class.opcode(opRefErr) }
func (RefErr) Size() int             { return 5 }
func (t RefErr) OperandClass() Class { return t.Class }
func (t RefErr) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint32(t.Reserved)
}

// AreaErr is a range reference that no longer points anywhere.
type AreaErr struct {
	Class    Class
	Reserved [8]byte
}

func (t AreaErr) Opcode() uint8       { return t.Class.opcode(opAreaErr) }
func (AreaErr) Size() int             { return 9 }
func (t AreaErr) OperandClass() Class { return t.Class }
func (t AreaErr) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteBytes(t.Reserved[:])
}

// RefN is a cell reference inside a shared formula. Its relative parts
// are signed offsets from the cell that uses the formula.
type RefN struct {
	Class Class
	Row   uint16
	Col   ColField
}

func (t RefN) Opcode() uint8       { return t.Class.opcode(opRefN) }
func (RefN) Size() int             { return 5 }
func (t RefN) OperandClass() Class { return t.Class }
func (t RefN) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint16(t.Row)
	w.WriteUint16(uint16(t.Col))
}

// AreaN is a range reference inside a shared formula.
type AreaN struct {
	Class             Class
	FirstRow, LastRow uint16
	FirstCol, LastCol ColField
}

func (t AreaN) Opcode() uint8       { return t.Class.opcode(opAreaN) }
func (AreaN) Size() int             { return 9 }
func (t AreaN) OperandClass() Class { return t.Class }
func (t AreaN) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	writeArea(w, t.FirstRow, t.LastRow, t.FirstCol, t.LastCol)
}

// NameX refers to a name in an external workbook or add-in.
type NameX struct {
	Class    Class
	Ixti     uint16
	Index    uint16
	Reserved uint16
}

func (t NameX) Opcode() uint8       { return t.Class.opcode(opNameX) }
func (NameX) Size() int             { return 7 }
func (t NameX) OperandClass() Class { return t.Class }
func (t NameX) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint16(t.Ixti)
	w.WriteUint16(t.Index)
	w.WriteUint16(t.Reserved)
}

// Ref3d is a cell reference on the sheet range selected by Ixti.
type Ref3d struct {
	Class Class
	Ixti  uint16
	Row   uint16
	Col   ColField
}

func (t Ref3d) Opcode() uint8       { return t.Class.opcode(opRef3d) }
func (Ref3d) Size() int             { return 7 }
func (t Ref3d) OperandClass() Class { return t.Class }
func (t Ref3d) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint16(t.Ixti)
	w.WriteUint16(t.Row)
	w.WriteUint16(uint16(t.Col))
}

// Area3d is a range reference on the sheet range selected by Ixti.
type Area3d struct {
	Class             Class
	Ixti              uint16
	FirstRow, LastRow uint16
	FirstCol, LastCol ColField
}

func (t Area3d) Opcode() uint8       { return t.Class.opcode(opArea3d) }
func (Area3d) Size() int             { return 11 }
func (t Area3d) OperandClass() Class { return t.Class }
func (t Area3d) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint16(t.Ixti)
	writeArea(w, t.FirstRow, t.LastRow, t.FirstCol, t.LastCol)
}

// RefErr3d is a deleted cell reference on another sheet.
type RefErr3d struct {
	Class    Class
	Ixti     uint16
	Reserved uint32
}

func (t RefErr3d) Opcode() uint8       { return t.Class.opcode(opRefErr3d) }
func (RefErr3d) Size() int             { return 7 }
func (t RefErr3d) OperandClass() Class { return t.Class }
func (t RefErr3d) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint16(t.Ixti)
	w.WriteUint32(t.Reserved)
}

// AreaErr3d is a deleted range reference on another sheet.
type AreaErr3d struct {
	Class    Class
	Ixti     uint16
	Reserved [8]byte
}

func (t AreaErr3d) Opcode() uint8       { return t.Class.opcode(opArea3dEr) }
func (AreaErr3d) Size() int             { return 11 }
func (t AreaErr3d) OperandClass() Class { return t.Class }
func (t AreaErr3d) write(w *biff.Writer) {
	w.WriteUint8(t.Opcode())
	w.WriteUint16(t.Ixti)
	w.WriteBytes(t.Reserved[:])
}

func writeArea(w *biff.Writer, firstRow, lastRow uint16, firstCol, lastCol ColField) {
	w.WriteUint16(firstRow)
	w.WriteUint16(lastRow)
	w.WriteUint16(uint16(firstCol))
	w.WriteUint16(uint16(lastCol))
}

// ClassOf returns the operand class of t, or ClassNone for tokens that
// have none.
func ClassOf(t Token) Class {
	if o, ok := t.(Operand); ok {
		return o.OperandClass()
	}
	return ClassNone
}
