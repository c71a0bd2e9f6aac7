package ptg

import (
	"github.com/pkg/errors"

	"github.com/oy3o/biff"
)

type decodeFunc func(c *biff.Cursor, op uint8) Token

// basicTable decodes opcodes below 0x20, operandTable decodes the base of
// class-tagged opcodes. Both are fixed at compile time.
var (
	basicTable   [32]decodeFunc
	operandTable [32]decodeFunc
)

func init() {
	basicTable[opExp] = func(c *biff.Cursor, _ uint8) Token { return Exp{Row: c.U16(), Col: c.U16()} }
	basicTable[opTbl] = func(c *biff.Cursor, _ uint8) Token { return Tbl{Row: c.U16(), Col: c.U16()} }
	for op := OpAdd; op <= OpMissArg; op++ {
		basicTable[op] = func(_ *biff.Cursor, op uint8) Token { return Op(op) }
	}
	basicTable[opStr] = func(c *biff.Cursor, _ uint8) Token { return Str{Value: c.ReadShortString()} }
	basicTable[opAttr] = decodeAttr
	basicTable[opErr] = func(c *biff.Cursor, _ uint8) Token { return Err{Code: c.U8()} }
	basicTable[opBool] = func(c *biff.Cursor, _ uint8) Token { return Bool{Value: c.U8()} }
	basicTable[opInt] = func(c *biff.Cursor, _ uint8) Token { return Int{Value: c.U16()} }
	basicTable[opNum] = func(c *biff.Cursor, _ uint8) Token { return Num{Value: c.F64()} }

	operandTable[opArray] = func(c *biff.Cursor, op uint8) Token {
		t := Array{Class: classOf(op)}
		c.ReadBytesTo(t.Reserved[:])
		return t
	}
	operandTable[opFunc] = func(c *biff.Cursor, op uint8) Token {
		return Func{Class: classOf(op), Index: c.U16()}
	}
	operandTable[opFuncVar] = func(c *biff.Cursor, op uint8) Token {
		return FuncVar{Class: classOf(op), Argc: c.U8(), Index: c.U16()}
	}
	operandTable[opName] = func(c *biff.Cursor, op uint8) Token {
		return Name{Class: classOf(op), Index: c.U16(), Reserved: c.U16()}
	}
	operandTable[opRef] = func(c *biff.Cursor, op uint8) Token {
		return Ref{Class: classOf(op), Row: c.U16(), Col: ColField(c.U16())}
	}
	operandTable[opArea] = func(c *biff.Cursor, op uint8) Token {
		t := Area{Class: classOf(op)}
		t.FirstRow, t.LastRow, t.FirstCol, t.LastCol = readArea(c)
		return t
	}
	for _, base := range []uint8{opMemArea, opMemErr, opMemNoMem} {
		operandTable[base] = func(c *biff.Cursor, op uint8) Token {
			return Mem{Base: op & 0x1F, Class: classOf(op), Reserved: c.U32(), Length: c.U16()}
		}
	}
	operandTable[opMemFunc] = func(c *biff.Cursor, op uint8) Token {
		return MemFunc{Class: classOf(op), Length: c.U16()}
	}
	operandTable[opRefErr] = func(c *biff.Cursor, op uint8) Token {
		return RefErr{Class: classOf(op), Reserved: c.U32()}
	}
	operandTable[opAreaErr] = func(c *biff.Cursor, op uint8) Token {
		t := AreaErr{Class: classOf(op)}
		c.ReadBytesTo(t.Reserved[:])
		return t
	}
	operandTable[opRefN] = func(c *biff.Cursor, op uint8) Token {
		return RefN{Class: classOf(op), Row: c.U16(), Col: ColField(c.U16())}
	}
	operandTable[opAreaN] = func(c *biff.Cursor, op uint8) Token {
		t := AreaN{Class: classOf(op)}
		t.FirstRow, t.LastRow, t.FirstCol, t.LastCol = readArea(c)
		return t
	}
	operandTable[opNameX] = func(c *biff.Cursor, op uint8) Token {
		return NameX{Class: classOf(op), Ixti: c.U16(), Index: c.U16(), Reserved: c.U16()}
	}
	operandTable[opRef3d] = func(c *biff.Cursor, op uint8) Token {
		return Ref3d{Class: classOf(op), Ixti: c.U16(), Row: c.U16(), Col: ColField(c.U16())}
	}
	operandTable[opArea3d] = func(c *biff.Cursor, op uint8) Token {
		t := Area3d{Class: classOf(op), Ixti: c.U16()}
		t.FirstRow, t.LastRow, t.FirstCol, t.LastCol = readArea(c)
		return t
	}
	operandTable[opRefErr3d] = func(c *biff.Cursor, op uint8) Token {
		return RefErr3d{Class: classOf(op), Ixti: c.U16(), Reserved: c.U32()}
	}
	operandTable[opArea3dEr] = func(c *biff.Cursor, op uint8) Token {
		t := AreaErr3d{Class: classOf(op), Ixti: c.U16()}
		c.ReadBytesTo(t.Reserved[:])
		return t
	}
}

func classOf(op uint8) Class { return Class(op>>5) & 3 }

func readArea(c *biff.Cursor) (firstRow, lastRow uint16, firstCol, lastCol ColField) {
	firstRow = c.U16()
	lastRow = c.U16()
	firstCol = ColField(c.U16())
	lastCol = ColField(c.U16())
	return
}

func decodeAttr(c *biff.Cursor, _ uint8) Token {
	t := Attr{Options: c.U8(), Data: c.U16()}
	if t.Options&AttrChoose != 0 && c.Err() == nil {
		n := int(t.Data) + 1
		if 2*n > c.Remaining() {
			c.Fail(biff.ErrOutOfData)
			return t
		}
		t.Jumps = make([]uint16, n)
		for i := range t.Jumps {
			t.Jumps[i] = c.U16()
		}
	}
	return t
}

// ReadToken decodes one token.
func ReadToken(c *biff.Cursor) (Token, error) {
	at := c.Offset()
	op := c.U8()
	if err := c.Err(); err != nil {
		return nil, err
	}
	var fn decodeFunc
	if op < 0x20 {
		fn = basicTable[op]
	} else {
		fn = operandTable[op&0x1F]
	}
	if fn == nil {
		return nil, errors.Wrapf(ErrUnknownToken, "opcode 0x%02X at offset %d", op, at)
	}
	t := fn(c, op)
	if err := c.Err(); err != nil {
		return nil, errors.Wrapf(err, "ptg: token 0x%02X at offset %d", op, at)
	}
	return t, nil
}

// Read decodes tokens until exactly size bytes are consumed.
func Read(c *biff.Cursor, size int) ([]Token, error) {
	if size > c.Remaining() {
		return nil, errors.Wrapf(biff.ErrOutOfData, "ptg: token stream of %d bytes, %d left", size, c.Remaining())
	}
	end := c.Offset() + size
	var tokens []Token
	for c.Offset() < end {
		t, err := ReadToken(c)
		if err != nil {
			return nil, err
		}
		if c.Offset() > end {
			return nil, errors.Wrapf(ErrTokenOverrun, "token 0x%02X ends at %d, stream at %d", t.Opcode(), c.Offset(), end)
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// ReadExpression decodes tokenSize bytes of tokens followed by the
// trailing data that makes up the rest of totalSize.
func ReadExpression(c *biff.Cursor, tokenSize, totalSize int) (Expression, error) {
	if totalSize < tokenSize {
		return Expression{}, errors.Errorf("ptg: expression size %d below token size %d", totalSize, tokenSize)
	}
	tokens, err := Read(c, tokenSize)
	if err != nil {
		return Expression{}, err
	}
	e := Expression{Tokens: tokens}
	if extra := totalSize - tokenSize; extra > 0 {
		e.Extra = c.ReadBytes(extra)
		if err := c.Err(); err != nil {
			return Expression{}, errors.Wrapf(err, "ptg: %d bytes of trailing data", extra)
		}
	}
	return e, nil
}
