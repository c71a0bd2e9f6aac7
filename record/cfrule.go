package record

import (
	"github.com/pkg/errors"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/ptg"
)

// Condition types.
const (
	CondCellValue uint8 = 1
	CondFormula   uint8 = 2
)

// Comparison operators of a cell value condition.
const (
	OpNone uint8 = iota
	OpBetween
	OpNotBetween
	OpEqual
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterOrEqual
	OpLessOrEqual
)

// Modified is one of the inverted "modified" flags of a CFRule: a set bit
// means the attribute is left unchanged.
type Modified uint32

const (
	ModBorderLeft     Modified = 0x00000400
	ModBorderRight    Modified = 0x00000800
	ModBorderTop      Modified = 0x00001000
	ModBorderBottom   Modified = 0x00002000
	ModBorderTlBr     Modified = 0x00004000
	ModBorderBlTr     Modified = 0x00008000
	ModPattern        Modified = 0x00010000
	ModPatternColor   Modified = 0x00020000
	ModPatternBgColor Modified = 0x00040000
)

// CFRule option bits.
const (
	cfrFont         uint32 = 0x04000000
	cfrAlign        uint32 = 0x08000000
	cfrBorder       uint32 = 0x10000000
	cfrPattern      uint32 = 0x20000000
	cfrProtection   uint32 = 0x40000000

	defaultRuleOptions  uint32 = 0x003FFFFF
	defaultRuleReserved uint16 = 0x8002
)

// CFRule is one rule of a conditional format. Formulas are kept exactly as
// stored; shared-style references are not rewritten.
type CFRule struct {
	Condition uint8
	Operator  uint8
	Options   uint32
	Reserved  uint16
	Font      *FontBlock
	Border    *BorderBlock
	Pattern   *PatternBlock
	Formula1  []ptg.Token
	Formula2  []ptg.Token
}

func newRule(cond, op uint8) *CFRule {
	return &CFRule{Condition: cond, Operator: op, Options: defaultRuleOptions, Reserved: defaultRuleReserved}
}

// NewFormulaRule returns a rule that applies when the formula is true.
func NewFormulaRule(formula string) (*CFRule, error) {
	r := newRule(CondFormula, OpNone)
	var err error
	if r.Formula1, err = parseRuleFormula(formula); err != nil {
		return nil, err
	}
	return r, nil
}

// NewComparisonRule returns a rule comparing the cell value with one or
// two formulas. formula2 is only used by the between operators.
func NewComparisonRule(op uint8, formula1, formula2 string) (*CFRule, error) {
	if op > OpLessOrEqual {
		return nil, errors.Wrapf(ErrInvalidEnum, "comparison operator %d", op)
	}
	r := newRule(CondCellValue, op)
	var err error
	if r.Formula1, err = parseRuleFormula(formula1); err != nil {
		return nil, err
	}
	if r.Formula2, err = parseRuleFormula(formula2); err != nil {
		return nil, err
	}
	return r, nil
}

func parseRuleFormula(text string) ([]ptg.Token, error) {
	e, err := ptg.Parse(text)
	if err != nil {
		return nil, err
	}
	if len(e.Extra) > 0 {
		return nil, errors.Wrap(ErrUnsupported, "array constant in condition formula")
	}
	return e.Tokens, nil
}

func (r *CFRule) Sid() uint16 { return SidCFRule }

// IsModified reports whether the rule changes the attribute.
func (r *CFRule) IsModified(m Modified) bool { return r.Options&uint32(m) == 0 }

// SetModified marks the attribute as changed or unchanged. No other bit is
// touched.
func (r *CFRule) SetModified(m Modified, on bool) {
	if on {
		r.Options &^= uint32(m)
	} else {
		r.Options |= uint32(m)
	}
}

func (r *CFRule) HasFont() bool    { return r.Options&cfrFont != 0 }
func (r *CFRule) HasBorder() bool  { return r.Options&cfrBorder != 0 }
func (r *CFRule) HasPattern() bool { return r.Options&cfrPattern != 0 }

// SetFont attaches a font block, or removes it when b is nil.
func (r *CFRule) SetFont(b *FontBlock) {
	r.Font = b
	r.Options = setBit(r.Options, cfrFont, b != nil)
}

// SetBorder attaches a border block, or removes it when b is nil.
func (r *CFRule) SetBorder(b *BorderBlock) {
	r.Border = b
	r.Options = setBit(r.Options, cfrBorder, b != nil)
}

// SetPattern attaches a pattern block, or removes it when b is nil.
func (r *CFRule) SetPattern(b *PatternBlock) {
	r.Pattern = b
	r.Options = setBit(r.Options, cfrPattern, b != nil)
}

func setBit(v, mask uint32, on bool) uint32 {
	if on {
		return v | mask
	}
	return v &^ mask
}

func (r *CFRule) DataSize() int {
	n := 12 + ptg.Size(r.Formula1) + ptg.Size(r.Formula2)
	if r.HasFont() {
		n += fontBlockSize
	}
	if r.HasBorder() {
		n += borderBlockSize
	}
	if r.HasPattern() {
		n += patternBlockSize
	}
	return n
}

func (r *CFRule) Serialize(w *biff.Writer) {
	w.WriteUint8(r.Condition)
	w.WriteUint8(r.Operator)
	w.WriteUint16(uint16(ptg.Size(r.Formula1)))
	w.WriteUint16(uint16(ptg.Size(r.Formula2)))
	w.WriteUint32(r.Options)
	w.WriteUint16(r.Reserved)
	// a flagged block without a value is written as zeros
	switch {
	case !r.HasFont():
	case r.Font == nil:
		w.WriteZeros(fontBlockSize)
	default:
		w.WriteBytes(r.Font[:])
	}
	switch {
	case !r.HasBorder():
	case r.Border == nil:
		w.WriteZeros(borderBlockSize)
	default:
		biff.EncodeFixed(w, r.Border)
	}
	switch {
	case !r.HasPattern():
	case r.Pattern == nil:
		w.WriteZeros(patternBlockSize)
	default:
		biff.EncodeFixed(w, r.Pattern)
	}
	ptg.Write(w, r.Formula1)
	ptg.Write(w, r.Formula2)
}

func decodeCFRule(c *biff.Cursor) (Record, error) {
	r := &CFRule{Condition: c.U8(), Operator: c.U8()}
	size1, size2 := int(c.U16()), int(c.U16())
	r.Options = c.U32()
	r.Reserved = c.U16()
	if err := c.Err(); err != nil {
		return nil, err
	}
	if r.Condition != CondCellValue && r.Condition != CondFormula {
		return nil, errors.Wrapf(ErrInvalidEnum, "condition type %d", r.Condition)
	}
	if r.Operator > OpLessOrEqual {
		return nil, errors.Wrapf(ErrInvalidEnum, "comparison operator %d", r.Operator)
	}
	if r.Options&(cfrAlign|cfrProtection) != 0 {
		return nil, errors.Wrapf(ErrUnsupported, "alignment or protection block, options 0x%08X", r.Options)
	}
	if r.HasFont() {
		r.Font = new(FontBlock)
		c.ReadBytesTo(r.Font[:])
	}
	if r.HasBorder() {
		r.Border = new(BorderBlock)
		if err := biff.DecodeFixed(c, r.Border); err != nil {
			return nil, err
		}
	}
	if r.HasPattern() {
		r.Pattern = new(PatternBlock)
		if err := biff.DecodeFixed(c, r.Pattern); err != nil {
			return nil, err
		}
	}
	var err error
	if r.Formula1, err = ptg.Read(c, size1); err != nil {
		return nil, errors.Wrap(err, "formula 1")
	}
	if r.Formula2, err = ptg.Read(c, size2); err != nil {
		return nil, errors.Wrap(err, "formula 2")
	}
	return r, c.Err()
}

const (
	fontBlockSize    = 118
	borderBlockSize  = 8
	patternBlockSize = 4
)

// FontBlock is the font formatting block of a CFRule, kept raw. The
// accessors cover the fields a rule usually changes.
type FontBlock [fontBlockSize]byte

const (
	fontBlockHeight = 64
	fontBlockWeight = 72
	fontBlockColor  = 80
)

// Height returns the font height in twips, or -1 when unchanged.
func (b *FontBlock) Height() int32  { return int32(biff.Order.Uint32(b[fontBlockHeight:])) }
func (b *FontBlock) Weight() uint16 { return biff.Order.Uint16(b[fontBlockWeight:]) }
func (b *FontBlock) Color() uint32  { return biff.Order.Uint32(b[fontBlockColor:]) }

func (b *FontBlock) SetHeight(v int32)  { biff.Order.PutUint32(b[fontBlockHeight:], uint32(v)) }
func (b *FontBlock) SetWeight(v uint16) { biff.Order.PutUint16(b[fontBlockWeight:], v) }
func (b *FontBlock) SetColor(v uint32)  { biff.Order.PutUint32(b[fontBlockColor:], v) }

var (
	borderLeftStyle   = biff.NewBitField[uint16](0x000F)
	borderRightStyle  = biff.NewBitField[uint16](0x00F0)
	borderTopStyle    = biff.NewBitField[uint16](0x0F00)
	borderBottomStyle = biff.NewBitField[uint16](0xF000)
	borderLeftColor   = biff.NewBitField[uint16](0x007F)
	borderRightColor  = biff.NewBitField[uint16](0x3F80)
	borderTopColor    = biff.NewBitField[uint32](0x0000007F)
	borderBottomColor = biff.NewBitField[uint32](0x00003F80)
)

// BorderBlock is the border formatting block of a CFRule.
type BorderBlock struct {
	LineStyles uint16
	Colors     uint16
	Extra      uint32 // top and bottom colours, diagonal colour and style
}

func (b *BorderBlock) LeftStyle() uint16   { return borderLeftStyle.Value(b.LineStyles) }
func (b *BorderBlock) RightStyle() uint16  { return borderRightStyle.Value(b.LineStyles) }
func (b *BorderBlock) TopStyle() uint16    { return borderTopStyle.Value(b.LineStyles) }
func (b *BorderBlock) BottomStyle() uint16 { return borderBottomStyle.Value(b.LineStyles) }
func (b *BorderBlock) LeftColor() uint16   { return borderLeftColor.Value(b.Colors) }
func (b *BorderBlock) RightColor() uint16  { return borderRightColor.Value(b.Colors) }
func (b *BorderBlock) TopColor() uint32    { return borderTopColor.Value(b.Extra) }
func (b *BorderBlock) BottomColor() uint32 { return borderBottomColor.Value(b.Extra) }

func (b *BorderBlock) SetLeftStyle(v uint16)   { b.LineStyles = borderLeftStyle.SetValue(b.LineStyles, v) }
func (b *BorderBlock) SetRightStyle(v uint16)  { b.LineStyles = borderRightStyle.SetValue(b.LineStyles, v) }
func (b *BorderBlock) SetTopStyle(v uint16)    { b.LineStyles = borderTopStyle.SetValue(b.LineStyles, v) }
func (b *BorderBlock) SetBottomStyle(v uint16) { b.LineStyles = borderBottomStyle.SetValue(b.LineStyles, v) }

var (
	patternFill    = biff.NewBitField[uint16](0xFC00)
	patternColor   = biff.NewBitField[uint16](0x007F)
	patternBgColor = biff.NewBitField[uint16](0x3F80)
)

// PatternBlock is the pattern formatting block of a CFRule.
type PatternBlock struct {
	Style  uint16
	Colors uint16
}

func (b *PatternBlock) Fill() uint16    { return patternFill.Value(b.Style) }
func (b *PatternBlock) Color() uint16   { return patternColor.Value(b.Colors) }
func (b *PatternBlock) BgColor() uint16 { return patternBgColor.Value(b.Colors) }

func (b *PatternBlock) SetFill(v uint16)    { b.Style = patternFill.SetValue(b.Style, v) }
func (b *PatternBlock) SetColor(v uint16)   { b.Colors = patternColor.SetValue(b.Colors, v) }
func (b *PatternBlock) SetBgColor(v uint16) { b.Colors = patternBgColor.SetValue(b.Colors, v) }
