package record

import (
	"github.com/oy3o/biff"
)

// Font weights.
const (
	WeightNormal uint16 = 0x0190
	WeightBold   uint16 = 0x02BC
)

// Underline styles.
const (
	UnderlineNone             uint8 = 0x00
	UnderlineSingle           uint8 = 0x01
	UnderlineDouble           uint8 = 0x02
	UnderlineSingleAccounting uint8 = 0x21
	UnderlineDoubleAccounting uint8 = 0x22
)

var (
	fontItalic    = biff.NewBitField[uint16](0x0002)
	fontStrikeout = biff.NewBitField[uint16](0x0008)
	fontOutline   = biff.NewBitField[uint16](0x0010)
	fontShadow    = biff.NewBitField[uint16](0x0020)
)

// fontFields is the fixed part of a FONT record.
type fontFields struct {
	Height     uint16 // twips
	Attributes uint16
	Color      uint16
	Weight     uint16
	Escapement uint16 // 0 none, 1 superscript, 2 subscript
	Underline  uint8
	Family     uint8
	Charset    uint8
	Reserved   uint8
}

// Font describes one font of the workbook font table.
type Font struct {
	fontFields
	Name biff.XLString
}

// NewFont returns a regular font of the given height in twips. Names
// over 255 characters fail to encode with biff.ErrStringTooLong.
func NewFont(name string, height uint16) *Font {
	return &Font{
		fontFields: fontFields{Height: height, Color: 0x7FFF, Weight: WeightNormal},
		Name:       biff.NewXLString(name),
	}
}

func (f *Font) Sid() uint16 { return SidFont }

func (f *Font) Italic() bool    { return fontItalic.IsSet(f.Attributes) }
func (f *Font) Strikeout() bool { return fontStrikeout.IsSet(f.Attributes) }
func (f *Font) Outline() bool   { return fontOutline.IsSet(f.Attributes) }
func (f *Font) Shadow() bool    { return fontShadow.IsSet(f.Attributes) }

func (f *Font) SetItalic(on bool)    { f.Attributes = fontItalic.SetBool(f.Attributes, on) }
func (f *Font) SetStrikeout(on bool) { f.Attributes = fontStrikeout.SetBool(f.Attributes, on) }
func (f *Font) SetOutline(on bool)   { f.Attributes = fontOutline.SetBool(f.Attributes, on) }
func (f *Font) SetShadow(on bool)    { f.Attributes = fontShadow.SetBool(f.Attributes, on) }

// Bold reports a weight at or above the bold weight.
func (f *Font) Bold() bool { return f.Weight >= WeightBold }

// SetBold sets the weight to bold or normal.
func (f *Font) SetBold(on bool) {
	if on {
		f.Weight = WeightBold
	} else {
		f.Weight = WeightNormal
	}
}

func (f *Font) DataSize() int {
	return biff.FixedSize[fontFields]() + 2 + f.Name.CharsSize()
}

func (f *Font) Serialize(w *biff.Writer) {
	biff.EncodeFixed(w, &f.fontFields)
	w.WriteShortString(f.Name)
}

func decodeFont(c *biff.Cursor) (Record, error) {
	f := &Font{}
	if err := biff.DecodeFixed(c, &f.fontFields); err != nil {
		return nil, err
	}
	f.Name = c.ReadShortString()
	return f, nil
}
