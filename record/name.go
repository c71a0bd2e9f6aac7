package record

import (
	"github.com/pkg/errors"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/ptg"
)

// Codes of built-in names, stored as the single character of the name.
const (
	BuiltinConsolidateArea uint8 = 0x00
	BuiltinAutoOpen        uint8 = 0x01
	BuiltinAutoClose       uint8 = 0x02
	BuiltinExtract         uint8 = 0x03
	BuiltinDatabase        uint8 = 0x04
	BuiltinCriteria        uint8 = 0x05
	BuiltinPrintArea       uint8 = 0x06
	BuiltinPrintTitles     uint8 = 0x07
	BuiltinRecorder        uint8 = 0x08
	BuiltinDataForm        uint8 = 0x09
	BuiltinAutoActivate    uint8 = 0x0A
	BuiltinAutoDeactivate  uint8 = 0x0B
	BuiltinSheetTitle      uint8 = 0x0C
	BuiltinFilterDatabase  uint8 = 0x0D
)

var (
	nameHidden  = biff.NewBitField[uint16](0x0001)
	nameFunc    = biff.NewBitField[uint16](0x0002)
	nameBuiltin = biff.NewBitField[uint16](0x0020)
)

// Name is a defined name: a workbook or sheet level label for a formula.
type Name struct {
	Options  uint16
	Shortcut uint8
	Reserved uint16
	// Sheet is the one-based sheet the name is local to, 0 for global.
	Sheet uint16
	Name  biff.XLString
	Expr  ptg.Expression

	Menu, Description, Help, Status biff.XLString
}

// NewName parses formula and returns a name defining it.
func NewName(name string, sheet uint16, formula string) (*Name, error) {
	e, err := ptg.Parse(formula)
	if err != nil {
		return nil, errors.Wrapf(err, "name %q", name)
	}
	return &Name{Sheet: sheet, Name: biff.NewXLString(name), Expr: e}, nil
}

// NewBuiltinName returns a built-in name local to sheet.
func NewBuiltinName(code uint8, sheet uint16, e ptg.Expression) *Name {
	n := &Name{Sheet: sheet, Name: biff.XLString{Text: string(rune(code))}, Expr: e}
	n.Options = nameBuiltin.Set(n.Options)
	return n
}

func (n *Name) Sid() uint16       { return SidName }
func (n *Name) Hidden() bool      { return nameHidden.IsSet(n.Options) }
func (n *Name) Function() bool    { return nameFunc.IsSet(n.Options) }
func (n *Name) Builtin() bool     { return nameBuiltin.IsSet(n.Options) }
func (n *Name) SetHidden(on bool) { n.Options = nameHidden.SetBool(n.Options, on) }

// BuiltinCode returns the code of a built-in name.
func (n *Name) BuiltinCode() (uint8, bool) {
	if !n.Builtin() || n.Name.Text == "" {
		return 0, false
	}
	return n.Name.Text[0], true
}

func optionalSize(s biff.XLString) int {
	if s.CharCount() == 0 {
		return 0
	}
	return 1 + s.CharsSize()
}

func (n *Name) DataSize() int {
	return 15 + n.Name.CharsSize() + n.Expr.DataSize() +
		optionalSize(n.Menu) + optionalSize(n.Description) + optionalSize(n.Help) + optionalSize(n.Status)
}

func (n *Name) Serialize(w *biff.Writer) {
	w.WriteUint16(n.Options)
	w.WriteUint8(n.Shortcut)
	w.WriteUint8(uint8(n.Name.CharCount()))
	w.WriteUint16(uint16(n.Expr.TokenSize()))
	w.WriteUint16(n.Reserved)
	w.WriteUint16(n.Sheet)
	for _, s := range n.optional() {
		w.WriteUint8(uint8(s.CharCount()))
	}
	w.WriteXLString(n.Name)
	n.Expr.WriteTokens(w)
	n.Expr.WriteExtra(w)
	for _, s := range n.optional() {
		if s.CharCount() > 0 {
			w.WriteXLString(s)
		}
	}
}

func (n *Name) optional() [4]biff.XLString {
	return [4]biff.XLString{n.Menu, n.Description, n.Help, n.Status}
}

func decodeName(c *biff.Cursor) (Record, error) {
	n := &Name{Options: c.U16(), Shortcut: c.U8()}
	nameLen := int(c.U8())
	tokenSize := int(c.U16())
	n.Reserved = c.U16()
	n.Sheet = c.U16()
	var counts [4]int
	for i := range counts {
		counts[i] = int(c.U8())
	}
	n.Name = c.ReadXLString(nameLen)
	if err := c.Err(); err != nil {
		return nil, err
	}
	tokens, err := ptg.Read(c, tokenSize)
	if err != nil {
		return nil, errors.Wrapf(err, "name %q", n.Name.Text)
	}
	n.Expr.Tokens = tokens
	if n.Expr.Extra, err = ptg.ReadExtra(c, tokens); err != nil {
		return nil, errors.Wrapf(err, "name %q", n.Name.Text)
	}
	var opt [4]biff.XLString
	for i, k := range counts {
		if k > 0 {
			opt[i] = c.ReadXLString(k)
		}
	}
	n.Menu, n.Description, n.Help, n.Status = opt[0], opt[1], opt[2], opt[3]
	return n, nil
}
