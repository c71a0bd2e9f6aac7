package record

import (
	"github.com/oy3o/biff"
)

var (
	styleBuiltin = biff.NewBitField[uint16](0x8000)
	styleXF      = biff.NewBitField[uint16](0x0FFF)
)

// Style names a cell style. Built-in styles carry an identifier and an
// outline level, user styles a name.
type Style struct {
	Options      uint16
	BuiltinID    uint8
	OutlineLevel uint8
	Name         biff.XLString
}

// NewBuiltinStyle returns a built-in style over the XF at xf.
func NewBuiltinStyle(xf uint16, id, level uint8) *Style {
	s := &Style{BuiltinID: id, OutlineLevel: level}
	s.SetXF(xf)
	s.Options = styleBuiltin.Set(s.Options)
	return s
}

// NewUserStyle returns a named style over the XF at xf.
func NewUserStyle(xf uint16, name string) *Style {
	s := &Style{Name: biff.NewXLString(name)}
	s.SetXF(xf)
	return s
}

func (s *Style) Sid() uint16    { return SidStyle }
func (s *Style) Builtin() bool  { return styleBuiltin.IsSet(s.Options) }
func (s *Style) XF() uint16     { return styleXF.Value(s.Options) }
func (s *Style) SetXF(i uint16) { s.Options = styleXF.SetValue(s.Options, i) }

func (s *Style) DataSize() int {
	if s.Builtin() {
		return 4
	}
	return 5 + s.Name.CharsSize()
}

func (s *Style) Serialize(w *biff.Writer) {
	w.WriteUint16(s.Options)
	if s.Builtin() {
		w.WriteUint8(s.BuiltinID)
		w.WriteUint8(s.OutlineLevel)
		return
	}
	w.WriteLongString(s.Name)
}

func decodeStyle(c *biff.Cursor) (Record, error) {
	s := &Style{Options: c.U16()}
	if s.Builtin() {
		s.BuiltinID = c.U8()
		s.OutlineLevel = c.U8()
	} else {
		s.Name = c.ReadLongString()
	}
	return s, nil
}
