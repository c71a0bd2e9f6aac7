package record

import (
	"github.com/oy3o/biff"
)

// XF types.
const (
	XFCell  uint16 = 0
	XFStyle uint16 = 1
)

// Horizontal alignments.
const (
	AlignGeneral uint16 = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignFill
	AlignJustify
	AlignCenterSelection
)

// Vertical alignments.
const (
	AlignTop uint16 = iota
	AlignMiddle
	AlignBottom
	AlignVJustify
)

// NoParent is the parent index of a style XF.
const NoParent uint16 = 0x0FFF

var (
	xfLocked  = biff.NewBitField[uint16](0x0001)
	xfHidden  = biff.NewBitField[uint16](0x0002)
	xfType    = biff.NewBitField[uint16](0x0004)
	xfParent  = biff.NewBitField[uint16](0xFFF0)
	xfHAlign  = biff.NewBitField[uint16](0x0007)
	xfWrap    = biff.NewBitField[uint16](0x0008)
	xfVAlign  = biff.NewBitField[uint16](0x0070)
	xfRotate  = biff.NewBitField[uint16](0xFF00)
	xfIndent  = biff.NewBitField[uint16](0x000F)
	xfShrink  = biff.NewBitField[uint16](0x0010)
	xfLeft    = biff.NewBitField[uint16](0x000F)
	xfRight   = biff.NewBitField[uint16](0x00F0)
	xfTop     = biff.NewBitField[uint16](0x0F00)
	xfBottom  = biff.NewBitField[uint16](0xF000)
	xfPattern = biff.NewBitField[uint32](0xFC000000)
	xfFgColor = biff.NewBitField[uint16](0x007F)
	xfBgColor = biff.NewBitField[uint16](0x3F80)
)

// XF is an extended format: the font, number format, alignment, borders
// and fill a cell or style uses. The packed words are kept as stored;
// the accessors read and write single fields inside them.
type XF struct {
	Font          uint16
	Format        uint16
	CellOptions   uint16
	Alignment     uint16
	IndentOptions uint16
	BorderStyles  uint16
	BorderColors  uint16
	ExtraColors   uint32
	FillColors    uint16
}

// NewCellXF returns a cell XF using font and format, inheriting from the
// style XF at parent.
func NewCellXF(font, format, parent uint16) *XF {
	x := &XF{Font: font, Format: format}
	x.CellOptions = xfParent.SetValue(xfLocked.Set(0), parent)
	x.SetVAlign(AlignBottom)
	x.SetFgColor(0x40)
	x.SetBgColor(0x41)
	return x
}

func (r *XF) Sid() uint16              { return SidXF }
func (r *XF) DataSize() int            { return biff.FixedSize[XF]() }
func (r *XF) Serialize(w *biff.Writer) { biff.EncodeFixed(w, r) }

func (r *XF) Locked() bool   { return xfLocked.IsSet(r.CellOptions) }
func (r *XF) Hidden() bool   { return xfHidden.IsSet(r.CellOptions) }
func (r *XF) Type() uint16   { return xfType.Value(r.CellOptions) }
func (r *XF) Parent() uint16 { return xfParent.Value(r.CellOptions) }

func (r *XF) SetLocked(on bool)      { r.CellOptions = xfLocked.SetBool(r.CellOptions, on) }
func (r *XF) SetHidden(on bool)      { r.CellOptions = xfHidden.SetBool(r.CellOptions, on) }
func (r *XF) SetType(t uint16)       { r.CellOptions = xfType.SetValue(r.CellOptions, t) }
func (r *XF) SetParent(index uint16) { r.CellOptions = xfParent.SetValue(r.CellOptions, index) }

func (r *XF) HAlign() uint16   { return xfHAlign.Value(r.Alignment) }
func (r *XF) VAlign() uint16   { return xfVAlign.Value(r.Alignment) }
func (r *XF) Wrap() bool       { return xfWrap.IsSet(r.Alignment) }
func (r *XF) Rotation() uint16 { return xfRotate.Value(r.Alignment) }

func (r *XF) SetHAlign(a uint16)   { r.Alignment = xfHAlign.SetValue(r.Alignment, a) }
func (r *XF) SetVAlign(a uint16)   { r.Alignment = xfVAlign.SetValue(r.Alignment, a) }
func (r *XF) SetWrap(on bool)      { r.Alignment = xfWrap.SetBool(r.Alignment, on) }
func (r *XF) SetRotation(d uint16) { r.Alignment = xfRotate.SetValue(r.Alignment, d) }

func (r *XF) Indent() uint16         { return xfIndent.Value(r.IndentOptions) }
func (r *XF) ShrinkToFit() bool      { return xfShrink.IsSet(r.IndentOptions) }
func (r *XF) SetIndent(n uint16)     { r.IndentOptions = xfIndent.SetValue(r.IndentOptions, n) }
func (r *XF) SetShrinkToFit(on bool) { r.IndentOptions = xfShrink.SetBool(r.IndentOptions, on) }

// Borders returns the line styles of the left, right, top and bottom
// borders.
func (r *XF) Borders() [4]uint16 {
	return [4]uint16{
		xfLeft.Value(r.BorderStyles),
		xfRight.Value(r.BorderStyles),
		xfTop.Value(r.BorderStyles),
		xfBottom.Value(r.BorderStyles),
	}
}

// SetBorders sets all four border line styles.
func (r *XF) SetBorders(left, right, top, bottom uint16) {
	v := xfLeft.SetValue(r.BorderStyles, left)
	v = xfRight.SetValue(v, right)
	v = xfTop.SetValue(v, top)
	r.BorderStyles = xfBottom.SetValue(v, bottom)
}

func (r *XF) Pattern() uint32     { return xfPattern.Value(r.ExtraColors) }
func (r *XF) SetPattern(p uint32) { r.ExtraColors = xfPattern.SetValue(r.ExtraColors, p) }
func (r *XF) FgColor() uint16     { return xfFgColor.Value(r.FillColors) }
func (r *XF) BgColor() uint16     { return xfBgColor.Value(r.FillColors) }
func (r *XF) SetFgColor(c uint16) { r.FillColors = xfFgColor.SetValue(r.FillColors, c) }
func (r *XF) SetBgColor(c uint16) { r.FillColors = xfBgColor.SetValue(r.FillColors, c) }
