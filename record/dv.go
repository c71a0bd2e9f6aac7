package record

import (
	"github.com/pkg/errors"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/ptg"
)

// Validation data types.
const (
	DVAny uint32 = iota
	DVWhole
	DVDecimal
	DVList
	DVDate
	DVTime
	DVTextLength
	DVCustom
)

// Validation operators. Unlike conditional formats they start at zero.
const (
	DVBetween uint32 = iota
	DVNotBetween
	DVEqual
	DVNotEqual
	DVGreater
	DVLess
	DVGreaterOrEqual
	DVLessOrEqual
)

// Error styles.
const (
	DVStop uint32 = iota
	DVWarning
	DVInfo
)

var (
	dvType         = biff.NewBitField[uint32](0x0000000F)
	dvErrorStyle   = biff.NewBitField[uint32](0x00000070)
	dvExplicitList = biff.NewBitField[uint32](0x00000080)
	dvAllowBlank   = biff.NewBitField[uint32](0x00000100)
	dvNoDropdown   = biff.NewBitField[uint32](0x00000200)
	dvShowPrompt   = biff.NewBitField[uint32](0x00040000)
	dvShowError    = biff.NewBitField[uint32](0x00080000)
	dvOperator     = biff.NewBitField[uint32](0x00F00000)
)

// DV is one data validation: the rule, its prompt and error texts, and
// the ranges it applies to. Formulas are kept exactly as stored.
type DV struct {
	Options     uint32
	PromptTitle biff.XLString
	ErrorTitle  biff.XLString
	PromptText  biff.XLString
	ErrorText   biff.XLString
	Formula1    []ptg.Token
	Reserved1   uint16
	Formula2    []ptg.Token
	Reserved2   uint16
	Ranges      []CellRange
}

// NewDV returns a validation of the given type and operator over ranges.
// formula2 is only used by the between operators.
func NewDV(typ, op uint32, formula1, formula2 string, ranges []CellRange) (*DV, error) {
	if typ > DVCustom {
		return nil, errors.Wrapf(ErrInvalidEnum, "validation type %d", typ)
	}
	if op > DVLessOrEqual {
		return nil, errors.Wrapf(ErrInvalidEnum, "validation operator %d", op)
	}
	r := &DV{Ranges: ranges}
	r.Options = dvOperator.SetValue(dvType.SetValue(0, typ), op)
	r.Options = dvAllowBlank.Set(dvShowPrompt.Set(dvShowError.Set(r.Options)))
	for _, s := range []*biff.XLString{&r.PromptTitle, &r.ErrorTitle, &r.PromptText, &r.ErrorText} {
		*s = dvText("")
	}
	var err error
	if r.Formula1, err = parseRuleFormula(formula1); err != nil {
		return nil, err
	}
	if op == DVBetween || op == DVNotBetween {
		if r.Formula2, err = parseRuleFormula(formula2); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// dvText stores an empty text as a single NUL, which is how Excel marks
// an absent prompt or error text.
func dvText(s string) biff.XLString {
	if s == "" {
		s = "\x00"
	}
	return biff.NewXLString(s)
}

// SetPrompt sets the input prompt shown when a validated cell is selected.
func (r *DV) SetPrompt(title, text string) {
	r.PromptTitle, r.PromptText = dvText(title), dvText(text)
}

// SetError sets the message shown for an invalid value.
func (r *DV) SetError(style uint32, title, text string) {
	r.Options = dvErrorStyle.SetValue(r.Options, style)
	r.ErrorTitle, r.ErrorText = dvText(title), dvText(text)
}

func (r *DV) Sid() uint16 { return SidDV }

func (r *DV) Type() uint32           { return dvType.Value(r.Options) }
func (r *DV) Operator() uint32       { return dvOperator.Value(r.Options) }
func (r *DV) ErrorStyle() uint32     { return dvErrorStyle.Value(r.Options) }
func (r *DV) ExplicitList() bool     { return dvExplicitList.IsSet(r.Options) }
func (r *DV) AllowBlank() bool       { return dvAllowBlank.IsSet(r.Options) }
func (r *DV) SuppressDropdown() bool { return dvNoDropdown.IsSet(r.Options) }
func (r *DV) ShowPrompt() bool       { return dvShowPrompt.IsSet(r.Options) }
func (r *DV) ShowError() bool        { return dvShowError.IsSet(r.Options) }

func (r *DV) SetExplicitList(on bool)     { r.Options = dvExplicitList.SetBool(r.Options, on) }
func (r *DV) SetAllowBlank(on bool)       { r.Options = dvAllowBlank.SetBool(r.Options, on) }
func (r *DV) SetSuppressDropdown(on bool) { r.Options = dvNoDropdown.SetBool(r.Options, on) }
func (r *DV) SetShowPrompt(on bool)       { r.Options = dvShowPrompt.SetBool(r.Options, on) }
func (r *DV) SetShowError(on bool)        { r.Options = dvShowError.SetBool(r.Options, on) }

func (r *DV) texts() [4]biff.XLString {
	return [4]biff.XLString{r.PromptTitle, r.ErrorTitle, r.PromptText, r.ErrorText}
}

func (r *DV) DataSize() int {
	n := 4 + 4 + ptg.Size(r.Formula1) + 4 + ptg.Size(r.Formula2) + 2
	for _, s := range r.texts() {
		n += 3 + s.CharsSize()
	}
	return n + biff.FixedSize[CellRange]()*len(r.Ranges)
}

func (r *DV) Serialize(w *biff.Writer) {
	w.WriteUint32(r.Options)
	for _, s := range r.texts() {
		w.WriteLongString(s)
	}
	w.WriteUint16(uint16(ptg.Size(r.Formula1)))
	w.WriteUint16(r.Reserved1)
	ptg.Write(w, r.Formula1)
	w.WriteUint16(uint16(ptg.Size(r.Formula2)))
	w.WriteUint16(r.Reserved2)
	ptg.Write(w, r.Formula2)
	w.WriteUint16(uint16(len(r.Ranges)))
	for i := range r.Ranges {
		biff.EncodeFixed(w, &r.Ranges[i])
	}
}

func decodeDV(c *biff.Cursor) (Record, error) {
	r := &DV{Options: c.U32()}
	r.PromptTitle = c.ReadLongString()
	r.ErrorTitle = c.ReadLongString()
	r.PromptText = c.ReadLongString()
	r.ErrorText = c.ReadLongString()
	if err := c.Err(); err != nil {
		return nil, errors.Wrap(err, "texts")
	}
	var err error
	size := int(c.U16())
	r.Reserved1 = c.U16()
	if r.Formula1, err = ptg.Read(c, size); err != nil {
		return nil, errors.Wrap(err, "formula 1")
	}
	size = int(c.U16())
	r.Reserved2 = c.U16()
	if r.Formula2, err = ptg.Read(c, size); err != nil {
		return nil, errors.Wrap(err, "formula 2")
	}
	r.Ranges = readRanges(c, int(c.U16()))
	return r, c.Err()
}
