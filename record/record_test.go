package record

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/ptg"
)

// frame prefixes payload with a record header.
func frame(sid uint16, payload []byte) []byte {
	b := biff.Order.AppendUint16(nil, sid)
	b = biff.Order.AppendUint16(b, uint16(len(payload)))
	return append(b, payload...)
}

// roundTrip marshals r, reads it back and checks the second encoding is
// byte-identical to the first.
func roundTrip(t *testing.T, r Record) Record {
	t.Helper()
	data, err := Marshal(r)
	require.NoError(t, err)
	assert.Len(t, data, RecordSize(r))

	recs, diags, err := ReadAll(bytes.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, recs, 1)

	again, err := Marshal(recs[0])
	require.NoError(t, err)
	assert.Equal(t, data, again)
	return recs[0]
}

func TestRoundTrip(t *testing.T) {
	ext := ptg.MustParse("A1*2")
	tests := []struct {
		name string
		rec  Record
	}{
		{"BOF", NewBOF(BOFWorksheet)},
		{"EOF", &EOF{}},
		{"Begin", &Begin{}},
		{"End", &End{}},
		{"Font", NewFont("Calibri", 220)},
		{"FontWide", NewFont("宋体", 200)},
		{"BuiltinStyle", NewBuiltinStyle(0, 0, 0xFF)},
		{"UserStyle", NewUserStyle(21, "Heading")},
		{"Note", NewNote(3, 4, 1025, "Ada")},
		{"CFHeader", NewCFHeader([]CellRange{{0, 4, 1, 1}, {7, 9, 0, 3}}, 2)},
		{"CodePage", &CodePage{Page: CodePageWindows1252}},
		{"Format", &Format{Index: 164, Code: biff.NewXLString(`0.00" €"`)}},
		{"LabelSST", &LabelSST{Row: 1, Col: 2, XF: 15, SST: 7}},
		{"Number", &Number{Row: 1, Col: 3, XF: 15, Value: 3.25}},
		{"Blank", &Blank{Row: 9, Col: 9, XF: 16}},
		{"BoolErr", &BoolErr{Row: 2, Col: 0, XF: 15, Value: ptg.ErrDiv0, IsError: 1}},
		{"Row", &Row{Row: 5, FirstCol: 0, LastCol: 4, Height: 0xFF, Flags: 0x0100, XFFlags: 0x000F}},
		{"Dimensions", &Dimensions{FirstRow: 0, LastRow: 10, FirstCol: 0, LastCol: 5}},
		{"String", &String{Value: biff.NewXLString("cached")}},
		{"Formula", &Formula{Row: 4, Col: 1, XF: 15, Options: 0x0002, Expr: ptg.MustParse("SUM(A1:A4)*2")}},
		{"FormulaArray", &Formula{Row: 4, Col: 2, Expr: ptg.MustParse(`{1,2;3,"x"}`)}},
		{"SharedFormula", &SharedFormula{Range: CellRange{2, 9, 1, 1}, Uses: 8, Expr: ptg.Expression{
			Tokens: []ptg.Token{ptg.RefN{Class: ptg.ClassValue, Row: 0, Col: ptg.Col(0xFF, true, true)}, ptg.Int{Value: 1}, ptg.OpAdd},
		}}},
		{"Array", &Array{Range: CellRange{0, 1, 0, 1}, Expr: ptg.MustParse("A1:B2*2")}},
		{"Name", &Name{Name: biff.NewXLString("Rates"), Expr: ptg.MustParse("$A$1:$A$9"), Description: biff.NewXLString("tax rates")}},
		{"BuiltinName", NewBuiltinName(BuiltinPrintArea, 1, ptg.MustParse("$A$1:$C$20"))},
		{"ExternalNameFormula", &ExternalName{Name: biff.NewXLString("Total"), Formula: &ext}},
		{"ExternalNameDDE", &ExternalName{Options: 0x0002, Name: biff.NewXLString("R1C1"), DDE: &ptg.ConstArray{
			Cols: 1, Rows: 2, Values: []ptg.Constant{ptg.NumberConst(4), ptg.StringConst("x")},
		}}},
		{"ExtSST", &ExtSST{BucketSize: 8, Buckets: []ExtSSTBucket{{StreamPos: 1200, Offset: 12}}}},
		{"Unknown", &Unknown{ID: 0x0867, Data: []byte{0x67, 0x08, 0, 0}}},
		{"XF", NewCellXF(5, 164, 0)},
		{"DV", mustDV(t, DVWhole, DVBetween, "1", "10", []CellRange{{0, 9, 2, 2}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, tt.rec)
			assert.Equal(t, tt.rec, got)
		})
	}
}

func TestExternalNameWithoutFormula(t *testing.T) {
	payload := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x09, 0x00,
		'R', 'a', 't', 'e', '_', 'D', 'a', 't', 'e',
	}
	require.Len(t, payload, 17)

	r, d := DecodeBytes(SidExternalName, payload)
	require.Nil(t, d)
	name := r.(*ExternalName)
	assert.Equal(t, "Rate_Date", name.Name.Text)
	assert.Equal(t, 9, name.Name.CharCount())
	assert.Nil(t, name.Formula)
	assert.Nil(t, name.DDE)
	assert.Equal(t, 21, RecordSize(name))

	data, err := Marshal(name)
	require.NoError(t, err)
	assert.Equal(t, frame(SidExternalName, payload), data)

	t.Run("OneByteLeft", func(t *testing.T) {
		r, d := DecodeBytes(SidExternalName, append(payload, 0x01))
		require.NotNil(t, d)
		assert.Equal(t, biff.DecodeFailed, d.Kind)
		assert.ErrorIs(t, d, ErrBadLength)
		assert.IsType(t, &Unknown{}, r)
	})
}

func TestFontArial(t *testing.T) {
	payload := []byte{
		0xC8, 0x00, 0x00, 0x00, 0xFF, 0x7F, 0x90, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05, 0x00,
		0x41, 0x72, 0x69, 0x61, 0x6C,
	}
	r, d := DecodeBytes(SidFont, payload)
	require.Nil(t, d)
	f := r.(*Font)
	assert.Equal(t, "Arial", f.Name.Text)
	assert.Equal(t, uint16(200), f.Height)
	assert.Equal(t, WeightNormal, f.Weight)
	assert.False(t, f.Bold())
	assert.False(t, f.Italic())
	assert.Equal(t, uint16(0x7FFF), f.Color)

	got, err := biff.MarshalPayload[Record](f)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Len(t, got, 21)

	t.Run("Attributes", func(t *testing.T) {
		f := &Font{}
		f.Attributes = 0x8001
		f.SetItalic(true)
		f.SetShadow(true)
		assert.Equal(t, uint16(0x8023), f.Attributes)
		f.SetItalic(false)
		assert.True(t, f.Shadow())
		assert.False(t, f.Strikeout())
		assert.Equal(t, uint16(0x8021), f.Attributes)

		f.SetBold(true)
		assert.Equal(t, WeightBold, f.Weight)
		f.Weight = 0x2BB
		assert.False(t, f.Bold())
		f.Weight = 0x384
		assert.True(t, f.Bold())
	})
}

func TestNote(t *testing.T) {
	t.Run("WideAuthorStaysWide", func(t *testing.T) {
		n := NewNote(0, 0, 1, "Bob")
		n.Author.Flags = biff.FlagWide
		got := roundTrip(t, n).(*Note)
		assert.True(t, got.Author.Wide())
		assert.Equal(t, "Bob", got.Author.Text)
		assert.Equal(t, 11+6+1, got.DataSize())
	})

	t.Run("Visibility", func(t *testing.T) {
		n := &Note{Flags: 0x0101}
		n.SetVisible(true)
		assert.Equal(t, uint16(0x0103), n.Flags)
		n.SetVisible(false)
		assert.Equal(t, uint16(0x0101), n.Flags)
		assert.False(t, n.Visible())
	})

	t.Run("NoPadding", func(t *testing.T) {
		payload := []byte{1, 0, 2, 0, 0, 0, 3, 0, 1, 0, 0, 'x'}
		r, d := DecodeBytes(SidNote, payload)
		require.Nil(t, d)
		assert.Empty(t, r.(*Note).Padding)
		got, err := biff.MarshalPayload(r)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})
}

func TestCFHeader(t *testing.T) {
	payload := []byte{
		0x03, 0x00, 0x01, 0x00,
		0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x03, 0x00,
		0x04, 0x00,
		0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00,
		0x00, 0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00,
		0x02, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00,
		0x02, 0x00, 0x03, 0x00, 0x02, 0x00, 0x03, 0x00,
	}
	r, d := DecodeBytes(SidCFHeader, payload)
	require.Nil(t, d)
	h := r.(*CFHeader)
	assert.Equal(t, uint16(3), h.RuleCount)
	assert.Len(t, h.Ranges, 4)
	assert.Equal(t, CellRange{0, 3, 0, 3}, h.Enclosing)
	assert.Equal(t, h.Enclosing, h.BoundingBox())
	assert.True(t, h.NeedRecalc())
	assert.Equal(t, uint16(0), h.ID())

	got, err := biff.MarshalPayload(r)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	t.Run("FlagIsolation", func(t *testing.T) {
		h := &CFHeader{Flags: 0xFFFE}
		h.SetNeedRecalc(true)
		assert.Equal(t, uint16(0xFFFF), h.Flags)
		h.SetNeedRecalc(false)
		assert.Equal(t, uint16(0x7FFF), h.ID())
		h.SetID(5)
		assert.Equal(t, uint16(0x000A), h.Flags)
		assert.False(t, h.NeedRecalc())
	})
}

// formula extracted from a file where a rule compares each cell with the
// one above it
var cfRuleRefN = []byte{
	0x01, 0x03,
	0x09, 0x00,
	0x00, 0x00,
	0xFF, 0xFF, 0x3F, 0x20,
	0x02, 0x80,
	0x00, 0x00, 0x00, 0x05,
	0x4C, 0xFF, 0xFF, 0x00, 0xC0,
	0x1E, 0x01, 0x00,
	0x0B,
}

func TestCFRule(t *testing.T) {
	t.Run("ComparisonWithPattern", func(t *testing.T) {
		r, err := NewComparisonRule(OpBetween, "5", "10")
		require.NoError(t, err)
		p := &PatternBlock{}
		p.SetFill(0x0E)
		r.SetPattern(p)

		data, err := Marshal(r)
		require.NoError(t, err)
		require.Len(t, data, 26)
		assert.Equal(t, uint16(3), biff.Order.Uint16(data[6:]))
		assert.Equal(t, uint16(3), biff.Order.Uint16(data[8:]))

		flags := biff.Order.Uint32(data[10:])
		assert.Equal(t, uint32(0x00380000), flags&0x00380000)
		assert.Zero(t, flags&0x03C00000)
		assert.Equal(t, uint32(0x203FFFFF), flags)
		assert.Equal(t, uint16(0x8002), biff.Order.Uint16(data[14:]))

		got := roundTrip(t, r).(*CFRule)
		assert.Equal(t, r, got)
		assert.Equal(t, uint16(0x0E), got.Pattern.Fill())
	})

	t.Run("SharedReferenceKept", func(t *testing.T) {
		r, d := DecodeBytes(SidCFRule, cfRuleRefN)
		require.Nil(t, d)
		rule := r.(*CFRule)
		assert.Equal(t, CondCellValue, rule.Condition)
		assert.Equal(t, OpEqual, rule.Operator)
		require.True(t, rule.HasPattern())
		assert.Equal(t, uint16(0x0500), rule.Pattern.Colors)
		assert.Equal(t, uint16(10), rule.Pattern.BgColor())
		require.Len(t, rule.Formula1, 3)
		assert.IsType(t, ptg.RefN{}, rule.Formula1[0])
		assert.Nil(t, rule.Formula2)

		got, err := biff.MarshalPayload(r)
		require.NoError(t, err)
		assert.Equal(t, cfRuleRefN, got)
	})

	t.Run("Formula", func(t *testing.T) {
		r, err := NewFormulaRule("A1>10")
		require.NoError(t, err)
		assert.Equal(t, CondFormula, r.Condition)
		assert.Equal(t, OpNone, r.Operator)
		assert.Empty(t, r.Formula2)
		assert.Equal(t, uint32(0x003FFFFF), r.Options)
		assert.Equal(t, 12+ptg.Size(r.Formula1), r.DataSize())

		empty, err := NewFormulaRule("")
		require.NoError(t, err)
		assert.Empty(t, empty.Formula1)
	})

	t.Run("ModifiedFlags", func(t *testing.T) {
		r, err := NewFormulaRule("TRUE")
		require.NoError(t, err)
		all := []Modified{
			ModBorderLeft, ModBorderRight, ModBorderTop, ModBorderBottom,
			ModBorderTlBr, ModBorderBlTr, ModPattern, ModPatternColor, ModPatternBgColor,
		}
		for _, m := range all {
			assert.False(t, r.IsModified(m))
		}
		for _, m := range all {
			before := r.Options
			r.SetModified(m, true)
			assert.True(t, r.IsModified(m))
			assert.Equal(t, before&^uint32(m), r.Options)
			r.SetModified(m, false)
			assert.Equal(t, before, r.Options)
		}
	})

	t.Run("Blocks", func(t *testing.T) {
		r, err := NewFormulaRule("TRUE")
		require.NoError(t, err)
		font := &FontBlock{}
		font.SetHeight(-1)
		font.SetWeight(WeightBold)
		font.SetColor(10)
		r.SetFont(font)
		border := &BorderBlock{}
		border.SetLeftStyle(1)
		border.SetBottomStyle(2)
		r.SetBorder(border)
		assert.Equal(t, 12+118+8+ptg.Size(r.Formula1), r.DataSize())

		got := roundTrip(t, r).(*CFRule)
		assert.Equal(t, int32(-1), got.Font.Height())
		assert.Equal(t, WeightBold, got.Font.Weight())
		assert.Equal(t, uint32(10), got.Font.Color())
		assert.Equal(t, uint16(1), got.Border.LeftStyle())
		assert.Equal(t, uint16(2), got.Border.BottomStyle())
		assert.Equal(t, uint16(0x2001), got.Border.LineStyles)

		r.SetFont(nil)
		assert.False(t, r.HasFont())
		assert.Equal(t, 12+8+ptg.Size(r.Formula1), r.DataSize())
	})

	t.Run("FlaggedBlockWithoutValue", func(t *testing.T) {
		r, err := NewFormulaRule("TRUE")
		require.NoError(t, err)
		r.Options |= cfrBorder | cfrPattern

		data, err := biff.MarshalPayload(r)
		require.NoError(t, err)
		require.Len(t, data, r.DataSize())
		assert.Equal(t, make([]byte, borderBlockSize+patternBlockSize), data[12:24])

		got, d := DecodeBytes(SidCFRule, data)
		require.Nil(t, d)
		assert.Equal(t, &BorderBlock{}, got.(*CFRule).Border)
		assert.Equal(t, &PatternBlock{}, got.(*CFRule).Pattern)
	})

	t.Run("Invalid", func(t *testing.T) {
		tests := []struct {
			name  string
			patch func(b []byte)
			err   error
		}{
			{"condition", func(b []byte) { b[0] = 3 }, ErrInvalidEnum},
			{"operator", func(b []byte) { b[1] = 9 }, ErrInvalidEnum},
			{"alignment block", func(b []byte) { b[9] |= 0x08 }, ErrUnsupported},
			{"protection block", func(b []byte) { b[9] |= 0x40 }, ErrUnsupported},
			{"formula too long", func(b []byte) { b[2] = 10 }, biff.ErrOutOfData},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				b := bytes.Clone(cfRuleRefN)
				tt.patch(b)
				r, d := DecodeBytes(SidCFRule, b)
				require.NotNil(t, d)
				assert.Equal(t, biff.DecodeFailed, d.Kind)
				assert.ErrorIs(t, d, tt.err)
				assert.Equal(t, &Unknown{ID: SidCFRule, Data: b}, r)
			})
		}
		_, err := NewComparisonRule(12, "1", "")
		assert.ErrorIs(t, err, ErrInvalidEnum)
	})
}

func TestSharedFormulaAt(t *testing.T) {
	sf := &SharedFormula{Range: CellRange{FirstRow: 2, LastRow: 4, FirstCol: 1, LastCol: 1}, Expr: ptg.Expression{
		Tokens: []ptg.Token{ptg.RefN{Class: ptg.ClassValue, Row: 0xFFFF, Col: ptg.Col(0, true, true)}, ptg.Int{Value: 1}, ptg.OpAdd},
	}}
	e := sf.FormulaAt(3, 1)
	assert.Equal(t, ptg.Ref{Class: ptg.ClassValue, Row: 2, Col: ptg.Col(1, true, true)}, e.Tokens[0])
	assert.Equal(t, "B3+1", e.String())

	assert.Panics(t, func() { sf.FormulaAt(5, 1) })
	assert.Panics(t, func() { sf.FormulaAt(3, 0) })
}

func TestFormulaResult(t *testing.T) {
	f := &Formula{}
	f.SetNumber(2.5)
	assert.Equal(t, ResultNumber, f.ResultKind())
	assert.Equal(t, 2.5, f.Number())

	f.SetStringResult()
	assert.Equal(t, ResultString, f.ResultKind())

	f.Result = [8]byte{2, 0, ptg.ErrNA, 0, 0, 0, 0xFF, 0xFF}
	assert.Equal(t, ResultError, f.ResultKind())
	assert.Equal(t, ptg.ErrNA, f.Value())

	f.SetShared(true)
	f.SetCalcOnLoad(true)
	assert.Equal(t, uint16(0x000A), f.Options)
	assert.True(t, f.Shared())
	assert.False(t, f.AlwaysCalc())

	f.Expr = ptg.Expression{Tokens: []ptg.Token{ptg.Exp{Row: 2, Col: 1}}}
	row, col, ok := f.SharedBase()
	assert.True(t, ok)
	assert.Equal(t, uint16(2), row)
	assert.Equal(t, uint16(1), col)
}

func TestNameOptionalText(t *testing.T) {
	n, err := NewName("Tax", 0, "0.2")
	require.NoError(t, err)
	n.Help = biff.NewXLString("see manual")
	n.Status = biff.NewXLString("ok")
	got := roundTrip(t, n).(*Name)
	assert.Equal(t, "see manual", got.Help.Text)
	assert.Equal(t, "ok", got.Status.Text)
	assert.Empty(t, got.Menu.Text)

	b := NewBuiltinName(BuiltinFilterDatabase, 2, ptg.Expression{})
	code, ok := b.BuiltinCode()
	assert.True(t, ok)
	assert.Equal(t, BuiltinFilterDatabase, code)
	_, ok = n.BuiltinCode()
	assert.False(t, ok)
}

func TestCodePage(t *testing.T) {
	cp := &CodePage{Page: 1251}
	_, ok := cp.Encoding()
	assert.True(t, ok)
	s, err := cp.DecodeText([]byte{0xCF, 0xF0, 0xE8})
	require.NoError(t, err)
	assert.Equal(t, "При", s)

	unknown := &CodePage{Page: 9999}
	_, ok = unknown.Encoding()
	assert.False(t, ok)
	s, err = unknown.DecodeText([]byte{0x80})
	require.NoError(t, err)
	assert.Equal(t, "€", s)
}

func TestShortBOF(t *testing.T) {
	payload := []byte{0x00, 0x06, 0x10, 0x00, 0xBB, 0x0D, 0xCC, 0x07}
	r, d := DecodeBytes(SidBOF, payload)
	require.Nil(t, d)
	bof := r.(*BOF)
	assert.True(t, bof.Short())
	assert.Equal(t, BOFWorksheet, bof.Type)
	assert.Zero(t, bof.History)

	data, err := Marshal(bof)
	require.NoError(t, err)
	assert.Equal(t, frame(SidBOF, payload), data)
	roundTrip(t, bof)

	t.Run("BetweenLayouts", func(t *testing.T) {
		r, d := DecodeBytes(SidBOF, append(payload, 0xC1, 0x00))
		require.NotNil(t, d)
		assert.Equal(t, biff.DecodeFailed, d.Kind)
		assert.IsType(t, &Unknown{}, r)
	})
}

func TestStringTooLong(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"FontName", NewFont(strings.Repeat("a", 256), 200)},
		{"StyleName", NewUserStyle(21, strings.Repeat("s", 0x10000))},
		{"NoteAuthor", NewNote(0, 0, 1, strings.Repeat("n", 0x10000))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.rec)
			assert.ErrorIs(t, err, biff.ErrStringTooLong)
		})
	}

	_, err := Marshal(NewFont(strings.Repeat("a", 255), 200))
	assert.NoError(t, err)
}

func mustDV(t *testing.T, typ, op uint32, formula1, formula2 string, ranges []CellRange) *DV {
	t.Helper()
	r, err := NewDV(typ, op, formula1, formula2, ranges)
	require.NoError(t, err)
	return r
}

func TestXF(t *testing.T) {
	// the Normal style XF Excel writes first
	payload := []byte{
		0x00, 0x00, 0x00, 0x00, 0xF5, 0xFF, 0x20, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0, 0x20,
	}
	r, d := DecodeBytes(SidXF, payload)
	require.Nil(t, d)
	xf := r.(*XF)
	assert.True(t, xf.Locked())
	assert.False(t, xf.Hidden())
	assert.Equal(t, XFStyle, xf.Type())
	assert.Equal(t, NoParent, xf.Parent())
	assert.Equal(t, AlignBottom, xf.VAlign())
	assert.Equal(t, AlignGeneral, xf.HAlign())
	assert.Equal(t, uint16(0x40), xf.FgColor())
	assert.Equal(t, uint16(0x41), xf.BgColor())

	data, err := Marshal(xf)
	require.NoError(t, err)
	assert.Equal(t, frame(SidXF, payload), data)

	t.Run("Accessors", func(t *testing.T) {
		x := NewCellXF(1, 2, 0)
		assert.Equal(t, XFCell, x.Type())
		assert.Equal(t, uint16(0x20C0), x.FillColors)

		x.SetHAlign(AlignCenter)
		x.SetWrap(true)
		x.SetRotation(90)
		assert.Equal(t, uint16(0x5A2A), x.Alignment)
		assert.Equal(t, AlignBottom, x.VAlign())

		x.SetIndent(3)
		x.SetShrinkToFit(true)
		assert.Equal(t, uint16(0x0013), x.IndentOptions)

		x.SetBorders(1, 2, 5, 6)
		assert.Equal(t, uint16(0x6521), x.BorderStyles)
		assert.Equal(t, [4]uint16{1, 2, 5, 6}, x.Borders())

		x.SetPattern(1)
		assert.Equal(t, uint32(0x04000000), x.ExtraColors)
		assert.Equal(t, uint32(1), x.Pattern())

		x.SetParent(15)
		x.SetHidden(true)
		assert.Equal(t, uint16(15), x.Parent())
		assert.True(t, x.Locked())
		assert.Equal(t, uint16(0x00F3), x.CellOptions)
	})

	t.Run("Short", func(t *testing.T) {
		r, d := DecodeBytes(SidXF, payload[:18])
		require.NotNil(t, d)
		assert.Equal(t, biff.DecodeFailed, d.Kind)
		assert.IsType(t, &Unknown{}, r)
	})
}

func TestDV(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		r := mustDV(t, DVList, DVBetween, `"low,high"`, "", []CellRange{{1, 20, 0, 0}})
		r.SetExplicitList(true)
		r.SetPrompt("Level", "Pick one")
		r.SetError(DVWarning, "", "Not a level")

		assert.Equal(t, DVList, r.Type())
		assert.Equal(t, DVBetween, r.Operator())
		assert.Equal(t, DVWarning, r.ErrorStyle())
		assert.True(t, r.ExplicitList())
		assert.True(t, r.AllowBlank())
		assert.True(t, r.ShowPrompt())
		assert.True(t, r.ShowError())
		assert.False(t, r.SuppressDropdown())
		assert.Equal(t, "\x00", r.ErrorTitle.Text)
		assert.Empty(t, r.Formula2)

		got := roundTrip(t, r).(*DV)
		assert.Equal(t, r, got)
		require.Len(t, got.Formula1, 1)
		assert.Equal(t, ptg.Str{Value: biff.NewXLString("low,high")}, got.Formula1[0])
	})

	t.Run("Layout", func(t *testing.T) {
		r := mustDV(t, DVWhole, DVGreater, "5", "", []CellRange{{0, 0, 1, 1}})
		data, err := biff.MarshalPayload(r)
		require.NoError(t, err)
		require.Len(t, data, r.DataSize())

		assert.Equal(t, uint32(0x004C0101), biff.Order.Uint32(data))
		// four one-character texts, then formula 1: size, reserved, tokens
		at := 4 + 4*4
		assert.Equal(t, uint16(3), biff.Order.Uint16(data[at:]))
		assert.Equal(t, []byte{0x1E, 5, 0}, data[at+4:at+7])
		assert.Equal(t, []byte{0, 0, 0, 0}, data[at+7:at+11])
		assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 1, 0, 1, 0}, data[at+11:])
	})

	t.Run("KeepsReserved", func(t *testing.T) {
		r := mustDV(t, DVCustom, DVBetween, "TRUE", "FALSE", nil)
		r.Reserved1 = 0x3FE0
		got := roundTrip(t, r).(*DV)
		assert.Equal(t, uint16(0x3FE0), got.Reserved1)
		assert.Empty(t, got.Ranges)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := NewDV(DVCustom+1, DVEqual, "1", "", nil)
		assert.ErrorIs(t, err, ErrInvalidEnum)
		_, err = NewDV(DVWhole, DVLessOrEqual+1, "1", "", nil)
		assert.ErrorIs(t, err, ErrInvalidEnum)
		_, err = NewDV(DVList, DVEqual, "{1,2}", "", nil)
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("RangesPastEnd", func(t *testing.T) {
		data, err := biff.MarshalPayload(mustDV(t, DVWhole, DVEqual, "1", "", []CellRange{{0, 0, 0, 0}}))
		require.NoError(t, err)
		r, d := DecodeBytes(SidDV, data[:len(data)-2])
		require.NotNil(t, d)
		assert.Equal(t, biff.DecodeFailed, d.Kind)
		assert.IsType(t, &Unknown{}, r)
	})
}
