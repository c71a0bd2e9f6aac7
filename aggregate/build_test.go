package aggregate

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/record"
)

func encode(t *testing.T, recs ...record.Record) []byte {
	t.Helper()
	var buf bytes.Buffer
	_, err := record.WriteAll(&buf, recs)
	require.NoError(t, err)
	return buf.Bytes()
}

func mustRule(t *testing.T, formula string) *record.CFRule {
	t.Helper()
	r, err := record.NewFormulaRule(formula)
	require.NoError(t, err)
	return r
}

func kinds(diags []biff.Diagnostic) []biff.Kind {
	var out []biff.Kind
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}

func TestRuleCountMismatch(t *testing.T) {
	header := &record.CFHeader{
		RuleCount: 3,
		Enclosing: record.CellRange{FirstRow: 0, LastRow: 3, FirstCol: 0, LastCol: 3},
		Ranges: []record.CellRange{
			{FirstRow: 0, LastRow: 1, FirstCol: 0, LastCol: 1},
			{FirstRow: 0, LastRow: 1, FirstCol: 2, LastCol: 3},
			{FirstRow: 2, LastRow: 3, FirstCol: 0, LastCol: 1},
			{FirstRow: 2, LastRow: 3, FirstCol: 2, LastCol: 3},
		},
	}
	data := encode(t,
		record.NewBOF(record.BOFWorksheet),
		header,
		mustRule(t, "TRUE"), mustRule(t, "A1>0"), mustRule(t, "B2=1"), mustRule(t, "FALSE"),
		&record.EOF{},
	)

	var notified []biff.Diagnostic
	s, err := Read(bytes.NewReader(data), WithDiagnostics(func(d biff.Diagnostic) { notified = append(notified, d) }))
	require.NoError(t, err)

	diags := s.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, biff.RuleCountMismatch, diags[0].Kind)
	assert.Equal(t, record.SidCFHeader, diags[0].Sid)
	assert.Equal(t, int64(20), diags[0].Offset)
	assert.Contains(t, diags[0].Detail, "declares 3 rules, 4 follow")
	assert.Equal(t, diags, notified)

	sets := s.RuleSets()
	require.Len(t, sets, 1)
	assert.Len(t, sets[0].Rules, 4)
	assert.Equal(t, record.CellRange{FirstRow: 0, LastRow: 3, FirstCol: 0, LastCol: 3}, sets[0].Header.Enclosing)
	assert.Equal(t, sets[0].Header.BoundingBox(), sets[0].Header.Enclosing)
	assert.Len(t, sets[0].Ranges(), 4)

	var out bytes.Buffer
	n, err := s.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, data, out.Bytes())
}

func TestEnclosingRangeMismatch(t *testing.T) {
	header := &record.CFHeader{
		RuleCount: 1,
		Enclosing: record.CellRange{LastRow: 9, LastCol: 9},
		Ranges:    []record.CellRange{{LastRow: 1, LastCol: 1}},
	}
	s, err := Build([]record.Record{header, mustRule(t, "TRUE")})
	require.NoError(t, err)
	assert.Equal(t, []biff.Kind{biff.EnclosingRangeMismatch}, kinds(s.Diagnostics()))

	// the header is kept as read
	assert.Equal(t, record.CellRange{LastRow: 9, LastCol: 9}, s.RuleSets()[0].Header.Enclosing)
}

func TestRuleSetLimit(t *testing.T) {
	ranges := []record.CellRange{{FirstRow: 1, LastRow: 5, FirstCol: 2, LastCol: 2}}
	rs, err := NewRuleSet(ranges, mustRule(t, "TRUE"), mustRule(t, "FALSE"))
	require.NoError(t, err)
	assert.Equal(t, uint16(2), rs.Header.RuleCount)
	assert.Equal(t, ranges[0], rs.Header.Enclosing)

	require.NoError(t, rs.AddRule(mustRule(t, "C2>1")))
	assert.Equal(t, uint16(3), rs.Header.RuleCount)
	assert.ErrorIs(t, rs.AddRule(mustRule(t, "TRUE")), ErrTooManyRules)
	assert.Len(t, rs.Rules, MaxRules)

	_, err = NewRuleSet(ranges, mustRule(t, "TRUE"), mustRule(t, "TRUE"), mustRule(t, "TRUE"), mustRule(t, "TRUE"))
	assert.ErrorIs(t, err, ErrTooManyRules)

	s, err := Build([]record.Record{rs.Header, rs.Rules[0], rs.Rules[1], rs.Rules[2]})
	require.NoError(t, err)
	assert.Empty(t, s.Diagnostics())
}

func TestGroups(t *testing.T) {
	num := &record.Number{Row: 1, Col: 1, Value: 2}
	blank := &record.Blank{Row: 2, Col: 2}
	recs := []record.Record{
		&record.Begin{}, blank,
		&record.Begin{}, num, &record.End{},
		&record.End{},
	}
	s, err := Build(recs)
	require.NoError(t, err)
	assert.Empty(t, s.Diagnostics())

	require.Len(t, s.Items, 1)
	g, ok := s.Items[0].(*Group)
	require.True(t, ok)
	assert.Equal(t, 2, g.Depth())
	require.Len(t, g.Items, 2)
	assert.Equal(t, &Plain{Record: blank}, g.Items[0])
	inner, ok := g.Items[1].(*Group)
	require.True(t, ok)
	assert.Equal(t, []Item{&Plain{Record: num}}, inner.Items)

	assert.Equal(t, recs, s.Flatten())
}

func TestOpaque(t *testing.T) {
	a := &record.Unknown{ID: 0x0867, Data: []byte{0x67, 0x08, 0, 0}}
	b := &record.Unknown{ID: 0x0868, Data: []byte{0x67, 0x08, 0, 0}}
	again := &record.Unknown{ID: 0x0867, Data: []byte{0x67, 0x08, 0, 0}, Breaks: []int{2}}
	recs := []record.Record{a, &record.Begin{}, b, again, &record.End{}, &record.Blank{}}

	s, err := Build(recs)
	require.NoError(t, err)
	assert.Equal(t, []OpaqueRecord{{Record: a, Count: 2}, {Record: b, Count: 1}}, s.Opaque())
	assert.NotEqual(t, a.Digest(), b.Digest())
	assert.Equal(t, a.Digest(), again.Digest())
}

func TestUnbalancedEnd(t *testing.T) {
	recs := []record.Record{&record.Number{Row: 1}, &record.End{}, &record.Blank{}}
	s, err := Build(recs)
	require.NoError(t, err)

	diags := s.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, biff.UnbalancedEnd, diags[0].Kind)
	assert.Equal(t, record.SidEnd, diags[0].Sid)
	assert.Equal(t, int64(18), diags[0].Offset)

	assert.Len(t, s.Items, 3)
	assert.Equal(t, recs, s.Flatten())
}

func TestUnterminatedGroup(t *testing.T) {
	recs := []record.Record{
		&record.Number{Row: 1},
		&record.Begin{},
		&record.Blank{Row: 2},
		&record.Begin{},
		&record.Number{Row: 3},
	}
	var logs bytes.Buffer
	s, err := Build(recs, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	diags := s.Diagnostics()
	assert.Equal(t, []biff.Kind{biff.UnterminatedGroup, biff.UnterminatedGroup}, kinds(diags))
	for _, d := range diags {
		assert.Equal(t, int64(54), d.Offset)
		assert.Zero(t, d.Sid)
	}
	assert.Contains(t, logs.String(), "biff diagnostic")
	assert.Contains(t, logs.String(), "unterminated group")

	// dangling records are flattened in place, none are dropped
	for _, it := range s.Items {
		assert.IsType(t, &Plain{}, it)
	}
	assert.Equal(t, recs, s.Flatten())
}

func TestReadKeepsDecodeDiagnosticsFirst(t *testing.T) {
	badBOF := []byte{0x09, 0x08, 0x03, 0x00, 0x00, 0x06, 0x10}
	data := append(badBOF, encode(t,
		record.NewCFHeader([]record.CellRange{{LastRow: 1}}, 2),
		mustRule(t, "TRUE"),
	)...)

	s, err := Read(bytes.NewReader(data))
	require.NoError(t, err)
	diags := s.Diagnostics()
	assert.Equal(t, []biff.Kind{biff.DecodeFailed, biff.RuleCountMismatch}, kinds(diags))
	assert.Equal(t, int64(0), diags[0].Offset)
	assert.Equal(t, int64(7), diags[1].Offset)

	flat := s.Flatten()
	require.Len(t, flat, 3)
	assert.IsType(t, &record.Unknown{}, flat[0])

	var out bytes.Buffer
	_, err = s.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, data, out.Bytes())

	t.Run("Strict", func(t *testing.T) {
		_, err := Read(bytes.NewReader(data), WithStrict(true))
		var d biff.Diagnostic
		require.ErrorAs(t, err, &d)
		assert.Equal(t, biff.DecodeFailed, d.Kind)
	})

	t.Run("Framing", func(t *testing.T) {
		s, err := Read(bytes.NewReader([]byte{0x09, 0x08, 0x10, 0x00, 0x01}))
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestSubstreams(t *testing.T) {
	globals := []record.Record{record.NewBOF(record.BOFWorkbook), record.NewFont("Arial", 200), &record.EOF{}}
	sheet := []record.Record{
		record.NewBOF(record.BOFWorksheet),
		record.NewBOF(record.BOFChart), &record.EOF{},
		&record.Number{Row: 1},
		&record.EOF{},
	}
	stray := []record.Record{&record.Blank{}, &record.EOF{}}

	var recs []record.Record
	recs = append(recs, stray[:1]...)
	recs = append(recs, globals...)
	recs = append(recs, sheet...)
	recs = append(recs, stray...)

	got := Substreams(recs)
	assert.Equal(t, [][]record.Record{stray[:1], globals, sheet, stray}, got)
	assert.Empty(t, Substreams(nil))

	t.Run("ShortBOF", func(t *testing.T) {
		bof := []byte{0x09, 0x08, 0x08, 0x00, 0x00, 0x06, 0x05, 0x00, 0xBB, 0x0D, 0xCC, 0x07}
		eof := []byte{0x0A, 0x00, 0x00, 0x00}
		var data []byte
		for range 2 {
			data = append(append(data, bof...), eof...)
		}
		recs, diags, err := record.ReadAll(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Len(t, Substreams(recs), 2)
	})

	t.Run("Unterminated", func(t *testing.T) {
		got := Substreams(sheet[:4])
		assert.Equal(t, [][]record.Record{sheet[:4]}, got)
	})
}
