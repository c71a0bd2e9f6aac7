package aggregate

import (
	"io"

	"github.com/google/btree"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/record"
)

// formulaCell indexes a formula record by its cell, row first.
type formulaCell struct {
	row, col uint16
	rec      *record.Formula
}

func (a formulaCell) less(b formulaCell) bool {
	if a.row != b.row {
		return a.row < b.row
	}
	return a.col < b.col
}

// Sheet is a record sequence grouped into items. Formula cells are
// indexed by position, shared formulas by the cell that owns them.
type Sheet struct {
	Items []Item

	diags    biff.Diagnostics
	formulas *btree.BTreeG[formulaCell]
	shared   []*record.SharedFormula
}

// Read decodes src and builds a sheet from its records. Decode
// diagnostics come first in the sheet's diagnostics, in stream order.
func Read(src io.Reader, opts ...Option) (*Sheet, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	recs, diags, err := record.ReadAll(src,
		record.WithStrict(cfg.strict),
		record.WithLogger(cfg.logger),
		record.WithDiagnostics(cfg.notify),
	)
	if err != nil {
		return nil, err
	}
	return build(recs, cfg, diags), nil
}

// Diagnostics returns every diagnostic reported for the sheet.
func (s *Sheet) Diagnostics() []biff.Diagnostic { return s.diags.List }

// Flatten returns the records of every item in order.
func (s *Sheet) Flatten() []record.Record {
	var out []record.Record
	for _, it := range s.Items {
		out = it.appendRecords(out)
	}
	return out
}

// WriteTo encodes the flattened records onto w.
func (s *Sheet) WriteTo(w io.Writer) (int64, error) {
	return record.WriteAll(w, s.Flatten())
}

// RuleSets returns the conditional formats of the sheet, nested ones
// included.
func (s *Sheet) RuleSets() []*RuleSet {
	var out []*RuleSet
	walk(s.Items, func(it Item) {
		if rs, ok := it.(*RuleSet); ok {
			out = append(out, rs)
		}
	})
	return out
}

// OpaqueRecord is one distinct record the sheet keeps as raw bytes.
type OpaqueRecord struct {
	Record *record.Unknown
	Count  int
}

// Opaque returns the records without a typed decoder, each distinct sid
// and payload once, in order of first appearance.
func (s *Sheet) Opaque() []OpaqueRecord {
	var out []OpaqueRecord
	seen := make(map[uint64]int)
	walk(s.Items, func(it Item) {
		p, ok := it.(*Plain)
		if !ok {
			return
		}
		u, ok := p.Record.(*record.Unknown)
		if !ok {
			return
		}
		key := u.Digest()
		if i, ok := seen[key]; ok {
			out[i].Count++
			return
		}
		seen[key] = len(out)
		out = append(out, OpaqueRecord{Record: u, Count: 1})
	})
	return out
}

// Formula returns the formula record of the cell.
func (s *Sheet) Formula(row, col uint16) (*record.Formula, bool) {
	c, ok := s.formulas.Get(formulaCell{row: row, col: col})
	return c.rec, ok
}

// FormulaCount returns the number of formula cells.
func (s *Sheet) FormulaCount() int { return s.formulas.Len() }

// SharedFormulas returns the shared formula records still in the sheet.
func (s *Sheet) SharedFormulas() []*record.SharedFormula { return s.shared }

// reindex rebuilds the formula and shared formula indexes from the items.
func (s *Sheet) reindex() {
	s.formulas.Clear(false)
	s.shared = s.shared[:0]
	walk(s.Items, func(it Item) {
		p, ok := it.(*Plain)
		if !ok {
			return
		}
		switch r := p.Record.(type) {
		case *record.Formula:
			s.formulas.ReplaceOrInsert(formulaCell{row: r.Row, col: r.Col, rec: r})
		case *record.SharedFormula:
			s.shared = append(s.shared, r)
		}
	})
}

// walk calls fn for every item, descending into groups.
func walk(items []Item, fn func(Item)) {
	for _, it := range items {
		fn(it)
		if g, ok := it.(*Group); ok {
			walk(g.Items, fn)
		}
	}
}

// removeRecords drops every plain item whose record matches, searching
// groups too. It returns the kept items.
func removeRecords(items []Item, match func(record.Record) bool) []Item {
	kept := items[:0]
	for _, it := range items {
		switch it := it.(type) {
		case *Plain:
			if match(it.Record) {
				continue
			}
		case *Group:
			it.Items = removeRecords(it.Items, match)
		}
		kept = append(kept, it)
	}
	return kept
}
