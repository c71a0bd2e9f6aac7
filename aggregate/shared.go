package aggregate

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/oy3o/biff/ptg"
	"github.com/oy3o/biff/record"
)

// Unshare gives every cell of the shared formula used by the cell at
// row, col its own formula, and drops the shared formula record. Cells
// that hold their own formula already are left as they are.
func (s *Sheet) Unshare(row, col uint16) error {
	f, ok := s.Formula(row, col)
	if !ok {
		return errors.Wrapf(ErrNoFormula, "R%dC%d", row, col)
	}
	baseRow, baseCol, ok := f.SharedBase()
	if !f.Shared() || !ok {
		return nil
	}
	sf := s.findShared(baseRow, baseCol)
	if sf == nil {
		return errors.Wrapf(ErrNoSharedFormula, "cell R%dC%d uses R%dC%d", row, col, baseRow, baseCol)
	}
	s.explode(sf, baseRow, baseCol)
	return nil
}

// findShared returns the shared formula owned by the base cell.
func (s *Sheet) findShared(row, col uint16) *record.SharedFormula {
	for _, sf := range s.shared {
		if sf.Range.FirstRow == row && sf.Range.FirstCol == col {
			return sf
		}
	}
	for _, sf := range s.shared {
		if sf.Range.Contains(row, col) {
			return sf
		}
	}
	return nil
}

// explode materializes sf into each member cell that uses it and removes
// sf from the sheet.
func (s *Sheet) explode(sf *record.SharedFormula, baseRow, baseCol uint16) {
	rng := sf.Range
	s.formulas.AscendGreaterOrEqual(formulaCell{row: rng.FirstRow}, func(c formulaCell) bool {
		if c.row > rng.LastRow {
			return false
		}
		if c.col < rng.FirstCol || c.col > rng.LastCol || !c.rec.Shared() {
			return true
		}
		if r, col, ok := c.rec.SharedBase(); ok && r == baseRow && col == baseCol {
			c.rec.Expr = sf.FormulaAt(c.row, c.col)
			c.rec.SetShared(false)
		}
		return true
	})
	s.Items = removeRecords(s.Items, func(r record.Record) bool { return r == record.Record(sf) })
	s.shared = slices.DeleteFunc(s.shared, func(x *record.SharedFormula) bool { return x == sf })
}

// EditFormula replaces the formula of a cell. A shared formula the cell
// used is exploded first, so the other member cells keep their formulas.
func (s *Sheet) EditFormula(row, col uint16, e ptg.Expression) error {
	if err := s.Unshare(row, col); err != nil {
		return err
	}
	f, _ := s.Formula(row, col)
	f.Expr = e
	f.SetCalcOnLoad(true)
	return nil
}

// DeleteCell removes every record holding the value of the cell, and the
// string result of a formula cell. It returns the number of records
// removed.
func (s *Sheet) DeleteCell(row, col uint16) (int, error) {
	if _, ok := s.Formula(row, col); ok {
		if err := s.Unshare(row, col); err != nil {
			return 0, err
		}
		s.formulas.Delete(formulaCell{row: row, col: col})
	}
	var n int
	s.Items, n = removeCell(s.Items, row, col)
	return n, nil
}

func removeCell(items []Item, row, col uint16) ([]Item, int) {
	kept := items[:0]
	removed := 0
	afterFormula := false
	for _, it := range items {
		prev := afterFormula
		afterFormula = false
		switch it := it.(type) {
		case *Plain:
			if _, ok := it.Record.(*record.String); ok && prev {
				removed++
				continue
			}
			if c, ok := it.Record.(record.Cell); ok {
				if r, cc := c.Position(); r == row && cc == col {
					_, afterFormula = c.(*record.Formula)
					removed++
					continue
				}
			}
		case *Group:
			var n int
			it.Items, n = removeCell(it.Items, row, col)
			removed += n
		}
		kept = append(kept, it)
	}
	return kept, removed
}

// ShiftReferences adjusts the references of every formula, shared
// formula, array formula and conditional format rule after rows
// first..last moved by amount. It returns the number of records changed.
// It panics on a zero amount or an inverted range.
func (s *Sheet) ShiftReferences(first, last, amount int) int {
	sh := ptg.NewRowShifter(first, last, amount)
	changed := 0
	shift := func(tokens *[]ptg.Token) bool {
		out, ok := sh.Shift(*tokens)
		if ok {
			*tokens = out
		}
		return ok
	}
	walk(s.Items, func(it Item) {
		switch it := it.(type) {
		case *Plain:
			var ok bool
			switch r := it.Record.(type) {
			case *record.Formula:
				ok = shift(&r.Expr.Tokens)
			case *record.SharedFormula:
				ok = shift(&r.Expr.Tokens)
			case *record.Array:
				ok = shift(&r.Expr.Tokens)
			}
			if ok {
				changed++
			}
		case *RuleSet:
			for _, r := range it.Rules {
				ok1 := shift(&r.Formula1)
				ok2 := shift(&r.Formula2)
				if ok1 || ok2 {
					changed++
				}
			}
		}
	})
	return changed
}
