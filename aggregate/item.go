// Package aggregate groups a flat record sequence into the structures a
// sheet is made of: conditional formats with their rules, BEGIN/END
// groups, and formula cells together with the shared formulas they use.
// Flattening the structures yields the records in their original order.
package aggregate

import (
	"github.com/oy3o/biff/record"
)

// Item is one element of a sheet: *Plain, *RuleSet or *Group.
type Item interface {
	appendRecords(dst []record.Record) []record.Record
}

// Plain is a record that belongs to no larger structure.
type Plain struct {
	Record record.Record
}

func (p *Plain) appendRecords(dst []record.Record) []record.Record { return append(dst, p.Record) }

// MaxRules is the number of rules one conditional format can hold.
const MaxRules = 3

// RuleSet is a conditional format: its header and the rules that follow it.
type RuleSet struct {
	Header *record.CFHeader
	Rules  []*record.CFRule
}

// NewRuleSet returns a conditional format over ranges.
func NewRuleSet(ranges []record.CellRange, rules ...*record.CFRule) (*RuleSet, error) {
	if len(rules) > MaxRules {
		return nil, ErrTooManyRules
	}
	return &RuleSet{Header: record.NewCFHeader(ranges, len(rules)), Rules: rules}, nil
}

// AddRule appends a rule and updates the declared rule count.
func (rs *RuleSet) AddRule(r *record.CFRule) error {
	if len(rs.Rules) >= MaxRules {
		return ErrTooManyRules
	}
	rs.Rules = append(rs.Rules, r)
	rs.Header.RuleCount = uint16(len(rs.Rules))
	return nil
}

// Ranges returns the cell ranges the rules apply to.
func (rs *RuleSet) Ranges() []record.CellRange { return rs.Header.Ranges }

func (rs *RuleSet) appendRecords(dst []record.Record) []record.Record {
	dst = append(dst, rs.Header)
	for _, r := range rs.Rules {
		dst = append(dst, r)
	}
	return dst
}

// Group is a BEGIN record, the items nested inside it and the matching
// END record.
type Group struct {
	Begin *record.Begin
	Items []Item
	End   *record.End
}

func (g *Group) appendRecords(dst []record.Record) []record.Record {
	dst = append(dst, g.Begin)
	for _, it := range g.Items {
		dst = it.appendRecords(dst)
	}
	return append(dst, g.End)
}

// Depth returns the deepest nesting of groups inside g, counting g.
func (g *Group) Depth() int {
	d := 0
	for _, it := range g.Items {
		if inner, ok := it.(*Group); ok {
			d = max(d, inner.Depth())
		}
	}
	return d + 1
}
