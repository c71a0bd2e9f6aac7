package aggregate

import (
	"fmt"
	"log/slog"

	"github.com/google/btree"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/internal/options"
	"github.com/oy3o/biff/record"
)

type config struct {
	logger *slog.Logger
	notify func(biff.Diagnostic)
	strict bool
}

// Option configures Build and Read.
type Option = options.Option[*config]

// WithLogger sets the logger that receives diagnostics.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithDiagnostics registers a callback invoked for every diagnostic.
func WithDiagnostics(fn func(biff.Diagnostic)) Option {
	return options.NoError(func(c *config) { c.notify = fn })
}

// WithStrict makes Read fail on the first record that does not decode.
func WithStrict(strict bool) Option {
	return options.NoError(func(c *config) { c.strict = strict })
}

func newConfig(opts []Option) (*config, error) {
	c := &config{logger: biff.DiscardLogger()}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Build groups records into a sheet. Structural problems never stop it:
// they are reported as diagnostics and the records involved are kept.
func Build(records []record.Record, opts ...Option) (*Sheet, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return build(records, cfg, nil), nil
}

// builder tracks the open BEGIN groups while walking the records.
type builder struct {
	records []record.Record
	offsets []int64 // lazily computed stream offsets of records
	sheet   *Sheet
	stack   []*Group
}

func build(records []record.Record, cfg *config, prior []biff.Diagnostic) *Sheet {
	s := &Sheet{
		diags:    biff.Diagnostics{List: prior, Notify: cfg.notify, Logger: cfg.logger},
		formulas: btree.NewG[formulaCell](2, formulaCell.less),
	}
	b := &builder{records: records, sheet: s}

	for i := 0; i < len(records); i++ {
		switch r := records[i].(type) {
		case *record.CFHeader:
			i = b.ruleSet(i, r)
		case *record.Begin:
			b.stack = append(b.stack, &Group{Begin: r})
		case *record.End:
			if len(b.stack) == 0 {
				b.report(biff.UnbalancedEnd, i, "")
				b.add(&Plain{Record: r})
				continue
			}
			g := b.stack[len(b.stack)-1]
			b.stack = b.stack[:len(b.stack)-1]
			g.End = r
			b.add(g)
		default:
			b.add(&Plain{Record: r})
		}
	}
	for len(b.stack) > 0 {
		g := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		b.report(biff.UnterminatedGroup, len(records), fmt.Sprintf("%d items after BEGIN", len(g.Items)))
		b.add(&Plain{Record: g.Begin})
		for _, it := range g.Items {
			b.add(it)
		}
	}

	s.reindex()
	return s
}

// add appends it to the innermost open group, or to the sheet.
func (b *builder) add(it Item) {
	if n := len(b.stack); n > 0 {
		b.stack[n-1].Items = append(b.stack[n-1].Items, it)
		return
	}
	b.sheet.Items = append(b.sheet.Items, it)
}

// ruleSet collects the CFRule records after the header at i and returns
// the index of the last one.
func (b *builder) ruleSet(i int, h *record.CFHeader) int {
	rs := &RuleSet{Header: h}
	j := i + 1
	for ; j < len(b.records); j++ {
		r, ok := b.records[j].(*record.CFRule)
		if !ok {
			break
		}
		rs.Rules = append(rs.Rules, r)
	}
	if int(h.RuleCount) != len(rs.Rules) {
		b.report(biff.RuleCountMismatch, i, fmt.Sprintf("header declares %d rules, %d follow", h.RuleCount, len(rs.Rules)))
	}
	if box := h.BoundingBox(); len(h.Ranges) > 0 && box != h.Enclosing {
		b.report(biff.EnclosingRangeMismatch, i, fmt.Sprintf("enclosing %s, bounding box %s", h.Enclosing, box))
	}
	b.add(rs)
	return j - 1
}

func (b *builder) report(kind biff.Kind, i int, detail string) {
	d := biff.Diagnostic{Kind: kind, Offset: b.offset(i), Detail: detail}
	if i < len(b.records) {
		d.Sid = b.records[i].Sid()
	}
	b.sheet.diags.Report(d)
}

// offset returns the stream offset of record i, assuming every record
// before it encodes to the bytes it was read from.
func (b *builder) offset(i int) int64 {
	if b.offsets == nil {
		b.offsets = make([]int64, 1, len(b.records)+1)
	}
	for k := len(b.offsets) - 1; k < i; k++ {
		b.offsets = append(b.offsets, b.offsets[k]+int64(record.RecordSize(b.records[k])))
	}
	return b.offsets[i]
}
