package record

import (
	"io"
	"iter"
	"log/slog"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/internal/options"
)

// Reader decodes a record stream one logical record at a time.
type Reader struct {
	rr     *biff.RecordReader
	diags  biff.Diagnostics
	strict bool
	logger *slog.Logger
}

// Option configures a Reader.
type Option = options.Option[*Reader]

// WithStrict makes decode failures fatal instead of falling back to an
// opaque record.
func WithStrict(strict bool) Option {
	return options.NoError(func(r *Reader) { r.strict = strict })
}

// WithLogger sets the logger that receives diagnostics and framing events.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	})
}

// WithDiagnostics registers a callback invoked for every diagnostic, in
// stream order.
func WithDiagnostics(fn func(biff.Diagnostic)) Option {
	return options.NoError(func(r *Reader) { r.diags.Notify = fn })
}

// NewReader creates a Reader over src, positioned at a record boundary.
func NewReader(src io.Reader, opts ...Option) (*Reader, error) {
	r := &Reader{logger: biff.DiscardLogger()}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}
	rr, err := biff.NewRecordReader(src, biff.WithReaderLogger(r.logger))
	if err != nil {
		return nil, err
	}
	r.rr = rr
	r.diags.Logger = r.logger
	return r, nil
}

// Next returns the next record. It returns io.EOF at a clean end of
// stream. Framing errors are fatal; decode failures are reported as
// diagnostics unless the reader is strict.
func (r *Reader) Next() (Record, error) {
	p, err := r.rr.Next()
	if err != nil {
		return nil, err
	}
	if p.Sid == SidContinue {
		r.diags.Report(biff.Diagnostic{Kind: biff.OrphanContinue, Sid: p.Sid, Offset: p.Offset})
	}
	rec, d := Decode(p)
	if d != nil {
		if r.strict && d.Kind == biff.DecodeFailed {
			return nil, *d
		}
		r.diags.Report(*d)
	}
	return rec, nil
}

// All iterates over the remaining records. Iteration stops after the
// first error, which is yielded once.
func (r *Reader) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Diagnostics returns the diagnostics reported so far.
func (r *Reader) Diagnostics() []biff.Diagnostic { return r.diags.List }

// Offset returns the number of stream bytes consumed so far.
func (r *Reader) Offset() int64 { return r.rr.Offset() }

// ReadAll decodes every record of src. On a framing error it returns no
// records, the diagnostics gathered up to the error and the error.
func ReadAll(src io.Reader, opts ...Option) ([]Record, []biff.Diagnostic, error) {
	r, err := NewReader(src, opts...)
	if err != nil {
		return nil, nil, err
	}
	var out []Record
	for rec, err := range r.All() {
		if err != nil {
			return nil, r.Diagnostics(), err
		}
		out = append(out, rec)
	}
	return out, r.Diagnostics(), nil
}
