package biff

import (
	"context"
	"fmt"
	"log/slog"
)

// Kind classifies a recoverable problem found while decoding a stream.
type Kind uint8

const (
	// DecodeFailed: a record could not be decoded and was kept opaque.
	DecodeFailed Kind = iota + 1
	// TrailingData: a record decoded but left payload bytes unread.
	TrailingData
	// OrphanContinue: a CONTINUE record had no primary record to extend.
	OrphanContinue
	// RuleCountMismatch: a conditional format header declares a rule count
	// that differs from the rules that follow it.
	RuleCountMismatch
	// EnclosingRangeMismatch: a conditional format header's enclosing range
	// is not the bounding box of its ranges.
	EnclosingRangeMismatch
	// UnbalancedEnd: an END record arrived with no open BEGIN.
	UnbalancedEnd
	// UnterminatedGroup: the stream ended inside a BEGIN/END group.
	UnterminatedGroup
)

var kindNames = [...]string{
	DecodeFailed:           "decode failed",
	TrailingData:           "trailing data",
	OrphanContinue:         "orphan continue",
	RuleCountMismatch:      "rule count mismatch",
	EnclosingRangeMismatch: "enclosing range mismatch",
	UnbalancedEnd:          "unbalanced end",
	UnterminatedGroup:      "unterminated group",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Diagnostic reports a problem that did not stop decoding.
type Diagnostic struct {
	Kind   Kind
	Sid    uint16
	Offset int64 // stream offset of the record header
	Err    error // cause, may be nil
	Detail string
}

func (d Diagnostic) Error() string {
	msg := fmt.Sprintf("biff: %s: sid 0x%04X at offset %d", d.Kind, d.Sid, d.Offset)
	if d.Detail != "" {
		msg += ": " + d.Detail
	}
	if d.Err != nil {
		msg += ": " + d.Err.Error()
	}
	return msg
}

func (d Diagnostic) Unwrap() error { return d.Err }

// LogValue renders the diagnostic as structured attributes.
func (d Diagnostic) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", d.Kind.String()),
		slog.String("sid", fmt.Sprintf("0x%04X", d.Sid)),
		slog.Int64("offset", d.Offset),
	}
	if d.Detail != "" {
		attrs = append(attrs, slog.String("detail", d.Detail))
	}
	if d.Err != nil {
		attrs = append(attrs, slog.Any("err", d.Err))
	}
	return slog.GroupValue(attrs...)
}

// Diagnostics collects diagnostics in order and forwards each one to an
// optional callback and logger.
type Diagnostics struct {
	List   []Diagnostic
	Notify func(Diagnostic)
	Logger *slog.Logger
}

// Report records d.
func (ds *Diagnostics) Report(d Diagnostic) {
	ds.List = append(ds.List, d)
	if ds.Logger != nil {
		ds.Logger.LogAttrs(context.Background(), slog.LevelWarn, "biff diagnostic", slog.Any("diag", d))
	}
	if ds.Notify != nil {
		ds.Notify(d)
	}
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
