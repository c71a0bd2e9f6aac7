package aggregate

import (
	"github.com/oy3o/biff/record"
)

// Substreams splits a workbook stream into its top-level BOF..EOF
// substreams. Nested substreams, such as a chart inside a worksheet, stay
// inside their parent. Records outside any substream form substreams of
// their own, one per run.
func Substreams(records []record.Record) [][]record.Record {
	var out [][]record.Record
	depth := 0
	start := 0
	stray := false
	for i, r := range records {
		switch r.(type) {
		case *record.BOF:
			if depth == 0 {
				if stray {
					out = append(out, records[start:i])
					stray = false
				}
				start = i
			}
			depth++
		case *record.EOF:
			if depth == 0 {
				if !stray {
					start, stray = i, true
				}
				continue
			}
			depth--
			if depth == 0 {
				out = append(out, records[start:i+1])
				start = i + 1
			}
		default:
			if depth == 0 && !stray {
				start, stray = i, true
			}
		}
	}
	if start < len(records) {
		out = append(out, records[start:])
	}
	return out
}
