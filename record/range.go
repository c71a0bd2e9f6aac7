package record

import (
	"fmt"

	"github.com/oy3o/biff"
)

// CellRange is a rectangle of cells with 16-bit bounds, inclusive.
type CellRange struct {
	FirstRow, LastRow uint16
	FirstCol, LastCol uint16
}

// Contains reports whether the cell lies inside the range.
func (r CellRange) Contains(row, col uint16) bool {
	return row >= r.FirstRow && row <= r.LastRow && col >= r.FirstCol && col <= r.LastCol
}

func (r CellRange) String() string {
	return fmt.Sprintf("R%dC%d:R%dC%d", r.FirstRow, r.FirstCol, r.LastRow, r.LastCol)
}

// BoundingBox returns the smallest range that covers every range. It
// returns the zero range for an empty list.
func BoundingBox(ranges []CellRange) CellRange {
	if len(ranges) == 0 {
		return CellRange{}
	}
	box := ranges[0]
	for _, r := range ranges[1:] {
		box.FirstRow = min(box.FirstRow, r.FirstRow)
		box.LastRow = max(box.LastRow, r.LastRow)
		box.FirstCol = min(box.FirstCol, r.FirstCol)
		box.LastCol = max(box.LastCol, r.LastCol)
	}
	return box
}

// shortRange is the six-byte range form with 8-bit columns used by shared
// formula and array records.
type shortRange struct {
	FirstRow, LastRow uint16
	FirstCol, LastCol uint8
}

func (r shortRange) cells() CellRange {
	return CellRange{FirstRow: r.FirstRow, LastRow: r.LastRow, FirstCol: uint16(r.FirstCol), LastCol: uint16(r.LastCol)}
}

func toShortRange(r CellRange) shortRange {
	return shortRange{FirstRow: r.FirstRow, LastRow: r.LastRow, FirstCol: uint8(r.FirstCol), LastCol: uint8(r.LastCol)}
}

func readRanges(c *biff.Cursor, n int) []CellRange {
	if n == 0 {
		return nil
	}
	size := biff.FixedSize[CellRange]()
	if n*size > c.Remaining() {
		c.Fail(biff.ErrOutOfData)
		return nil
	}
	out := make([]CellRange, n)
	for i := range out {
		if err := biff.DecodeFixed(c, &out[i]); err != nil {
			return nil
		}
	}
	return out
}
