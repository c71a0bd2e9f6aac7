package record

import (
	"github.com/oy3o/biff"
)

var (
	cfNeedRecalc = biff.NewBitField[uint16](0x0001)
	cfID         = biff.NewBitField[uint16](0xFFFE)
)

// CFHeader opens a conditional format: the ranges it applies to and the
// number of CFRule records that follow it.
type CFHeader struct {
	RuleCount uint16
	Flags     uint16
	// Enclosing is stored as read. SetRanges keeps it equal to the
	// bounding box of Ranges.
	Enclosing CellRange
	Ranges    []CellRange
}

// NewCFHeader returns a header over ranges for ruleCount rules.
func NewCFHeader(ranges []CellRange, ruleCount int) *CFHeader {
	h := &CFHeader{RuleCount: uint16(ruleCount)}
	h.SetRanges(ranges)
	return h
}

func (h *CFHeader) Sid() uint16 { return SidCFHeader }

func (h *CFHeader) NeedRecalc() bool { return cfNeedRecalc.IsSet(h.Flags) }
func (h *CFHeader) ID() uint16       { return cfID.Value(h.Flags) }

func (h *CFHeader) SetNeedRecalc(on bool) { h.Flags = cfNeedRecalc.SetBool(h.Flags, on) }
func (h *CFHeader) SetID(id uint16)       { h.Flags = cfID.SetValue(h.Flags, id) }

// SetRanges replaces the ranges and recomputes the enclosing range.
func (h *CFHeader) SetRanges(ranges []CellRange) {
	h.Ranges = ranges
	h.Enclosing = BoundingBox(ranges)
}

// BoundingBox returns the smallest range covering every range of h.
func (h *CFHeader) BoundingBox() CellRange { return BoundingBox(h.Ranges) }

func (h *CFHeader) DataSize() int {
	return 6 + biff.FixedSize[CellRange]()*(1+len(h.Ranges))
}

func (h *CFHeader) Serialize(w *biff.Writer) {
	w.WriteUint16(h.RuleCount)
	w.WriteUint16(h.Flags)
	biff.EncodeFixed(w, &h.Enclosing)
	w.WriteUint16(uint16(len(h.Ranges)))
	for i := range h.Ranges {
		biff.EncodeFixed(w, &h.Ranges[i])
	}
}

func decodeCFHeader(c *biff.Cursor) (Record, error) {
	h := &CFHeader{RuleCount: c.U16(), Flags: c.U16()}
	if err := biff.DecodeFixed(c, &h.Enclosing); err != nil {
		return nil, err
	}
	h.Ranges = readRanges(c, int(c.U16()))
	return h, c.Err()
}
