package record

import (
	"github.com/oy3o/biff"
)

// Substream types of a BOF record.
const (
	BOFWorkbook  uint16 = 0x0005
	BOFVBModule  uint16 = 0x0006
	BOFWorksheet uint16 = 0x0010
	BOFChart     uint16 = 0x0020
	BOFMacro     uint16 = 0x0040
	BOFWorkspace uint16 = 0x0100
)

// BIFF8 is the version of every BOF this package writes.
const BIFF8 uint16 = 0x0600

// BOF opens a substream. Some writers stop after Year; such a BOF
// decodes with zero History and LowestVersion and is written back
// without them. A length between the two layouts does not decode.
type BOF struct {
	Version       uint16
	Type          uint16
	Build         uint16
	Year          uint16
	History       uint32
	LowestVersion uint32

	short bool
}

// NewBOF returns a BIFF8 BOF for a substream of the given type.
func NewBOF(typ uint16) *BOF {
	return &BOF{Version: BIFF8, Type: typ, Build: 0x0DBB, Year: 0x07CC, History: 0x000100C1, LowestVersion: 0x0406}
}

const (
	bofShortSize = 8
	bofSize      = 16
)

func decodeBOF(c *biff.Cursor) (Record, error) {
	r := &BOF{Version: c.U16(), Type: c.U16(), Build: c.U16(), Year: c.U16()}
	if c.Err() == nil && c.Remaining() == 0 {
		r.short = true
		return r, c.Err()
	}
	r.History = c.U32()
	r.LowestVersion = c.U32()
	return r, c.Err()
}

// Short reports whether the record was stored without History and
// LowestVersion.
func (r *BOF) Short() bool { return r.short }

func (r *BOF) Sid() uint16 { return SidBOF }

func (r *BOF) DataSize() int {
	if r.short {
		return bofShortSize
	}
	return bofSize
}

func (r *BOF) Serialize(w *biff.Writer) {
	w.WriteUint16(r.Version)
	w.WriteUint16(r.Type)
	w.WriteUint16(r.Build)
	w.WriteUint16(r.Year)
	if !r.short {
		w.WriteUint32(r.History)
		w.WriteUint32(r.LowestVersion)
	}
}

// EOF closes the innermost substream.
type EOF struct{}

func (r *EOF) Sid() uint16   { return SidEOF }
func (r *EOF) DataSize() int { return 0 }
func (r *EOF) Serialize(*biff.Writer) {}

func decodeEOF(*biff.Cursor) (Record, error) { return &EOF{}, nil }

// Begin opens a nested group of chart records.
type Begin struct{}

func (r *Begin) Sid() uint16   { return SidBegin }
func (r *Begin) DataSize() int { return 0 }
func (r *Begin) Serialize(*biff.Writer) {}

func decodeBegin(*biff.Cursor) (Record, error) { return &Begin{}, nil }

// End closes the innermost group opened by Begin.
type End struct{}

func (r *End) Sid() uint16   { return SidEnd }
func (r *End) DataSize() int { return 0 }
func (r *End) Serialize(*biff.Writer) {}

func decodeEnd(*biff.Cursor) (Record, error) { return &End{}, nil }
