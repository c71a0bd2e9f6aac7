// Package record decodes and encodes the typed records of a BIFF8 stream.
// Every logical payload maps to exactly one Record: a typed variant when
// the sid is known and its payload decodes, or *Unknown otherwise.
package record

import (
	"github.com/oy3o/biff"
	"github.com/oy3o/biff/internal/hash"
)

// Record is one decoded logical record. Serialize must write exactly
// DataSize bytes.
type Record interface {
	biff.Serializer
	Sid() uint16
}

// Record identifiers.
const (
	SidFormula       uint16 = 0x0006
	SidEOF           uint16 = 0x000A
	SidName          uint16 = 0x0018
	SidNote          uint16 = 0x001C
	SidExternalName  uint16 = 0x0023
	SidFont          uint16 = 0x0031
	SidContinue             = biff.SidContinue
	SidCodePage      uint16 = 0x0042
	SidXF            uint16 = 0x00E0
	SidSST           uint16 = 0x00FC
	SidLabelSST      uint16 = 0x00FD
	SidExtSST        uint16 = 0x00FF
	SidCFHeader      uint16 = 0x01B0
	SidCFRule        uint16 = 0x01B1
	SidDV            uint16 = 0x01BE
	SidDimensions    uint16 = 0x0200
	SidBlank         uint16 = 0x0201
	SidNumber        uint16 = 0x0203
	SidBoolErr       uint16 = 0x0205
	SidString        uint16 = 0x0207
	SidRow           uint16 = 0x0208
	SidArray         uint16 = 0x0221
	SidStyle         uint16 = 0x0293
	SidFormat        uint16 = 0x041E
	SidSharedFormula uint16 = 0x04BC
	SidBOF           uint16 = 0x0809
	SidBegin         uint16 = 0x1033
	SidEnd           uint16 = 0x1034
)

// Encode returns the logical payload of r together with its split hints.
// Opaque records keep the continuation breaks they were read with.
func Encode(r Record) (biff.Body, error) {
	switch r := r.(type) {
	case *Unknown:
		return r.Body(), nil
	case *Continue:
		return biff.Body{Data: r.Data}, nil
	}
	return biff.EncodeBody(r)
}

// Marshal returns the framed bytes of r, CONTINUE records included.
func Marshal(r Record) ([]byte, error) {
	body, err := Encode(r)
	if err != nil {
		return nil, err
	}
	if err := body.Validate(); err != nil {
		return nil, err
	}
	return biff.AppendRecord(nil, r.Sid(), body, biff.MaxDataSize), nil
}

// RecordSize returns the number of stream bytes r occupies once framed,
// headers of the primary and CONTINUE records included.
func RecordSize(r Record) int {
	body, err := Encode(r)
	if err != nil {
		return 0
	}
	return biff.FrameSize(body, biff.MaxDataSize)
}

// Unknown is a record kept byte for byte: either its sid has no decoder or
// its payload failed to decode.
type Unknown struct {
	ID     uint16
	Data   []byte
	Breaks []int
}

func (r *Unknown) Sid() uint16   { return r.ID }
func (r *Unknown) DataSize() int { return len(r.Data) }

func (r *Unknown) Serialize(w *biff.Writer) { w.WriteBytes(r.Data) }

// Body returns the payload with its original continuation breaks.
func (r *Unknown) Body() biff.Body {
	return biff.Body{Data: r.Data, Breaks: r.Breaks}
}

// Digest fingerprints the sid and payload. Equal digests mean equal
// records up to hash collisions; continuation breaks are not included.
func (r *Unknown) Digest() uint64 { return hash.Record(r.ID, r.Data) }

func decodeUnknown(c *biff.Cursor) (Record, error) {
	p := c.Payload()
	return &Unknown{ID: p.Sid, Data: c.ReadRest(), Breaks: p.Breaks}, nil
}

// Continue is a CONTINUE record that had no primary record to extend.
type Continue struct {
	Data []byte
}

func (r *Continue) Sid() uint16   { return SidContinue }
func (r *Continue) DataSize() int { return len(r.Data) }

func (r *Continue) Serialize(w *biff.Writer) { w.WriteBytes(r.Data) }

func decodeContinue(c *biff.Cursor) (Record, error) {
	return &Continue{Data: c.ReadRest()}, nil
}
