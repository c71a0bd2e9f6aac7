package record

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/oy3o/biff"
)

// Decoder decodes the logical payload under c. It reads fields in order
// and may leave bytes unread; Decode reports those.
type Decoder func(c *biff.Cursor) (Record, error)

var decoders = map[uint16]Decoder{
	SidFormula:       decodeFormula,
	SidEOF:           decodeEOF,
	SidName:          decodeName,
	SidNote:          decodeNote,
	SidExternalName:  decodeExternalName,
	SidFont:          decodeFont,
	SidContinue:      decodeContinue,
	SidCodePage:      decodeCodePage,
	SidXF:            decodeFixed[XF],
	SidSST:           decodeSST,
	SidLabelSST:      decodeFixed[LabelSST],
	SidExtSST:        decodeExtSST,
	SidCFHeader:      decodeCFHeader,
	SidCFRule:        decodeCFRule,
	SidDV:            decodeDV,
	SidDimensions:    decodeFixed[Dimensions],
	SidBlank:         decodeFixed[Blank],
	SidNumber:        decodeFixed[Number],
	SidBoolErr:       decodeFixed[BoolErr],
	SidString:        decodeString,
	SidRow:           decodeFixed[Row],
	SidArray:         decodeArray,
	SidStyle:         decodeStyle,
	SidFormat:        decodeFormat,
	SidSharedFormula: decodeSharedFormula,
	SidBOF:           decodeBOF,
	SidBegin:         decodeBegin,
	SidEnd:           decodeEnd,
}

// Lookup returns the decoder for sid. Unknown sids get the opaque decoder.
func Lookup(sid uint16) Decoder {
	if d, ok := decoders[sid]; ok {
		return d
	}
	return decodeUnknown
}

// Known reports whether sid has a typed decoder.
func Known(sid uint16) bool {
	_, ok := decoders[sid]
	return ok
}

// Decode turns one logical payload into a record. It never fails: a
// payload that does not decode becomes *Unknown with the same bytes and
// breaks, and the returned diagnostic says why. A typed record that leaves
// bytes unread is kept and reported as trailing data.
func Decode(p biff.Payload) (Record, *biff.Diagnostic) {
	c := biff.NewCursor(p)
	r, err := Lookup(p.Sid)(c)
	if err == nil {
		err = c.Err()
	}
	if err != nil {
		if errors.Is(err, biff.ErrOutOfData) || errors.Is(err, biff.ErrTruncatedData) {
			err = errors.Wrapf(err, "%d byte payload", len(p.Data))
		}
		return &Unknown{ID: p.Sid, Data: p.Data, Breaks: p.Breaks}, &biff.Diagnostic{
			Kind:   biff.DecodeFailed,
			Sid:    p.Sid,
			Offset: p.Offset,
			Err:    err,
		}
	}
	if n := c.Remaining(); n > 0 {
		return r, &biff.Diagnostic{
			Kind:   biff.TrailingData,
			Sid:    p.Sid,
			Offset: p.Offset,
			Detail: fmt.Sprintf("%d of %d bytes unread", n, len(p.Data)),
		}
	}
	return r, nil
}

// DecodeBytes decodes a payload that was never split across records.
func DecodeBytes(sid uint16, data []byte) (Record, *biff.Diagnostic) {
	return Decode(biff.Payload{Sid: sid, Data: data})
}
