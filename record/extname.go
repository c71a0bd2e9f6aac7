package record

import (
	"github.com/pkg/errors"

	"github.com/oy3o/biff"
	"github.com/oy3o/biff/ptg"
)

var (
	extNameBuiltin   = biff.NewBitField[uint16](0x0001)
	extNameAutomatic = biff.NewBitField[uint16](0x0002)
	extNamePicture   = biff.NewBitField[uint16](0x0004)
	extNameStdDoc    = biff.NewBitField[uint16](0x0008)
	extNameOLE       = biff.NewBitField[uint16](0x0010)
	extNameIconified = biff.NewBitField[uint16](0x8000)
)

// ExternalName is a name defined in another workbook, a DDE link or an
// OLE object.
type ExternalName struct {
	Options  uint16
	Index    uint16
	Reserved uint16
	Name     biff.XLString
	// Formula is nil when the record stores none.
	Formula *ptg.Expression
	// DDE holds the cached values of an automatic DDE link, if stored.
	DDE *ptg.ConstArray
}

func (r *ExternalName) Sid() uint16 { return SidExternalName }

func (r *ExternalName) Builtin() bool         { return extNameBuiltin.IsSet(r.Options) }
func (r *ExternalName) AutomaticLink() bool   { return extNameAutomatic.IsSet(r.Options) }
func (r *ExternalName) PictureLink() bool     { return extNamePicture.IsSet(r.Options) }
func (r *ExternalName) StdDocumentName() bool { return extNameStdDoc.IsSet(r.Options) }
func (r *ExternalName) OLELink() bool         { return extNameOLE.IsSet(r.Options) }
func (r *ExternalName) Iconified() bool       { return extNameIconified.IsSet(r.Options) }

func (r *ExternalName) SetAutomaticLink(on bool) {
	r.Options = extNameAutomatic.SetBool(r.Options, on)
}

// hasBody reports whether a formula or DDE values may follow the name.
func (r *ExternalName) hasBody() bool { return !r.OLELink() && !r.StdDocumentName() }

func (r *ExternalName) DataSize() int {
	n := 8 + r.Name.CharsSize()
	if !r.hasBody() {
		return n
	}
	if r.Formula != nil {
		n += 2 + r.Formula.DataSize()
	}
	if r.DDE != nil {
		n += r.DDE.DataSize()
	}
	return n
}

func (r *ExternalName) Serialize(w *biff.Writer) {
	w.WriteUint16(r.Options)
	w.WriteUint16(r.Index)
	w.WriteUint16(r.Reserved)
	w.WriteShortString(r.Name)
	if !r.hasBody() {
		return
	}
	if r.Formula != nil {
		writeExpression(w, *r.Formula)
	}
	if r.DDE != nil {
		ptg.WriteConstArray(w, *r.DDE)
	}
}

func decodeExternalName(c *biff.Cursor) (Record, error) {
	r := &ExternalName{Options: c.U16(), Index: c.U16(), Reserved: c.U16()}
	r.Name = c.ReadShortString()
	if err := c.Err(); err != nil {
		return nil, err
	}
	if !r.hasBody() || c.Remaining() == 0 {
		return r, nil
	}
	if r.AutomaticLink() {
		dde, err := ptg.ReadConstArray(c)
		if err != nil {
			return nil, errors.Wrap(err, "DDE values")
		}
		r.DDE = &dde
		return r, nil
	}
	if c.Remaining() < 2 {
		return nil, errors.Wrapf(ErrBadLength, "%d byte formula header", c.Remaining())
	}
	e, err := readExpression(c)
	if err != nil {
		return nil, err
	}
	r.Formula = &e
	return r, nil
}
