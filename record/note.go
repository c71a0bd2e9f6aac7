package record

import (
	"github.com/oy3o/biff"
)

var noteVisible = biff.NewBitField[uint16](0x0002)

// Note attaches a comment drawing object to a cell.
type Note struct {
	Row, Col uint16
	Flags    uint16
	ShapeID  uint16
	Author   biff.XLString
	// Padding holds the bytes after the author, usually a single zero.
	Padding []byte
}

// NewNote returns a hidden note by author on the cell at row, col.
// Encoding fails with biff.ErrStringTooLong past 65535 characters.
func NewNote(row, col, shapeID uint16, author string) *Note {
	return &Note{Row: row, Col: col, ShapeID: shapeID, Author: biff.NewXLString(author), Padding: []byte{0}}
}

func (n *Note) Sid() uint16        { return SidNote }
func (n *Note) Visible() bool      { return noteVisible.IsSet(n.Flags) }
func (n *Note) SetVisible(on bool) { n.Flags = noteVisible.SetBool(n.Flags, on) }
func (n *Note) DataSize() int      { return 11 + n.Author.CharsSize() + len(n.Padding) }

func (n *Note) Serialize(w *biff.Writer) {
	w.WriteUint16(n.Row)
	w.WriteUint16(n.Col)
	w.WriteUint16(n.Flags)
	w.WriteUint16(n.ShapeID)
	w.WriteLongString(n.Author)
	w.WriteBytes(n.Padding)
}

func decodeNote(c *biff.Cursor) (Record, error) {
	n := &Note{Row: c.U16(), Col: c.U16(), Flags: c.U16(), ShapeID: c.U16()}
	n.Author = c.ReadLongString()
	n.Padding = c.ReadRest()
	return n, nil
}
