package record

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/oy3o/biff"
)

// Code pages with a special meaning.
const (
	CodePageUTF16LE     uint16 = 1200
	CodePageWindows1252 uint16 = 1252
	CodePageMacRoman    uint16 = 0x8000
	CodePageLatin1      uint16 = 0x8001
)

var codePages = map[uint16]encoding.Encoding{
	367:                 charmap.Windows1252, // US-ASCII
	437:                 charmap.CodePage437,
	850:                 charmap.CodePage850,
	852:                 charmap.CodePage852,
	855:                 charmap.CodePage855,
	858:                 charmap.CodePage858,
	860:                 charmap.CodePage860,
	862:                 charmap.CodePage862,
	863:                 charmap.CodePage863,
	865:                 charmap.CodePage865,
	866:                 charmap.CodePage866,
	874:                 charmap.Windows874,
	CodePageUTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	1250:                charmap.Windows1250,
	1251:                charmap.Windows1251,
	CodePageWindows1252: charmap.Windows1252,
	1253:                charmap.Windows1253,
	1254:                charmap.Windows1254,
	1255:                charmap.Windows1255,
	1256:                charmap.Windows1256,
	1257:                charmap.Windows1257,
	1258:                charmap.Windows1258,
	10000:               charmap.Macintosh,
	10007:               charmap.MacintoshCyrillic,
	CodePageMacRoman:    charmap.Macintosh,
	CodePageLatin1:      charmap.Windows1252,
}

// CodePage declares the code page of byte strings in the workbook.
type CodePage struct {
	Page uint16
}

func (r *CodePage) Sid() uint16              { return SidCodePage }
func (r *CodePage) DataSize() int            { return 2 }
func (r *CodePage) Serialize(w *biff.Writer) { w.WriteUint16(r.Page) }

// Encoding returns the text encoding of the code page, or false when it
// has none.
func (r *CodePage) Encoding() (encoding.Encoding, bool) {
	e, ok := codePages[r.Page]
	return e, ok
}

// DecodeText converts bytes in the code page to a string. Unknown code
// pages decode as Windows-1252.
func (r *CodePage) DecodeText(b []byte) (string, error) {
	e, ok := r.Encoding()
	if !ok {
		e = charmap.Windows1252
	}
	return e.NewDecoder().String(string(b))
}

func decodeCodePage(c *biff.Cursor) (Record, error) {
	return &CodePage{Page: c.U16()}, nil
}

// Format is a number format string and its index.
type Format struct {
	Index uint16
	Code  biff.XLString
}

func (r *Format) Sid() uint16   { return SidFormat }
func (r *Format) DataSize() int { return 5 + r.Code.CharsSize() }

func (r *Format) Serialize(w *biff.Writer) {
	w.WriteUint16(r.Index)
	w.WriteLongString(r.Code)
}

func decodeFormat(c *biff.Cursor) (Record, error) {
	r := &Format{Index: c.U16()}
	r.Code = c.ReadLongString()
	return r, nil
}
