package biff

import (
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// String option flags.
const (
	FlagWide uint8 = 0x01 // UTF-16LE characters, else ISO-8859-1
	FlagExt  uint8 = 0x04 // phonetic block follows the characters
	FlagRich uint8 = 0x08 // formatting runs follow the characters
)

var latin1 = charmap.ISO8859_1

// XLString is a string together with the option byte it was stored with.
// Only the width bit is interpreted; the other bits round-trip unchanged.
//
// Raw is set only when the stored characters are not valid UTF-16, such
// as an unpaired surrogate. Text then holds U+FFFD in their place and Raw
// is what gets written. Clear Raw after changing Text.
type XLString struct {
	Text  string
	Flags uint8
	Raw   []uint16
}

// NewXLString returns s stored compressed when every character fits in
// one byte.
func NewXLString(s string) XLString {
	x := XLString{Text: s}
	if !fitsLatin1(s) {
		x.Flags = FlagWide
	}
	return x
}

// Wide reports whether the characters are stored as UTF-16LE. A string
// that cannot be stored compressed is always wide.
func (s XLString) Wide() bool {
	return s.Flags&FlagWide != 0 || s.Raw != nil || !fitsLatin1(s.Text)
}

// flags returns the option byte to write.
func (s XLString) flags() uint8 {
	if s.Wide() {
		return s.Flags | FlagWide
	}
	return s.Flags
}

// CharCount returns the number of characters as the format counts them.
func (s XLString) CharCount() int {
	if s.Raw != nil {
		return len(s.Raw)
	}
	return charCount(s.Text)
}

// CharsSize returns the size of the character payload.
func (s XLString) CharsSize() int {
	if s.Raw != nil {
		return 2 * len(s.Raw)
	}
	return charsSize(s.Text, s.Wide())
}

// appendChars appends the stored characters without any header.
func (s XLString) appendChars(dst []byte) []byte {
	if s.Raw == nil {
		return appendChars(dst, s.Text, s.Wide())
	}
	for _, u := range s.Raw {
		dst = Order.AppendUint16(dst, u)
	}
	return dst
}

// stringFromUnits decodes units, keeping them raw when they are not
// valid UTF-16.
func stringFromUnits(units []uint16, flags uint8) XLString {
	s := XLString{Text: string(utf16.Decode(units)), Flags: flags}
	if !validUTF16(units) {
		s.Raw = units
	}
	return s
}

func validUTF16(units []uint16) bool {
	for i := 0; i < len(units); i++ {
		switch u := units[i]; {
		case u < 0xD800 || u > 0xDFFF:
		case u < 0xDC00 && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF:
			i++
		default:
			return false
		}
	}
	return true
}

// FormatRun applies a font from a character index onwards.
type FormatRun struct {
	Char uint16
	Font uint16
}

// UnicodeString is the rich, extended string used by the shared string
// table and a few other records.
type UnicodeString struct {
	XLString
	Runs []FormatRun
	Ext  []byte // phonetic block, kept raw
}

// NewUnicodeString returns a plain string.
func NewUnicodeString(s string) UnicodeString {
	return UnicodeString{XLString: NewXLString(s)}
}

// Rich reports whether formatting runs are stored.
func (s UnicodeString) Rich() bool { return s.Flags&FlagRich != 0 }

// HasExt reports whether a phonetic block is stored.
func (s UnicodeString) HasExt() bool { return s.Flags&FlagExt != 0 }

// SetRuns replaces the formatting runs. A nil slice drops the block.
func (s *UnicodeString) SetRuns(runs []FormatRun) {
	s.Runs = runs
	s.Flags = richFlag.SetBool(s.Flags, runs != nil)
}

// SetExt replaces the phonetic block. A nil slice drops the block.
func (s *UnicodeString) SetExt(ext []byte) {
	s.Ext = ext
	s.Flags = extFlag.SetBool(s.Flags, ext != nil)
}

var (
	richFlag = NewBitField(FlagRich)
	extFlag  = NewBitField(FlagExt)
)

// headerSize returns the size of count, option byte and block sizes.
func (s UnicodeString) headerSize() int {
	n := 3
	if s.Rich() {
		n += 2
	}
	if s.HasExt() {
		n += 4
	}
	return n
}

// DataSize returns the encoded size of the string.
func (s UnicodeString) DataSize() int {
	n := s.headerSize() + s.CharsSize()
	if s.Rich() {
		n += 4 * len(s.Runs)
	}
	if s.HasExt() {
		n += len(s.Ext)
	}
	return n
}

// Key identifies the string for deduplication. Strings with identical
// text but different runs or phonetic data are distinct.
func (s UnicodeString) Key() string {
	if !s.Rich() && !s.HasExt() && s.Raw == nil {
		return s.Text
	}
	b := make([]byte, 0, len(s.Text)+2+4*len(s.Runs)+len(s.Ext)+2*len(s.Raw))
	b = append(b, s.Text...)
	b = append(b, 0, s.Flags)
	for _, r := range s.Runs {
		b = Order.AppendUint16(b, r.Char)
		b = Order.AppendUint16(b, r.Font)
	}
	b = append(b, s.Ext...)
	for _, u := range s.Raw {
		b = Order.AppendUint16(b, u)
	}
	return string(b)
}

func fitsLatin1(s string) bool {
	for _, r := range s {
		if _, ok := latin1.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

func charCount(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func charsSize(s string, wide bool) int {
	if wide {
		return 2 * charCount(s)
	}
	return charCount(s)
}

// --- Reading ---

// ReadChars reads n characters. At every continuation boundary crossed
// inside the characters a fresh option byte is read and may switch width.
func (c *Cursor) ReadChars(n int, wide bool) string {
	return string(utf16.Decode(c.readUnits(n, wide)))
}

func (c *Cursor) readUnits(n int, wide bool) []uint16 {
	if c.err != nil || n <= 0 {
		return nil
	}
	units := make([]uint16, 0, min(n, c.Remaining()))
	for n > 0 && c.err == nil {
		avail := c.Remaining()
		if b := c.nextBreak(); b >= 0 {
			avail = b - c.Offset()
		}
		if avail == 0 && c.Remaining() > 0 {
			flag, _ := c.readByte()
			wide = flag&FlagWide != 0
			continue
		}
		width := 1
		if wide {
			width = 2
		}
		k := min(n, avail/width)
		if k == 0 {
			c.setError(ErrOutOfData)
			break
		}
		buf := c.ReadBytes(k * width)
		if c.err != nil {
			break
		}
		if wide {
			for i := 0; i < len(buf); i += 2 {
				units = append(units, Order.Uint16(buf[i:]))
			}
		} else {
			for _, b := range buf {
				units = append(units, uint16(latin1.DecodeByte(b)))
			}
		}
		n -= k
	}
	return units
}

// ReadXLString reads an option byte followed by n characters.
func (c *Cursor) ReadXLString(n int) XLString {
	flags := c.U8()
	return stringFromUnits(c.readUnits(n, flags&FlagWide != 0), flags)
}

// ReadShortString reads an 8-bit count, an option byte and the characters.
func (c *Cursor) ReadShortString() XLString {
	return c.ReadXLString(int(c.U8()))
}

// ReadLongString reads a 16-bit count, an option byte and the characters.
func (c *Cursor) ReadLongString() XLString {
	return c.ReadXLString(int(c.U16()))
}

// ReadUnicodeString reads a rich, extended string. The run and phonetic
// blocks are always consumed.
func (c *Cursor) ReadUnicodeString() UnicodeString {
	n := c.U16()
	flags := c.U8()
	var runs uint16
	var ext uint32
	if flags&FlagRich != 0 {
		runs = c.U16()
	}
	if flags&FlagExt != 0 {
		ext = c.U32()
	}
	s := UnicodeString{XLString: stringFromUnits(c.readUnits(int(n), flags&FlagWide != 0), flags)}
	if flags&FlagRich != 0 {
		if int(runs)*4 > c.Remaining() {
			c.setError(ErrOutOfData)
			return s
		}
		s.Runs = make([]FormatRun, runs)
		for i := range s.Runs {
			s.Runs[i] = FormatRun{Char: c.U16(), Font: c.U16()}
		}
	}
	if flags&FlagExt != 0 {
		if ext == 0 {
			s.Ext = []byte{}
		} else if int64(ext) > int64(c.Remaining()) {
			c.setError(ErrOutOfData)
		} else {
			s.Ext = c.ReadBytes(int(ext))
		}
	}
	return s
}

// --- Writing ---

// WriteChars writes the characters of text without any header.
func (w *Writer) WriteChars(text string, wide bool) {
	if w.err != nil {
		return
	}
	w.WriteBytes(appendChars(make([]byte, 0, charsSize(text, wide)), text, wide))
}

func appendChars(dst []byte, text string, wide bool) []byte {
	if wide {
		for _, u := range utf16.Encode([]rune(text)) {
			dst = Order.AppendUint16(dst, u)
		}
		return dst
	}
	for _, r := range text {
		b, _ := latin1.EncodeRune(r)
		dst = append(dst, b)
	}
	return dst
}

// writeStringChars writes the characters of s after a header that began
// at start. The header and the first character are marked atomic, the
// rest as splittable characters.
func (w *Writer) writeStringChars(start int64, s XLString) {
	wide := s.Wide()
	chars := s.appendChars(nil)
	first := 1
	if wide {
		first = 2
	}
	first = min(first, len(chars))
	w.WriteBytes(chars[:first])
	w.Mark(SpanAtomic, start, false)
	rest := w.Count()
	w.WriteBytes(chars[first:])
	w.Mark(SpanChars, rest, wide)
}

// WriteXLString writes the option byte and the characters.
func (w *Writer) WriteXLString(s XLString) {
	start := w.Count()
	w.WriteUint8(s.flags())
	w.writeStringChars(start, s)
}

// checkCount latches ErrStringTooLong when n does not fit a count field
// holding at most limit.
func (w *Writer) checkCount(n, limit int) bool {
	if n > limit {
		w.setError(fmt.Errorf("%w: %d characters, at most %d", ErrStringTooLong, n, limit))
		return false
	}
	return w.err == nil
}

// WriteShortString writes an 8-bit count, option byte and characters.
func (w *Writer) WriteShortString(s XLString) {
	if !w.checkCount(s.CharCount(), 0xFF) {
		return
	}
	start := w.Count()
	w.WriteUint8(uint8(s.CharCount()))
	w.WriteUint8(s.flags())
	w.writeStringChars(start, s)
}

// WriteLongString writes a 16-bit count, option byte and characters.
func (w *Writer) WriteLongString(s XLString) {
	if !w.checkCount(s.CharCount(), 0xFFFF) {
		return
	}
	start := w.Count()
	w.WriteUint16(uint16(s.CharCount()))
	w.WriteUint8(s.flags())
	w.writeStringChars(start, s)
}

// WriteUnicodeString writes a rich, extended string. Each formatting run
// is kept inside one physical record.
func (w *Writer) WriteUnicodeString(s UnicodeString) {
	if !w.checkCount(s.CharCount(), 0xFFFF) {
		return
	}
	start := w.Count()
	w.WriteUint16(uint16(s.CharCount()))
	w.WriteUint8(s.flags())
	if s.Rich() {
		w.WriteUint16(uint16(len(s.Runs)))
	}
	if s.HasExt() {
		w.WriteUint32(uint32(len(s.Ext)))
	}
	w.writeStringChars(start, s.XLString)
	if s.Rich() {
		for _, r := range s.Runs {
			at := w.Count()
			w.WriteUint16(r.Char)
			w.WriteUint16(r.Font)
			w.Mark(SpanAtomic, at, false)
		}
	}
	if s.HasExt() {
		w.WriteBytes(s.Ext)
	}
}
