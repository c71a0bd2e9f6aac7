package biff

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCharsSwitchesWidthAtBreak(t *testing.T) {
	data := []byte{
		5, 0, // count
		0x00,     // compressed
		'a', 'b', // first record ends here
		0x01,                // new option byte: wide
		'c', 0, 'd', 0, 'e', 0,
	}
	c := NewCursor(Payload{Sid: 0x00FC, Data: data, Breaks: []int{5}})
	s := c.ReadLongString()
	require.NoError(t, c.Err())
	assert.Equal(t, "abcde", s.Text)
	assert.False(t, s.Wide(), "the stored width is the one from the string header")
	assert.Zero(t, c.Remaining())
}

func TestReadCharsFlagAtCharsStart(t *testing.T) {
	data := []byte{
		2, 0, 0x00, // header ends the first record
		0x00, 'h', 'i',
	}
	c := NewCursor(Payload{Data: data, Breaks: []int{3}})
	assert.Equal(t, "hi", c.ReadLongString().Text)
	require.NoError(t, c.Err())
}

func TestReadCharsOutOfData(t *testing.T) {
	c := NewCursorBytes(0x001C, []byte{9, 0, 0, 'a', 'b'})
	c.ReadLongString()
	assert.ErrorIs(t, c.Err(), ErrOutOfData)

	// A wide string with an odd number of bytes left cannot complete.
	c = NewCursorBytes(0x001C, []byte{2, 1, 'a', 0, 'b'})
	c.ReadShortString()
	assert.ErrorIs(t, c.Err(), ErrOutOfData)
}

func TestXLStringWidth(t *testing.T) {
	t.Run("WideAsciiStaysWide", func(t *testing.T) {
		c := NewCursorBytes(0, []byte{3, 0, 1, 'a', 0, 'b', 0, 'c', 0})
		s := c.ReadLongString()
		require.NoError(t, c.Err())
		assert.True(t, s.Wide())

		w, _ := NewWriter(NewBytesWriter(make([]byte, 9)))
		w.WriteLongString(s)
		require.NoError(t, w.Err())
		assert.EqualValues(t, 9, w.Count())
	})

	t.Run("NonLatinUpgradesToWide", func(t *testing.T) {
		s := XLString{Text: "€"}
		assert.True(t, s.Wide())
		assert.Equal(t, 2, s.CharsSize())
		assert.Equal(t, uint8(FlagWide), s.flags())
	})

	t.Run("Latin1Compressed", func(t *testing.T) {
		s := NewXLString("café")
		assert.False(t, s.Wide())
		assert.Equal(t, 4, s.CharsSize())

		bw := NewBytesWriter(make([]byte, 6))
		w, _ := NewWriter(bw)
		w.WriteShortString(s)
		assert.Equal(t, []byte{4, 0, 'c', 'a', 'f', 0xE9}, bw.Bytes())
	})

	t.Run("SurrogatePairsCountTwice", func(t *testing.T) {
		s := NewXLString("𝄞")
		assert.Equal(t, 2, s.CharCount())
		assert.Equal(t, 4, s.CharsSize())
	})
}

func TestUnicodeStringFlags(t *testing.T) {
	s := NewUnicodeString("Rate")
	assert.Equal(t, 3+4, s.DataSize())

	s.SetRuns([]FormatRun{{Char: 1, Font: 7}})
	assert.True(t, s.Rich())
	assert.Equal(t, 3+2+4+4, s.DataSize())

	s.SetExt([]byte{})
	assert.True(t, s.HasExt())
	assert.Equal(t, 3+2+4+4+4, s.DataSize())

	assert.NotEqual(t, NewUnicodeString("Rate").Key(), s.Key())

	s.SetRuns(nil)
	s.SetExt(nil)
	assert.Equal(t, uint8(0), s.Flags)
	assert.Equal(t, NewUnicodeString("Rate").Key(), s.Key())
}

func TestUnpairedSurrogateKeepsUnits(t *testing.T) {
	data := []byte{
		3, 0, 0x01,
		'a', 0,
		0x00, 0xD8, // high surrogate with no low surrogate after it
		'b', 0,
	}
	c := NewCursorBytes(0x00FC, data)
	s := c.ReadLongString()
	require.NoError(t, c.Err())
	assert.Equal(t, "a\uFFFDb", s.Text)
	assert.Equal(t, []uint16{'a', 0xD800, 'b'}, s.Raw)
	assert.Equal(t, 3, s.CharCount())
	assert.Equal(t, 6, s.CharsSize())

	bw := NewBytesWriter(make([]byte, len(data)))
	w, _ := NewWriter(bw)
	w.WriteLongString(s)
	require.NoError(t, w.Err())
	assert.Equal(t, data, bw.Bytes())

	t.Run("ValidPairStaysText", func(t *testing.T) {
		c := NewCursorBytes(0, []byte{2, 0, 1, 0x34, 0xD8, 0x1E, 0xDD})
		s := c.ReadLongString()
		require.NoError(t, c.Err())
		assert.Equal(t, "𝄞", s.Text)
		assert.Nil(t, s.Raw)
	})

	t.Run("LoneLowSurrogate", func(t *testing.T) {
		assert.False(t, validUTF16([]uint16{0xDC00, 'x'}))
		assert.False(t, validUTF16([]uint16{'x', 0xDBFF}))
		assert.True(t, validUTF16([]uint16{'x', 0xDBFF, 0xDFFF}))
	})

	t.Run("DistinctKeys", func(t *testing.T) {
		other := UnicodeString{XLString: XLString{Text: s.Text, Flags: s.Flags, Raw: []uint16{'a', 0xDC00, 'b'}}}
		assert.NotEqual(t, UnicodeString{XLString: s}.Key(), other.Key())
	})
}

func TestStringTooLong(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
	}{
		{"Short", func(w *Writer) { w.WriteShortString(NewXLString(strings.Repeat("a", 256))) }},
		{"Long", func(w *Writer) { w.WriteLongString(NewXLString(strings.Repeat("a", 0x10000))) }},
		{"Unicode", func(w *Writer) { w.WriteUnicodeString(NewUnicodeString(strings.Repeat("a", 0x10000))) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w, _ := NewWriter(&buf)
			tt.write(w)
			assert.ErrorIs(t, w.Err(), ErrStringTooLong)
			assert.Zero(t, w.Count())
		})
	}

	t.Run("AtLimit", func(t *testing.T) {
		var buf bytes.Buffer
		w, _ := NewWriter(&buf)
		w.WriteShortString(NewXLString(strings.Repeat("a", 255)))
		require.NoError(t, w.Err())
		assert.EqualValues(t, 257, w.Count())
	})
}
