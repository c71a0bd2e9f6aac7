package ptg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cell value = the cell above, as stored in a shared conditional format
var refnAboveEqualsOne = []byte{0x4C, 0xFF, 0xFF, 0x00, 0xC0, 0x1E, 0x01, 0x00, 0x0B}

func TestMaterializeSharedReference(t *testing.T) {
	tokens, err := Decode(refnAboveEqualsOne)
	require.NoError(t, err)
	require.Equal(t, []Token{RefN{Class: ClassValue, Row: 0xFFFF, Col: relCol0}, Int{Value: 1}, OpEQ}, tokens)
	assert.True(t, IsShared(tokens))

	s, err := Format(Expression{Tokens: tokens})
	require.NoError(t, err)
	assert.Equal(t, "R[-1]C[0]=1", s)

	t.Run("AtOrigin", func(t *testing.T) {
		got := Materialize(tokens, 0, 0)
		assert.Equal(t, Ref{Class: ClassValue, Row: 0xFFFF, Col: relCol0}, got[0])
		assert.Equal(t, tokens[1:], got[1:])
		assert.False(t, IsShared(got))
	})

	t.Run("AtCell", func(t *testing.T) {
		got := Materialize(tokens, 5, 3)
		assert.Equal(t, Ref{Class: ClassValue, Row: 4, Col: Col(3, true, true)}, got[0])
		assert.Equal(t, uint8(0x44), got[0].Opcode())
	})

	// the input is left as decoded
	assert.Equal(t, RefN{Class: ClassValue, Row: 0xFFFF, Col: relCol0}, tokens[0])
}

func TestMaterializeKeepsClass(t *testing.T) {
	for _, class := range []Class{ClassRef, ClassValue, ClassArray} {
		t.Run(class.String(), func(t *testing.T) {
			tokens := []Token{
				RefN{Class: class, Row: 1, Col: Col(2, true, true)},
				AreaN{Class: class, FirstRow: 0, LastRow: 3, FirstCol: Col(0, true, false), LastCol: Col(4, false, true)},
				Name{Class: class, Index: 3},
			}
			for _, at := range [][2]uint16{{0, 0}, {10, 7}} {
				got := Materialize(tokens, at[0], at[1])
				for i := range tokens {
					assert.Equal(t, class, ClassOf(got[i]))
					assert.Equal(t, tokens[i].Opcode()&0x60, got[i].Opcode()&0x60)
				}
			}

			got := Materialize(tokens, 10, 7)
			assert.Equal(t, Ref{Class: class, Row: 11, Col: Col(9, true, true)}, got[0])
			assert.Equal(t, Area{
				Class:    class,
				FirstRow: 10, LastRow: 3,
				FirstCol: Col(0, true, false), LastCol: Col(11, false, true),
			}, got[1])
			assert.Equal(t, tokens[2], got[2])
		})
	}
}

func TestMaterializeWraps(t *testing.T) {
	tokens := []Token{RefN{Class: ClassRef, Row: 0xFFFE, Col: Col(0xFF, true, true)}}
	got := Materialize(tokens, 3, 2)
	assert.Equal(t, Ref{Class: ClassRef, Row: 1, Col: Col(1, true, true)}, got[0])

	e := MaterializeExpression(Expression{Tokens: tokens, Extra: []byte{1}}, 3, 2)
	assert.Equal(t, got, e.Tokens)
	assert.Equal(t, []byte{1}, e.Extra)
}

func TestShiftRows(t *testing.T) {
	// rows 5..7 move down by three, onto 8..10
	tests := []struct {
		name    string
		in      Token
		want    Token
		changed bool
	}{
		{"ref inside moved rows", Ref{Class: ClassRef, Row: 6}, Ref{Class: ClassRef, Row: 9}, true},
		{"ref above", Ref{Class: ClassRef, Row: 2}, Ref{Class: ClassRef, Row: 2}, false},
		{"ref overwritten", Ref{Class: ClassArray, Row: 9}, RefErr{Class: ClassArray}, true},
		{"area moved whole", Area{Class: ClassValue, FirstRow: 5, LastRow: 6}, Area{Class: ClassValue, FirstRow: 8, LastRow: 9}, true},
		{"area bottom moved", Area{Class: ClassRef, FirstRow: 0, LastRow: 5}, Area{Class: ClassRef, FirstRow: 0, LastRow: 8}, true},
		{"area around move", Area{Class: ClassRef, FirstRow: 4, LastRow: 20}, Area{Class: ClassRef, FirstRow: 4, LastRow: 20}, false},
		{"area overwritten", Area{Class: ClassValue, FirstRow: 8, LastRow: 9}, AreaErr{Class: ClassValue}, true},
		{"area top truncated", Area{Class: ClassRef, FirstRow: 9, LastRow: 12}, Area{Class: ClassRef, FirstRow: 11, LastRow: 12}, true},
		{"3d ref untouched without sheet", Ref3d{Class: ClassRef, Ixti: 0, Row: 6}, Ref3d{Class: ClassRef, Ixti: 0, Row: 6}, false},
		{"shared ref untouched", RefN{Class: ClassRef, Row: 6}, RefN{Class: ClassRef, Row: 6}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := ShiftRows([]Token{tt.in}, 5, 7, 3)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, got[0])
		})
	}

	t.Run("Sheet", func(t *testing.T) {
		s := NewRowShifter(5, 7, -5)
		s.Ixti = 2
		got, changed := s.Shift([]Token{
			Ref3d{Class: ClassValue, Ixti: 2, Row: 7},
			Ref3d{Class: ClassValue, Ixti: 1, Row: 7},
			Area3d{Class: ClassRef, Ixti: 2, FirstRow: 0, LastRow: 2},
		})
		assert.True(t, changed)
		assert.Equal(t, Ref3d{Class: ClassValue, Ixti: 2, Row: 2}, got[0])
		assert.Equal(t, Ref3d{Class: ClassValue, Ixti: 1, Row: 7}, got[1])
		assert.Equal(t, AreaErr3d{Class: ClassRef, Ixti: 2}, got[2])
	})

	t.Run("OffSheet", func(t *testing.T) {
		got, changed := ShiftRows([]Token{Ref{Class: ClassRef, Row: 1}}, 0, 3, -2)
		assert.True(t, changed)
		assert.Equal(t, RefErr{Class: ClassRef}, got[0])
	})

	t.Run("Preconditions", func(t *testing.T) {
		assert.Panics(t, func() { ShiftRows(nil, 1, 2, 0) })
		assert.Panics(t, func() { ShiftRows(nil, 3, 2, 1) })
	})
}
