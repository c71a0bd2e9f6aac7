package ptg

import (
	"slices"

	"github.com/oy3o/biff"
)

// Expression is a token stream plus the trailing data some tokens refer
// to (constant arrays, memory-area ranges).
type Expression struct {
	Tokens []Token
	Extra  []byte
}

// Empty is the empty expression.
var Empty = Expression{}

// IsEmpty reports whether the expression has no tokens.
func (e Expression) IsEmpty() bool { return len(e.Tokens) == 0 && len(e.Extra) == 0 }

// TokenSize returns the encoded size of the tokens alone.
func (e Expression) TokenSize() int { return Size(e.Tokens) }

// DataSize returns the encoded size of the tokens and the trailing data.
func (e Expression) DataSize() int { return Size(e.Tokens) + len(e.Extra) }

// WriteTokens writes the tokens in order.
func (e Expression) WriteTokens(w *biff.Writer) { Write(w, e.Tokens) }

// WriteExtra writes the trailing data.
func (e Expression) WriteExtra(w *biff.Writer) { w.WriteBytes(e.Extra) }

// Clone returns a copy that shares no slices with e.
func (e Expression) Clone() Expression {
	return Expression{Tokens: slices.Clone(e.Tokens), Extra: slices.Clone(e.Extra)}
}

// Size returns the encoded size of tokens.
func Size(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		n += t.Size()
	}
	return n
}

// Write emits tokens in the order given.
func Write(w *biff.Writer, tokens []Token) {
	for _, t := range tokens {
		t.write(w)
	}
}

// Encode returns the encoded tokens.
func Encode(tokens []Token) []byte {
	bw := biff.NewBytesWriter(make([]byte, Size(tokens)))
	w, _ := biff.NewWriter(bw)
	Write(w, tokens)
	return bw.Bytes()
}

// Decode decodes a complete token stream.
func Decode(data []byte) ([]Token, error) {
	return Read(biff.NewCursorBytes(0, data), len(data))
}
