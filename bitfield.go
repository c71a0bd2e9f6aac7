package biff

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// BitField isolates the bits of one mask inside a packed flags word.
// Every accessor leaves the bits outside the mask untouched.
type BitField[T constraints.Unsigned] struct {
	mask  T
	shift int
}

// NewBitField returns a field for mask. A zero mask selects nothing.
func NewBitField[T constraints.Unsigned](mask T) BitField[T] {
	shift := 0
	if mask != 0 {
		shift = bits.TrailingZeros64(uint64(mask))
	}
	return BitField[T]{mask: mask, shift: shift}
}

func (f BitField[T]) Mask() T { return f.mask }

// IsSet reports whether any bit of the mask is set in holder.
func (f BitField[T]) IsSet(holder T) bool { return holder&f.mask != 0 }

func (f BitField[T]) Set(holder T) T   { return holder | f.mask }
func (f BitField[T]) Clear(holder T) T { return holder &^ f.mask }

func (f BitField[T]) SetBool(holder T, on bool) T {
	if on {
		return f.Set(holder)
	}
	return f.Clear(holder)
}

// Value returns the masked bits shifted down to bit zero.
func (f BitField[T]) Value(holder T) T { return (holder & f.mask) >> f.shift }

// SetValue stores v into the masked bits. Bits of v that do not fit are dropped.
func (f BitField[T]) SetValue(holder, v T) T {
	return holder&^f.mask | (v<<f.shift)&f.mask
}
