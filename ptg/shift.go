package ptg

import "fmt"

const maxRow = 0xFFFF

// RowShifter adjusts references after the rows First..Last of one sheet
// moved by Amount. References that end up under the moved rows become
// #REF! tokens of the same class.
type RowShifter struct {
	First, Last, Amount int
	// Ixti selects the 3D tokens that point at the shifted sheet. A
	// negative value leaves every 3D token alone.
	Ixti int
}

// NewRowShifter returns a shifter for 2D references only. It panics on a
// zero amount or an inverted range.
func NewRowShifter(first, last, amount int) RowShifter {
	if amount == 0 {
		panic("ptg: row shift by zero")
	}
	if first > last {
		panic(fmt.Sprintf("ptg: row shift range %d..%d is inverted", first, last))
	}
	return RowShifter{First: first, Last: last, Amount: amount, Ixti: -1}
}

// ShiftRows is NewRowShifter(first, last, amount).Shift(tokens).
func ShiftRows(tokens []Token, first, last, amount int) ([]Token, bool) {
	return NewRowShifter(first, last, amount).Shift(tokens)
}

// Shift returns the adjusted tokens and whether any token changed. The
// input is not modified.
func (s RowShifter) Shift(tokens []Token) ([]Token, bool) {
	out := make([]Token, len(tokens))
	changed := false
	for i, t := range tokens {
		n, ok := s.token(t)
		if ok {
			changed = true
			out[i] = n
		} else {
			out[i] = t
		}
	}
	return out, changed
}

func (s RowShifter) token(t Token) (Token, bool) {
	switch t := t.(type) {
	case Ref:
		row, deleted, ok := s.ref(int(t.Row))
		if !ok {
			return nil, false
		}
		if deleted {
			return RefErr{Class: t.Class}, true
		}
		t.Row = row
		return t, true
	case Area:
		first, last, deleted, ok := s.area(int(t.FirstRow), int(t.LastRow))
		if !ok {
			return nil, false
		}
		if deleted {
			return AreaErr{Class: t.Class}, true
		}
		t.FirstRow, t.LastRow = first, last
		return t, true
	case Ref3d:
		if s.Ixti < 0 || int(t.Ixti) != s.Ixti {
			return nil, false
		}
		row, deleted, ok := s.ref(int(t.Row))
		if !ok {
			return nil, false
		}
		if deleted {
			return RefErr3d{Class: t.Class, Ixti: t.Ixti}, true
		}
		t.Row = row
		return t, true
	case Area3d:
		if s.Ixti < 0 || int(t.Ixti) != s.Ixti {
			return nil, false
		}
		first, last, deleted, ok := s.area(int(t.FirstRow), int(t.LastRow))
		if !ok {
			return nil, false
		}
		if deleted {
			return AreaErr3d{Class: t.Class, Ixti: t.Ixti}, true
		}
		t.FirstRow, t.LastRow = first, last
		return t, true
	}
	return nil, false
}

func inRows(r int) bool { return r >= 0 && r <= maxRow }

// ref returns the moved row of a cell reference, whether the reference is
// now deleted, and whether anything changed at all.
func (s RowShifter) ref(r int) (row uint16, deleted, ok bool) {
	if s.First <= r && r <= s.Last {
		r += s.Amount
		if !inRows(r) {
			return 0, true, true
		}
		return uint16(r), false, true
	}
	destFirst, destLast := s.First+s.Amount, s.Last+s.Amount
	if destLast < r || r < destFirst {
		return 0, false, false
	}
	return 0, true, true
}

// area applies the move to the rows of a range reference.
func (s RowShifter) area(first, last int) (newFirst, newLast uint16, deleted, ok bool) {
	destFirst, destLast := s.First+s.Amount, s.Last+s.Amount
	result := func(f, l int) (uint16, uint16, bool, bool) {
		if !inRows(f) || !inRows(l) {
			return 0, 0, true, true
		}
		return uint16(f), uint16(l), false, true
	}

	switch {
	case s.First <= first && last <= s.Last:
		// the moved rows hold the whole area
		return result(first+s.Amount, last+s.Amount)

	case first < s.First && s.Last < last:
		// the moved rows sit strictly inside the area
		if destFirst < first && first <= destLast {
			return result(destLast+1, last)
		}
		if destFirst <= last && last < destLast {
			return result(first, destFirst-1)
		}
		return 0, 0, false, false

	case s.First <= first && first <= s.Last:
		// top row moved, bottom row did not
		if s.Amount < 0 {
			return result(first+s.Amount, last)
		}
		if destFirst > last {
			return 0, 0, false, false
		}
		top := first + s.Amount
		if destLast < last {
			return result(top, last)
		}
		if remaining := s.Last + 1; destFirst > remaining {
			top = remaining
		}
		return result(top, max(last, destLast))

	case s.First <= last && last <= s.Last:
		// bottom row moved, top row did not
		if s.Amount > 0 {
			return result(first, last+s.Amount)
		}
		if destLast < first {
			return 0, 0, false, false
		}
		bottom := last + s.Amount
		if destFirst > first {
			return result(first, bottom)
		}
		if remaining := s.First - 1; destLast < remaining {
			bottom = remaining
		}
		return result(min(first, destFirst), bottom)
	}

	// the moved rows miss the area; check the destination
	switch {
	case destLast < first || last < destFirst:
		return 0, 0, false, false
	case destFirst <= first && last <= destLast:
		return 0, 0, true, true
	case first <= destFirst && destLast <= last:
		return 0, 0, false, false
	case destFirst < first && first <= destLast:
		return result(destLast+1, last)
	case destFirst <= last && last < destLast:
		return result(first, destFirst-1)
	}
	panic(fmt.Sprintf("ptg: unhandled row move %d..%d by %d over %d..%d", s.First, s.Last, s.Amount, first, last))
}
