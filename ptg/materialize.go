package ptg

// Materialize returns the tokens of a shared formula as they apply to the
// cell at row, col. RefN and AreaN become Ref and Area of the same class;
// relative rows wrap at 65536 and relative columns at 256. Absolute parts,
// relative flags and every other token are copied unchanged. The input is
// not modified.
func Materialize(tokens []Token, row, col uint16) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		switch t := t.(type) {
		case RefN:
			out[i] = Ref{
				Class: t.Class,
				Row:   moveRow(t.Row, t.Col.RowRelative(), row),
				Col:   moveCol(t.Col, col),
			}
		case AreaN:
			out[i] = Area{
				Class:    t.Class,
				FirstRow: moveRow(t.FirstRow, t.FirstCol.RowRelative(), row),
				LastRow:  moveRow(t.LastRow, t.LastCol.RowRelative(), row),
				FirstCol: moveCol(t.FirstCol, col),
				LastCol:  moveCol(t.LastCol, col),
			}
		default:
			out[i] = t
		}
	}
	return out
}

// MaterializeExpression is Materialize over the tokens of e. The trailing
// data is copied.
func MaterializeExpression(e Expression, row, col uint16) Expression {
	out := e.Clone()
	out.Tokens = Materialize(e.Tokens, row, col)
	return out
}

// IsShared reports whether tokens hold any shared-formula reference.
func IsShared(tokens []Token) bool {
	for _, t := range tokens {
		switch t.(type) {
		case RefN, AreaN:
			return true
		}
	}
	return false
}

func moveRow(r uint16, relative bool, base uint16) uint16 {
	if relative {
		return r + base
	}
	return r
}

func moveCol(f ColField, base uint16) ColField {
	if f.ColRelative() {
		return f.WithCol((f.Col() + base) & 0xFF)
	}
	return f
}
