package ptg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Formatter renders expressions as A1-style text. The hooks name the
// things a token only refers to by index; nil hooks fall back to a
// placeholder built from the index.
type Formatter struct {
	Sheet        func(ixti uint16) string
	Name         func(index uint16) string
	ExternalName func(ixti, index uint16) string
}

// Format renders e with the default Formatter.
func Format(e Expression) (string, error) { return Formatter{}.Format(e) }

// String renders the expression, or the rendering error in angle brackets.
func (e Expression) String() string {
	s, err := Format(e)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

// Format renders e. Control tokens that only carry evaluation hints are
// skipped.
func (f Formatter) Format(e Expression) (string, error) {
	arrays, err := e.ArrayValues()
	if err != nil {
		return "", err
	}
	var stack []string
	pop := func(n int) ([]string, error) {
		if n > len(stack) {
			return nil, errors.Wrapf(ErrSyntax, "operator needs %d operands, stack holds %d", n, len(stack))
		}
		args := append([]string(nil), stack[len(stack)-n:]...)
		stack = stack[:len(stack)-n]
		return args, nil
	}
	push := func(s string) { stack = append(stack, s) }

	for _, t := range e.Tokens {
		switch t := t.(type) {
		case Op:
			switch {
			case t.Binary():
				args, err := pop(2)
				if err != nil {
					return "", err
				}
				push(args[0] + t.String() + args[1])
			case t == OpUplus || t == OpUminus:
				args, err := pop(1)
				if err != nil {
					return "", err
				}
				push(map[Op]string{OpUplus: "+", OpUminus: "-"}[t] + args[0])
			case t == OpPercent:
				args, err := pop(1)
				if err != nil {
					return "", err
				}
				push(args[0] + "%")
			case t == OpParen:
				args, err := pop(1)
				if err != nil {
					return "", err
				}
				push("(" + args[0] + ")")
			case t == OpMissArg:
				push("")
			default:
				return "", errors.Wrapf(ErrUnknownToken, "operator 0x%02X", uint8(t))
			}
		case Attr:
			if t.Options&AttrSum != 0 {
				args, err := pop(1)
				if err != nil {
					return "", err
				}
				push("SUM(" + args[0] + ")")
			}
		case Exp:
			push(fmt.Sprintf("EXP(R%dC%d)", t.Row+1, t.Col+1))
		case Tbl:
			push(fmt.Sprintf("TABLE(R%dC%d)", t.Row+1, t.Col+1))
		case Str:
			push(`"` + strings.ReplaceAll(t.Value.Text, `"`, `""`) + `"`)
		case Err:
			push(ErrorText(t.Code))
		case Bool:
			push(boolText(t.True()))
		case Int:
			push(strconv.Itoa(int(t.Value)))
		case Num:
			push(numberText(t.Value))
		case Array:
			if len(arrays) == 0 {
				return "", errors.Wrap(ErrBadArray, "array token without values")
			}
			push(arrayText(arrays[0]))
			arrays = arrays[1:]
		case Func:
			fn, ok := LookupFunction(t.Index)
			if !ok {
				return "", errors.Wrapf(ErrUnknownFunction, "index %d", t.Index)
			}
			args, err := pop(fn.Min)
			if err != nil {
				return "", err
			}
			push(fn.Name + "(" + strings.Join(args, ",") + ")")
		case FuncVar:
			name := fmt.Sprintf("FUNC%d", t.Index&0x7FFF)
			if fn, ok := LookupFunction(t.Index); ok {
				name = fn.Name
			}
			args, err := pop(int(t.Argc & 0x7F))
			if err != nil {
				return "", err
			}
			push(name + "(" + strings.Join(args, ",") + ")")
		case Name:
			push(f.name(t.Index))
		case NameX:
			push(f.externalName(t.Ixti, t.Index))
		case Ref:
			push(cellText(t.Row, t.Col))
		case Area:
			push(cellText(t.FirstRow, t.FirstCol) + ":" + cellText(t.LastRow, t.LastCol))
		case RefN:
			push(offsetText(t.Row, t.Col))
		case AreaN:
			push(offsetText(t.FirstRow, t.FirstCol) + ":" + offsetText(t.LastRow, t.LastCol))
		case Ref3d:
			push(f.sheet(t.Ixti) + "!" + cellText(t.Row, t.Col))
		case Area3d:
			push(f.sheet(t.Ixti) + "!" + cellText(t.FirstRow, t.FirstCol) + ":" + cellText(t.LastRow, t.LastCol))
		case RefErr, AreaErr:
			push(ErrorText(ErrRef))
		case RefErr3d:
			push(f.sheet(t.Ixti) + "!" + ErrorText(ErrRef))
		case AreaErr3d:
			push(f.sheet(t.Ixti) + "!" + ErrorText(ErrRef))
		case Mem, MemFunc:
			// the wrapped sub-expression follows inline
		default:
			return "", errors.Wrapf(ErrUnknownToken, "%T", t)
		}
	}
	if len(stack) != 1 {
		if len(stack) == 0 && len(e.Tokens) == 0 {
			return "", nil
		}
		return "", errors.Wrapf(ErrSyntax, "%d values left after formatting", len(stack))
	}
	return stack[0], nil
}

func (f Formatter) sheet(ixti uint16) string {
	if f.Sheet != nil {
		return f.Sheet(ixti)
	}
	return "#" + strconv.Itoa(int(ixti))
}

func (f Formatter) name(index uint16) string {
	if f.Name != nil {
		return f.Name(index)
	}
	return "NAME" + strconv.Itoa(int(index))
}

func (f Formatter) externalName(ixti, index uint16) string {
	if f.ExternalName != nil {
		return f.ExternalName(ixti, index)
	}
	return f.sheet(ixti) + "!NAME" + strconv.Itoa(int(index))
}

// ErrorText returns the literal of an error code.
func ErrorText(code uint8) string {
	if s, ok := errorTexts[code]; ok {
		return s
	}
	return fmt.Sprintf("#ERR%d!", code)
}

func boolText(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func numberText(v float64) string { return strconv.FormatFloat(v, 'G', -1, 64) }

// ColumnName returns the letters of a zero-based column.
func ColumnName(col uint16) string {
	var b []byte
	n := int(col) + 1
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

func cellText(row uint16, col ColField) string {
	var b strings.Builder
	if !col.ColRelative() {
		b.WriteByte('$')
	}
	b.WriteString(ColumnName(col.Col()))
	if !col.RowRelative() {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(int(row) + 1))
	return b.String()
}

// offsetText renders a shared-formula reference in R1C1 notation.
// Relative rows are signed 16-bit and relative columns signed 8-bit.
func offsetText(row uint16, col ColField) string {
	var b strings.Builder
	if col.RowRelative() {
		fmt.Fprintf(&b, "R[%d]", int16(row))
	} else {
		fmt.Fprintf(&b, "R%d", int(row)+1)
	}
	if col.ColRelative() {
		fmt.Fprintf(&b, "C[%d]", int8(col.Col()))
	} else {
		fmt.Fprintf(&b, "C%d", int(col.Col())+1)
	}
	return b.String()
}

func arrayText(a ConstArray) string {
	var b strings.Builder
	b.WriteByte('{')
	for r := 0; r < a.Rows; r++ {
		if r > 0 {
			b.WriteByte(';')
		}
		for c := 0; c < a.Cols; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			v := a.At(r, c)
			switch v.Kind {
			case ConstNumber:
				b.WriteString(numberText(v.Num))
			case ConstString:
				b.WriteString(`"` + strings.ReplaceAll(v.Str.Text, `"`, `""`) + `"`)
			case ConstBool:
				b.WriteString(boolText(v.Bool()))
			case ConstError:
				b.WriteString(ErrorText(v.Code()))
			}
		}
	}
	b.WriteByte('}')
	return b.String()
}
