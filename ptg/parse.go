package ptg

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/oy3o/biff"
)

const (
	maxCol = 0xFF
	maxArg = 30
)

// Parse compiles A1-style formula text into an expression. A leading '='
// is optional. Cell references and ranges take the value class unless
// they are passed straight to a function argument that wants a reference
// or an array.
//
// Parse knows literals, cell references, ranges, the arithmetic,
// comparison and concatenation operators, percent, unary signs,
// parentheses, constant arrays and the built-in functions. It does not
// resolve defined names or sheet-qualified references.
func Parse(text string) (Expression, error) {
	p := &parser{src: strings.TrimPrefix(strings.TrimSpace(text), "=")}
	if p.src == "" {
		return Expression{}, nil
	}
	if err := p.comparison(ClassValue); err != nil {
		return Expression{}, err
	}
	p.skipSpace()
	if !p.eof() {
		return Expression{}, p.errorf("unexpected %q", p.src[p.pos:])
	}
	e := Expression{Tokens: p.out}
	if len(p.arrays) > 0 {
		extra, err := EncodeArrays(p.arrays)
		if err != nil {
			return Expression{}, err
		}
		e.Extra = extra
	}
	return e, nil
}

// MustParse is Parse that panics on error. It is meant for constant
// formulas in tests and initializers.
func MustParse(text string) Expression {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	src    string
	pos    int
	out    []Token
	arrays []ConstArray
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *parser) emit(t Token) { p.out = append(p.out, t) }

func (p *parser) errorf(format string, args ...any) error {
	return errors.Wrapf(ErrSyntax, "at %d: "+format, append([]any{p.pos}, args...)...)
}

// operandClass is the class an operator's operands are evaluated in.
func operandClass(want Class) Class {
	if want == ClassArray {
		return ClassArray
	}
	return ClassValue
}

// asOperand re-classes the last token emitted. The left operand of a
// binary or postfix operator is parsed before the operator is seen, in
// the class the whole expression was wanted in.
func (p *parser) asOperand(want Class) {
	i := len(p.out) - 1
	if i < 0 {
		return
	}
	c := operandClass(want)
	switch t := p.out[i].(type) {
	case Ref:
		t.Class = c
		p.out[i] = t
	case Area:
		t.Class = c
		p.out[i] = t
	case Func:
		f, _ := LookupFunction(t.Index)
		t.Class = funcClass(f, c)
		p.out[i] = t
	case FuncVar:
		f, _ := LookupFunction(t.Index)
		t.Class = funcClass(f, c)
		p.out[i] = t
	}
}

// funcClass is the class a call to f is made in.
func funcClass(f Function, want Class) Class {
	switch {
	case want == ClassArray:
		return ClassArray
	case want == ClassRef && f.Return == ClassRef:
		return ClassRef
	case f.Return == ClassArray:
		return ClassArray
	}
	return ClassValue
}

func (p *parser) comparison(want Class) error {
	if err := p.concat(want); err != nil {
		return err
	}
	for {
		p.skipSpace()
		var op Op
		switch {
		case strings.HasPrefix(p.src[p.pos:], "<="):
			op, p.pos = OpLE, p.pos+2
		case strings.HasPrefix(p.src[p.pos:], ">="):
			op, p.pos = OpGE, p.pos+2
		case strings.HasPrefix(p.src[p.pos:], "<>"):
			op, p.pos = OpNE, p.pos+2
		case p.peek() == '<':
			op, p.pos = OpLT, p.pos+1
		case p.peek() == '>':
			op, p.pos = OpGT, p.pos+1
		case p.peek() == '=':
			op, p.pos = OpEQ, p.pos+1
		default:
			return nil
		}
		p.asOperand(want)
		if err := p.concat(operandClass(want)); err != nil {
			return err
		}
		p.emit(op)
	}
}

func (p *parser) concat(want Class) error {
	if err := p.additive(want); err != nil {
		return err
	}
	for {
		p.skipSpace()
		if p.peek() != '&' {
			return nil
		}
		p.pos++
		p.asOperand(want)
		if err := p.additive(operandClass(want)); err != nil {
			return err
		}
		p.emit(OpConcat)
	}
}

func (p *parser) additive(want Class) error {
	if err := p.term(want); err != nil {
		return err
	}
	for {
		p.skipSpace()
		var op Op
		switch p.peek() {
		case '+':
			op = OpAdd
		case '-':
			op = OpSub
		default:
			return nil
		}
		p.pos++
		p.asOperand(want)
		if err := p.term(operandClass(want)); err != nil {
			return err
		}
		p.emit(op)
	}
}

func (p *parser) term(want Class) error {
	if err := p.power(want); err != nil {
		return err
	}
	for {
		p.skipSpace()
		var op Op
		switch p.peek() {
		case '*':
			op = OpMul
		case '/':
			op = OpDiv
		default:
			return nil
		}
		p.pos++
		p.asOperand(want)
		if err := p.power(operandClass(want)); err != nil {
			return err
		}
		p.emit(op)
	}
}

func (p *parser) power(want Class) error {
	if err := p.percent(want); err != nil {
		return err
	}
	for {
		p.skipSpace()
		if p.peek() != '^' {
			return nil
		}
		p.pos++
		p.asOperand(want)
		if err := p.percent(operandClass(want)); err != nil {
			return err
		}
		p.emit(OpPower)
	}
}

func (p *parser) percent(want Class) error {
	if err := p.factor(want); err != nil {
		return err
	}
	for {
		p.skipSpace()
		if p.peek() != '%' {
			return nil
		}
		p.pos++
		p.asOperand(want)
		p.emit(OpPercent)
	}
}

func (p *parser) factor(want Class) error {
	p.skipSpace()
	if p.eof() {
		return p.errorf("unexpected end of formula")
	}
	switch c := p.peek(); {
	case c == '+' || c == '-':
		return p.unary(c == '-', want)
	case c == '(':
		p.pos++
		if err := p.comparison(want); err != nil {
			return err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return p.errorf("missing ')'")
		}
		p.pos++
		p.emit(OpParen)
		return nil
	case c == '"':
		s, err := p.stringLiteral()
		if err != nil {
			return err
		}
		if biff.NewXLString(s).CharCount() > 0xFF {
			return p.errorf("string constant longer than 255 characters")
		}
		p.emit(Str{Value: biff.NewXLString(s)})
		return nil
	case c == '#':
		code, err := p.errorLiteral()
		if err != nil {
			return err
		}
		p.emit(Err{Code: code})
		return nil
	case c == '{':
		return p.array()
	case isDigit(c) || c == '.':
		v, integer, err := p.number()
		if err != nil {
			return err
		}
		p.emitNumber(v, integer)
		return nil
	case c == '$' || isLetter(c):
		return p.reference(want)
	}
	return p.errorf("unexpected %q", p.peek())
}

// unary binds tighter than '^' and '%'. A sign directly in front of a
// number literal is folded into the constant.
func (p *parser) unary(negative bool, want Class) error {
	p.pos++
	if c := p.peek(); isDigit(c) || c == '.' {
		v, integer, err := p.number()
		if err != nil {
			return err
		}
		if negative {
			p.emit(Num{Value: -v})
		} else {
			p.emitNumber(v, integer)
		}
		return nil
	}
	if err := p.factor(operandClass(want)); err != nil {
		return err
	}
	if negative {
		p.emit(OpUminus)
	} else {
		p.emit(OpUplus)
	}
	return nil
}

func (p *parser) emitNumber(v float64, integer bool) {
	if integer && v >= 0 && v <= 0xFFFF {
		p.emit(Int{Value: uint16(v)})
		return
	}
	p.emit(Num{Value: v})
}

func (p *parser) number() (float64, bool, error) {
	start := p.pos
	integer := true
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}
	if p.peek() == '.' {
		integer = false
		p.pos++
		for !p.eof() && isDigit(p.peek()) {
			p.pos++
		}
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		integer = false
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		for !p.eof() && isDigit(p.peek()) {
			p.pos++
		}
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, false, p.errorf("bad number %q", p.src[start:p.pos])
	}
	return v, integer, nil
}

func (p *parser) stringLiteral() (string, error) {
	p.pos++
	var b strings.Builder
	for {
		i := strings.IndexByte(p.src[p.pos:], '"')
		if i < 0 {
			return "", p.errorf("unterminated string")
		}
		b.WriteString(p.src[p.pos : p.pos+i])
		p.pos += i + 1
		if p.peek() != '"' {
			return b.String(), nil
		}
		b.WriteByte('"')
		p.pos++
	}
}

func (p *parser) errorLiteral() (uint8, error) {
	for code, text := range errorTexts {
		if strings.HasPrefix(strings.ToUpper(p.src[p.pos:]), text) {
			p.pos += len(text)
			return code, nil
		}
	}
	return 0, p.errorf("unknown error literal")
}

func (p *parser) array() error {
	p.pos++
	a := ConstArray{}
	row := []Constant{}
	var rows [][]Constant
	for {
		p.skipSpace()
		v, err := p.arrayValue()
		if err != nil {
			return err
		}
		row = append(row, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case ';', '}':
			rows = append(rows, row)
			if len(row) != len(rows[0]) {
				return p.errorf("ragged constant array")
			}
			row = []Constant{}
			if p.peek() == ';' {
				p.pos++
				continue
			}
			p.pos++
		default:
			return p.errorf("expected ',', ';' or '}' in constant array")
		}
		break
	}
	a.Rows, a.Cols = len(rows), len(rows[0])
	if a.Cols > 0x100 || a.Rows > 0x10000 {
		return p.errorf("constant array too large")
	}
	for _, r := range rows {
		a.Values = append(a.Values, r...)
	}
	p.arrays = append(p.arrays, a)
	p.emit(Array{Class: ClassArray})
	return nil
}

func (p *parser) arrayValue() (Constant, error) {
	switch c := p.peek(); {
	case c == '"':
		s, err := p.stringLiteral()
		if err != nil {
			return Constant{}, err
		}
		return StringConst(s), nil
	case c == '#':
		code, err := p.errorLiteral()
		if err != nil {
			return Constant{}, err
		}
		return ErrorConst(code), nil
	case c == '-' || c == '+' || isDigit(c) || c == '.':
		neg := c == '-'
		if c == '-' || c == '+' {
			p.pos++
		}
		v, _, err := p.number()
		if err != nil {
			return Constant{}, err
		}
		if neg {
			v = -v
		}
		return NumberConst(v), nil
	case isLetter(c):
		word := p.word()
		switch strings.ToUpper(word) {
		case "TRUE":
			return BoolConst(true), nil
		case "FALSE":
			return BoolConst(false), nil
		}
		return Constant{}, p.errorf("unexpected %q in constant array", word)
	}
	return Constant{}, p.errorf("bad constant array value")
}

func (p *parser) word() string {
	start := p.pos
	for !p.eof() && (isLetter(p.peek()) || isDigit(p.peek()) || p.peek() == '.' || p.peek() == '_') {
		p.pos++
	}
	return p.src[start:p.pos]
}

// reference parses a cell, a range, a boolean or a function call.
func (p *parser) reference(want Class) error {
	start := p.pos
	first, ok := p.cell()
	if ok {
		end := p.pos
		p.skipSpace()
		if p.peek() == ':' {
			p.pos++
			p.skipSpace()
			last, ok := p.cell()
			if !ok {
				return p.errorf("bad range end")
			}
			p.emit(Area{
				Class:    refClass(want),
				FirstRow: first.row, LastRow: last.row,
				FirstCol: first.col, LastCol: last.col,
			})
			return nil
		}
		p.pos = end
		p.emit(Ref{Class: refClass(want), Row: first.row, Col: first.col})
		return nil
	}
	p.pos = start
	name := p.word()
	if name == "" {
		return p.errorf("unexpected %q", p.peek())
	}
	p.skipSpace()
	if p.peek() == '(' {
		return p.call(name, want)
	}
	switch strings.ToUpper(name) {
	case "TRUE":
		p.emit(Bool{Value: 1})
		return nil
	case "FALSE":
		p.emit(Bool{Value: 0})
		return nil
	}
	return errors.Wrapf(ErrSyntax, "unresolved name %q", name)
}

func refClass(want Class) Class {
	if want == ClassNone {
		return ClassValue
	}
	return want
}

type cellRef struct {
	row uint16
	col ColField
}

// cell parses [$]COL[$]ROW. It leaves pos undefined on failure.
func (p *parser) cell() (cellRef, bool) {
	colAbs := p.peek() == '$'
	if colAbs {
		p.pos++
	}
	start := p.pos
	for !p.eof() && isLetter(p.peek()) {
		p.pos++
	}
	letters := strings.ToUpper(p.src[start:p.pos])
	if letters == "" || len(letters) > 2 {
		return cellRef{}, false
	}
	col := 0
	for i := 0; i < len(letters); i++ {
		col = col*26 + int(letters[i]-'A') + 1
	}
	col--
	rowAbs := p.peek() == '$'
	if rowAbs {
		p.pos++
	}
	start = p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}
	if start == p.pos {
		return cellRef{}, false
	}
	// a following letter, digit or '(' means this was a name
	if c := p.peek(); isLetter(c) || c == '(' || c == '_' || c == '.' {
		return cellRef{}, false
	}
	row, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil || row < 1 || row > maxRow+1 || col > maxCol {
		return cellRef{}, false
	}
	return cellRef{row: uint16(row - 1), col: Col(uint16(col), !rowAbs, !colAbs)}, true
}

func (p *parser) call(name string, want Class) error {
	f, ok := FunctionByName(name)
	if !ok {
		return errors.Wrapf(ErrUnknownFunction, "%q", name)
	}
	p.pos++ // '('
	argc := 0
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
	} else {
		for {
			p.skipSpace()
			if c := p.peek(); c == ',' || c == ')' {
				p.emit(OpMissArg)
			} else if err := p.comparison(f.ArgClass(argc)); err != nil {
				return err
			}
			argc++
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			if p.peek() != ')' {
				return p.errorf("expected ',' or ')' in call to %s", f.Name)
			}
			p.pos++
			break
		}
	}
	if argc < f.Min || argc > f.Max || argc > maxArg {
		return errors.Wrapf(ErrSyntax, "%s takes %d to %d arguments, got %d", f.Name, f.Min, f.Max, argc)
	}
	class := funcClass(f, want)
	if f.Fixed() {
		p.emit(Func{Class: class, Index: f.Index})
	} else {
		p.emit(FuncVar{Class: class, Argc: uint8(argc), Index: f.Index})
	}
	return nil
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' }
