package ptg

import "github.com/pkg/errors"

var (
	// ErrUnknownToken is returned for an opcode with no known layout.
	ErrUnknownToken = errors.New("ptg: unknown token")

	// ErrTokenOverrun is returned when the last token of a stream reaches
	// past the declared stream size.
	ErrTokenOverrun = errors.New("ptg: token runs past declared size")

	// ErrBadArray is returned for malformed constant array data.
	ErrBadArray = errors.New("ptg: malformed constant array")

	// ErrSyntax is returned by Parse for text that is not a formula.
	ErrSyntax = errors.New("ptg: syntax error")

	// ErrUnknownFunction is returned by Parse for a function name that is
	// not in the built-in table.
	ErrUnknownFunction = errors.New("ptg: unknown function")
)
