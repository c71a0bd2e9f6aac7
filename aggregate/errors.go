package aggregate

import "github.com/pkg/errors"

var (
	// ErrNoFormula is returned when an operation needs a formula cell and
	// the cell holds none.
	ErrNoFormula = errors.New("aggregate: no formula at cell")

	// ErrNoSharedFormula is returned when a cell refers to a shared formula
	// that is not in the sheet.
	ErrNoSharedFormula = errors.New("aggregate: shared formula not found")

	// ErrTooManyRules is returned when a conditional format already holds
	// the most rules the format allows.
	ErrTooManyRules = errors.New("aggregate: too many conditional format rules")
)
