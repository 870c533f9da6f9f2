package sphinxql

import (
	"errors"
	"fmt"
)

// ErrNotSupported reports a construct the SphinxQL dialect has no syntax for.
// Wrap it with context via fmt.Errorf and detect it with errors.Is.
var ErrNotSupported = errors.New("not supported by SphinxQL")

// ErrInvalidFacet reports a facet specification that selects nothing.
var ErrInvalidFacet = errors.New("invalid facet specification")

// OperandCountError reports a condition operator invoked with the wrong
// number of operands, e.g. ["BETWEEN", "price"] missing its bounds.
type OperandCountError struct {
	Operator string
	Expected string
	Got      int
}

func (e *OperandCountError) Error() string {
	return fmt.Sprintf("operator %s requires %s, got %d", e.Operator, e.Expected, e.Got)
}

func operandCountError(operator, expected string, got int) error {
	return &OperandCountError{Operator: operator, Expected: expected, Got: got}
}
