package popdyn

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter marks malformed or infeasible model parameters,
	// detected before any sampling happens.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericDivergence marks a root-finder that failed to converge.
	ErrNumericDivergence = errors.New("numeric divergence")

	// ErrNumericOverflow marks an abundance value that became NaN or Inf
	// during evolution.
	ErrNumericOverflow = errors.New("numeric overflow")

	// ErrDivisionByZero marks a growth-rate computation with a non-positive
	// or vanishing denominator.
	ErrDivisionByZero = errors.New("division by zero")
)

// StepError reports the macro step and cell at which a run broke down.
type StepError struct {
	Step int
	Cell string
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Cell, e.Err)
}

func (e StepError) Unwrap() error { return e.Err }
