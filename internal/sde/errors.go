package sde

import (
	"errors"
	"fmt"
)

// Domain errors for SDE integration.
var (
	// ErrInvalidState indicates a state matrix containing NaN or Inf.
	ErrInvalidState = errors.New("sde: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates mismatched batch or state dimensions.
	ErrDimensionMismatch = errors.New("sde: dimension mismatch")

	// ErrCalculusMismatch indicates a stepper applied to a system
	// declared in the other stochastic-integral sense.
	ErrCalculusMismatch = errors.New("sde: solver and system disagree on calculus sense")

	// ErrBadTimeGrid indicates a non-increasing or too-short time grid.
	ErrBadTimeGrid = errors.New("sde: time grid must be strictly increasing with at least two points")

	// ErrUnknownMethod indicates a solver name absent from the registry.
	ErrUnknownMethod = errors.New("sde: unknown method")
)

// StepError wraps an error with the step at which integration failed.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6f): %s", e.Step, e.Time, e.Wrapped.Error())
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
