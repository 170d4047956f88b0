package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for ODE integration.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive step size fell below the
	// minimum while still failing the error tolerance.
	ErrStepTooSmall = errors.New("dynamo: adaptive step below minimum")

	// ErrTooManySteps indicates the step limit was exhausted before the
	// target time was reached.
	ErrTooManySteps = errors.New("dynamo: step limit exceeded")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SolveError wraps an integration failure with the point it occurred at.
type SolveError struct {
	Time    float64
	Steps   int
	State   State
	Wrapped error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("solve failed at t=%.4f after %d steps: %v", e.Time, e.Steps, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
