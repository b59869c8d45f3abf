package rd

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrInvalidConfig indicates an unknown dimension or boundary tag, or a
	// non-positive step or grid size.
	ErrInvalidConfig = errors.New("rd: invalid configuration")

	// ErrOutOfBounds indicates a field or coordinate outside the grid.
	ErrOutOfBounds = errors.New("rd: index out of bounds")

	// ErrNonFinite indicates a step produced NaN or Inf.
	ErrNonFinite = errors.New("rd: non-finite value (NaN or Inf detected)")

	// ErrPoisoned indicates a previous step failed and the grid is unusable.
	ErrPoisoned = errors.New("rd: solver state is unusable after a failed step")

	// ErrShrink indicates a resize to fewer grid points than before.
	ErrShrink = errors.New("rd: grid can only grow")

	// ErrInvalidSteps indicates a non-positive step count.
	ErrInvalidSteps = errors.New("rd: step count must be positive")
)

// SimulationError locates a failure inside a step.
type SimulationError struct {
	Step    int
	Time    float64
	Field   int
	X, Y    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) field %d at (%d,%d): %v", e.Step, e.Time, e.Field, e.X, e.Y, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

func outOfBounds(field, x, y int) error {
	return fmt.Errorf("%w: field %d at (%d,%d)", ErrOutOfBounds, field, x, y)
}
