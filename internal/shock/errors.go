package shock

import (
	"errors"
	"fmt"
)

// Domain errors for shock iteration.
var (
	// ErrNonConvergence indicates the iteration cap was reached before the
	// density ratio settled within tolerance.
	ErrNonConvergence = errors.New("shock: iteration did not converge")

	// ErrDegenerateFlow indicates a density ratio that is not finite and
	// positive, such as a zero downstream density.
	ErrDegenerateFlow = errors.New("shock: degenerate density ratio")

	// ErrConfig indicates an unusable tolerance or iteration cap.
	ErrConfig = errors.New("shock: invalid solver configuration")
)

// IterationError wraps a failure raised while updating the downstream
// state. Iteration 0 is the initial guess.
type IterationError struct {
	Iteration int
	Epsilon   float64
	Wrapped   error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("shock iteration %d (epsilon=%.6g): %v", e.Iteration, e.Epsilon, e.Wrapped)
}

func (e *IterationError) Unwrap() error {
	return e.Wrapped
}

// ConvergenceError reports where the iteration stood when the cap was hit.
type ConvergenceError struct {
	Iterations int
	Epsilon    float64
	Delta      float64
	Tolerance  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s after %d iterations (epsilon=%.6g, |delta|=%.3g > %.3g)",
		ErrNonConvergence.Error(), e.Iterations, e.Epsilon, e.Delta, e.Tolerance)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNonConvergence
}
