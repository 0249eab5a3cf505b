package gas

import (
	"errors"
	"fmt"
)

var (
	// ErrComposition indicates invalid or unnormalized mole fractions.
	ErrComposition = errors.New("gas: invalid composition")

	// ErrStateResolution indicates the engine could not resolve a state for the given inputs.
	ErrStateResolution = errors.New("gas: state could not be resolved")
)

// StateError wraps ErrStateResolution with the inputs that failed.
type StateError struct {
	Mode   string // "TP" or "HP"
	A, P   float64
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s (%s: %g, %g): %s", ErrStateResolution.Error(), e.Mode, e.A, e.P, e.Reason)
}

func (e *StateError) Unwrap() error {
	return ErrStateResolution
}

func stateErr(mode string, a, p float64, reason string) error {
	return &StateError{Mode: mode, A: a, P: p, Reason: reason}
}
