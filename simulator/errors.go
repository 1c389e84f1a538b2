package simulator

import (
	"errors"
	"fmt"

	"qtermstab/gates"
)

// Usage errors shared with the gate table. A simulator that returned one of
// these in the middle of a broadcast is left in an undefined state.
var (
	ErrUnknownGate     = gates.ErrUnknownGate
	ErrFlagCount       = gates.ErrFlagCount
	ErrArgCount        = gates.ErrArgCount
	ErrDuplicateTarget = gates.ErrDuplicateTarget
)

// ArityError reports a target list that is not a multiple of the arity.
type ArityError = gates.ArityError

var (
	// ErrNotUnitary is returned when a collapsing or noisy gate is passed
	// where only a Clifford is accepted.
	ErrNotUnitary = errors.New("gate is not a unitary clifford")

	// ErrTooLarge is returned when exporting a state that cannot be held
	// densely.
	ErrTooLarge = errors.New("state too large for dense export")
)

// QubitRangeError reports a target beyond the tableau's current size.
// Call EnsureLargeEnoughForQubit first.
type QubitRangeError struct {
	Qubit     uint32
	NumQubits int
}

func (e *QubitRangeError) Error() string {
	return fmt.Sprintf("qubit %d used before growing the %d-qubit simulator", e.Qubit, e.NumQubits)
}
