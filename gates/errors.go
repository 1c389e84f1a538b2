package gates

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownGate is returned for names missing from the table.
	ErrUnknownGate = errors.New("unknown gate")

	// ErrFlagCount is returned when per-target flags are given but do not
	// line up with the targets, or are given to a gate that takes none.
	ErrFlagCount = errors.New("flag count does not match targets")

	// ErrArgCount is returned when a gate receives the wrong number of
	// numeric arguments.
	ErrArgCount = errors.New("wrong number of gate arguments")

	// ErrDuplicateTarget is returned when one application of a multi-qubit
	// gate names the same qubit twice.
	ErrDuplicateTarget = errors.New("duplicate target in gate application")
)

// ArityError reports a target list whose length is not a multiple of the
// gate's arity.
type ArityError struct {
	Gate    string
	Arity   int
	Targets int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("gate %s takes targets in groups of %d, got %d", e.Gate, e.Arity, e.Targets)
}

// Validate checks a target, flag and argument count against the gate.
// targets may be nil when only the counts are known.
func (g *Gate) Validate(targets []uint32, numFlags, numArgs int) error {
	if len(targets)%g.Arity != 0 {
		return &ArityError{Gate: g.Name, Arity: g.Arity, Targets: len(targets)}
	}
	if numFlags != 0 && (numFlags != len(targets) || !g.Has(TargetFlags)) {
		return fmt.Errorf("%w: gate %s, %d flags for %d targets", ErrFlagCount, g.Name, numFlags, len(targets))
	}
	if numArgs != g.NumArgs {
		return fmt.Errorf("%w: gate %s wants %d, got %d", ErrArgCount, g.Name, g.NumArgs, numArgs)
	}
	return CheckDistinct(g.Name, g.Arity, targets)
}

// CheckDistinct reports ErrDuplicateTarget when a qubit repeats within one
// application of an arity-qubit operation.
func CheckDistinct(name string, arity int, targets []uint32) error {
	if arity < 2 {
		return nil
	}
	for i := 0; i+arity <= len(targets); i += arity {
		group := targets[i : i+arity]
		for j := range group {
			for k := j + 1; k < len(group); k++ {
				if group[j] == group[k] {
					return fmt.Errorf("%w: gate %s on qubit %d", ErrDuplicateTarget, name, group[j])
				}
			}
		}
	}
	return nil
}
