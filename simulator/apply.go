package simulator

import (
	"fmt"

	"qtermstab/circuit"
	"qtermstab/gates"
	"qtermstab/tableau"
)

// Apply composes a custom Clifford operation into the state, broadcast over
// data.Targets in blocks of op.NumQubits().
func (s *TableauSimulator) Apply(op *tableau.Tableau, data circuit.OperationData) error {
	arity := op.NumQubits()
	if arity == 0 || len(data.Targets)%arity != 0 {
		return &ArityError{Gate: "custom", Arity: arity, Targets: len(data.Targets)}
	}
	if err := gates.CheckDistinct("custom", arity, data.Targets); err != nil {
		return err
	}
	if err := s.checkRange(data); err != nil {
		return err
	}
	s.applyTableau(op, arity, data.Targets)
	return nil
}

func (s *TableauSimulator) applyTableau(op *tableau.Tableau, arity int, targets []uint32) {
	inv := op.Inverse()
	block := make([]int, arity)
	for i := 0; i < len(targets); i += arity {
		for j := range block {
			block[j] = int(targets[i+j])
		}
		s.inv.InplaceScatterPrepend(inv, block)
	}
}

// ApplyNamed applies a gate from the gate table. Measurement and reset
// gates are accepted and behave like Measure and Reset; noise channels need
// their probability and must go through ApplyOperation.
func (s *TableauSimulator) ApplyNamed(name string, data circuit.OperationData) error {
	g, ok := gates.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGate, name)
	}
	if err := g.Validate(data.Targets, len(data.Flags), 0); err != nil {
		return err
	}
	if err := s.checkRange(data); err != nil {
		return err
	}
	switch {
	case g.Has(gates.Measure):
		s.measure(data)
	case g.Has(gates.Reset):
		s.reset(data)
	case s.applyFast(g.Name, data.Targets):
	default:
		s.applyTableau(g.Tableau(), g.Arity, data.Targets)
	}
	return nil
}

// applyFast runs the bit-level update for a named gate. Each case prepends
// the inverse of the gate; self-inverse gates prepend themselves.
func (s *TableauSimulator) applyFast(name string, t []uint32) bool {
	inv := s.inv
	switch name {
	case "I":
	case "X":
		each1(t, inv.PrependX)
	case "Y":
		each1(t, inv.PrependY)
	case "Z":
		each1(t, inv.PrependZ)
	case "H":
		each1(t, inv.PrependHXZ)
	case "H_XY":
		each1(t, inv.PrependHXY)
	case "H_YZ":
		each1(t, inv.PrependHYZ)
	case "SQRT_X":
		each1(t, inv.PrependSqrtXDag)
	case "SQRT_X_DAG":
		each1(t, inv.PrependSqrtX)
	case "SQRT_Y":
		each1(t, inv.PrependSqrtYDag)
	case "SQRT_Y_DAG":
		each1(t, inv.PrependSqrtY)
	case "S":
		each1(t, inv.PrependSqrtZDag)
	case "S_DAG":
		each1(t, inv.PrependSqrtZ)
	case "CX":
		each2(t, inv.PrependZCX)
	case "CY":
		each2(t, inv.PrependZCY)
	case "CZ":
		each2(t, inv.PrependZCZ)
	case "XCX":
		each2(t, inv.PrependXCX)
	case "XCY":
		each2(t, inv.PrependXCY)
	case "XCZ":
		each2(t, inv.PrependXCZ)
	case "YCX":
		each2(t, inv.PrependYCX)
	case "YCY":
		each2(t, inv.PrependYCY)
	case "YCZ":
		each2(t, inv.PrependYCZ)
	case "SWAP":
		each2(t, inv.PrependSwap)
	case "ISWAP":
		each2(t, inv.PrependISwapDag)
	case "ISWAP_DAG":
		each2(t, inv.PrependISwap)
	default:
		return false
	}
	return true
}

func each1(targets []uint32, f func(q int)) {
	for _, q := range targets {
		f(int(q))
	}
}

func each2(targets []uint32, f func(a, b int)) {
	for i := 0; i+1 < len(targets); i += 2 {
		f(int(targets[i]), int(targets[i+1]))
	}
}

// ApplyOperation executes one circuit operation, growing the state to fit
// its targets first. Noise channels draw from the bit source.
func (s *TableauSimulator) ApplyOperation(op circuit.Operation) error {
	return s.applyOperation(op, false)
}

func (s *TableauSimulator) applyOperation(op circuit.Operation, skipNoise bool) error {
	for _, q := range op.Data.Targets {
		s.EnsureLargeEnoughForQubit(int(q))
	}
	g := op.Gate
	if !g.Has(gates.Noisy) {
		if len(op.Args) != 0 {
			return fmt.Errorf("%w: gate %s takes no arguments", ErrArgCount, g.Name)
		}
		return s.ApplyNamed(g.Name, op.Data)
	}
	if err := g.Validate(op.Data.Targets, len(op.Data.Flags), len(op.Args)); err != nil {
		return err
	}
	if skipNoise {
		return nil
	}
	p := op.Args[0]
	var flip func(int)
	switch g.Name {
	case "X_ERROR":
		flip = s.inv.PrependX
	case "Y_ERROR":
		flip = s.inv.PrependY
	case "Z_ERROR":
		flip = s.inv.PrependZ
	default:
		return fmt.Errorf("%w: no noise model for %s", ErrUnknownGate, g.Name)
	}
	for _, q := range op.Data.Targets {
		if s.randFloat() < p {
			flip(int(q))
		}
	}
	return nil
}

// randFloat returns a uniform value in [0, 1).
func (s *TableauSimulator) randFloat() float64 {
	return float64(s.rng.Uint64()>>11) * 0x1p-53
}
