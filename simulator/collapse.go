package simulator

import (
	"fmt"

	"qtermstab/circuit"
	"qtermstab/tableau"
)

// Measure measures each target in the Z basis, in order, and queues one
// outcome per target. A true flag inverts the recorded outcome.
func (s *TableauSimulator) Measure(data circuit.OperationData) error {
	if err := s.checkCollapseData(data); err != nil {
		return err
	}
	s.measure(data)
	return nil
}

// Reset forces each target into |0⟩, or |1⟩ when its flag is set. Nothing
// is recorded.
func (s *TableauSimulator) Reset(data circuit.OperationData) error {
	if err := s.checkCollapseData(data); err != nil {
		return err
	}
	s.reset(data)
	return nil
}

func (s *TableauSimulator) checkCollapseData(data circuit.OperationData) error {
	if len(data.Flags) != 0 && len(data.Flags) != len(data.Targets) {
		return fmt.Errorf("%w: %d flags for %d targets", ErrFlagCount, len(data.Flags), len(data.Targets))
	}
	return s.checkRange(data)
}

func (s *TableauSimulator) measure(data circuit.OperationData) {
	s.collapse(data.Targets)
	for i, q := range data.Targets {
		r, _ := s.PeekZ(int(q))
		s.recorded = append(s.recorded, r != data.Flag(i))
	}
}

func (s *TableauSimulator) reset(data circuit.OperationData) {
	s.collapse(data.Targets)
	for i, q := range data.Targets {
		s.inv.SetSigns(int(q), false, data.Flag(i))
	}
}

// collapse makes every target deterministic. The tableau is only transposed
// when at least one target needs it, and then only once for the batch.
func (s *TableauSimulator) collapse(targets []uint32) {
	var pending []int
	for _, q := range targets {
		if !s.IsDeterministic(int(q)) {
			pending = append(pending, int(q))
		}
	}
	if len(pending) == 0 {
		return
	}
	_ = s.inv.Transposed(func(v *tableau.TransposedView) error {
		for _, q := range pending {
			s.collapseQubit(v, q)
		}
		return nil
	})
}

// collapseQubit resolves the Z measurement of target and returns the pivot
// generator used, or -1 when the qubit was already deterministic.
func (s *TableauSimulator) collapseQubit(v *tableau.TransposedView, target int) int {
	n := v.NumQubits()

	// Find a stabilizer generator anticommuting with the observable.
	pivot := 0
	for pivot < n && !v.ZObsXBit(target, pivot) {
		pivot++
	}
	if pivot == n {
		return -1
	}

	// Isolate it by inserting CNOTs at the beginning of time; their
	// controls are |0⟩ so they do not change the state.
	for k := pivot + 1; k < n; k++ {
		if v.ZObsXBit(target, k) {
			v.AppendCX(pivot, k)
		}
	}

	// Rotate the pivot so it commutes with the observable.
	if v.ZObsZBit(target, pivot) {
		v.AppendHYZ(pivot)
	} else {
		v.AppendH(pivot)
	}

	result := s.collapseResult()
	if v.ZSign(target) != result {
		v.AppendX(pivot)
	}
	s.log.Debug("collapsed qubit", "qubit", target, "pivot", pivot, "result", result)
	return pivot
}

func (s *TableauSimulator) collapseResult() bool {
	switch s.bias {
	case CollapseTowardTrue:
		return true
	case CollapseTowardFalse:
		return false
	default:
		return s.rng.Uint64()&1 != 0
	}
}
