package simulator

import (
	"fmt"

	"qtermstab/circuit"
	"qtermstab/vectorsim"
)

// MaxVectorQubits bounds ToVectorSim.
const MaxVectorQubits = 16

// ToVectorSim returns a dense state stabilized by every generator of the
// current state. The global phase is arbitrary.
func (s *TableauSimulator) ToVectorSim() (*vectorsim.StateVector, error) {
	n := s.NumQubits()
	if n > MaxVectorQubits {
		return nil, fmt.Errorf("%w: %d qubits, limit %d", ErrTooLarge, n, MaxVectorQubits)
	}

	v := vectorsim.New(n)
	v.Amplitudes[0] = 0
	v.Amplitudes[s.supportState()] = 1
	for _, p := range s.Stabilizers() {
		if v.Project(p) < 1e-9 {
			panic("simulator: basis state outside the stabilizer state's support")
		}
	}
	return v, nil
}

// supportState returns a basis index with nonzero amplitude in the current
// state: the outcome of measuring every qubit of a copy with collapses
// biased toward false.
func (s *TableauSimulator) supportState() int {
	scratch := &TableauSimulator{
		inv:  s.inv.Clone(),
		rng:  noRandomness{},
		bias: CollapseTowardFalse,
		log:  discardLogger(),
	}
	all := make([]uint32, s.NumQubits())
	for q := range all {
		all[q] = uint32(q)
	}
	scratch.measure(circuit.OperationData{Targets: all})

	b := 0
	for q, r := range scratch.recorded {
		if r {
			b |= 1 << q
		}
	}
	return b
}
