// Package simulator runs stabilizer circuits on a tableau.
//
// The simulator stores the inverse of the Clifford operation applied so far.
// Applying a gate G replaces inv with inv∘G⁻¹, which is a row update on the
// gate's targets. Measuring qubit q inspects inv(Z_q): if it has no X
// component the outcome is fixed by its sign, otherwise the qubit is
// collapsed by rewriting the stabilizer generators at the beginning of time.
//
// A TableauSimulator is not safe for concurrent use.
package simulator

import (
	"github.com/charmbracelet/log"

	"qtermstab/circuit"
	"qtermstab/tableau"
)

// BitSource is a stream of uniformly random 64-bit words. *rand.Rand from
// math/rand/v2 satisfies it.
type BitSource interface {
	Uint64() uint64
}

// TableauSimulator tracks a stabilizer state through Clifford gates,
// measurements and resets.
type TableauSimulator struct {
	inv      *tableau.Tableau
	rng      BitSource
	bias     Bias
	recorded []bool
	log      *log.Logger
}

// New returns a simulator for numQubits qubits in the |0…0⟩ state. rng is
// retained and consumed by random collapses and noise.
func New(numQubits int, rng BitSource, opts ...Option) *TableauSimulator {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = discardLogger()
	}
	return &TableauSimulator{
		inv:  tableau.Identity(numQubits),
		rng:  rng,
		bias: o.bias,
		log:  o.logger,
	}
}

// NumQubits returns the current size of the state.
func (s *TableauSimulator) NumQubits() int { return s.inv.NumQubits() }

// Bias returns the collapse bias in effect.
func (s *TableauSimulator) Bias() Bias { return s.bias }

// InverseState returns a copy of the stored inverse tableau.
func (s *TableauSimulator) InverseState() *tableau.Tableau { return s.inv.Clone() }

// Stabilizers returns the stabilizer generators of the current state, one
// per qubit: the images of Z_k under the forward operation.
func (s *TableauSimulator) Stabilizers() []tableau.PauliString {
	fwd := s.inv.Inverse()
	out := make([]tableau.PauliString, fwd.NumQubits())
	for k := range out {
		out[k] = fwd.Z(k)
	}
	return out
}

// EnsureLargeEnoughForQubit grows the state so that q is a valid index.
// New qubits start in |0⟩.
func (s *TableauSimulator) EnsureLargeEnoughForQubit(q int) {
	if q < s.inv.NumQubits() {
		return
	}
	s.log.Debug("growing tableau", "from", s.inv.NumQubits(), "to", q+1)
	s.inv.Expand(q + 1)
}

// IsDeterministic reports whether measuring q in the Z basis has a fixed
// outcome, i.e. no stabilizer generator anticommutes with Z_q.
func (s *TableauSimulator) IsDeterministic(q int) bool {
	return s.inv.Z(q).X.None()
}

// PeekZ returns the outcome a Z measurement of q would give. ok is false
// when the outcome is random.
func (s *TableauSimulator) PeekZ(q int) (result, ok bool) {
	z := s.inv.Z(q)
	if !z.X.None() {
		return false, false
	}
	return z.Sign, true
}

func (s *TableauSimulator) checkRange(data circuit.OperationData) error {
	n := s.inv.NumQubits()
	for _, q := range data.Targets {
		if int(q) >= n {
			return &QubitRangeError{Qubit: q, NumQubits: n}
		}
	}
	return nil
}

// NumRecorded returns the number of outcomes waiting in the queue.
func (s *TableauSimulator) NumRecorded() int { return len(s.recorded) }

// PopRecorded removes and returns the oldest recorded outcome.
func (s *TableauSimulator) PopRecorded() (result, ok bool) {
	if len(s.recorded) == 0 {
		return false, false
	}
	result = s.recorded[0]
	s.recorded = s.recorded[1:]
	return result, true
}

// DrainRecorded returns every queued outcome in emission order and empties
// the queue.
func (s *TableauSimulator) DrainRecorded() []bool {
	out := s.recorded
	s.recorded = nil
	return out
}
