// Package vectorsim is a dense state-vector simulator for small Clifford
// circuits. It exists to cross-check the stabilizer simulator; memory grows
// as 2^n so it is only meant for a handful of qubits.
//
// Basis index bit q is the value of qubit q.
package vectorsim

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"

	"qtermstab/gates"
	"qtermstab/tableau"
)

// MaxQubits bounds New so a bad argument cannot allocate gigabytes.
const MaxQubits = 20

type Complex = complex128

type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// New returns |0…0⟩ on n qubits.
func New(n int) *StateVector {
	if n < 0 || n > MaxQubits {
		panic(fmt.Sprintf("vectorsim: %d qubits out of range [0, %d]", n, MaxQubits))
	}
	amps := make([]Complex, 1<<n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: n}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

type matrix [2][2]Complex

var (
	invSqrt2 = complex(1/math.Sqrt2, 0)

	matI = matrix{{1, 0}, {0, 1}}
	matX = matrix{{0, 1}, {1, 0}}
	matY = matrix{{0, -1i}, {1i, 0}}
	matZ = matrix{{1, 0}, {0, -1}}

	matH    = matrix{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}
	matHXY  = matrix{{0, invSqrt2 * (1 - 1i)}, {invSqrt2 * (1 + 1i), 0}}
	matHYZ  = matrix{{invSqrt2, -1i * invSqrt2}, {1i * invSqrt2, -invSqrt2}}
	matS    = matrix{{1, 0}, {0, 1i}}
	matSDag = matrix{{1, 0}, {0, -1i}}

	matSqrtX    = matrix{{0.5 + 0.5i, 0.5 - 0.5i}, {0.5 - 0.5i, 0.5 + 0.5i}}
	matSqrtXDag = matrix{{0.5 - 0.5i, 0.5 + 0.5i}, {0.5 + 0.5i, 0.5 - 0.5i}}
	matSqrtY    = matrix{{0.5 + 0.5i, -0.5 - 0.5i}, {0.5 + 0.5i, 0.5 + 0.5i}}
	matSqrtYDag = matrix{{0.5 - 0.5i, 0.5 - 0.5i}, {-0.5 + 0.5i, 0.5 - 0.5i}}
)

var singleQubit = map[string]matrix{
	"I":          matI,
	"X":          matX,
	"Y":          matY,
	"Z":          matZ,
	"H":          matH,
	"H_XY":       matHXY,
	"H_YZ":       matHYZ,
	"S":          matS,
	"S_DAG":      matSDag,
	"SQRT_X":     matSqrtX,
	"SQRT_X_DAG": matSqrtXDag,
	"SQRT_Y":     matSqrtY,
	"SQRT_Y_DAG": matSqrtYDag,
}

// controlled gates: basis change on the control, then a Z-controlled Pauli.
var controlled = map[string]struct {
	basis  *matrix
	target matrix
}{
	"CX":  {nil, matX},
	"CY":  {nil, matY},
	"CZ":  {nil, matZ},
	"XCX": {&matH, matX},
	"XCY": {&matH, matY},
	"XCZ": {&matH, matZ},
	"YCX": {&matHYZ, matX},
	"YCY": {&matHYZ, matY},
	"YCZ": {&matHYZ, matZ},
}

// ApplyNamed applies a unitary gate from the gate table, broadcasting over
// targets in groups of the gate's arity.
func (s *StateVector) ApplyNamed(name string, targets ...int) error {
	g, ok := gates.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", gates.ErrUnknownGate, name)
	}
	if !g.Has(gates.Unitary) {
		return fmt.Errorf("vectorsim: %s is not unitary", g.Name)
	}
	if len(targets)%g.Arity != 0 {
		return &gates.ArityError{Gate: g.Name, Arity: g.Arity, Targets: len(targets)}
	}
	for _, q := range targets {
		if q < 0 || q >= s.NumQubits {
			return fmt.Errorf("vectorsim: qubit %d out of range for %d qubits", q, s.NumQubits)
		}
	}
	for i := 0; i < len(targets); i += g.Arity {
		s.apply(g.Name, targets[i:i+g.Arity])
	}
	return nil
}

func (s *StateVector) apply(name string, q []int) {
	if m, ok := singleQubit[name]; ok {
		s.apply1(q[0], m)
		return
	}
	if c, ok := controlled[name]; ok {
		if c.basis != nil {
			s.apply1(q[0], *c.basis)
		}
		s.applyControlled(q[0], q[1], c.target)
		if c.basis != nil {
			s.apply1(q[0], *c.basis)
		}
		return
	}
	switch name {
	case "SWAP":
		s.applySWAP(q[0], q[1])
	case "ISWAP":
		s.applyISWAP(q[0], q[1], 1i)
	case "ISWAP_DAG":
		s.applyISWAP(q[0], q[1], -1i)
	default:
		panic("vectorsim: no matrix for " + name)
	}
}

func (s *StateVector) apply1(q int, m matrix) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
			s.Amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
		}
	}
}

func (s *StateVector) applyControlled(control, target int, m matrix) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range s.Amplitudes {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
			s.Amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
		}
	}
}

func (s *StateVector) applySWAP(q1, q2 int) {
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := range s.Amplitudes {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// applyISWAP maps |01⟩ -> phase|10⟩ and |10⟩ -> phase|01⟩.
func (s *StateVector) applyISWAP(q1, q2 int, phase Complex) {
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := range s.Amplitudes {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = phase*s.Amplitudes[j], phase*s.Amplitudes[i]
		}
	}
}

// ApplyPauli applies a signed Pauli string as an operator.
func (s *StateVector) ApplyPauli(p tableau.PauliString) {
	if p.NumQubits() > s.NumQubits {
		panic(fmt.Sprintf("vectorsim: %d-qubit pauli string on %d-qubit state", p.NumQubits(), s.NumQubits))
	}
	var xMask, zMask int
	for q := 0; q < p.NumQubits(); q++ {
		if p.X.Test(uint(q)) {
			xMask |= 1 << q
		}
		if p.Z.Test(uint(q)) {
			zMask |= 1 << q
		}
	}
	// P = sign · i^|x&z| · X^x Z^z
	phase := powersOfI[bits.OnesCount(uint(xMask&zMask))&3]
	if p.Sign {
		phase = -phase
	}
	out := make([]Complex, len(s.Amplitudes))
	for b, a := range s.Amplitudes {
		v := phase * a
		if bits.OnesCount(uint(b&zMask))&1 != 0 {
			v = -v
		}
		out[b^xMask] = v
	}
	s.Amplitudes = out
}

var powersOfI = [4]Complex{1, 1i, -1, -1i}

// Project replaces the state with its projection onto the +1 eigenspace of
// p and renormalizes. It returns the squared norm of the projection, which
// is the probability of observing +1. A zero result leaves the zero vector.
func (s *StateVector) Project(p tableau.PauliString) float64 {
	img := s.Clone()
	img.ApplyPauli(p)
	var norm float64
	for i := range s.Amplitudes {
		v := (s.Amplitudes[i] + img.Amplitudes[i]) / 2
		s.Amplitudes[i] = v
		norm += real(v * cmplx.Conj(v))
	}
	if norm > 1e-12 {
		scale := complex(1/math.Sqrt(norm), 0)
		for i := range s.Amplitudes {
			s.Amplitudes[i] *= scale
		}
	}
	return norm
}

// Norm returns the squared length of the state.
func (s *StateVector) Norm() float64 {
	var norm float64
	for _, a := range s.Amplitudes {
		norm += real(a * cmplx.Conj(a))
	}
	return norm
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// Probabilities returns the Z-basis marginal of every qubit.
func (s *StateVector) Probabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, a := range s.Amplitudes {
		prob := real(a * cmplx.Conj(a))
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}
	return probs
}

// BasisAmplitude is one non-negligible term of the state.
type BasisAmplitude struct {
	BasisState int
	Amplitude  Complex
	Prob       float64
	Phase      float64
	Hamming    int
}

// Terms lists the basis states with non-negligible probability.
func (s *StateVector) Terms() []BasisAmplitude {
	var out []BasisAmplitude
	for i, amp := range s.Amplitudes {
		prob := real(amp * cmplx.Conj(amp))
		if prob > 1e-10 {
			out = append(out, BasisAmplitude{
				BasisState: i,
				Amplitude:  amp,
				Prob:       prob,
				Phase:      cmplx.Phase(amp),
				Hamming:    bits.OnesCount(uint(i)),
			})
		}
	}
	return out
}

// EqualUpToGlobalPhase reports whether o = e^{iθ}·s within tol per amplitude.
func (s *StateVector) EqualUpToGlobalPhase(o *StateVector, tol float64) bool {
	if s.NumQubits != o.NumQubits {
		return false
	}
	pivot, best := 0, 0.0
	for i, a := range s.Amplitudes {
		if m := cmplx.Abs(a); m > best {
			pivot, best = i, m
		}
	}
	if best < tol {
		return o.Norm() < tol*tol
	}
	ratio := o.Amplitudes[pivot] / s.Amplitudes[pivot]
	if math.Abs(cmplx.Abs(ratio)-1) > tol {
		return false
	}
	for i, a := range s.Amplitudes {
		if cmplx.Abs(o.Amplitudes[i]-ratio*a) > tol {
			return false
		}
	}
	return true
}
