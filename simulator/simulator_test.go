package simulator

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermstab/circuit"
	"qtermstab/gates"
	"qtermstab/tableau"
)

// countingSource wraps a seeded generator and counts draws.
type countingSource struct {
	rng   *rand.Rand
	draws int
}

func newCountingSource(seed uint64) *countingSource {
	return &countingSource{rng: rand.New(rand.NewPCG(seed, 0))}
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.rng.Uint64()
}

func targets(qs ...int) circuit.OperationData { return circuit.Targets(qs...) }

var cliffordNames = slices.Concat(gates.Clifford(1), gates.Clifford(2))

// scramble applies a seeded sequence of random named Cliffords.
func scramble(t *testing.T, s *TableauSimulator, steps int, seed uint64) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 2))
	n := s.NumQubits()
	for i := 0; i < steps; i++ {
		g := gates.MustLookup(cliffordNames[rng.IntN(len(cliffordNames))])
		a := rng.IntN(n)
		data := targets(a)
		if g.Arity == 2 {
			data = targets(a, (a+1+rng.IntN(n-1))%n)
		}
		require.NoError(t, s.ApplyNamed(g.Name, data))
	}
}

func TestBellScenario(t *testing.T) {
	for _, tt := range []struct {
		bias Bias
		want bool
	}{
		{CollapseTowardFalse, false},
		{CollapseTowardTrue, true},
	} {
		t.Run(tt.bias.String(), func(t *testing.T) {
			s := New(2, noRandomness{}, WithBias(tt.bias))
			require.NoError(t, s.ApplyNamed("H", targets(0)))
			require.NoError(t, s.ApplyNamed("CX", targets(0, 1)))

			assert.False(t, s.IsDeterministic(0))
			assert.False(t, s.IsDeterministic(1))

			require.NoError(t, s.Measure(targets(0)))
			assert.True(t, s.IsDeterministic(0))
			require.NoError(t, s.Measure(targets(1)))
			assert.True(t, s.IsDeterministic(1))

			assert.Equal(t, []bool{tt.want, tt.want}, s.DrainRecorded())
			assert.True(t, s.InverseState().IsValid())
		})
	}
}

func TestBellRandomOutcomesAgree(t *testing.T) {
	src := newCountingSource(3)
	seen := map[bool]int{}
	for i := 0; i < 64; i++ {
		s := New(2, src)
		require.NoError(t, s.ApplyNamed("H", targets(0)))
		require.NoError(t, s.ApplyNamed("CX", targets(0, 1)))
		require.NoError(t, s.Measure(targets(0, 1)))
		r := s.DrainRecorded()
		require.Equal(t, r[0], r[1])
		seen[r[0]]++
	}
	assert.Equal(t, 64, src.draws, "one draw per Bell pair")
	assert.NotZero(t, seen[true])
	assert.NotZero(t, seen[false])
}

func TestXIsAnInvolution(t *testing.T) {
	s := New(3, newCountingSource(1))
	scramble(t, s, 30, 1)
	before := s.InverseState()
	require.NoError(t, s.ApplyNamed("X", targets(1)))
	assert.False(t, before.Equal(s.InverseState()))
	require.NoError(t, s.ApplyNamed("X", targets(1)))
	assert.True(t, before.Equal(s.InverseState()))
}

func TestSqrtXFourTimesIsIdentity(t *testing.T) {
	s := New(2, newCountingSource(1))
	scramble(t, s, 20, 2)
	before := s.InverseState()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.ApplyNamed("SQRT_X", targets(0)))
		if i < 3 {
			assert.False(t, before.Equal(s.InverseState()), "after %d applications", i+1)
		}
	}
	assert.True(t, before.Equal(s.InverseState()))
}

func TestFastPathsMatchGenericComposition(t *testing.T) {
	for _, name := range cliffordNames {
		t.Run(name, func(t *testing.T) {
			g := gates.MustLookup(name)
			for seed := uint64(0); seed < 4; seed++ {
				fast := New(4, newCountingSource(seed))
				scramble(t, fast, 40, seed+100)
				slow := New(4, newCountingSource(seed))
				slow.inv = fast.InverseState()

				data := targets(2, 0)
				if g.Arity == 2 {
					data = targets(3, 1, 0, 2)
				}
				require.NoError(t, fast.ApplyNamed(name, data))
				require.NoError(t, slow.Apply(g.Tableau(), data))
				require.True(t, fast.inv.Equal(slow.inv), "seed %d", seed)
				require.True(t, fast.inv.IsValid())
			}
		})
	}
}

func TestApplyComposesForward(t *testing.T) {
	// Applying A then B must equal applying the precomposed A·B at once.
	a, b := gates.MustLookup("H").Tableau(), gates.MustLookup("S").Tableau()
	ab := a.Then(b)

	s1 := New(1, newCountingSource(0))
	require.NoError(t, s1.Apply(a, targets(0)))
	require.NoError(t, s1.Apply(b, targets(0)))

	s2 := New(1, newCountingSource(0))
	require.NoError(t, s2.Apply(ab, targets(0)))

	assert.True(t, s1.inv.Equal(s2.inv))
	// H then S maps the |0⟩ stabilizer Z to S·X·S† = Y.
	assert.Equal(t, "+Y", s1.Stabilizers()[0].String())
}

func TestInvariantHoldsThroughMeasurements(t *testing.T) {
	src := newCountingSource(9)
	s := New(5, src)
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 200; i++ {
		switch rng.IntN(5) {
		case 0:
			require.NoError(t, s.Measure(targets(rng.IntN(5))))
		case 1:
			require.NoError(t, s.Reset(targets(rng.IntN(5))))
		default:
			scramble(t, s, 1, uint64(i))
		}
		require.True(t, s.inv.IsValid(), "step %d", i)
	}
}

func TestMeasuringDeterministicQubitIsIdempotent(t *testing.T) {
	src := newCountingSource(4)
	s := New(3, src)
	scramble(t, s, 30, 4)
	require.NoError(t, s.Measure(targets(0, 1, 2)))
	first := s.DrainRecorded()

	draws := src.draws
	before := s.InverseState()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Measure(targets(0, 1, 2)))
	}
	assert.Equal(t, draws, src.draws)
	assert.True(t, before.Equal(s.InverseState()))

	rec := s.DrainRecorded()
	require.Len(t, rec, 9)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, rec[3*i:3*i+3])
	}
}

func TestBiasNeverDraws(t *testing.T) {
	for _, bias := range []Bias{CollapseTowardFalse, CollapseTowardTrue} {
		s := New(4, noRandomness{}, WithBias(bias))
		for q := 0; q < 4; q++ {
			require.NoError(t, s.ApplyNamed("H", targets(q)))
		}
		require.NoError(t, s.ApplyNamed("CZ", targets(0, 1, 2, 3)))
		require.NoError(t, s.ApplyNamed("H", targets(1, 3)))
		require.NotPanics(t, func() {
			require.NoError(t, s.Measure(targets(0, 1, 2, 3)))
		})
		// Two Bell pairs: qubits 0 and 2 collapse to the bias, 1 and 3 follow.
		want := bias == CollapseTowardTrue
		assert.Equal(t, []bool{want, want, want, want}, s.DrainRecorded())
	}
}

func TestMeasureInvertFlag(t *testing.T) {
	s := New(2, noRandomness{})
	require.NoError(t, s.ApplyNamed("X", targets(1)))
	require.NoError(t, s.Measure(circuit.OperationData{
		Targets: []uint32{0, 1, 0, 1},
		Flags:   []bool{false, false, true, true},
	}))
	assert.Equal(t, []bool{false, true, true, false}, s.DrainRecorded())
}

func TestReset(t *testing.T) {
	src := newCountingSource(5)
	s := New(2, src)
	require.NoError(t, s.ApplyNamed("H", targets(0)))
	require.NoError(t, s.ApplyNamed("CX", targets(0, 1)))

	require.NoError(t, s.Reset(circuit.OperationData{Targets: []uint32{0, 1}, Flags: []bool{false, true}}))
	assert.Zero(t, s.NumRecorded())

	r0, ok0 := s.PeekZ(0)
	r1, ok1 := s.PeekZ(1)
	require.True(t, ok0)
	require.True(t, ok1)
	assert.False(t, r0)
	assert.True(t, r1)
	assert.True(t, s.inv.IsValid())

	vec, err := s.ToVectorSim()
	require.NoError(t, err)
	probs := vec.Probabilities()
	assert.InDelta(t, 1, probs[0].Prob0, 1e-9)
	assert.InDelta(t, 1, probs[1].Prob1, 1e-9)
}

func TestQueue(t *testing.T) {
	s := New(1, noRandomness{})
	_, ok := s.PopRecorded()
	assert.False(t, ok)

	require.NoError(t, s.ApplyNamed("M", circuit.OperationData{Targets: []uint32{0, 0}, Flags: []bool{true, false}}))
	assert.Equal(t, 2, s.NumRecorded())
	r, ok := s.PopRecorded()
	require.True(t, ok)
	assert.True(t, r)
	assert.Equal(t, []bool{false}, s.DrainRecorded())
	assert.Empty(t, s.DrainRecorded())
}

func TestEnsureLargeEnoughForQubit(t *testing.T) {
	s := New(1, noRandomness{})
	require.NoError(t, s.ApplyNamed("X", targets(0)))
	s.EnsureLargeEnoughForQubit(0)
	assert.Equal(t, 1, s.NumQubits())

	s.EnsureLargeEnoughForQubit(3)
	assert.Equal(t, 4, s.NumQubits())
	for q := 1; q < 4; q++ {
		r, ok := s.PeekZ(q)
		assert.True(t, ok)
		assert.False(t, r)
	}
	r, _ := s.PeekZ(0)
	assert.True(t, r)
}

func TestErrors(t *testing.T) {
	s := New(2, noRandomness{})

	require.ErrorIs(t, s.ApplyNamed("T", targets(0)), ErrUnknownGate)

	var arity *ArityError
	require.ErrorAs(t, s.ApplyNamed("CX", targets(0, 1, 0)), &arity)
	assert.Equal(t, 2, arity.Arity)

	require.ErrorAs(t, s.Apply(gates.MustLookup("SWAP").Tableau(), targets(0)), &arity)

	var rangeErr *QubitRangeError
	require.ErrorAs(t, s.ApplyNamed("H", targets(2)), &rangeErr)
	assert.Equal(t, uint32(2), rangeErr.Qubit)
	require.ErrorAs(t, s.Measure(targets(5)), &rangeErr)

	require.ErrorIs(t, s.Measure(circuit.OperationData{Targets: []uint32{0}, Flags: []bool{true, true}}), ErrFlagCount)
	require.ErrorIs(t, s.ApplyNamed("X_ERROR", targets(0)), ErrArgCount)
	require.ErrorIs(t, s.ApplyNamed("CZ", targets(1, 1)), ErrDuplicateTarget)

	require.ErrorIs(t, s.Apply(gates.MustLookup("CX").Tableau(), targets(0, 1, 0, 0)), ErrDuplicateTarget)
	assert.True(t, s.InverseState().IsValid())
	assert.True(t, s.InverseState().Equal(tableau.Identity(2)), "rejected block must not touch the state")
}

func TestNoise(t *testing.T) {
	var c circuit.Circuit
	require.NoError(t, c.AppendWithArgs("X_ERROR", []float64{1}, []uint32{0}))
	require.NoError(t, c.AppendWithArgs("Z_ERROR", []float64{1}, []uint32{1}))
	require.NoError(t, c.AppendWithArgs("Y_ERROR", []float64{0}, []uint32{2}))
	require.NoError(t, c.Append("M", []uint32{0, 1, 2}))

	got, err := SampleCircuit(&c, newCountingSource(1))
	require.NoError(t, err)
	assert.True(t, got.Test(0))
	assert.False(t, got.Test(1))
	assert.False(t, got.Test(2))

	ref, err := ReferenceSampleCircuit(&c)
	require.NoError(t, err)
	assert.Zero(t, ref.Count())
}

func ghzCircuit(t *testing.T, n int) *circuit.Circuit {
	t.Helper()
	c := &circuit.Circuit{}
	require.NoError(t, c.Append("H", []uint32{0}))
	for q := 1; q < n; q++ {
		require.NoError(t, c.Append("CX", []uint32{0, uint32(q)}))
	}
	all := make([]uint32, n)
	for q := range all {
		all[q] = uint32(q)
	}
	require.NoError(t, c.Append("M", all))
	require.NoError(t, c.Append("R", []uint32{0}))
	require.NoError(t, c.Append("X", []uint32{1}))
	require.NoError(t, c.Append("M", []uint32{0, 1}))
	return c
}

func TestReferenceSampleIsReproducible(t *testing.T) {
	c := ghzCircuit(t, 5)
	a, err := ReferenceSampleCircuit(c)
	require.NoError(t, err)
	b, err := ReferenceSampleCircuit(c)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	// GHZ collapses toward all-false; the final X flips qubit 1.
	assert.Equal(t, uint(7), a.Len())
	assert.Equal(t, uint(1), a.Count())
	assert.True(t, a.Test(6))
}

func TestSampleCircuitGHZ(t *testing.T) {
	c := ghzCircuit(t, 4)
	for seed := uint64(0); seed < 16; seed++ {
		got, err := SampleCircuit(c, rand.New(rand.NewPCG(seed, 0)))
		require.NoError(t, err)
		first := got.Test(0)
		for q := uint(1); q < 4; q++ {
			assert.Equal(t, first, got.Test(q))
		}
		assert.False(t, got.Test(4))
		assert.Equal(t, !first, got.Test(5))
	}
}

func TestRunCircuitKeepsQueuedOutcomes(t *testing.T) {
	s := New(1, noRandomness{})
	require.NoError(t, s.ApplyNamed("X", targets(0)))
	require.NoError(t, s.Measure(targets(0)))

	var c circuit.Circuit
	require.NoError(t, c.Append("M", []uint32{0}, true))
	got, err := s.RunCircuit(&c)
	require.NoError(t, err)
	assert.False(t, got.Test(0))
	assert.Equal(t, []bool{true}, s.DrainRecorded())
}

func TestSampleStream(t *testing.T) {
	var c circuit.Circuit
	require.NoError(t, c.Append("X", []uint32{1}))
	require.NoError(t, c.Append("M", []uint32{0, 1}))
	require.NoError(t, c.Append("M", []uint32{1}, true))

	var sb strings.Builder
	require.NoError(t, SampleStream(&c, &sb, false, noRandomness{}))
	assert.Equal(t, "010\n", sb.String())

	sb.Reset()
	require.NoError(t, SampleStream(&c, &sb, true, noRandomness{}))
	assert.Equal(t, "0\n1\n0\n", sb.String())
}

func TestInverseStateIsACopy(t *testing.T) {
	s := New(2, noRandomness{})
	inv := s.InverseState()
	inv.PrependHXZ(0)
	assert.True(t, s.InverseState().Equal(tableau.Identity(2)))
}
