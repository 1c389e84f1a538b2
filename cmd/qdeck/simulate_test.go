package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermstab/sampler"
	"qtermstab/simulator"
)

var quiet = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})

func bellGrid(t *testing.T) *Grid {
	t.Helper()
	g := &Grid{NumQubits: 2}
	place(t, g, "H", 0, 0)
	place(t, g, "CX", 1, 0, 1)
	place(t, g, "M", 2, 0, 1)
	return g
}

func TestSimulateBellSteps(t *testing.T) {
	g := bellGrid(t)

	snap := simulate(g, 0, 1, simulator.CollapseRandom, 6, quiet)
	require.NoError(t, snap.Err)
	assert.Equal(t, "+X_", snap.Stabilizers[0].String())
	assert.False(t, snap.Qubits[0].Deterministic)
	assert.True(t, snap.Qubits[1].Deterministic)
	assert.Len(t, snap.Terms, 2)
	assert.Empty(t, snap.Record)

	snap = simulate(g, 1, 1, simulator.CollapseRandom, 6, quiet)
	require.NoError(t, snap.Err)
	assert.False(t, snap.Qubits[0].Deterministic)
	assert.False(t, snap.Qubits[1].Deterministic)

	for seed := uint64(0); seed < 16; seed++ {
		snap = simulate(g, 2, seed, simulator.CollapseRandom, 6, quiet)
		require.NoError(t, snap.Err)
		require.Len(t, snap.Record, 2)
		assert.Equal(t, snap.Record[0], snap.Record[1])
		assert.Equal(t, []recordEntry{{2, 0}, {2, 1}}, snap.Sources)
		assert.True(t, snap.Qubits[1].Deterministic)
		assert.Equal(t, snap.Record[1], snap.Qubits[1].Value)
		assert.Len(t, snap.Terms, 1)
	}
}

func TestSimulateIsStablePerSeed(t *testing.T) {
	g := bellGrid(t)
	a := simulate(g, 2, 5, simulator.CollapseRandom, 6, quiet)
	b := simulate(g, 2, 5, simulator.CollapseRandom, 6, quiet)
	assert.Equal(t, a.Record, b.Record)
}

func TestSimulateBias(t *testing.T) {
	g := bellGrid(t)
	snap := simulate(g, 2, 5, simulator.CollapseTowardTrue, 6, quiet)
	assert.Equal(t, []bool{true, true}, snap.Record)
	snap = simulate(g, 2, 5, simulator.CollapseTowardFalse, 6, quiet)
	assert.Equal(t, []bool{false, false}, snap.Record)
}

func TestSimulateSkipsTermsForLargeRegisters(t *testing.T) {
	snap := simulate(bellGrid(t), 2, 1, simulator.CollapseRandom, 1, quiet)
	require.NoError(t, snap.Err)
	assert.Nil(t, snap.Terms)
	assert.Len(t, snap.Stabilizers, 2)
}

func TestOnesFraction(t *testing.T) {
	shots := shotsOf("10", "11", "00", "10")
	assert.Equal(t, []float64{0.75, 0.25}, onesFraction(shots, 2))
	assert.Equal(t, []float64{0, 0}, onesFraction(nil, 2))
}

func shotsOf(rows ...string) []*bitset.BitSet {
	out := make([]*bitset.BitSet, len(rows))
	for i, r := range rows {
		s := bitset.New(uint(len(r)))
		for m, c := range r {
			if c == '1' {
				s.Set(uint(m))
			}
		}
		out[i] = s
	}
	return out
}

func TestWriteShotsCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots.01.zst")
	shots := shotsOf("101", "010")
	require.NoError(t, writeShots(path, sampler.Format01, shots, 3))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec, err := sampler.NewZstdReader(f)
	require.NoError(t, err)
	defer dec.Close()

	got, err := sampler.ReadShots(dec, 3, sampler.Format01)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(shots[0]))
	assert.True(t, got[1].Equal(shots[1]))
}

func TestWriteShotsPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots.01")
	require.NoError(t, writeShots(path, sampler.Format01, shotsOf("11", "01"), 2))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "11\n01\n", string(data))
}

func TestSampleCmd(t *testing.T) {
	cfg := NewConfig()
	cfg.Shots = 40
	msg := sampleCmd(*bellGrid(t), cfg, 3, quiet)().(samplesMsg)
	require.NoError(t, msg.err)
	assert.Equal(t, 2, msg.numMeasurements)
	require.Len(t, msg.shots, 40)
	for _, s := range msg.shots {
		assert.Equal(t, s.Test(0), s.Test(1))
	}
}
