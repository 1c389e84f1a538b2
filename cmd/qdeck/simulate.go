package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"qtermstab/sampler"
	"qtermstab/simulator"
	"qtermstab/tableau"
	"qtermstab/vectorsim"
)

// qubitState is what a Z measurement of one qubit would currently give.
type qubitState struct {
	Deterministic bool
	Value         bool
}

// snapshot is the simulator state after running the grid up to a step.
type snapshot struct {
	Through     int
	Stabilizers []tableau.PauliString
	Qubits      []qubitState
	Record      []bool
	Sources     []recordEntry
	Terms       []vectorsim.BasisAmplitude // nil when the register is too large
	Err         error
}

// simulate runs g through step `through` on a fresh tableau simulator. The
// generator is reseeded on every call so moving the cursor back and forth
// shows the same outcomes.
func simulate(g *Grid, through int, seed uint64, bias simulator.Bias, maxTermQubits int, logger *log.Logger) snapshot {
	snap := snapshot{Through: through}
	c, err := g.Circuit(through)
	if err != nil {
		snap.Err = err
		return snap
	}
	sim := simulator.New(g.NumQubits, rand.New(rand.NewPCG(seed, 0)),
		simulator.WithBias(bias), simulator.WithLogger(logger))
	rec, err := sim.RunCircuit(c)
	if err != nil {
		snap.Err = err
		return snap
	}

	snap.Sources = g.Measurements(through)
	snap.Record = make([]bool, len(snap.Sources))
	for i := range snap.Record {
		snap.Record[i] = rec.Test(uint(i))
	}
	snap.Stabilizers = sim.Stabilizers()
	snap.Qubits = make([]qubitState, sim.NumQubits())
	for q := range snap.Qubits {
		v, ok := sim.PeekZ(q)
		snap.Qubits[q] = qubitState{Deterministic: ok, Value: v}
	}
	if sim.NumQubits() <= maxTermQubits {
		v, err := sim.ToVectorSim()
		if err != nil {
			snap.Err = err
			return snap
		}
		snap.Terms = v.Terms()
	}
	logger.Debug("simulated", "through", through, "measurements", len(snap.Record), "bias", bias)
	return snap
}

// samplesMsg carries the result of a background sampling run.
type samplesMsg struct {
	shots           []*bitset.BitSet
	numMeasurements int
	err             error
}

// sampleCmd draws shots of the whole grid in the background.
func sampleCmd(g Grid, cfg *Config, seed uint64, logger *log.Logger) tea.Cmd {
	g.Placements = slices.Clone(g.Placements)
	return func() tea.Msg {
		c, err := g.Circuit(g.MaxSteps)
		if err != nil {
			return samplesMsg{err: err}
		}
		shots, err := sampler.SampleShots(context.Background(), c, cfg.Shots, seed,
			sampler.WithWorkers(cfg.Workers), sampler.WithLogger(logger))
		return samplesMsg{shots: shots, numMeasurements: c.NumMeasurements(), err: err}
	}
}

// onesFraction returns, per measurement, the fraction of shots that read 1.
func onesFraction(shots []*bitset.BitSet, numMeasurements int) []float64 {
	out := make([]float64, numMeasurements)
	if len(shots) == 0 {
		return out
	}
	for _, s := range shots {
		for m, ok := s.NextSet(0); ok && int(m) < numMeasurements; m, ok = s.NextSet(m + 1) {
			out[m]++
		}
	}
	for i := range out {
		out[i] /= float64(len(shots))
	}
	return out
}

// writeShots stores shots at path, zstd-compressed when path ends in .zst.
func writeShots(path string, format sampler.Format, shots []*bitset.BitSet, numMeasurements int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if !strings.HasSuffix(path, ".zst") {
		return sampler.WriteShots(f, shots, numMeasurements, format)
	}
	enc, err := sampler.NewZstdWriter(f)
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	if err := sampler.WriteShots(enc, shots, numMeasurements, format); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
