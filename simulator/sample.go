package simulator

import (
	"bufio"
	"io"

	"github.com/bits-and-blooms/bitset"

	"qtermstab/circuit"
	"qtermstab/gates"
)

// noRandomness is the bit source of reference runs. A biased simulator never
// draws for collapses and noise is skipped, so any call is a bug.
type noRandomness struct{}

func (noRandomness) Uint64() uint64 {
	panic("simulator: reference sampling consulted the random source")
}

// ReferenceSampleCircuit runs c with every random collapse biased toward
// false and noise skipped. The result is reproducible and serves as the
// noiseless reference against which sampled shots are compared.
func ReferenceSampleCircuit(c *circuit.Circuit, opts ...Option) (*bitset.BitSet, error) {
	opts = append(opts, WithBias(CollapseTowardFalse))
	sim := New(c.NumQubits, noRandomness{}, opts...)
	return sim.run(c, true)
}

// SampleCircuit runs c once, drawing collapses and noise from rng.
func SampleCircuit(c *circuit.Circuit, rng BitSource, opts ...Option) (*bitset.BitSet, error) {
	sim := New(c.NumQubits, rng, opts...)
	return sim.run(c, false)
}

// RunCircuit applies every operation of c to s and returns the outcomes
// recorded along the way. Outcomes queued before the call are kept.
func (s *TableauSimulator) RunCircuit(c *circuit.Circuit) (*bitset.BitSet, error) {
	return s.run(c, false)
}

func (s *TableauSimulator) run(c *circuit.Circuit, skipNoise bool) (*bitset.BitSet, error) {
	out := bitset.New(uint(c.NumMeasurements()))
	var m uint
	for _, op := range c.Operations {
		before := len(s.recorded)
		if err := s.applyOperation(op, skipNoise); err != nil {
			return nil, err
		}
		for _, r := range s.recorded[before:] {
			out.SetTo(m, r)
			m++
		}
		s.recorded = s.recorded[:before]
	}
	return out, nil
}

// SampleStream runs c once and writes each measurement outcome to w as '0'
// or '1' as soon as it is produced. With newlineAfter every outcome is
// followed by a newline; otherwise a single newline ends the shot.
func SampleStream(c *circuit.Circuit, w io.Writer, newlineAfter bool, rng BitSource, opts ...Option) error {
	sim := New(c.NumQubits, rng, opts...)
	bw := bufio.NewWriter(w)
	for _, op := range c.Operations {
		if err := sim.applyOperation(op, false); err != nil {
			return err
		}
		if !op.Gate.Has(gates.Measure) {
			continue
		}
		for _, r := range sim.DrainRecorded() {
			b := byte('0')
			if r {
				b = '1'
			}
			if err := bw.WriteByte(b); err != nil {
				return err
			}
			if newlineAfter {
				if err := bw.WriteByte('\n'); err != nil {
					return err
				}
			}
		}
		// Flush per measurement so a reader sees results as they happen.
		if err := bw.Flush(); err != nil {
			return err
		}
	}
	if !newlineAfter {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
