package main

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"qtermstab/circuit"
	"qtermstab/gates"
)

// ErrOccupied is returned when a placement would share a qubit with another
// gate in the same step.
var ErrOccupied = errors.New("qubit already used by another gate at this step")

// Placement is one gate dropped on the grid. For two-qubit gates Targets[0]
// is the first (control-like) qubit of the gate.
type Placement struct {
	Gate     *gates.Gate
	Targets  []int
	Step     int
	Args     []float64
	Inverted bool // M and R only: flip the recorded result / reset to |1⟩
}

func (p Placement) touches(q int) bool {
	return slices.Contains(p.Targets, q)
}

func (p Placement) span() (lo, hi int) {
	return slices.Min(p.Targets), slices.Max(p.Targets)
}

// role returns the index of q within the targets, or -1.
func (p Placement) role(q int) int {
	return slices.Index(p.Targets, q)
}

// Grid holds the gates placed in the editor, laid out by step and qubit.
type Grid struct {
	NumQubits  int
	Placements []Placement
	MaxSteps   int
}

// Place adds p to the grid after checking its shape against the gate table.
func (g *Grid) Place(p Placement) error {
	if p.Gate == nil {
		return gates.ErrUnknownGate
	}
	targets := make([]uint32, len(p.Targets))
	for i, q := range p.Targets {
		if q < 0 || q >= g.NumQubits {
			return fmt.Errorf("qubit %d outside 0..%d", q, g.NumQubits-1)
		}
		targets[i] = uint32(q)
	}
	numFlags := 0
	if p.Inverted {
		numFlags = len(targets)
	}
	if err := p.Gate.Validate(targets, numFlags, len(p.Args)); err != nil {
		return err
	}
	for _, q := range p.Targets {
		if g.At(p.Step, q) != nil {
			return fmt.Errorf("%w: q[%d] step %d", ErrOccupied, q, p.Step)
		}
	}
	p.Targets = slices.Clone(p.Targets)
	p.Args = slices.Clone(p.Args)
	g.Placements = append(g.Placements, p)
	g.MaxSteps = max(g.MaxSteps, p.Step+1)
	return nil
}

// At returns the placement touching qubit q at step, or nil.
func (g *Grid) At(step, q int) *Placement {
	for i := range g.Placements {
		p := &g.Placements[i]
		if p.Step == step && p.touches(q) {
			return p
		}
	}
	return nil
}

// RemoveAt drops whatever gate touches qubit q at step.
func (g *Grid) RemoveAt(step, q int) {
	g.Placements = slices.DeleteFunc(g.Placements, func(p Placement) bool {
		return p.Step == step && p.touches(q)
	})
}

// Resize changes the number of qubits, dropping gates on removed wires.
func (g *Grid) Resize(n int) {
	g.NumQubits = n
	g.Placements = slices.DeleteFunc(g.Placements, func(p Placement) bool {
		_, hi := p.span()
		return hi >= n
	})
}

// Clear removes every gate.
func (g *Grid) Clear() {
	g.Placements = nil
	g.MaxSteps = 0
}

// ordered returns the placements up to and including step `through`, sorted
// by step. Placements sharing a step act on disjoint qubits, so their
// relative order does not matter; it is kept stable for the record layout.
func (g *Grid) ordered(through int) []Placement {
	var out []Placement
	for _, p := range g.Placements {
		if p.Step <= through {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Placement) int {
		return cmp.Compare(a.Step, b.Step)
	})
	return out
}

// Circuit converts the grid up to and including step `through` into a
// circuit over all of the grid's qubits.
func (g *Grid) Circuit(through int) (*circuit.Circuit, error) {
	c := &circuit.Circuit{NumQubits: g.NumQubits}
	for _, p := range g.ordered(through) {
		targets := make([]uint32, len(p.Targets))
		for i, q := range p.Targets {
			targets[i] = uint32(q)
		}
		var flags []bool
		if p.Inverted {
			flags = make([]bool, len(targets))
			for i := range flags {
				flags[i] = true
			}
		}
		if err := c.AppendWithArgs(p.Gate.Name, p.Args, targets, flags...); err != nil {
			return nil, fmt.Errorf("step %d: %w", p.Step, err)
		}
	}
	return c, nil
}

// recordEntry locates one measurement result on the grid.
type recordEntry struct {
	Step  int
	Qubit int
}

// Measurements lists, in record order, where each measurement result up to
// step `through` comes from.
func (g *Grid) Measurements(through int) []recordEntry {
	var out []recordEntry
	for _, p := range g.ordered(through) {
		if !p.Gate.Has(gates.Measure) {
			continue
		}
		for _, q := range p.Targets {
			out = append(out, recordEntry{Step: p.Step, Qubit: q})
		}
	}
	return out
}

// MeasureAtStep returns the lowest qubit measured at step, or -1.
func (g *Grid) MeasureAtStep(step int) int {
	q := -1
	for _, p := range g.Placements {
		if p.Step != step || !p.Gate.Has(gates.Measure) {
			continue
		}
		for _, t := range p.Targets {
			if q < 0 || t < q {
				q = t
			}
		}
	}
	return q
}

// cellInfo describes what occupies a single cell in the grid.
type cellInfo struct {
	placement    *Placement
	role         int // index of the qubit in placement.Targets
	vertAbove    bool
	vertBelow    bool
	passThrough  bool
	measureBelow bool
}

// cell returns rendering information for the cell at (step, qubit).
func (g *Grid) cell(step, qubit int) cellInfo {
	info := cellInfo{role: -1}
	if p := g.At(step, qubit); p != nil {
		info.placement = p
		info.role = p.role(qubit)
	}

	for _, p := range g.Placements {
		if p.Step != step {
			continue
		}
		if p.Gate.Arity == 2 {
			lo, hi := p.span()
			if qubit >= lo && qubit <= hi {
				info.vertAbove = info.vertAbove || qubit > lo
				info.vertBelow = info.vertBelow || qubit < hi
				if qubit > lo && qubit < hi && !p.touches(qubit) && info.placement == nil {
					info.passThrough = true
				}
			}
		}
		if p.Gate.Has(gates.Measure) && qubit > slices.Min(p.Targets) {
			info.measureBelow = true
		}
	}
	return info
}
