// Package circuit holds a flat list of gate applications over a qubit
// register. Circuits are built programmatically; there is no text parser.
package circuit

import (
	"fmt"
	"strconv"
	"strings"

	"qtermstab/gates"
)

// OperationData is the target list of one gate application. Flags, when
// present, has one entry per target (result inversion for measurements,
// reset-to-one for resets).
type OperationData struct {
	Targets []uint32
	Flags   []bool
}

// Flag reports the flag of target i, false when no flags were given.
func (d OperationData) Flag(i int) bool {
	return i < len(d.Flags) && d.Flags[i]
}

// Targets is shorthand for building OperationData from ints.
func Targets(qs ...int) OperationData {
	t := make([]uint32, len(qs))
	for i, q := range qs {
		t[i] = uint32(q)
	}
	return OperationData{Targets: t}
}

// Operation is one gate broadcast over its targets.
type Operation struct {
	Gate *gates.Gate
	Args []float64
	Data OperationData
}

// String renders the operation in the text form used by Circuit.String.
func (op Operation) String() string {
	var sb strings.Builder
	sb.WriteString(op.Gate.Name)
	if len(op.Args) > 0 {
		sb.WriteByte('(')
		for i, a := range op.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(a, 'g', -1, 64))
		}
		sb.WriteByte(')')
	}
	for i, q := range op.Data.Targets {
		sb.WriteByte(' ')
		if op.Data.Flag(i) {
			sb.WriteByte('!')
		}
		sb.WriteString(strconv.FormatUint(uint64(q), 10))
	}
	return sb.String()
}

// Circuit is an ordered list of operations. NumQubits is one more than the
// largest target seen so far.
type Circuit struct {
	NumQubits  int
	Operations []Operation
}

// Append adds a gate application without numeric arguments.
func (c *Circuit) Append(name string, targets []uint32, flags ...bool) error {
	return c.AppendWithArgs(name, nil, targets, flags...)
}

// AppendWithArgs adds a gate application, validating its shape against the
// gate table. Adjacent applications of the same gate with the same arguments
// are merged.
func (c *Circuit) AppendWithArgs(name string, args []float64, targets []uint32, flags ...bool) error {
	g, ok := gates.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", gates.ErrUnknownGate, name)
	}
	if err := g.Validate(targets, len(flags), len(args)); err != nil {
		return err
	}
	for _, q := range targets {
		c.NumQubits = max(c.NumQubits, int(q)+1)
	}

	data := OperationData{Targets: append([]uint32(nil), targets...)}
	if len(flags) > 0 {
		data.Flags = append([]bool(nil), flags...)
	}
	if n := len(c.Operations); n > 0 && c.Operations[n-1].canMerge(g, args) {
		last := &c.Operations[n-1]
		if len(data.Flags) > 0 || len(last.Data.Flags) > 0 {
			last.Data.Flags = padFlags(last.Data.Flags, len(last.Data.Targets))
			data.Flags = padFlags(data.Flags, len(data.Targets))
			last.Data.Flags = append(last.Data.Flags, data.Flags...)
		}
		last.Data.Targets = append(last.Data.Targets, data.Targets...)
		return nil
	}
	c.Operations = append(c.Operations, Operation{
		Gate: g,
		Args: append([]float64(nil), args...),
		Data: data,
	})
	return nil
}

func (op Operation) canMerge(g *gates.Gate, args []float64) bool {
	if op.Gate != g || len(op.Args) != len(args) {
		return false
	}
	for i := range args {
		if op.Args[i] != args[i] {
			return false
		}
	}
	return true
}

func padFlags(flags []bool, n int) []bool {
	for len(flags) < n {
		flags = append(flags, false)
	}
	return flags
}

// NumMeasurements returns the number of outcomes the circuit records.
func (c *Circuit) NumMeasurements() int {
	n := 0
	for _, op := range c.Operations {
		if op.Gate.Has(gates.Measure) {
			n += len(op.Data.Targets)
		}
	}
	return n
}

// String exports the circuit one operation per line, e.g.
//
//	H 0
//	CX 0 1
//	M 0 !1
func (c *Circuit) String() string {
	var sb strings.Builder
	for _, op := range c.Operations {
		sb.WriteString(op.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
