// Package gates is the table of named operations understood by the
// simulator: the Clifford gates with their fixed tableaux, the collapsing
// operations and single-qubit Pauli noise channels.
package gates

import (
	"slices"
	"strings"
	"sync"

	"qtermstab/tableau"
)

// Flags describe how an operation is executed.
type Flags uint8

const (
	// Unitary gates have a fixed tableau.
	Unitary Flags = 1 << iota
	// Measure gates produce one recorded outcome per target.
	Measure
	// Reset gates collapse and reinitialize their targets.
	Reset
	// Noisy gates take a probability argument and are skipped when sampling
	// a reference.
	Noisy
	// TargetFlags gates accept a per-target flag (result or reset value inversion).
	TargetFlags
)

// Gate is one entry of the table.
type Gate struct {
	Name    string
	Symbol  string
	Arity   int // targets consumed per application
	NumArgs int
	Flags   Flags
	Aliases []string

	xs, zs  []string
	tabOnce func() *tableau.Tableau
}

// Has reports whether all of f are set on the gate.
func (g *Gate) Has(f Flags) bool { return g.Flags&f == f }

// Tableau returns the gate's fixed operation tableau, or nil for
// non-unitary gates. The result is shared; callers must not mutate it.
func (g *Gate) Tableau() *tableau.Tableau {
	if g.tabOnce == nil {
		return nil
	}
	return g.tabOnce()
}

func clifford(name, symbol string, xs, zs []string, aliases ...string) *Gate {
	g := &Gate{
		Name:    name,
		Symbol:  symbol,
		Arity:   len(xs),
		Flags:   Unitary,
		Aliases: aliases,
		xs:      xs,
		zs:      zs,
	}
	g.tabOnce = sync.OnceValue(func() *tableau.Tableau {
		return tableau.MustFromStrings(g.xs, g.zs)
	})
	return g
}

var table = []*Gate{
	clifford("I", "I", []string{"+X"}, []string{"+Z"}),
	clifford("X", "X", []string{"+X"}, []string{"-Z"}),
	clifford("Y", "Y", []string{"-X"}, []string{"-Z"}),
	clifford("Z", "Z", []string{"-X"}, []string{"+Z"}),

	clifford("H", "H", []string{"+Z"}, []string{"+X"}, "H_XZ"),
	clifford("H_XY", "Hxy", []string{"+Y"}, []string{"-Z"}),
	clifford("H_YZ", "Hyz", []string{"-X"}, []string{"+Y"}),

	clifford("SQRT_X", "√X", []string{"+X"}, []string{"-Y"}, "SX"),
	clifford("SQRT_X_DAG", "√X†", []string{"+X"}, []string{"+Y"}, "SXDG"),
	clifford("SQRT_Y", "√Y", []string{"-Z"}, []string{"+X"}, "SY"),
	clifford("SQRT_Y_DAG", "√Y†", []string{"+Z"}, []string{"-X"}, "SYDG"),
	clifford("S", "S", []string{"+Y"}, []string{"+Z"}, "SQRT_Z"),
	clifford("S_DAG", "S†", []string{"-Y"}, []string{"+Z"}, "SQRT_Z_DAG", "SDG"),

	clifford("CX", "●─⊕", []string{"+XX", "+_X"}, []string{"+Z_", "+ZZ"}, "ZCX", "CNOT"),
	clifford("CY", "●─Y", []string{"+XY", "+ZX"}, []string{"+Z_", "+ZZ"}, "ZCY"),
	clifford("CZ", "●─●", []string{"+XZ", "+ZX"}, []string{"+Z_", "+_Z"}, "ZCZ"),
	clifford("XCX", "X─X", []string{"+X_", "+_X"}, []string{"+ZX", "+XZ"}),
	clifford("XCY", "X─Y", []string{"+X_", "+XX"}, []string{"+ZY", "+XZ"}),
	clifford("XCZ", "X─Z", []string{"+X_", "+XX"}, []string{"+ZZ", "+_Z"}),
	clifford("YCX", "Y─X", []string{"+XX", "+_X"}, []string{"+ZX", "+YZ"}),
	clifford("YCY", "Y─Y", []string{"+XY", "+YX"}, []string{"+ZY", "+YZ"}),
	clifford("YCZ", "Y─Z", []string{"+XZ", "+YX"}, []string{"+ZZ", "+_Z"}),
	clifford("SWAP", "×─×", []string{"+_X", "+X_"}, []string{"+_Z", "+Z_"}),
	clifford("ISWAP", "i×─×", []string{"+ZY", "+YZ"}, []string{"+_Z", "+Z_"}),
	clifford("ISWAP_DAG", "i×─×†", []string{"-ZY", "-YZ"}, []string{"+_Z", "+Z_"}),

	{Name: "M", Symbol: "M", Arity: 1, Flags: Measure | TargetFlags, Aliases: []string{"MZ", "MEASURE"}},
	{Name: "R", Symbol: "|0⟩", Arity: 1, Flags: Reset | TargetFlags, Aliases: []string{"RZ", "RESET"}},

	{Name: "X_ERROR", Symbol: "Ex", Arity: 1, NumArgs: 1, Flags: Noisy},
	{Name: "Y_ERROR", Symbol: "Ey", Arity: 1, NumArgs: 1, Flags: Noisy},
	{Name: "Z_ERROR", Symbol: "Ez", Arity: 1, NumArgs: 1, Flags: Noisy},
}

var byName = func() map[string]*Gate {
	m := make(map[string]*Gate, 2*len(table))
	for _, g := range table {
		m[g.Name] = g
		for _, a := range g.Aliases {
			m[a] = g
		}
	}
	return m
}()

// Lookup finds a gate by canonical name or alias, ignoring case.
func Lookup(name string) (*Gate, bool) {
	g, ok := byName[strings.ToUpper(name)]
	return g, ok
}

// MustLookup is Lookup for names known to exist.
func MustLookup(name string) *Gate {
	g, ok := Lookup(name)
	if !ok {
		panic("gates: unknown gate " + name)
	}
	return g
}

// Names lists the canonical gate names in table order.
func Names() []string {
	names := make([]string, len(table))
	for i, g := range table {
		names[i] = g.Name
	}
	return names
}

// Clifford lists the canonical names of the unitary gates with the given arity.
func Clifford(arity int) []string {
	var names []string
	for _, g := range table {
		if g.Has(Unitary) && g.Arity == arity {
			names = append(names, g.Name)
		}
	}
	return slices.Clip(names)
}
