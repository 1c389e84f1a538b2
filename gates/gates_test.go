package gates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"H", "H"},
		{"h_xz", "H"},
		{"cnot", "CX"},
		{"ZCZ", "CZ"},
		{"sqrt_z_dag", "S_DAG"},
		{"measure", "M"},
		{"reset", "R"},
		{"x_error", "X_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, g.Name)
		})
	}

	_, ok := Lookup("T")
	assert.False(t, ok, "T is not a Clifford gate")
}

func TestCliffordTableauxAreValid(t *testing.T) {
	for _, name := range Names() {
		g := MustLookup(name)
		if !g.Has(Unitary) {
			assert.Nil(t, g.Tableau(), name)
			continue
		}
		tab := g.Tableau()
		require.NotNil(t, tab, name)
		assert.Equal(t, g.Arity, tab.NumQubits(), name)
		assert.True(t, tab.IsValid(), name)
	}
}

func TestTableauIsShared(t *testing.T) {
	g := MustLookup("CX")
	assert.Same(t, g.Tableau(), g.Tableau())
}

func TestInversePairs(t *testing.T) {
	pairs := [][2]string{
		{"S", "S_DAG"},
		{"SQRT_X", "SQRT_X_DAG"},
		{"SQRT_Y", "SQRT_Y_DAG"},
		{"ISWAP", "ISWAP_DAG"},
	}
	for _, p := range pairs {
		a, b := MustLookup(p[0]).Tableau(), MustLookup(p[1]).Tableau()
		assert.True(t, a.Inverse().Equal(b), "%s⁻¹ = %s", p[0], p[1])
	}
	for _, name := range []string{"I", "X", "Y", "Z", "H", "H_XY", "H_YZ", "CX", "CY", "CZ", "XCX", "XCY", "XCZ", "YCX", "YCY", "YCZ", "SWAP"} {
		tab := MustLookup(name).Tableau()
		assert.True(t, tab.Inverse().Equal(tab), "%s is self-inverse", name)
	}
}

func TestFlags(t *testing.T) {
	m := MustLookup("M")
	assert.True(t, m.Has(Measure))
	assert.True(t, m.Has(TargetFlags))
	assert.False(t, m.Has(Unitary))

	e := MustLookup("Z_ERROR")
	assert.True(t, e.Has(Noisy))
	assert.Equal(t, 1, e.NumArgs)

	assert.ElementsMatch(t,
		[]string{"CX", "CY", "CZ", "XCX", "XCY", "XCZ", "YCX", "YCY", "YCZ", "SWAP", "ISWAP", "ISWAP_DAG"},
		Clifford(2))
	assert.Len(t, Clifford(1), 13)
}

func TestCheckDistinct(t *testing.T) {
	require.NoError(t, CheckDistinct("H", 1, []uint32{0, 0, 0}))
	require.NoError(t, CheckDistinct("CX", 2, []uint32{0, 1, 1, 0}))
	require.ErrorIs(t, CheckDistinct("CX", 2, []uint32{0, 1, 2, 2}), ErrDuplicateTarget)
	require.ErrorIs(t, CheckDistinct("custom", 3, []uint32{4, 5, 4}), ErrDuplicateTarget)

	require.ErrorIs(t, MustLookup("SWAP").Validate([]uint32{3, 3}, 0, 0), ErrDuplicateTarget)
}
