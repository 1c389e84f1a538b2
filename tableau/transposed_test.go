package tableau

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransposedAppendsMatchScatterAppend(t *testing.T) {
	single := map[string]func(v *TransposedView, q int){
		"H":    (*TransposedView).AppendH,
		"H_XY": (*TransposedView).AppendHXY,
		"H_YZ": (*TransposedView).AppendHYZ,
		"X":    (*TransposedView).AppendX,
	}
	pair := map[string]func(v *TransposedView, a, b int){
		"CX":   (*TransposedView).AppendCX,
		"CY":   (*TransposedView).AppendCY,
		"CZ":   (*TransposedView).AppendCZ,
		"SWAP": (*TransposedView).AppendSwap,
	}

	for name, apply := range single {
		t.Run(name, func(t *testing.T) {
			fast := randomTableau(3, 61)
			slow := fast.Clone()
			require.NoError(t, fast.Transposed(func(v *TransposedView) error {
				apply(v, 2)
				return nil
			}))
			slow.InplaceScatterAppend(gateTableau(name), []int{2})
			assert.True(t, fast.Equal(slow), "fast:\n%s\nslow:\n%s", fast, slow)
		})
	}
	for name, apply := range pair {
		t.Run(name, func(t *testing.T) {
			fast := randomTableau(4, 62)
			slow := fast.Clone()
			require.NoError(t, fast.Transposed(func(v *TransposedView) error {
				apply(v, 3, 1)
				return nil
			}))
			slow.InplaceScatterAppend(gateTableau(name), []int{3, 1})
			assert.True(t, fast.Equal(slow), "fast:\n%s\nslow:\n%s", fast, slow)
		})
	}
}

func TestTransposedAccessors(t *testing.T) {
	// CX then X on the target: X_0 -> XX, Z_1 -> -ZZ.
	tab := gateTableau("CX")
	tab.InplaceScatterAppend(gateTableau("X"), []int{1})

	require.NoError(t, tab.Transposed(func(v *TransposedView) error {
		assert.Equal(t, 2, v.NumQubits())
		assert.False(t, v.XSign(0))
		assert.False(t, v.ZSign(0))
		assert.True(t, v.ZSign(1))
		assert.True(t, v.ZObsZBit(1, 0))
		assert.True(t, v.ZObsZBit(1, 1))
		assert.False(t, v.ZObsXBit(1, 0))
		assert.False(t, v.XObsZBit(0, 1))
		return nil
	}))
}

func TestTransposed_RestoresOnError(t *testing.T) {
	tab := randomTableau(3, 3)
	want := tab.Clone()
	boom := errors.New("boom")

	err := tab.Transposed(func(v *TransposedView) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.True(t, want.Equal(tab))
	assert.NotPanics(t, func() { _ = tab.X(0) })
}

func TestTransposed_RestoresOnPanic(t *testing.T) {
	tab := randomTableau(3, 4)
	want := tab.Clone()

	assert.Panics(t, func() {
		_ = tab.Transposed(func(v *TransposedView) error {
			panic("inside view")
		})
	})
	assert.True(t, want.Equal(tab))
	assert.True(t, tab.IsValid())
}

func TestTransposed_RowAccessPanicsInsideView(t *testing.T) {
	tab := Identity(2)
	_ = tab.Transposed(func(v *TransposedView) error {
		assert.Panics(t, func() { tab.PrependHXZ(0) })
		assert.Panics(t, func() { _ = tab.Z(1) })
		return nil
	})
	assert.True(t, tab.Equal(Identity(2)))
}

func TestTransposed_NestedPanics(t *testing.T) {
	tab := Identity(2)
	assert.Panics(t, func() {
		_ = tab.Transposed(func(v *TransposedView) error {
			return tab.Transposed(func(*TransposedView) error { return nil })
		})
	})
	assert.True(t, tab.Equal(Identity(2)))
}
