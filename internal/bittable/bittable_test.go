package bittable

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomTable(r *rand.Rand, rows, cols uint) *Table {
	t := New(rows, cols)
	for i := uint(0); i < rows; i++ {
		for j := uint(0); j < cols; j++ {
			t.Set(i, j, r.IntN(2) == 1)
		}
	}
	return t
}

func TestTable_GetSetFlip(t *testing.T) {
	tb := New(3, 70)
	assert.False(t, tb.Get(2, 69))

	tb.Set(2, 69, true)
	assert.True(t, tb.Get(2, 69))

	tb.Flip(2, 69)
	assert.False(t, tb.Get(2, 69))

	tb.Flip(0, 1)
	assert.True(t, tb.Get(0, 1))
	assert.Equal(t, uint(3), tb.NumRows())
	assert.Equal(t, uint(70), tb.NumCols())
}

func TestTable_XorAndSwap(t *testing.T) {
	tb := New(2, 8)
	tb.Set(0, 1, true)
	tb.Set(0, 3, true)
	tb.Set(1, 3, true)
	tb.Set(1, 5, true)

	tb.XorRow(0, 1)
	assert.Equal(t, "01000100\n00010100\n", tb.String())

	tb.SwapRows(0, 1)
	assert.Equal(t, "00010100\n01000100\n", tb.String())

	tb.ClearRow(1)
	assert.Equal(t, "00010100\n00000000\n", tb.String())
}

func TestTable_Identity(t *testing.T) {
	tb := Identity(3)
	assert.Equal(t, "100\n010\n001\n", tb.String())
}

func TestTable_TransposeMatchesCopy(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, n := range []uint{1, 2, 5, 63, 64, 65, 130} {
		tb := randomTable(r, n, n)
		want := tb.Transposed()

		tb.Transpose()
		require.True(t, tb.Equal(want), "n=%d", n)

		tb.Transpose()
		require.True(t, tb.Equal(want.Transposed()), "n=%d round trip", n)
	}
}

func TestTable_TransposeNonSquarePanics(t *testing.T) {
	tb := New(2, 3)
	assert.Panics(t, tb.Transpose)

	tr := tb.Transposed()
	assert.Equal(t, uint(3), tr.NumRows())
	assert.Equal(t, uint(2), tr.NumCols())
}

func TestTable_ResizePreservesContents(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	tb := randomTable(r, 4, 4)
	orig := tb.Clone()

	tb.Resize(9, 100)
	require.Equal(t, uint(9), tb.NumRows())
	require.Equal(t, uint(100), tb.NumCols())
	for i := uint(0); i < 9; i++ {
		for j := uint(0); j < 100; j++ {
			want := i < 4 && j < 4 && orig.Get(i, j)
			assert.Equal(t, want, tb.Get(i, j), "(%d,%d)", i, j)
		}
	}

	tb.Resize(4, 4)
	assert.True(t, tb.Equal(orig))
}

func TestTable_CloneIsIndependent(t *testing.T) {
	tb := Identity(4)
	cp := tb.Clone()
	cp.Flip(0, 0)

	assert.True(t, tb.Get(0, 0))
	assert.False(t, tb.Equal(cp))
}

func TestSwapRowBetween(t *testing.T) {
	a := Identity(2)
	b := New(2, 2)
	b.Set(1, 0, true)
	b.Set(1, 1, true)

	SwapRowBetween(a, 0, b, 1)
	assert.Equal(t, "11\n01\n", a.String())
	assert.Equal(t, "00\n10\n", b.String())
}
