package bittable

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Table is a rows×cols boolean matrix with one bitset per row.
type Table struct {
	rows []*bitset.BitSet
	cols uint
}

// New returns an all-false table.
func New(rows, cols uint) *Table {
	t := &Table{
		rows: make([]*bitset.BitSet, rows),
		cols: cols,
	}
	for i := range t.rows {
		t.rows[i] = bitset.New(cols)
	}
	return t
}

// Identity returns an n×n table with ones on the diagonal.
func Identity(n uint) *Table {
	t := New(n, n)
	for i := uint(0); i < n; i++ {
		t.rows[i].Set(i)
	}
	return t
}

// NumRows returns the number of major indices.
func (t *Table) NumRows() uint { return uint(len(t.rows)) }

// NumCols returns the number of minor indices.
func (t *Table) NumCols() uint { return t.cols }

// Row returns the live row bitset. Mutating it mutates the table.
func (t *Table) Row(i uint) *bitset.BitSet { return t.rows[i] }

// Get reports the bit at (i, j).
func (t *Table) Get(i, j uint) bool { return t.rows[i].Test(j) }

// Set assigns the bit at (i, j).
func (t *Table) Set(i, j uint, v bool) { t.rows[i].SetTo(j, v) }

// Flip toggles the bit at (i, j).
func (t *Table) Flip(i, j uint) { t.rows[i].Flip(j) }

// XorRow performs row[dst] ^= row[src].
func (t *Table) XorRow(dst, src uint) {
	t.rows[dst].InPlaceSymmetricDifference(t.rows[src])
}

// SwapRows exchanges two rows without copying bits.
func (t *Table) SwapRows(a, b uint) {
	t.rows[a], t.rows[b] = t.rows[b], t.rows[a]
}

// ClearRow zeroes a row.
func (t *Table) ClearRow(i uint) { t.rows[i].ClearAll() }

// Transpose reflects a square table across its diagonal in place.
func (t *Table) Transpose() {
	if uint(len(t.rows)) != t.cols {
		panic(fmt.Sprintf("bittable: in-place transpose of non-square %dx%d table", len(t.rows), t.cols))
	}
	n := t.cols
	for i := uint(0); i < n; i++ {
		ri := t.rows[i]
		for j := i + 1; j < n; j++ {
			a, b := ri.Test(j), t.rows[j].Test(i)
			if a != b {
				ri.SetTo(j, b)
				t.rows[j].SetTo(i, a)
			}
		}
	}
}

// Transposed returns a transposed copy; the receiver is left untouched.
func (t *Table) Transposed() *Table {
	out := New(t.cols, uint(len(t.rows)))
	for i, row := range t.rows {
		for j, ok := row.NextSet(0); ok; j, ok = row.NextSet(j + 1) {
			out.rows[j].Set(uint(i))
		}
	}
	return out
}

// Resize grows or shrinks the table, keeping every bit whose coordinates
// survive. New bits are false.
func (t *Table) Resize(rows, cols uint) {
	if cols != t.cols {
		for i, row := range t.rows {
			next := bitset.New(cols)
			for j, ok := row.NextSet(0); ok && j < cols; j, ok = row.NextSet(j + 1) {
				next.Set(j)
			}
			t.rows[i] = next
		}
		t.cols = cols
	}
	switch {
	case rows < uint(len(t.rows)):
		t.rows = t.rows[:rows]
	case rows > uint(len(t.rows)):
		for uint(len(t.rows)) < rows {
			t.rows = append(t.rows, bitset.New(cols))
		}
	}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{rows: make([]*bitset.BitSet, len(t.rows)), cols: t.cols}
	for i, row := range t.rows {
		out.rows[i] = row.Clone()
	}
	return out
}

// Equal reports whether both tables have the same shape and bits.
func (t *Table) Equal(o *Table) bool {
	if t.cols != o.cols || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		if !t.rows[i].Equal(o.rows[i]) {
			return false
		}
	}
	return true
}

// String renders the table as rows of '0'/'1' for debugging.
func (t *Table) String() string {
	buf := make([]byte, 0, len(t.rows)*(int(t.cols)+1))
	for _, row := range t.rows {
		for j := uint(0); j < t.cols; j++ {
			if row.Test(j) {
				buf = append(buf, '1')
			} else {
				buf = append(buf, '0')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

// SetRow replaces row i with b. The table takes ownership of b.
func (t *Table) SetRow(i uint, b *bitset.BitSet) {
	t.rows[i] = b
}

// SwapRowBetween exchanges row i of a with row j of b. Both tables must have
// the same number of columns.
func SwapRowBetween(a *Table, i uint, b *Table, j uint) {
	a.rows[i], b.rows[j] = b.rows[j], a.rows[i]
}
