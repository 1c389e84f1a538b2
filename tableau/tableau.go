package tableau

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"qtermstab/internal/bittable"
)

// half holds the images of one generator family (all X_k or all Z_k).
// Row k of xt/zt is the X/Z part of the image of generator k; signs[k] is
// its sign. Under a TransposedView the tables are indexed [output][input].
type half struct {
	xt    *bittable.Table
	zt    *bittable.Table
	signs *bitset.BitSet
}

func newHalf(n uint) half {
	return half{
		xt:    bittable.New(n, n),
		zt:    bittable.New(n, n),
		signs: bitset.New(n),
	}
}

func (h half) clone() half {
	return half{xt: h.xt.Clone(), zt: h.zt.Clone(), signs: h.signs.Clone()}
}

func (h half) equal(o half) bool {
	return h.xt.Equal(o.xt) && h.zt.Equal(o.zt) && h.signs.Equal(o.signs)
}

// row is a live reference to one generator image.
type row struct {
	x, z  *bitset.BitSet
	signs *bitset.BitSet
	k     uint
}

func (h half) row(k int) row {
	return row{x: h.xt.Row(uint(k)), z: h.zt.Row(uint(k)), signs: h.signs, k: uint(k)}
}

func (r row) sign() bool { return r.signs.Test(r.k) }

func (r row) flipSign() { r.signs.Flip(r.k) }

func (r row) flipSignIf(b bool) {
	if b {
		r.signs.Flip(r.k)
	}
}

// rightMul sets r to r·o, returning the phase as a power of i with o's sign
// folded in. r's own sign is left alone.
func (r row) rightMul(o row) uint8 {
	logI := mulTerms(r.x, r.z, o.x, o.z)
	if o.sign() {
		logI += 2
	}
	return logI & 3
}

// mulCommuting sets r to r·o for commuting rows.
func (r row) mulCommuting(o row) {
	r.flipSignIf(r.rightMul(o)&2 != 0)
}

func (r row) pauli() PauliString {
	return PauliString{Sign: r.sign(), X: r.x.Clone(), Z: r.z.Clone(), n: r.x.Len()}
}

// Tableau is a stabilizer tableau over a fixed number of qubits.
type Tableau struct {
	n          int
	xs         half
	zs         half
	transposed bool
}

// Identity returns the tableau of the identity operation on n qubits.
func Identity(n int) *Tableau {
	t := &Tableau{
		n:  n,
		xs: newHalf(uint(n)),
		zs: newHalf(uint(n)),
	}
	for k := uint(0); k < uint(n); k++ {
		t.xs.xt.Set(k, k, true)
		t.zs.zt.Set(k, k, true)
	}
	return t
}

// FromConjugatedGenerators builds the tableau mapping X_k to xs[k] and Z_k
// to zs[k]. It does not check that the images form a valid Clifford; use
// IsValid for that.
func FromConjugatedGenerators(xs, zs []PauliString) (*Tableau, error) {
	n := len(xs)
	if len(zs) != n {
		return nil, fmt.Errorf("tableau: %d X images but %d Z images", n, len(zs))
	}
	t := &Tableau{n: n, xs: newHalf(uint(n)), zs: newHalf(uint(n))}
	for k := 0; k < n; k++ {
		if xs[k].NumQubits() != n || zs[k].NumQubits() != n {
			return nil, fmt.Errorf("tableau: image of generator %d does not span %d qubits", k, n)
		}
		t.setRow(t.xs, k, xs[k].Clone())
		t.setRow(t.zs, k, zs[k].Clone())
	}
	return t, nil
}

// MustFromStrings builds a tableau from Pauli string literals and panics on
// malformed input. It is meant for fixed gate definitions.
func MustFromStrings(xs, zs []string) *Tableau {
	px := make([]PauliString, len(xs))
	pz := make([]PauliString, len(zs))
	for i, s := range xs {
		px[i] = MustParsePauliString(s)
	}
	for i, s := range zs {
		pz[i] = MustParsePauliString(s)
	}
	t, err := FromConjugatedGenerators(px, pz)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tableau) setRow(h half, k int, p PauliString) {
	h.xt.SetRow(uint(k), p.X)
	h.zt.SetRow(uint(k), p.Z)
	h.signs.SetTo(uint(k), p.Sign)
}

// NumQubits returns the number of qubits the tableau acts on.
func (t *Tableau) NumQubits() int { return t.n }

func (t *Tableau) mustBeRowMajor() {
	if t.transposed {
		panic("tableau: row access while a transposed view is active")
	}
}

// X returns a copy of the image of X_k.
func (t *Tableau) X(k int) PauliString {
	t.mustBeRowMajor()
	return t.xs.row(k).pauli()
}

// Z returns a copy of the image of Z_k.
func (t *Tableau) Z(k int) PauliString {
	t.mustBeRowMajor()
	return t.zs.row(k).pauli()
}

// Y returns the image of Y_k = i·X_k·Z_k.
func (t *Tableau) Y(k int) PauliString {
	p := t.X(k)
	logI := 1 + p.RightMul(t.Z(k))
	p.Sign = p.Sign != (logI&2 != 0)
	return p
}

// SetSigns overwrites the signs of the images of X_k and Z_k.
func (t *Tableau) SetSigns(k int, xSign, zSign bool) {
	t.xs.signs.SetTo(uint(k), xSign)
	t.zs.signs.SetTo(uint(k), zSign)
}

// Apply conjugates p by the tableau's operation.
func (t *Tableau) Apply(p PauliString) PauliString {
	if p.NumQubits() != t.n {
		panic(fmt.Sprintf("tableau: applying %d-qubit tableau to %d-qubit pauli string", t.n, p.NumQubits()))
	}
	targets := make([]int, t.n)
	for q := range targets {
		targets[q] = q
	}
	return t.scatterEval(p, targets)
}

// scatterEval returns the product of the generator images selected by p,
// where term j of p refers to generator targets[j].
func (t *Tableau) scatterEval(p PauliString, targets []int) PauliString {
	t.mustBeRowMajor()
	acc := row{
		x:     bitset.New(uint(t.n)),
		z:     bitset.New(uint(t.n)),
		signs: bitset.New(1),
	}
	var logI uint8
	for j, q := range targets {
		x, z := p.X.Test(uint(j)), p.Z.Test(uint(j))
		if x {
			logI += acc.rightMul(t.xs.row(q))
		}
		if z {
			logI += acc.rightMul(t.zs.row(q))
		}
		if x && z {
			// Y = i·X·Z
			logI++
		}
	}
	if logI&1 != 0 {
		panic("tableau: anti-Hermitian product; tableau is not a valid Clifford")
	}
	return PauliString{
		Sign: p.Sign != (logI&2 != 0),
		X:    acc.x,
		Z:    acc.z,
		n:    uint(t.n),
	}
}

// Then returns the tableau of "first t, then second".
func (t *Tableau) Then(second *Tableau) *Tableau {
	if second.n != t.n {
		panic(fmt.Sprintf("tableau: composing %d-qubit and %d-qubit tableaux", t.n, second.n))
	}
	out := &Tableau{n: t.n, xs: newHalf(uint(t.n)), zs: newHalf(uint(t.n))}
	for k := 0; k < t.n; k++ {
		out.setRow(out.xs, k, second.Apply(t.X(k)))
		out.setRow(out.zs, k, second.Apply(t.Z(k)))
	}
	return out
}

// Inverse returns the tableau of the inverse operation.
//
// The symplectic part of the inverse of [[A B] [C D]] is [[Dᵀ Bᵀ] [Cᵀ Aᵀ]].
// Signs are then chosen so that t(inverse(P)) = P for every generator.
func (t *Tableau) Inverse() *Tableau {
	t.mustBeRowMajor()
	inv := &Tableau{
		n: t.n,
		xs: half{
			xt:    t.zs.zt.Transposed(),
			zt:    t.xs.zt.Transposed(),
			signs: bitset.New(uint(t.n)),
		},
		zs: half{
			xt:    t.zs.xt.Transposed(),
			zt:    t.xs.xt.Transposed(),
			signs: bitset.New(uint(t.n)),
		},
	}
	for k := 0; k < t.n; k++ {
		inv.xs.signs.SetTo(uint(k), t.Apply(inv.X(k)).Sign)
		inv.zs.signs.SetTo(uint(k), t.Apply(inv.Z(k)).Sign)
	}
	return inv
}

// InplaceScatterPrepend replaces t with t∘op, where qubit j of op acts on
// qubit targets[j] of t. len(targets) must equal op.NumQubits() and the
// targets must be distinct.
func (t *Tableau) InplaceScatterPrepend(op *Tableau, targets []int) {
	t.mustBeRowMajor()
	if len(targets) != op.n {
		panic(fmt.Sprintf("tableau: %d targets for %d-qubit operation", len(targets), op.n))
	}
	newX := make([]PauliString, op.n)
	newZ := make([]PauliString, op.n)
	for j := 0; j < op.n; j++ {
		newX[j] = t.scatterEval(op.X(j), targets)
		newZ[j] = t.scatterEval(op.Z(j), targets)
	}
	for j, q := range targets {
		t.setRow(t.xs, q, newX[j])
		t.setRow(t.zs, q, newZ[j])
	}
}

// InplaceScatterAppend replaces t with op∘t, where qubit j of op acts on
// output qubit targets[j] of t.
func (t *Tableau) InplaceScatterAppend(op *Tableau, targets []int) {
	t.mustBeRowMajor()
	if len(targets) != op.n {
		panic(fmt.Sprintf("tableau: %d targets for %d-qubit operation", len(targets), op.n))
	}
	for _, h := range []half{t.xs, t.zs} {
		for k := 0; k < t.n; k++ {
			r := h.row(k)
			sub := NewPauliString(op.n)
			for j, q := range targets {
				sub.X.SetTo(uint(j), r.x.Test(uint(q)))
				sub.Z.SetTo(uint(j), r.z.Test(uint(q)))
			}
			img := op.Apply(sub)
			for j, q := range targets {
				r.x.SetTo(uint(q), img.X.Test(uint(j)))
				r.z.SetTo(uint(q), img.Z.Test(uint(j)))
			}
			r.flipSignIf(img.Sign)
		}
	}
}

// Expand grows the tableau to n qubits. Existing entries are kept and the
// new qubits are mapped to themselves. Shrinking is not supported.
func (t *Tableau) Expand(n int) {
	t.mustBeRowMajor()
	if n < t.n {
		panic(fmt.Sprintf("tableau: cannot shrink from %d to %d qubits", t.n, n))
	}
	if n == t.n {
		return
	}
	old := t.n
	for _, h := range []*half{&t.xs, &t.zs} {
		h.xt.Resize(uint(n), uint(n))
		h.zt.Resize(uint(n), uint(n))
		signs := bitset.New(uint(n))
		for k, ok := h.signs.NextSet(0); ok; k, ok = h.signs.NextSet(k + 1) {
			signs.Set(k)
		}
		h.signs = signs
	}
	for k := uint(old); k < uint(n); k++ {
		t.xs.xt.Set(k, k, true)
		t.zs.zt.Set(k, k, true)
	}
	t.n = n
}

// IsValid checks the symplectic invariant: T(X_i) and T(Z_i) anticommute,
// and every other pair of generator images commutes.
func (t *Tableau) IsValid() bool {
	t.mustBeRowMajor()
	gens := make([]PauliString, 0, 2*t.n)
	for k := 0; k < t.n; k++ {
		gens = append(gens, t.X(k))
	}
	for k := 0; k < t.n; k++ {
		gens = append(gens, t.Z(k))
	}
	for i := range gens {
		for j := i + 1; j < len(gens); j++ {
			wantAnti := j == i+t.n
			if gens[i].Commutes(gens[j]) == wantAnti {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy.
func (t *Tableau) Clone() *Tableau {
	return &Tableau{n: t.n, xs: t.xs.clone(), zs: t.zs.clone(), transposed: t.transposed}
}

// Equal reports whether two tableaux describe the same operation.
func (t *Tableau) Equal(o *Tableau) bool {
	return t.n == o.n && t.transposed == o.transposed && t.xs.equal(o.xs) && t.zs.equal(o.zs)
}

// String renders one column pair per input qubit, in the layout
//
//	+-xz-xz-
//	| ++ ++
//	| ZX _Z
//	| _X XZ
func (t *Tableau) String() string {
	t.mustBeRowMajor()
	var sb strings.Builder
	sb.WriteString("+-")
	for k := 0; k < t.n; k++ {
		sb.WriteString("xz-")
	}
	sb.WriteString("\n|")
	for k := 0; k < t.n; k++ {
		sb.WriteByte(' ')
		sb.WriteByte(signChar(t.xs.signs.Test(uint(k))))
		sb.WriteByte(signChar(t.zs.signs.Test(uint(k))))
	}
	for q := 0; q < t.n; q++ {
		sb.WriteString("\n|")
		for k := 0; k < t.n; k++ {
			sb.WriteByte(' ')
			sb.WriteByte(pauliChar(t.xs.xt.Get(uint(k), uint(q)), t.xs.zt.Get(uint(k), uint(q))))
			sb.WriteByte(pauliChar(t.zs.xt.Get(uint(k), uint(q)), t.zs.zt.Get(uint(k), uint(q))))
		}
	}
	return sb.String()
}

func signChar(neg bool) byte {
	if neg {
		return '-'
	}
	return '+'
}
