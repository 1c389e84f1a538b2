package tableau

import "qtermstab/internal/bittable"

// The Prepend* methods replace t with t∘G for a fixed gate G. Each one is a
// handful of row operations and is equivalent to InplaceScatterPrepend with
// G's tableau.

// PrependX prepends a Pauli X on qubit q.
func (t *Tableau) PrependX(q int) {
	t.mustBeRowMajor()
	t.zs.row(q).flipSign()
}

// PrependY prepends a Pauli Y on qubit q.
func (t *Tableau) PrependY(q int) {
	t.mustBeRowMajor()
	t.xs.row(q).flipSign()
	t.zs.row(q).flipSign()
}

// PrependZ prepends a Pauli Z on qubit q.
func (t *Tableau) PrependZ(q int) {
	t.mustBeRowMajor()
	t.xs.row(q).flipSign()
}

func (t *Tableau) swapXZ(q int) {
	bittable.SwapRowBetween(t.xs.xt, uint(q), t.zs.xt, uint(q))
	bittable.SwapRowBetween(t.xs.zt, uint(q), t.zs.zt, uint(q))
	xs, zs := t.xs.signs.Test(uint(q)), t.zs.signs.Test(uint(q))
	t.xs.signs.SetTo(uint(q), zs)
	t.zs.signs.SetTo(uint(q), xs)
}

// PrependHXZ prepends the Hadamard gate (X↔Z) on qubit q.
func (t *Tableau) PrependHXZ(q int) {
	t.mustBeRowMajor()
	t.swapXZ(q)
}

// PrependHXY prepends the X↔Y Hadamard variant on qubit q.
func (t *Tableau) PrependHXY(q int) {
	t.mustBeRowMajor()
	x, z := t.xs.row(q), t.zs.row(q)
	// X -> Y = i·X·Z
	x.flipSignIf((1+x.rightMul(z))&2 != 0)
	// Z -> -Z
	z.flipSign()
}

// PrependHYZ prepends the Y↔Z Hadamard variant on qubit q.
func (t *Tableau) PrependHYZ(q int) {
	t.mustBeRowMajor()
	x, z := t.xs.row(q), t.zs.row(q)
	// Z -> Y = i·X·Z = -i·Z·X
	z.flipSignIf((3+z.rightMul(x))&2 != 0)
	// X -> -X
	x.flipSign()
}

// PrependSqrtX prepends √X on qubit q (Z -> -Y).
func (t *Tableau) PrependSqrtX(q int) {
	t.mustBeRowMajor()
	x, z := t.xs.row(q), t.zs.row(q)
	z.flipSignIf((1+z.rightMul(x))&2 != 0)
}

// PrependSqrtXDag prepends √X† on qubit q (Z -> +Y).
func (t *Tableau) PrependSqrtXDag(q int) {
	t.mustBeRowMajor()
	x, z := t.xs.row(q), t.zs.row(q)
	z.flipSignIf((3+z.rightMul(x))&2 != 0)
}

// PrependSqrtY prepends √Y on qubit q (X -> -Z, Z -> X).
func (t *Tableau) PrependSqrtY(q int) {
	t.mustBeRowMajor()
	t.swapXZ(q)
	t.xs.row(q).flipSign()
}

// PrependSqrtYDag prepends √Y† on qubit q (X -> Z, Z -> -X).
func (t *Tableau) PrependSqrtYDag(q int) {
	t.mustBeRowMajor()
	t.swapXZ(q)
	t.zs.row(q).flipSign()
}

// PrependSqrtZ prepends S on qubit q (X -> Y).
func (t *Tableau) PrependSqrtZ(q int) {
	t.mustBeRowMajor()
	x, z := t.xs.row(q), t.zs.row(q)
	x.flipSignIf((1+x.rightMul(z))&2 != 0)
}

// PrependSqrtZDag prepends S† on qubit q (X -> -Y).
func (t *Tableau) PrependSqrtZDag(q int) {
	t.mustBeRowMajor()
	x, z := t.xs.row(q), t.zs.row(q)
	x.flipSignIf((3+x.rightMul(z))&2 != 0)
}

// PrependZCX prepends a CNOT controlled by c targeting t2.
func (t *Tableau) PrependZCX(c, t2 int) {
	t.mustBeRowMajor()
	t.xs.row(c).mulCommuting(t.xs.row(t2))
	t.zs.row(t2).mulCommuting(t.zs.row(c))
}

// PrependZCY prepends a controlled-Y.
func (t *Tableau) PrependZCY(c, t2 int) {
	t.PrependSqrtZ(t2)
	t.PrependZCX(c, t2)
	t.PrependSqrtZDag(t2)
}

// PrependZCZ prepends a controlled-Z.
func (t *Tableau) PrependZCZ(c, t2 int) {
	t.mustBeRowMajor()
	t.xs.row(c).mulCommuting(t.zs.row(t2))
	t.xs.row(t2).mulCommuting(t.zs.row(c))
}

// PrependXCX prepends an X-controlled X.
func (t *Tableau) PrependXCX(c, t2 int) {
	t.mustBeRowMajor()
	t.zs.row(c).mulCommuting(t.xs.row(t2))
	t.zs.row(t2).mulCommuting(t.xs.row(c))
}

// PrependXCY prepends an X-controlled Y.
func (t *Tableau) PrependXCY(c, t2 int) {
	t.PrependHXZ(c)
	t.PrependZCY(c, t2)
	t.PrependHXZ(c)
}

// PrependXCZ prepends an X-controlled Z, which is a CNOT from t2 onto c.
func (t *Tableau) PrependXCZ(c, t2 int) {
	t.PrependZCX(t2, c)
}

// PrependYCX prepends a Y-controlled X.
func (t *Tableau) PrependYCX(c, t2 int) {
	t.PrependHYZ(c)
	t.PrependZCX(c, t2)
	t.PrependHYZ(c)
}

// PrependYCY prepends a Y-controlled Y.
func (t *Tableau) PrependYCY(c, t2 int) {
	t.PrependHYZ(c)
	t.PrependZCY(c, t2)
	t.PrependHYZ(c)
}

// PrependYCZ prepends a Y-controlled Z, which is a controlled-Y from t2 onto c.
func (t *Tableau) PrependYCZ(c, t2 int) {
	t.PrependZCY(t2, c)
}

// PrependSwap prepends a SWAP of qubits a and b.
func (t *Tableau) PrependSwap(a, b int) {
	t.mustBeRowMajor()
	for _, h := range []half{t.xs, t.zs} {
		h.xt.SwapRows(uint(a), uint(b))
		h.zt.SwapRows(uint(a), uint(b))
		sa, sb := h.signs.Test(uint(a)), h.signs.Test(uint(b))
		h.signs.SetTo(uint(a), sb)
		h.signs.SetTo(uint(b), sa)
	}
}

// PrependISwap prepends ISWAP = SWAP·CZ·(S⊗S).
func (t *Tableau) PrependISwap(a, b int) {
	t.PrependSwap(a, b)
	t.PrependZCZ(a, b)
	t.PrependSqrtZ(a)
	t.PrependSqrtZ(b)
}

// PrependISwapDag prepends ISWAP† = (S†⊗S†)·CZ·SWAP.
func (t *Tableau) PrependISwapDag(a, b int) {
	t.PrependSqrtZDag(a)
	t.PrependSqrtZDag(b)
	t.PrependZCZ(a, b)
	t.PrependSwap(a, b)
}
