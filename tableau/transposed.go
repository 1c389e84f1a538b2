package tableau

import "qtermstab/internal/bittable"

// noCopy makes go vet's copylocks check reject copies of the view.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// TransposedView is a handle on a tableau whose storage is temporarily
// column-major: row q of every table holds output qubit q across all
// generators. Appending a gate then costs a few whole-row operations.
//
// A view only exists inside the callback passed to Tableau.Transposed and
// must not be retained after it returns. At most one view per tableau may be
// live at a time; nesting is a programming error.
type TransposedView struct {
	noCopy noCopy
	t      *Tableau
}

// Transposed flips t into column-major storage, calls fn with a view of it,
// and flips it back. Restoration is deferred, so it also happens when fn
// returns an error or panics.
func (t *Tableau) Transposed(fn func(v *TransposedView) error) error {
	if t.transposed {
		panic("tableau: nested transposed view")
	}
	v := &TransposedView{t: t}
	t.transpose()
	defer func() {
		v.t = nil
		t.transpose()
	}()
	return fn(v)
}

func (t *Tableau) transpose() {
	t.xs.xt.Transpose()
	t.xs.zt.Transpose()
	t.zs.xt.Transpose()
	t.zs.zt.Transpose()
	t.transposed = !t.transposed
}

// NumQubits returns the size of the underlying tableau.
func (v *TransposedView) NumQubits() int { return v.t.n }

// XSign returns the sign of the image of X_k.
func (v *TransposedView) XSign(k int) bool { return v.t.xs.signs.Test(uint(k)) }

// ZSign returns the sign of the image of Z_k.
func (v *TransposedView) ZSign(k int) bool { return v.t.zs.signs.Test(uint(k)) }

// XObsZBit reports whether the image of X_input has a Z component on output.
func (v *TransposedView) XObsZBit(input, output int) bool {
	return v.t.xs.zt.Get(uint(output), uint(input))
}

// ZObsXBit reports whether the image of Z_input has an X component on output.
func (v *TransposedView) ZObsXBit(input, output int) bool {
	return v.t.zs.xt.Get(uint(output), uint(input))
}

// ZObsZBit reports whether the image of Z_input has a Z component on output.
func (v *TransposedView) ZObsZBit(input, output int) bool {
	return v.t.zs.zt.Get(uint(output), uint(input))
}

func (v *TransposedView) halves() [2]half {
	return [2]half{v.t.xs, v.t.zs}
}

// AppendH appends a Hadamard on output qubit q: X↔Z, Y -> -Y.
func (v *TransposedView) AppendH(q int) {
	for _, h := range v.halves() {
		x, z := h.xt.Row(uint(q)), h.zt.Row(uint(q))
		h.signs.InPlaceSymmetricDifference(x.Intersection(z))
		bittable.SwapRowBetween(h.xt, uint(q), h.zt, uint(q))
	}
}

// AppendHXY appends the X↔Y Hadamard variant: Z -> -Z.
func (v *TransposedView) AppendHXY(q int) {
	for _, h := range v.halves() {
		x, z := h.xt.Row(uint(q)), h.zt.Row(uint(q))
		h.signs.InPlaceSymmetricDifference(z.Difference(x))
		z.InPlaceSymmetricDifference(x)
	}
}

// AppendHYZ appends the Y↔Z Hadamard variant: X -> -X.
func (v *TransposedView) AppendHYZ(q int) {
	for _, h := range v.halves() {
		x, z := h.xt.Row(uint(q)), h.zt.Row(uint(q))
		h.signs.InPlaceSymmetricDifference(x.Difference(z))
		x.InPlaceSymmetricDifference(z)
	}
}

func (v *TransposedView) appendSqrtZ(q int) {
	for _, h := range v.halves() {
		x, z := h.xt.Row(uint(q)), h.zt.Row(uint(q))
		h.signs.InPlaceSymmetricDifference(x.Intersection(z))
		z.InPlaceSymmetricDifference(x)
	}
}

func (v *TransposedView) appendSqrtZDag(q int) {
	for _, h := range v.halves() {
		x, z := h.xt.Row(uint(q)), h.zt.Row(uint(q))
		h.signs.InPlaceSymmetricDifference(x.Difference(z))
		z.InPlaceSymmetricDifference(x)
	}
}

// AppendX appends a Pauli X on output qubit q.
func (v *TransposedView) AppendX(q int) {
	for _, h := range v.halves() {
		h.signs.InPlaceSymmetricDifference(h.zt.Row(uint(q)))
	}
}

// AppendCX appends a CNOT from control c onto target t.
func (v *TransposedView) AppendCX(c, t int) {
	for _, h := range v.halves() {
		xc, zc := h.xt.Row(uint(c)), h.zt.Row(uint(c))
		xt, zt := h.xt.Row(uint(t)), h.zt.Row(uint(t))
		flip := xc.Intersection(zt)
		flip.InPlaceDifference(xt.SymmetricDifference(zc))
		h.signs.InPlaceSymmetricDifference(flip)
		zc.InPlaceSymmetricDifference(zt)
		xt.InPlaceSymmetricDifference(xc)
	}
}

// AppendCY appends a controlled-Y from c onto t.
func (v *TransposedView) AppendCY(c, t int) {
	v.appendSqrtZDag(t)
	v.AppendCX(c, t)
	v.appendSqrtZ(t)
}

// AppendCZ appends a controlled-Z between c and t.
func (v *TransposedView) AppendCZ(c, t int) {
	for _, h := range v.halves() {
		xc, zc := h.xt.Row(uint(c)), h.zt.Row(uint(c))
		xt, zt := h.xt.Row(uint(t)), h.zt.Row(uint(t))
		flip := xc.Intersection(xt)
		flip.InPlaceIntersection(zc.SymmetricDifference(zt))
		h.signs.InPlaceSymmetricDifference(flip)
		zc.InPlaceSymmetricDifference(xt)
		zt.InPlaceSymmetricDifference(xc)
	}
}

// AppendSwap appends a SWAP of output qubits a and b.
func (v *TransposedView) AppendSwap(a, b int) {
	for _, h := range v.halves() {
		h.xt.SwapRows(uint(a), uint(b))
		h.zt.SwapRows(uint(a), uint(b))
	}
}
