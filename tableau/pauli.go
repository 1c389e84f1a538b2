package tableau

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// ErrInvalidPauli is returned when a Pauli string literal cannot be parsed.
var ErrInvalidPauli = errors.New("invalid pauli string")

// PauliString is a signed tensor product of single-qubit Paulis. The pair
// (X[q], Z[q]) encodes qubit q as I=(0,0), X=(1,0), Z=(0,1), Y=(1,1).
// Sign true means the product carries a factor of -1.
type PauliString struct {
	Sign bool
	X    *bitset.BitSet
	Z    *bitset.BitSet
	n    uint
}

// NewPauliString returns the identity on n qubits.
func NewPauliString(n int) PauliString {
	return PauliString{
		X: bitset.New(uint(n)),
		Z: bitset.New(uint(n)),
		n: uint(n),
	}
}

// ParsePauliString parses literals such as "+XZ_Y", "-ZZ" or "IXI".
// A missing sign means '+'; '_' and 'I' both denote identity.
func ParsePauliString(s string) (PauliString, error) {
	sign := false
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		sign = true
		s = s[1:]
	}
	p := NewPauliString(len(s))
	p.Sign = sign
	for q, c := range []byte(s) {
		switch c {
		case '_', 'I':
		case 'X':
			p.X.Set(uint(q))
		case 'Y':
			p.X.Set(uint(q))
			p.Z.Set(uint(q))
		case 'Z':
			p.Z.Set(uint(q))
		default:
			return PauliString{}, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidPauli, c, q)
		}
	}
	return p, nil
}

// MustParsePauliString is ParsePauliString for literals known at compile time.
func MustParsePauliString(s string) PauliString {
	p, err := ParsePauliString(s)
	if err != nil {
		panic(err)
	}
	return p
}

// NumQubits returns the number of qubits the string spans.
func (p PauliString) NumQubits() int { return int(p.n) }

// Get returns the Pauli on qubit q as one of '_', 'X', 'Y', 'Z'.
func (p PauliString) Get(q int) byte {
	return pauliChar(p.X.Test(uint(q)), p.Z.Test(uint(q)))
}

// Set assigns the Pauli on qubit q from one of '_', 'I', 'X', 'Y', 'Z'.
func (p PauliString) Set(q int, c byte) {
	x := c == 'X' || c == 'Y'
	z := c == 'Z' || c == 'Y'
	p.X.SetTo(uint(q), x)
	p.Z.SetTo(uint(q), z)
}

// Weight counts the non-identity terms.
func (p PauliString) Weight() int {
	return int(p.X.UnionCardinality(p.Z))
}

// Clone returns a deep copy.
func (p PauliString) Clone() PauliString {
	return PauliString{Sign: p.Sign, X: p.X.Clone(), Z: p.Z.Clone(), n: p.n}
}

// Equal compares sign, size and terms.
func (p PauliString) Equal(o PauliString) bool {
	return p.Sign == o.Sign && p.n == o.n && p.X.Equal(o.X) && p.Z.Equal(o.Z)
}

// Commutes reports whether p and o commute as operators.
func (p PauliString) Commutes(o PauliString) bool {
	return (p.X.IntersectionCardinality(o.Z)+p.Z.IntersectionCardinality(o.X))&1 == 0
}

// RightMul sets p to p·o and returns the leftover phase as a power of i
// (0..3). The sign of o is folded into the result and p.Sign is left alone,
// so a return of 2 means the caller must negate p. An odd return means p·o
// is not Hermitian.
func (p *PauliString) RightMul(o PauliString) uint8 {
	logI := mulTerms(p.X, p.Z, o.X, o.Z)
	if o.Sign {
		logI += 2
	}
	return logI & 3
}

// String renders the string as e.g. "+X_ZY".
func (p PauliString) String() string {
	var sb strings.Builder
	sb.Grow(int(p.n) + 1)
	if p.Sign {
		sb.WriteByte('-')
	} else {
		sb.WriteByte('+')
	}
	for q := uint(0); q < p.n; q++ {
		sb.WriteByte(pauliChar(p.X.Test(q), p.Z.Test(q)))
	}
	return sb.String()
}

func pauliChar(x, z bool) byte {
	switch {
	case x && z:
		return 'Y'
	case x:
		return 'X'
	case z:
		return 'Z'
	default:
		return '_'
	}
}

// mulTerms overwrites (x1, z1) with the product of the unsigned Paulis
// (x1, z1)·(x2, z2) and returns the scalar phase of that product as a power
// of i. Each qubit where the factors anticommute contributes ±i; the second
// counter tracks which of those contribute -i.
func mulTerms(x1, z1, x2, z2 *bitset.BitSet) uint8 {
	x1z2 := x1.Intersection(z2)
	anti := x2.Intersection(z1)
	anti.InPlaceSymmetricDifference(x1z2)

	x1.InPlaceSymmetricDifference(x2)
	z1.InPlaceSymmetricDifference(z2)

	neg := x1.SymmetricDifference(z1)
	neg.InPlaceSymmetricDifference(x1z2)
	neg.InPlaceIntersection(anti)

	return uint8((anti.Count() + 2*neg.Count()) & 3)
}
