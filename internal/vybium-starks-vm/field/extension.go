// Package field extends github.com/vybium/vybium-crypto's base field with a
// degree-4 extension field and SIMD-lane-packed counterparts, used by the
// quotient constraint evaluator.
package field

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Degree is the extension degree D of EF over the base field F.
const Degree = 4

// irreducible is the non-residue used to build EF = F[x]/(x^4 - irreducible).
// Chosen so that x^4 = irreducible has no root in F, following the same
// "pick a small non-residue" approach the teacher uses for primitive roots
// of unity in domains.go.
var irreducible = field.New(7)

// EF is a degree-4 extension of F, laid out as a fixed-size array of base
// field elements. This fixed [F; D] layout is a precondition of the chunk
// reinterpretation in the quotient committer (spec §4.4/§9): a column of EF
// values can be re-sliced into a trace_size x Degree base-field matrix
// without any unsafe pointer cast.
type EF [Degree]field.Element

// ZeroEF is the additive identity of EF.
var ZeroEF = EF{}

// OneEF is the multiplicative identity of EF.
var OneEF = EF{field.One, field.Zero, field.Zero, field.Zero}

// FromBase lifts a base field element into EF.
func FromBase(x field.Element) EF {
	return EF{x, field.Zero, field.Zero, field.Zero}
}

// Add returns e + o.
func (e EF) Add(o EF) EF {
	var r EF
	for i := 0; i < Degree; i++ {
		r[i] = e[i].Add(o[i])
	}
	return r
}

// Sub returns e - o.
func (e EF) Sub(o EF) EF {
	var r EF
	for i := 0; i < Degree; i++ {
		r[i] = e[i].Sub(o[i])
	}
	return r
}

// Neg returns -e.
func (e EF) Neg() EF {
	var r EF
	for i := 0; i < Degree; i++ {
		r[i] = field.Zero.Sub(e[i])
	}
	return r
}

// Mul returns e * o, reducing modulo x^4 - irreducible.
func (e EF) Mul(o EF) EF {
	// Schoolbook multiplication of the two degree-3 polynomials, then
	// reduce coefficients of degree >= 4 using x^4 = irreducible.
	var prod [2*Degree - 1]field.Element
	for i := 0; i < Degree; i++ {
		if e[i].IsZero() {
			continue
		}
		for j := 0; j < Degree; j++ {
			prod[i+j] = prod[i+j].Add(e[i].Mul(o[j]))
		}
	}
	var r EF
	for i := 0; i < Degree; i++ {
		r[i] = prod[i]
	}
	for i := Degree; i < len(prod); i++ {
		if prod[i].IsZero() {
			continue
		}
		r[i-Degree] = r[i-Degree].Add(prod[i].Mul(irreducible))
	}
	return r
}

// MulBase returns e * x for a base field scalar x.
func (e EF) MulBase(x field.Element) EF {
	var r EF
	for i := 0; i < Degree; i++ {
		r[i] = e[i].Mul(x)
	}
	return r
}

// IsZero reports whether e is the additive identity.
func (e EF) IsZero() bool {
	for i := 0; i < Degree; i++ {
		if !e[i].IsZero() {
			return false
		}
	}
	return true
}

// Equal reports whether e and o represent the same extension element.
func (e EF) Equal(o EF) bool {
	for i := 0; i < Degree; i++ {
		if !e[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Inverse returns the multiplicative inverse of e.
//
// Solves M * x = 1 by Gaussian elimination over F, where M is the
// Degree x Degree matrix of multiplication by e; the solution x is e's
// inverse. No Frobenius/norm computation is involved.
func (e EF) Inverse() (EF, error) {
	if e.IsZero() {
		return EF{}, fmt.Errorf("field: cannot invert zero extension element")
	}
	// Norm(e) = e * e^p * e^p^2 * e^p^3 is expensive without a Frobenius
	// endomorphism; instead solve the linear system M * x = e1 where M is
	// the multiplication-by-e matrix, via Gaussian elimination over F.
	var m [Degree][Degree]field.Element
	for j := 0; j < Degree; j++ {
		var basis EF
		basis[j] = field.One
		col := e.Mul(basis)
		for i := 0; i < Degree; i++ {
			m[i][j] = col[i]
		}
	}
	aug := m
	rhs := [Degree]field.Element{field.One, field.Zero, field.Zero, field.Zero}

	for col := 0; col < Degree; col++ {
		pivot := -1
		for row := col; row < Degree; row++ {
			if !aug[row][col].IsZero() {
				pivot = row
				break
			}
		}
		if pivot < 0 {
			return EF{}, fmt.Errorf("field: extension element is not invertible")
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]

		invPivot := aug[col][col].Inverse()
		for k := 0; k < Degree; k++ {
			aug[col][k] = aug[col][k].Mul(invPivot)
		}
		rhs[col] = rhs[col].Mul(invPivot)

		for row := 0; row < Degree; row++ {
			if row == col || aug[row][col].IsZero() {
				continue
			}
			factor := aug[row][col]
			for k := 0; k < Degree; k++ {
				aug[row][k] = aug[row][k].Sub(factor.Mul(aug[col][k]))
			}
			rhs[row] = rhs[row].Sub(factor.Mul(rhs[col]))
		}
	}

	return EF(rhs), nil
}

// String renders e as "[c0 c1 c2 c3]".
func (e EF) String() string {
	return fmt.Sprintf("[%v %v %v %v]", e[0], e[1], e[2], e[3])
}
