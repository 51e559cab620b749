package symbolic

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
)

// PackedExpr is the quotient evaluator's output algebra: a lane-packed value
// that is either Val (W base-field elements, one per row in the batch) or
// Challenge (W extension-field elements). Every Main/Preprocessed/Public
// node produces a Val; every Permutation/Challenge/Exposed node — anything
// that touches an after-challenge column or a sampled challenge — produces
// a Challenge. The two never share a representation, so mixed arithmetic
// must explicitly lift the Val side to the extension field first.
type PackedExpr struct {
	challenge bool
	val       vfield.PF
	ext       vfield.PEF
}

// ValExpr wraps a base-field lane vector.
func ValExpr(v vfield.PF) PackedExpr { return PackedExpr{val: v} }

// ChallengeExpr wraps an extension-field lane vector.
func ChallengeExpr(v vfield.PEF) PackedExpr { return PackedExpr{challenge: true, ext: v} }

// IsChallenge reports whether p carries extension-field lanes.
func (p PackedExpr) IsChallenge() bool { return p.challenge }

// Lanes returns p's lane count.
func (p PackedExpr) Lanes() int {
	if p.challenge {
		return len(p.ext)
	}
	return len(p.val)
}

// AsExt returns p's lanes lifted to the extension field, broadcasting a Val
// through vfield.FromPF if needed. Every binary op below routes both
// operands through this before combining them whenever either side is a
// Challenge, which is what makes the non-commutative Val-Challenge
// subtraction case come out right: "acc - chal" and "chal - val" both lift
// the Val operand in place, so the order of the two original operands is
// preserved exactly as written, not silently inverted.
func (p PackedExpr) AsExt() vfield.PEF {
	if p.challenge {
		return p.ext
	}
	return vfield.FromPF(p.val)
}

func (a PackedExpr) Add(b PackedExpr) PackedExpr {
	if !a.challenge && !b.challenge {
		return ValExpr(a.val.Add(b.val))
	}
	return ChallengeExpr(a.AsExt().Add(b.AsExt()))
}

func (a PackedExpr) Sub(b PackedExpr) PackedExpr {
	if !a.challenge && !b.challenge {
		return ValExpr(a.val.Sub(b.val))
	}
	return ChallengeExpr(a.AsExt().Sub(b.AsExt()))
}

func (a PackedExpr) Neg() PackedExpr {
	if a.challenge {
		return ChallengeExpr(a.ext.Neg())
	}
	return ValExpr(a.val.Neg())
}

func (a PackedExpr) Mul(b PackedExpr) PackedExpr {
	switch {
	case !a.challenge && !b.challenge:
		return ValExpr(a.val.Mul(b.val))
	case a.challenge && !b.challenge:
		return ChallengeExpr(a.ext.MulPF(b.val))
	case !a.challenge && b.challenge:
		return ChallengeExpr(b.ext.MulPF(a.val))
	default:
		return ChallengeExpr(a.ext.Mul(b.ext))
	}
}

// constExpr is a small helper shared by QuotientEvaluator batches: it
// broadcasts a constant across every lane.
func constExpr(lanes int, c field.Element) PackedExpr {
	return ValExpr(vfield.Broadcast(lanes, c))
}
