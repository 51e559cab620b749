package symbolic

import "github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

// NodeKind tags the variant of a Node (and, before building, of an Expr).
type NodeKind uint8

const (
	KindVariable NodeKind = iota
	KindConstant
	KindIsFirstRow
	KindIsLastRow
	KindIsTransition
	KindAdd
	KindSub
	KindNeg
	KindMul
)

// Expr is an expression-tree node with reference-shared subterms: two
// constraints that point at the *same* *Expr value share that subterm, and
// BuildDAG collapses them into a single DAG node (spec invariant #2). A
// freshly-allocated Expr with equal *contents* is a distinct node — dedup
// here is identity-based, not structural, matching the source's explicit
// trade-off (spec §9 open question).
type Expr struct {
	kind NodeKind
	v    Entry
	c    field.Element
	l, r *Expr
	deg  int
}

// NewVar returns a fresh leaf expression referencing the given variable.
func NewVar(v Entry) *Expr { return &Expr{kind: KindVariable, v: v, deg: 1} }

// NewConst returns a fresh leaf expression for a constant.
func NewConst(c field.Element) *Expr { return &Expr{kind: KindConstant, c: c, deg: 0} }

// IsFirstRow returns a fresh leaf expression for the first-row selector.
func IsFirstRow() *Expr { return &Expr{kind: KindIsFirstRow, deg: 0} }

// IsLastRow returns a fresh leaf expression for the last-row selector.
func IsLastRow() *Expr { return &Expr{kind: KindIsLastRow, deg: 0} }

// IsTransition returns a fresh leaf expression for the transition selector.
func IsTransition() *Expr { return &Expr{kind: KindIsTransition, deg: 0} }

// Add returns a new expression a + b. Pass the same *Expr for both operands
// of a later Mul to get the squaring-dedup behavior spec invariant #2
// describes; Add/Sub/Mul never fold or simplify their operands.
func (a *Expr) Add(b *Expr) *Expr {
	return &Expr{kind: KindAdd, l: a, r: b, deg: maxInt(a.deg, b.deg)}
}

// Sub returns a new expression a - b.
func (a *Expr) Sub(b *Expr) *Expr {
	return &Expr{kind: KindSub, l: a, r: b, deg: maxInt(a.deg, b.deg)}
}

// Neg returns a new expression -a.
func (a *Expr) Neg() *Expr {
	return &Expr{kind: KindNeg, l: a, deg: a.deg}
}

// Mul returns a new expression a * b.
func (a *Expr) Mul(b *Expr) *Expr {
	return &Expr{kind: KindMul, l: a, r: b, deg: a.deg + b.deg}
}

// Degree returns the algebraic degree of this subexpression, propagated at
// construction time (Add/Sub take the max of their operands' degrees, Mul
// sums them, Neg passes its operand's degree through unchanged).
func (a *Expr) Degree() int { return a.deg }

// Equal reports whether a and b are structurally (value-) equal: same
// variant and children recursively equal, regardless of identity. Used by
// the DAG round-trip tests (spec invariant #3), not by the builder itself
// (which dedups on identity only, per spec §9).
func (a *Expr) Equal(b *Expr) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindVariable:
		return a.v == b.v
	case KindConstant:
		return a.c.Equal(b.c)
	case KindIsFirstRow, KindIsLastRow, KindIsTransition:
		return true
	case KindNeg:
		return a.l.Equal(b.l)
	case KindAdd, KindSub, KindMul:
		return a.l.Equal(b.l) && a.r.Equal(b.r)
	default:
		return false
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
