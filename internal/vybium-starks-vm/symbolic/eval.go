package symbolic

import "github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

// Evaluator is the capability a consumer provides to interpret a DAG into
// an output algebra E. Any type implementing constant/selector/variable
// injections plus +, -, unary -, * is admissible — the quotient evaluator's
// PackedExpr is one instance, a verifier's scalar accumulator type is
// another. This is specialized at compile time via Go generics rather than
// dynamic dispatch per node, so the hot evaluation loop never pays an
// interface-method-lookup cost per arithmetic op beyond the five/four calls
// already required by the node's own Kind.
type Evaluator[E any] interface {
	EvalConst(c field.Element) E
	EvalIsFirstRow() E
	EvalIsLastRow() E
	EvalIsTransition() E
	EvalVar(v Entry) E

	Add(a, b E) E
	Sub(a, b E) E
	Neg(a E) E
	Mul(a, b E) E
}

// EvalInto interprets d into buf, one E per node, in index order. buf must
// have length >= len(d.Nodes); callers reuse the same buffer across row
// batches to avoid per-batch allocation (spec §4.3's "reusable expression
// buffer"). This is the only evaluator the core provides: a naive recursive
// walk of the original expression tree is exponential in the presence of
// shared subterms and is never implemented here.
func EvalInto[E any](d *DAG, ev Evaluator[E], buf []E) error {
	if len(buf) < len(d.Nodes) {
		return newErr(ErrCapacity, "eval buffer has capacity %d, need %d", len(buf), len(d.Nodes))
	}
	for i, n := range d.Nodes {
		switch n.Kind {
		case KindVariable:
			buf[i] = ev.EvalVar(n.Var)
		case KindConstant:
			buf[i] = ev.EvalConst(n.Const)
		case KindIsFirstRow:
			buf[i] = ev.EvalIsFirstRow()
		case KindIsLastRow:
			buf[i] = ev.EvalIsLastRow()
		case KindIsTransition:
			buf[i] = ev.EvalIsTransition()
		case KindAdd:
			buf[i] = ev.Add(buf[n.L], buf[n.R])
		case KindSub:
			buf[i] = ev.Sub(buf[n.L], buf[n.R])
		case KindNeg:
			buf[i] = ev.Neg(buf[n.L])
		case KindMul:
			buf[i] = ev.Mul(buf[n.L], buf[n.R])
		default:
			return newErr(ErrIndexOutOfRange, "eval: unknown node kind %d at %d", n.Kind, i)
		}
	}
	return nil
}

// Eval is the convenience, allocating form of EvalInto.
func Eval[E any](d *DAG, ev Evaluator[E]) ([]E, error) {
	buf := make([]E, len(d.Nodes))
	if err := EvalInto(d, ev, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// FoldConstraints evaluates d into buf (as EvalInto does) and then folds
// every constraint root through a single accumulator using the supplied
// alpha powers, highest power first: result = sum_k alphaPowers[k] *
// eval(ConstraintIdx[k]). This is the Horner-style accumulator pass: one
// scalar absorbs every constraint, and only its value is ever committed.
func FoldConstraints[E any](d *DAG, ev Evaluator[E], buf []E, alphaPowers []E) (E, error) {
	var zero E
	if len(alphaPowers) != len(d.ConstraintIdx) {
		return zero, newErr(ErrCapacity, "alpha powers length %d does not match constraint count %d",
			len(alphaPowers), len(d.ConstraintIdx))
	}
	if err := EvalInto(d, ev, buf); err != nil {
		return zero, err
	}
	if len(d.ConstraintIdx) == 0 {
		return ev.EvalConst(field.Zero), nil
	}
	acc := ev.Mul(alphaPowers[0], buf[d.ConstraintIdx[0]])
	for k := 1; k < len(d.ConstraintIdx); k++ {
		term := ev.Mul(alphaPowers[k], buf[d.ConstraintIdx[k]])
		acc = ev.Add(acc, term)
	}
	return acc, nil
}
