package air

import "github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

// NewLogUpAIR builds a single-column RAP exercising the log-up permutation
// argument's after-challenge phase (spec §4.12): main column 0 ("val") is
// the looked-up value; after-challenge column 0 ("acc") accumulates a
// running sum of 1/(val + challenge) and after-challenge column 1 ("inv")
// is the per-row helper holding that inverse, since expression trees only
// have +, -, *, and a field inverse cannot be expressed as a polynomial —
// the standard log-up trick instead constrains the helper algebraically:
// inv * (val + challenge) - 1 = 0.
//
// The prover claims the accumulated sum equals exposed value 0; the
// terminal constraint checks it.
func NewLogUpAIR() (*Builder, Layout) {
	b := NewBuilder("logup-lookup", 1).WithLogUp(2, 1, 1)

	val := b.Local(0)
	acc, inv := b.Perm(0), b.Perm(1)
	accNext, invNext := b.PermNext(0), b.PermNext(1)
	challenge := b.Challenge(0)
	one := b.Const(field.One)

	b.AddConsistencyConstraint(inv.Mul(val.Add(challenge)).Sub(one))
	b.AddInitialConstraint(acc.Sub(inv))
	b.AddTransitionConstraint(accNext.Sub(acc.Add(invNext)))
	b.AddTerminalConstraint(acc.Sub(b.Exposed(0)))

	return b, b.Layout()
}
