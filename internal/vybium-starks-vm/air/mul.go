package air

// NewMultiplicationAIR builds a two-column, degree-2 AIR: columns (x, y)
// with the consistency constraint y = x * x and the transition x' = x + y.
// Its only purpose is to exercise multi-AIR batching (spec §8's "multi-AIR
// batching" scenario) alongside the Fibonacci AIR: a proof run can commit
// both AIRs' traces and fold both DAGs' quotients through a single combined
// PCS commitment.
func NewMultiplicationAIR() (*Builder, Layout) {
	b := NewBuilder("multiplication", 2)

	x, y := b.Local(0), b.Local(1)
	xNext := b.Next(0)

	b.AddConsistencyConstraint(y.Sub(x.Mul(x)))
	b.AddTransitionConstraint(xNext.Sub(x.Add(y)))

	return b, b.Layout()
}
