package air

import "github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

// NewFibonacciAIR builds the three-column Fibonacci AIR used throughout the
// test suite (spec §8's Fibonacci round-trip scenario): columns are (a, b,
// n), with a, b the running pair and n a step counter. Two public values
// pin the starting pair; one constrains the final step count.
//
//	initial:    a = public[0], b = public[1], n = 0
//	transition: a' = b, b' = a + b, n' = n + 1
func NewFibonacciAIR() (*Builder, Layout) {
	b := NewBuilder("fibonacci", 3).WithPublicValues(3)

	a, bb, n := b.Local(0), b.Local(1), b.Local(2)
	aNext, bNext, nNext := b.Next(0), b.Next(1), b.Next(2)

	b.AddInitialConstraint(a.Sub(b.Public(0)))
	b.AddInitialConstraint(bb.Sub(b.Public(1)))
	b.AddInitialConstraint(n)

	b.AddTransitionConstraint(aNext.Sub(bb))
	b.AddTransitionConstraint(bNext.Sub(a.Add(bb)))
	b.AddTransitionConstraint(nNext.Sub(n.Add(b.Const(field.One))))

	b.AddTerminalConstraint(n.Sub(b.Public(2)))

	return b, b.Layout()
}
