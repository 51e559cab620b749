package vybiumstarksvm

import (
	"context"
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// fibonacciAIR builds the three-column (a, b, n) AIR used by this test:
// a, b the running pair, n a step counter, two public values pinning the
// starting pair and one constraining the final step count.
func fibonacciAIR() *AIRBuilder {
	b := NewAIRBuilder("fibonacci", 3).WithPublicValues(3)

	a, bb, n := b.Local(0), b.Local(1), b.Local(2)
	aNext, bNext, nNext := b.Next(0), b.Next(1), b.Next(2)

	b.AddInitialConstraint(a.Sub(b.Public(0)))
	b.AddInitialConstraint(bb.Sub(b.Public(1)))
	b.AddInitialConstraint(n)

	b.AddTransitionConstraint(aNext.Sub(bb))
	b.AddTransitionConstraint(bNext.Sub(a.Add(bb)))
	b.AddTransitionConstraint(nNext.Sub(n.Add(b.Const(field.One))))

	b.AddTerminalConstraint(n.Sub(b.Public(2)))
	return b
}

func fibonacciTrace(n int) (cols [][]FieldElement, public []FieldElement) {
	a := make([]FieldElement, n)
	b := make([]FieldElement, n)
	c := make([]FieldElement, n)
	a[0], b[0] = field.One, field.One
	c[0] = field.Zero
	for i := 1; i < n; i++ {
		a[i] = b[i-1]
		b[i] = a[i-1].Add(b[i-1])
		c[i] = c[i-1].Add(field.One)
	}
	return [][]FieldElement{a, b, c}, []FieldElement{a[0], b[0], c[n-1]}
}

func TestProverVerifierRoundTrip(t *testing.T) {
	const traceSize = 8
	builder := fibonacciAIR()

	vk, err := BuildVerifyingKey([]AIRSource{{Builder: builder, QuotientDegree: 2}})
	if err != nil {
		t.Fatalf("BuildVerifyingKey: %v", err)
	}

	cols, public := fibonacciTrace(traceSize)
	witnesses := []Witness{{
		Entry:        vk.AIRs[0],
		MainColumns:  cols,
		PublicValues: public,
	}}

	prover, err := NewProver(DefaultConfig())
	if err != nil {
		t.Fatalf("NewProver: %v", err)
	}
	proof, err := prover.Prove(context.Background(), witnesses)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if len(proof.MainRoots) != 1 {
		t.Fatalf("want 1 main root, got %d", len(proof.MainRoots))
	}

	verifier, err := NewVerifier(DefaultConfig())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if err := verifier.Verify(vk, proof); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifierRejectsTamperedProof(t *testing.T) {
	const traceSize = 8
	builder := fibonacciAIR()

	vk, err := BuildVerifyingKey([]AIRSource{{Builder: builder, QuotientDegree: 2}})
	if err != nil {
		t.Fatalf("BuildVerifyingKey: %v", err)
	}

	cols, public := fibonacciTrace(traceSize)
	witnesses := []Witness{{
		Entry:        vk.AIRs[0],
		MainColumns:  cols,
		PublicValues: public,
	}}

	prover, err := NewProver(DefaultConfig())
	if err != nil {
		t.Fatalf("NewProver: %v", err)
	}
	proof, err := prover.Prove(context.Background(), witnesses)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	tampered := *proof
	tampered.MainRoots = append([][]byte(nil), proof.MainRoots...)
	tampered.MainRoots[0] = append([]byte(nil), proof.MainRoots[0]...)
	tampered.MainRoots[0][0] ^= 0xff

	verifier, err := NewVerifier(DefaultConfig())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if err := verifier.Verify(vk, &tampered); err == nil {
		t.Fatal("expected verification to fail against a tampered main root")
	}
}

func TestNewProverRejectsNonPositiveLanes(t *testing.T) {
	config := DefaultConfig()
	config.Lanes = 0
	if _, err := NewProver(config); err == nil {
		t.Fatal("expected an error for non-positive Lanes")
	}
}
