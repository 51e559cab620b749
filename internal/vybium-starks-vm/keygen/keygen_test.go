package keygen

import (
	"bytes"
	"testing"

	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/air"
)

func buildTestVK(t *testing.T) *VerifyingKey {
	t.Helper()
	fib, _ := air.NewFibonacciAIR()
	mul, _ := air.NewMultiplicationAIR()
	vk, err := Build([]Source{
		{Builder: fib, QuotientDegree: 2},
		{Builder: mul, QuotientDegree: 4},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return vk
}

func TestBuildAssemblesLayoutAndDAGPerAIR(t *testing.T) {
	vk := buildTestVK(t)
	if len(vk.AIRs) != 2 {
		t.Fatalf("want 2 AIRs, got %d", len(vk.AIRs))
	}
	if vk.AIRs[0].Layout.Name != "fibonacci" {
		t.Fatalf("want fibonacci as the first AIR, got %q", vk.AIRs[0].Layout.Name)
	}
	if vk.AIRs[0].DAG == nil || len(vk.AIRs[0].DAG.Nodes) == 0 {
		t.Fatal("expected a non-empty DAG for the fibonacci AIR")
	}
	if vk.AIRs[1].QuotientDegree != 4 {
		t.Fatalf("want quotient degree 4 for the multiplication AIR, got %d", vk.AIRs[1].QuotientDegree)
	}
}

func TestBuildRejectsEmptySourceList(t *testing.T) {
	if _, err := Build(nil); err == nil {
		t.Fatal("expected an error for an empty source list")
	}
}

func TestBuildRejectsNonPositiveQuotientDegree(t *testing.T) {
	fib, _ := air.NewFibonacciAIR()
	if _, err := Build([]Source{{Builder: fib, QuotientDegree: 0}}); err == nil {
		t.Fatal("expected an error for a non-positive quotient degree")
	}
}

func assertVKEqual(t *testing.T, want, got *VerifyingKey) {
	t.Helper()
	if len(want.AIRs) != len(got.AIRs) {
		t.Fatalf("AIR count mismatch: want %d, got %d", len(want.AIRs), len(got.AIRs))
	}
	for i := range want.AIRs {
		w, g := want.AIRs[i], got.AIRs[i]
		if w.Layout != g.Layout {
			t.Fatalf("AIR %d: layout mismatch: want %+v, got %+v", i, w.Layout, g.Layout)
		}
		if w.QuotientDegree != g.QuotientDegree {
			t.Fatalf("AIR %d: quotient degree mismatch: want %d, got %d", i, w.QuotientDegree, g.QuotientDegree)
		}
		if len(w.DAG.Nodes) != len(g.DAG.Nodes) {
			t.Fatalf("AIR %d: node count mismatch: want %d, got %d", i, len(w.DAG.Nodes), len(g.DAG.Nodes))
		}
		if len(w.DAG.ConstraintIdx) != len(g.DAG.ConstraintIdx) {
			t.Fatalf("AIR %d: constraint count mismatch: want %d, got %d", i, len(w.DAG.ConstraintIdx), len(g.DAG.ConstraintIdx))
		}
	}
}

func TestVerifyingKeyGobRoundTrip(t *testing.T) {
	vk := buildTestVK(t)
	var buf bytes.Buffer
	if err := vk.Encode(&buf, GobCodec{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf, GobCodec{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertVKEqual(t, vk, got)
}

func TestVerifyingKeyCBORRoundTrip(t *testing.T) {
	vk := buildTestVK(t)
	var buf bytes.Buffer
	if err := vk.Encode(&buf, CBORCodec{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf, CBORCodec{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertVKEqual(t, vk, got)
}

func TestVerifyingKeyEncodeIsOrderPreserving(t *testing.T) {
	vk := buildTestVK(t)
	var buf bytes.Buffer
	if err := vk.Encode(&buf, GobCodec{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf, GobCodec{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.AIRs[0].Layout.Name != "fibonacci" || got.AIRs[1].Layout.Name != "multiplication" {
		t.Fatalf("AIR order not preserved: got %q, %q", got.AIRs[0].Layout.Name, got.AIRs[1].Layout.Name)
	}
}
