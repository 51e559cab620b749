package pcs

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/symbolic"
)

func TestCommitAndOpenRoundTrip(t *testing.T) {
	m := symbolic.NewMatrix(4, 2)
	for i := 0; i < 4; i++ {
		m.Set(i, 0, field.New(uint64(i)))
		m.Set(i, 1, field.New(uint64(i*i)))
	}
	scheme := New("test")
	commitment, err := scheme.Commit([]*symbolic.Matrix{m})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(commitment.Root()) == 0 {
		t.Fatal("expected a non-empty root")
	}

	c, ok := commitment.(*Commitment)
	if !ok {
		t.Fatalf("unexpected commitment type %T", commitment)
	}
	proof, leaf, err := scheme.Open([]*symbolic.Matrix{m}, c, 2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(leaf) == 0 {
		t.Fatal("expected non-empty leaf bytes")
	}
	_ = proof
}

func TestCommitRejectsMismatchedHeights(t *testing.T) {
	a := symbolic.NewMatrix(4, 1)
	b := symbolic.NewMatrix(5, 1)
	scheme := New("test")
	if _, err := scheme.Commit([]*symbolic.Matrix{a, b}); err == nil {
		t.Fatal("expected an error for mismatched chunk heights")
	}
}

func TestCommitRejectsEmptyChunkList(t *testing.T) {
	scheme := New("test")
	if _, err := scheme.Commit(nil); err == nil {
		t.Fatal("expected an error for zero chunks")
	}
}

func TestSplitDomainsStride(t *testing.T) {
	flat := make([]vfield.EF, 8)
	for i := range flat {
		flat[i] = vfield.FromBase(field.New(uint64(i)))
	}
	cosets := SplitDomains(flat, 2)
	if len(cosets) != 2 {
		t.Fatalf("want 2 cosets, got %d", len(cosets))
	}
	for c, col := range cosets {
		if len(col) != 4 {
			t.Fatalf("coset %d: want 4 rows, got %d", c, len(col))
		}
		for i, v := range col {
			want := vfield.FromBase(field.New(uint64(c + i*2)))
			if !v.Equal(want) {
				t.Fatalf("coset %d row %d: got %v, want %v", c, i, v, want)
			}
		}
	}
}

func TestNaturalDomainForDegree(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 17: 32}
	for degree, want := range cases {
		if got := NaturalDomainForDegree(degree); got != want {
			t.Fatalf("degree %d: want %d, got %d", degree, want, got)
		}
	}
}
