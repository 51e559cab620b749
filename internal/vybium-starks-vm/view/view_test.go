package view

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
)

func col(vals ...uint64) []field.Element {
	out := make([]field.Element, len(vals))
	for i, v := range vals {
		out[i] = field.New(v)
	}
	return out
}

func TestMatrixFromColumnsLayout(t *testing.T) {
	m, err := MatrixFromColumns([][]field.Element{
		col(1, 2, 3, 4),
		col(10, 20, 30, 40),
	})
	if err != nil {
		t.Fatalf("MatrixFromColumns: %v", err)
	}
	if m.Height() != 4 || m.Width() != 2 {
		t.Fatalf("want 4x2, got %dx%d", m.Height(), m.Width())
	}
	if !m.At(2, 0).Equal(field.New(3)) || !m.At(2, 1).Equal(field.New(30)) {
		t.Fatalf("row 2 mismatch: %v %v", m.At(2, 0), m.At(2, 1))
	}
}

func TestMatrixFromColumnsRejectsMismatchedHeights(t *testing.T) {
	_, err := MatrixFromColumns([][]field.Element{
		col(1, 2, 3),
		col(1, 2),
	})
	if err == nil {
		t.Fatal("expected an error for mismatched column heights")
	}
}

func TestBuildPairViewSingleParition(t *testing.T) {
	view, err := BuildPairView(PairViewInput{
		PartitionedMain: [][][]field.Element{{
			col(1, 2, 3, 4),
			col(5, 6, 7, 8),
		}},
		PublicValues: col(42),
	})
	if err != nil {
		t.Fatalf("BuildPairView: %v", err)
	}
	if view.LogTraceHeight != 2 {
		t.Fatalf("want log height 2, got %d", view.LogTraceHeight)
	}
	if len(view.PartitionedMain) != 1 {
		t.Fatalf("want 1 partition, got %d", len(view.PartitionedMain))
	}
	if view.Preprocessed != nil {
		t.Fatal("expected no preprocessed trace")
	}
	if len(view.PublicValues) != 1 || !view.PublicValues[0].Equal(field.New(42)) {
		t.Fatalf("unexpected public values: %v", view.PublicValues)
	}
}

func TestBuildPairViewWithPreprocessedAndPartitions(t *testing.T) {
	view, err := BuildPairView(PairViewInput{
		Preprocessed: [][]field.Element{col(0, 1, 0, 1)},
		PartitionedMain: [][][]field.Element{
			{col(1, 2, 3, 4)},
			{col(9, 9, 9, 9)},
		},
	})
	if err != nil {
		t.Fatalf("BuildPairView: %v", err)
	}
	if view.Preprocessed == nil || view.Preprocessed.Height() != 4 {
		t.Fatalf("unexpected preprocessed trace: %#v", view.Preprocessed)
	}
	if len(view.PartitionedMain) != 2 {
		t.Fatalf("want 2 partitions, got %d", len(view.PartitionedMain))
	}
}

func TestBuildPairViewRejectsNonPowerOfTwoHeight(t *testing.T) {
	_, err := BuildPairView(PairViewInput{
		PartitionedMain: [][][]field.Element{{col(1, 2, 3)}},
	})
	if err == nil {
		t.Fatal("expected an error for a non-power-of-two trace height")
	}
}

func TestBuildPairViewRejectsPartitionHeightMismatch(t *testing.T) {
	_, err := BuildPairView(PairViewInput{
		PartitionedMain: [][][]field.Element{
			{col(1, 2, 3, 4)},
			{col(1, 2)},
		},
	})
	if err == nil {
		t.Fatal("expected an error for mismatched partition heights")
	}
}

func TestBuildPairViewRejectsEmptyPartitions(t *testing.T) {
	if _, err := BuildPairView(PairViewInput{}); err == nil {
		t.Fatal("expected an error for zero partitions")
	}
}

type fakeTraceSource struct {
	cols   [][]field.Element
	height int
}

func (f *fakeTraceSource) GetPaddedHeight() int { return f.height }
func (f *fakeTraceSource) GetTraceColumns() ([][]field.Element, error) {
	return f.cols, nil
}

func TestBuildPairViewFromSource(t *testing.T) {
	src := &fakeTraceSource{
		cols:   [][]field.Element{col(1, 2, 3, 4)},
		height: 4,
	}
	view, err := BuildPairViewFromSource(src, nil)
	if err != nil {
		t.Fatalf("BuildPairViewFromSource: %v", err)
	}
	if view.LogTraceHeight != 2 {
		t.Fatalf("want log height 2, got %d", view.LogTraceHeight)
	}
}

func TestBuildPairViewFromSourceRejectsHeightMismatch(t *testing.T) {
	src := &fakeTraceSource{
		cols:   [][]field.Element{col(1, 2, 3, 4)},
		height: 8,
	}
	if _, err := BuildPairViewFromSource(src, nil); err == nil {
		t.Fatal("expected an error when padded height disagrees with column length")
	}
}

func TestBuildRapViewAttachesExtendedTrace(t *testing.T) {
	extended := [][]vfield.EF{
		{vfield.FromBase(field.New(1)), vfield.FromBase(field.New(2)), vfield.FromBase(field.New(3)), vfield.FromBase(field.New(4))},
	}
	rv, err := BuildRapView(RapViewInput{
		Pair: PairViewInput{
			PartitionedMain: [][][]field.Element{{col(1, 2, 3, 4)}},
		},
		Extended:      extended,
		Challenges:    []vfield.EF{vfield.FromBase(field.New(7))},
		ExposedValues: []vfield.EF{vfield.FromBase(field.New(11))},
	})
	if err != nil {
		t.Fatalf("BuildRapView: %v", err)
	}
	if rv.ExtendedMatrix == nil || rv.ExtendedMatrix.Height() != 4 {
		t.Fatalf("unexpected extended matrix: %#v", rv.ExtendedMatrix)
	}
	if len(rv.Challenges) != 1 || len(rv.ExposedValues) != 1 {
		t.Fatalf("challenges/exposed values not carried through: %#v", rv)
	}
}

func TestBuildRapViewRejectsExtendedHeightMismatch(t *testing.T) {
	extended := [][]vfield.EF{
		{vfield.FromBase(field.New(1)), vfield.FromBase(field.New(2))},
	}
	_, err := BuildRapView(RapViewInput{
		Pair: PairViewInput{
			PartitionedMain: [][][]field.Element{{col(1, 2, 3, 4)}},
		},
		Extended: extended,
	})
	if err == nil {
		t.Fatal("expected an error when the extended trace height disagrees with the base trace")
	}
}

func TestLog2(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 4: 2, 8: 3, 16: 4}
	for n, want := range cases {
		if got := log2(n); got != want {
			t.Fatalf("log2(%d): want %d, got %d", n, want, got)
		}
	}
}
