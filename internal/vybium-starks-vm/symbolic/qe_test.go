package symbolic

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
)

// buildMulDAG returns the DAG for the two-column (x, y) AIR with
// consistency constraint y - x*x and transition constraint
// IsTransition() * (x' - (x + y)).
func buildMulDAG(t *testing.T) *DAG {
	t.Helper()
	x := NewVar(Main(0, 0, 0))
	y := NewVar(Main(0, 0, 1))
	xNext := NewVar(Main(0, 1, 0))

	consistency := y.Sub(x.Mul(x))
	transition := IsTransition().Mul(xNext.Sub(x.Add(y)))

	dag, err := BuildDAG([]*Expr{consistency, transition})
	if err != nil {
		t.Fatalf("BuildDAG: %v", err)
	}
	return dag
}

func mulTraceRow(x field.Element) (field.Element, field.Element) {
	return x, x.Mul(x)
}

func validMulTrace(t *testing.T, traceSize int) *Matrix {
	t.Helper()
	m := NewMatrix(traceSize, 2)
	x := field.New(2)
	for i := 0; i < traceSize; i++ {
		xi, yi := mulTraceRow(x)
		m.Set(i, 0, xi)
		m.Set(i, 1, yi)
		x = xi.Add(yi)
	}
	return m
}

func onesSelectors(traceSize int) *Selectors {
	one := make([]field.Element, traceSize)
	for i := range one {
		one[i] = field.One
	}
	isFirst := make([]field.Element, traceSize)
	isFirst[0] = field.One
	isLast := make([]field.Element, traceSize)
	isLast[traceSize-1] = field.One
	isTransition := make([]field.Element, traceSize)
	for i := 0; i < traceSize-1; i++ {
		isTransition[i] = field.One
	}
	return &Selectors{
		IsFirstRow:   isFirst,
		IsLastRow:    isLast,
		IsTransition: isTransition,
		InvZeroifier: one,
	}
}

func TestQuotientEvaluatorVanishesOnValidTrace(t *testing.T) {
	const traceSize = 4
	dag := buildMulDAG(t)
	trace := validMulTrace(t, traceSize)
	view := &RapView{PairView: PairView{PartitionedMain: []ColumnSource{trace}}}
	sel := onesSelectors(traceSize)
	alpha := []vfield.EF{vfield.FromBase(field.New(2)), vfield.FromBase(field.New(3))}

	qe := NewQuotientEvaluator(2, view, sel)
	out, err := qe.EvaluateCoset(dag, traceSize, alpha)
	if err != nil {
		t.Fatalf("EvaluateCoset: %v", err)
	}
	for i, v := range out {
		if !v.Equal(vfield.ZeroEF) {
			t.Fatalf("row %d: want zero quotient on a valid trace, got %v", i, v)
		}
	}
}

func TestQuotientEvaluatorDetectsViolation(t *testing.T) {
	const traceSize = 4
	dag := buildMulDAG(t)
	trace := validMulTrace(t, traceSize)
	// Corrupt row 1's y column so the consistency constraint no longer
	// vanishes there.
	trace.Set(1, 1, trace.At(1, 1).Add(field.One))

	view := &RapView{PairView: PairView{PartitionedMain: []ColumnSource{trace}}}
	sel := onesSelectors(traceSize)
	alpha := []vfield.EF{vfield.FromBase(field.One), vfield.FromBase(field.Zero)}

	qe := NewQuotientEvaluator(2, view, sel)
	out, err := qe.EvaluateCoset(dag, traceSize, alpha)
	if err != nil {
		t.Fatalf("EvaluateCoset: %v", err)
	}
	if out[1].Equal(vfield.ZeroEF) {
		t.Fatalf("row 1: expected a nonzero quotient after corrupting the trace")
	}
	for _, i := range []int{0, 2, 3} {
		if !out[i].Equal(vfield.ZeroEF) {
			t.Fatalf("row %d: corruption at row 1 should not affect this row's consistency quotient", i)
		}
	}
}

func TestQuotientEvaluatorLaneWidthInvariance(t *testing.T) {
	const traceSize = 8
	dag := buildMulDAG(t)
	trace := validMulTrace(t, traceSize)
	// Perturb the trace so the fold is nonzero and lane-width sensitivity
	// would actually show up if packColumn's row/wraparound math were wrong.
	trace.Set(3, 1, trace.At(3, 1).Add(field.New(5)))
	view := &RapView{PairView: PairView{PartitionedMain: []ColumnSource{trace}}}
	sel := onesSelectors(traceSize)
	alpha := []vfield.EF{vfield.FromBase(field.New(11)), vfield.FromBase(field.New(13))}

	var results [][]vfield.EF
	for _, lanes := range []int{1, 2, 4, 8} {
		qe := NewQuotientEvaluator(lanes, view, sel)
		out, err := qe.EvaluateCoset(dag, traceSize, alpha)
		if err != nil {
			t.Fatalf("lanes=%d: EvaluateCoset: %v", lanes, err)
		}
		results = append(results, out)
	}
	for i := 1; i < len(results); i++ {
		for row := 0; row < traceSize; row++ {
			if !results[0][row].Equal(results[i][row]) {
				t.Fatalf("row %d: lane width changed the result: %v vs %v", row, results[0][row], results[i][row])
			}
		}
	}
}

func TestQuotientEvaluatorRejectsMissingChallengePhase(t *testing.T) {
	perm := NewVar(Permutation(0, 0))
	dag, err := BuildDAG([]*Expr{perm})
	if err != nil {
		t.Fatalf("BuildDAG: %v", err)
	}
	view := &RapView{PairView: PairView{PartitionedMain: []ColumnSource{NewMatrix(2, 1)}}}
	sel := onesSelectors(2)
	qe := NewQuotientEvaluator(2, view, sel)
	if err := qe.Scan(dag); err == nil {
		t.Fatal("expected an error: no challenge phase configured but a Permutation entry is referenced")
	}
}
