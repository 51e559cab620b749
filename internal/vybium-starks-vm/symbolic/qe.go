package symbolic

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
)

// QuotientEvaluator implements Evaluator[PackedExpr] over one coset's RapView,
// processing rows in batches of Lanes at a time (spec §4.3). A single
// QuotientEvaluator is reused across every batch of one coset; EvaluateCoset
// is the only entry point callers need.
type QuotientEvaluator struct {
	Lanes     int
	View      *RapView
	Selectors *Selectors

	rowStart int
}

// NewQuotientEvaluator returns an evaluator over view/selectors with the
// given default lane width. The final batch of a coset whose row count is
// not a multiple of Lanes runs with fewer lanes (spec §4.4's tie-break).
func NewQuotientEvaluator(lanes int, view *RapView, selectors *Selectors) *QuotientEvaluator {
	return &QuotientEvaluator{Lanes: lanes, View: view, Selectors: selectors}
}

// Scan performs the pre-evaluation precondition checks spec §4.3 requires:
// every variable node's offset, partition and column index must resolve
// inside the view, and no node may reference a later challenge phase than
// this evaluator supports. Running this once per DAG (not per row) keeps
// the per-row evaluation loop itself branch-free.
func (qe *QuotientEvaluator) Scan(d *DAG) error {
	if maxOffset := d.MaxVariableOffset(); maxOffset > 1 {
		return newErr(ErrIndexOutOfRange, "quotient evaluator: unsupported row offset %d", maxOffset)
	}
	for i, n := range d.Nodes {
		if n.Kind != KindVariable {
			continue
		}
		v := n.Var
		switch v.Kind {
		case EntryPreprocessed:
			if qe.View.Preprocessed == nil {
				return newErr(ErrIndexOutOfRange, "node %d: preprocessed column referenced but view has none", i)
			}
			if v.Index < 0 || v.Index >= qe.View.Preprocessed.Width() {
				return newErr(ErrIndexOutOfRange, "node %d: preprocessed column %d out of range", i, v.Index)
			}
		case EntryMain:
			if v.PartIndex < 0 || v.PartIndex >= len(qe.View.PartitionedMain) {
				return newErr(ErrIndexOutOfRange, "node %d: main partition %d out of range", i, v.PartIndex)
			}
			m := qe.View.PartitionedMain[v.PartIndex]
			if v.Index < 0 || v.Index >= m.Width() {
				return newErr(ErrIndexOutOfRange, "node %d: main column %d out of range", i, v.Index)
			}
		case EntryPublic:
			if v.Index < 0 || v.Index >= len(qe.View.PublicValues) {
				return newErr(ErrIndexOutOfRange, "node %d: public value %d out of range", i, v.Index)
			}
		case EntryPermutation:
			if v.Phase > 0 {
				return newErr(ErrChallengePhaseUnsupported, "node %d: permutation phase %d unsupported", i, v.Phase)
			}
			if qe.View.ExtendedMatrix == nil {
				return newErr(ErrChallengePhaseUnsupported, "node %d: permutation column referenced but no challenge phase is configured", i)
			}
			if v.Index < 0 || v.Index >= qe.View.ExtendedMatrix.Width() {
				return newErr(ErrIndexOutOfRange, "node %d: permutation column %d out of range", i, v.Index)
			}
		case EntryChallenge:
			if v.Phase > 0 {
				return newErr(ErrChallengePhaseUnsupported, "node %d: challenge phase %d unsupported", i, v.Phase)
			}
			if v.Index < 0 || v.Index >= len(qe.View.Challenges) {
				return newErr(ErrIndexOutOfRange, "node %d: challenge %d out of range", i, v.Index)
			}
		case EntryExposed:
			if v.Phase > 0 {
				return newErr(ErrChallengePhaseUnsupported, "node %d: exposed-value phase %d unsupported", i, v.Phase)
			}
			if v.Index < 0 || v.Index >= len(qe.View.ExposedValues) {
				return newErr(ErrIndexOutOfRange, "node %d: exposed value %d out of range", i, v.Index)
			}
		default:
			return newErr(ErrIndexOutOfRange, "node %d: unknown variable kind %d", i, v.Kind)
		}
	}
	return nil
}

// forBatch returns a shallow evaluator positioned at the given coset-local
// row start, with its own (possibly smaller) lane count.
func (qe *QuotientEvaluator) forBatch(rowStart, lanes int) *QuotientEvaluator {
	return &QuotientEvaluator{Lanes: lanes, View: qe.View, Selectors: qe.Selectors, rowStart: rowStart}
}

func (qe *QuotientEvaluator) packSelector(vec []field.Element) vfield.PF {
	out := vfield.NewPF(qe.Lanes)
	copy(out, vec[qe.rowStart:qe.rowStart+qe.Lanes])
	return out
}

func (qe *QuotientEvaluator) packColumn(src ColumnSource, col, offset int) vfield.PF {
	out := vfield.NewPF(qe.Lanes)
	h := src.Height()
	for i := 0; i < qe.Lanes; i++ {
		row := (qe.rowStart + i + offset) % h
		out[i] = src.At(row, col)
	}
	return out
}

func (qe *QuotientEvaluator) packExtColumn(src ExtColumnSource, col, offset int) vfield.PEF {
	out := vfield.NewPEF(qe.Lanes)
	h := src.Height()
	for i := 0; i < qe.Lanes; i++ {
		row := (qe.rowStart + i + offset) % h
		out[i] = src.At(row, col)
	}
	return out
}

// EvalConst implements Evaluator[PackedExpr].
func (qe *QuotientEvaluator) EvalConst(c field.Element) PackedExpr { return constExpr(qe.Lanes, c) }

func (qe *QuotientEvaluator) EvalIsFirstRow() PackedExpr {
	return ValExpr(qe.packSelector(qe.Selectors.IsFirstRow))
}

func (qe *QuotientEvaluator) EvalIsLastRow() PackedExpr {
	return ValExpr(qe.packSelector(qe.Selectors.IsLastRow))
}

func (qe *QuotientEvaluator) EvalIsTransition() PackedExpr {
	return ValExpr(qe.packSelector(qe.Selectors.IsTransition))
}

func (qe *QuotientEvaluator) EvalVar(v Entry) PackedExpr {
	switch v.Kind {
	case EntryPreprocessed:
		return ValExpr(qe.packColumn(qe.View.Preprocessed, v.Index, v.Offset))
	case EntryMain:
		return ValExpr(qe.packColumn(qe.View.PartitionedMain[v.PartIndex], v.Index, v.Offset))
	case EntryPublic:
		return ValExpr(vfield.Broadcast(qe.Lanes, qe.View.PublicValues[v.Index]))
	case EntryPermutation:
		return ChallengeExpr(qe.packExtColumn(qe.View.ExtendedMatrix, v.Index, v.Offset))
	case EntryChallenge:
		return ChallengeExpr(vfield.BroadcastEF(qe.Lanes, qe.View.Challenges[v.Index]))
	case EntryExposed:
		return ChallengeExpr(vfield.BroadcastEF(qe.Lanes, qe.View.ExposedValues[v.Index]))
	default:
		return ValExpr(vfield.NewPF(qe.Lanes))
	}
}

func (qe *QuotientEvaluator) Add(a, b PackedExpr) PackedExpr { return a.Add(b) }
func (qe *QuotientEvaluator) Sub(a, b PackedExpr) PackedExpr { return a.Sub(b) }
func (qe *QuotientEvaluator) Neg(a PackedExpr) PackedExpr    { return a.Neg() }
func (qe *QuotientEvaluator) Mul(a, b PackedExpr) PackedExpr { return a.Mul(b) }

// EvaluateCoset computes the quotient-polynomial value at every row of one
// coset: for each row batch, it folds the DAG's constraints through
// alphaPowers (FoldConstraints) and then multiplies by the vanishing
// polynomial's inverse at that row (qe.Selectors.InvZeroifier), writing the
// resulting extension-field scalars into a freshly allocated slice of
// length traceSize.
func (qe *QuotientEvaluator) EvaluateCoset(d *DAG, traceSize int, alphaPowers []vfield.EF) ([]vfield.EF, error) {
	if err := qe.Scan(d); err != nil {
		return nil, err
	}
	if qe.Selectors == nil || qe.Selectors.Len() != traceSize {
		return nil, newErr(ErrCapacity, "selectors length does not match trace size %d", traceSize)
	}
	out := make([]vfield.EF, traceSize)
	buf := make([]PackedExpr, len(d.Nodes))
	for start := 0; start < traceSize; start += qe.Lanes {
		lanes := qe.Lanes
		if start+lanes > traceSize {
			lanes = traceSize - start
		}
		batch := qe.forBatch(start, lanes)

		packedAlpha := make([]PackedExpr, len(alphaPowers))
		for i, a := range alphaPowers {
			packedAlpha[i] = ChallengeExpr(vfield.BroadcastEF(lanes, a))
		}

		acc, err := FoldConstraints(d, batch, buf[:len(d.Nodes)], packedAlpha)
		if err != nil {
			return nil, err
		}
		invZ := ValExpr(vfield.PF(qe.Selectors.InvZeroifier[start : start+lanes]))
		quotient := acc.Mul(invZ).AsExt()
		copy(out[start:start+lanes], quotient)
	}
	return out, nil
}
