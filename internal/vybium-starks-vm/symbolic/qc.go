package symbolic

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
)

// PCS is the polynomial commitment scheme's external interface as consumed
// by the quotient committer (spec §6): a single black-box commitment over
// every AIR's every coset's quotient chunk. Its implementation (Merkle
// commit + opening) lives outside this package entirely.
type PCS interface {
	Commit(chunks []*Matrix) (PCSCommitment, error)
}

// PCSCommitment is the opaque handle a PCS.Commit call returns.
type PCSCommitment interface {
	Root() []byte
}

// QuotientAIR bundles one AIR's DAG with the data the committer needs to
// evaluate its quotient over every coset of its quotient domain: View's
// matrices span the *full* quotient domain (TraceSize * QuotientDegree
// rows); Selectors[c] holds the length-TraceSize selector vectors local to
// coset c (spec §4.4).
type QuotientAIR struct {
	DAG            *DAG
	TraceSize      int
	QuotientDegree int
	View           *RapView
	AlphaPowers    []vfield.EF
	Selectors      []*Selectors
}

type quotientBatch struct {
	airIdx, coset int
}

// QuotientCommitter evaluates a batch of AIRs' quotient polynomials and
// commits the result as a single combined PCS commitment.
type QuotientCommitter struct {
	Lanes int
}

// NewQuotientCommitter returns a committer that packs Lanes rows per batch.
func NewQuotientCommitter(lanes int) *QuotientCommitter {
	return &QuotientCommitter{Lanes: lanes}
}

// EvaluateAll computes, for every AIR and every one of its quotient_degree
// cosets, that coset's length-TraceSize column of extension-field quotient
// values. Work is claimed at (air, coset) granularity through an atomic
// cursor advanced by every goroutine via CAS-free Add — a work-stealing
// split, not a fixed or remainder-in-last-chunk division — so that a cheap
// AIR or coset never leaves other goroutines idle while a more expensive
// one is still running.
func (qc *QuotientCommitter) EvaluateAll(ctx context.Context, airs []QuotientAIR) ([][][]vfield.EF, error) {
	var units []quotientBatch
	for i, a := range airs {
		for c := 0; c < a.QuotientDegree; c++ {
			units = append(units, quotientBatch{airIdx: i, coset: c})
		}
	}
	results := make([][][]vfield.EF, len(airs))
	for i, a := range airs {
		results[i] = make([][]vfield.EF, a.QuotientDegree)
	}
	if len(units) == 0 {
		return results, nil
	}

	var cursor int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < qc.workerCount(len(units)); w++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				idx := atomic.AddInt64(&cursor, 1) - 1
				if idx >= int64(len(units)) {
					return nil
				}
				u := units[idx]
				a := airs[u.airIdx]
				view := stridedRapView(a.View, u.coset, a.QuotientDegree, a.TraceSize)
				qe := NewQuotientEvaluator(qc.Lanes, view, a.Selectors[u.coset])
				col, err := qe.EvaluateCoset(a.DAG, a.TraceSize, a.AlphaPowers)
				if err != nil {
					return err
				}
				results[u.airIdx][u.coset] = col
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (qc *QuotientCommitter) workerCount(units int) int {
	w := runtime.GOMAXPROCS(0)
	if w > units {
		w = units
	}
	if w < 1 {
		w = 1
	}
	return w
}

// stridedRapView wraps view's matrices in coset-c, stride-quotientDegree
// views so that they present as a dense TraceSize-row RapView, matching
// "the coset-c evaluations are the stride-quotient_degree subsequence of
// the flat quotient-domain evaluations starting at offset c" (spec §4.4) —
// but expressed as a zero-copy read, never a materialized copy.
func stridedRapView(view *RapView, coset, quotientDegree, traceSize int) *RapView {
	out := &RapView{
		PairView: PairView{
			LogTraceHeight: view.LogTraceHeight,
			PublicValues:   view.PublicValues,
		},
		Challenges:    view.Challenges,
		ExposedValues: view.ExposedValues,
	}
	if view.Preprocessed != nil {
		out.Preprocessed = &Strided{Base: view.Preprocessed, Offset: coset, Stride: quotientDegree, Count: traceSize}
	}
	out.PartitionedMain = make([]ColumnSource, len(view.PartitionedMain))
	for i, m := range view.PartitionedMain {
		out.PartitionedMain[i] = &Strided{Base: m, Offset: coset, Stride: quotientDegree, Count: traceSize}
	}
	if view.ExtendedMatrix != nil {
		out.ExtendedMatrix = &ExtStrided{Base: view.ExtendedMatrix, Offset: coset, Stride: quotientDegree, Count: traceSize}
	}
	return out
}

// ChunkFromExtColumn copies a length-n extension-field column into a new
// n x Degree base-field matrix, one row per scalar and one column per EF
// coordinate (spec §3's PCS-chunking precondition) — this
// is how an after-division quotient column becomes something the PCS's
// base-field-oriented commit can absorb.
func ChunkFromExtColumn(col []vfield.EF) *Matrix {
	m := NewMatrix(len(col), vfield.Degree)
	for i, v := range col {
		for d := 0; d < vfield.Degree; d++ {
			m.Set(i, d, v[d])
		}
	}
	return m
}

// CommitQuotient evaluates every AIR's quotient over every coset and
// commits the resulting chunks to pcs as a single combined commitment: one
// chunk per (AIR, coset) pair, in AIR-major, coset-minor order.
func (qc *QuotientCommitter) CommitQuotient(ctx context.Context, airs []QuotientAIR, pcs PCS) (PCSCommitment, [][][]vfield.EF, error) {
	results, err := qc.EvaluateAll(ctx, airs)
	if err != nil {
		return nil, nil, err
	}
	var chunks []*Matrix
	for _, perAIR := range results {
		for _, col := range perAIR {
			chunks = append(chunks, ChunkFromExtColumn(col))
		}
	}
	commitment, err := pcs.Commit(chunks)
	if err != nil {
		return nil, nil, err
	}
	return commitment, results, nil
}
