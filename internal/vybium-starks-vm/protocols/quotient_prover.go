package protocols

import (
	"context"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/air"
	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/keygen"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/pcs"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/symbolic"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/utils"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/view"
)

// quotientDomainOffset shifts the quotient domain off the trace domain's
// subgroup so a coset's InvZeroifier never needs to divide by zero.
// field/extension.go already treats 7 as this field's standard non-residue
// generator; reusing it here keeps a single "magic constant" in the stack
// instead of inventing a second one.
var quotientDomainOffset = field.New(7)

// AIRWitness is one AIR's concrete main-trace witness: the column-major
// trace data keygen built a DAG for, plus (for AIRs with a log-up phase)
// the challenge-independent "val" column ComputeLogUpExtension consumes
// once the RAP challenge is sampled.
type AIRWitness struct {
	Entry        keygen.AIREntry
	MainColumns  [][]field.Element
	LogUpValCol  []field.Element
	PublicValues []field.Element
}

// QuotientProof bundles everything an orchestration run produced: the
// transcript commitments in the order they were observed, and the sampled
// challenges a verifier must recompute by re-observing the same
// commitments in the same order.
type QuotientProof struct {
	MainRoots     [][]byte
	ExtRoots      [][]byte
	Alpha         vfield.EF
	QuotientRoot  []byte
	Zeta          vfield.EF
	ExposedValues [][]vfield.EF
}

// QuotientProver orchestrates the commit/sample/commit sequence: commit
// every AIR's main trace, sample one RAP challenge per challenge-needing
// AIR, commit its log-up extension, sample a shared alpha, commit the
// combined quotient, sample zeta (spec §4.11's ordering).
type QuotientProver struct {
	Channel *utils.Channel
	PCS     *pcs.Scheme
	Lanes   int
}

// NewQuotientProver returns a prover driving channel for randomness and
// pcsScheme for every commitment, packing lanes rows per quotient batch.
func NewQuotientProver(channel *utils.Channel, pcsScheme *pcs.Scheme, lanes int) *QuotientProver {
	return &QuotientProver{Channel: channel, PCS: pcsScheme, Lanes: lanes}
}

// Prove runs the full sequence over every AIR's witness and returns the
// resulting proof. AIRWitness entries are processed in the caller's order;
// that order is also the combined commitment's AIR ordering (spec §5).
func (p *QuotientProver) Prove(ctx context.Context, witnesses []AIRWitness) (*QuotientProof, error) {
	if len(witnesses) == 0 {
		return nil, fmt.Errorf("protocols: at least one AIR witness is required")
	}

	mainViews := make([]*symbolic.PairView, len(witnesses))
	mainRoots := make([][]byte, len(witnesses))
	traceSizes := make([]int, len(witnesses))

	for i, w := range witnesses {
		pv, err := view.BuildPairView(view.PairViewInput{
			PartitionedMain: [][][]field.Element{w.MainColumns},
			PublicValues:    w.PublicValues,
		})
		if err != nil {
			return nil, fmt.Errorf("protocols: AIR %d (%s) main view: %w", i, w.Entry.Layout.Name, err)
		}
		mainViews[i] = pv
		traceSizes[i] = 1 << uint(pv.LogTraceHeight)

		commitment, err := p.commitColumns(w.MainColumns)
		if err != nil {
			return nil, fmt.Errorf("protocols: AIR %d (%s) main commit: %w", i, w.Entry.Layout.Name, err)
		}
		mainRoots[i] = commitment.Root()
		if err := p.Channel.Observe(commitment.Root()); err != nil {
			return nil, fmt.Errorf("protocols: observing AIR %d main root: %w", i, err)
		}
	}

	rapViews := make([]*symbolic.RapView, len(witnesses))
	extRoots := make([][]byte, len(witnesses))
	exposed := make([][]vfield.EF, len(witnesses))

	for i, w := range witnesses {
		if w.Entry.Layout.ChallengeCount == 0 {
			rapViews[i] = &symbolic.RapView{PairView: *mainViews[i]}
			continue
		}
		if w.Entry.Layout.ChallengeCount != 1 {
			return nil, fmt.Errorf("protocols: AIR %d (%s): only a single challenge phase is supported", i, w.Entry.Layout.Name)
		}

		challenge := p.Channel.SampleExtElement()
		ext, exposedVals, err := air.ComputeLogUpExtension(w.LogUpValCol, challenge)
		if err != nil {
			return nil, fmt.Errorf("protocols: AIR %d (%s) log-up extension: %w", i, w.Entry.Layout.Name, err)
		}
		rv, err := view.BuildRapView(view.RapViewInput{
			Pair: view.PairViewInput{
				PartitionedMain: [][][]field.Element{w.MainColumns},
				PublicValues:    w.PublicValues,
			},
			Extended:      ext,
			Challenges:    []vfield.EF{challenge},
			ExposedValues: exposedVals,
		})
		if err != nil {
			return nil, fmt.Errorf("protocols: AIR %d (%s) rap view: %w", i, w.Entry.Layout.Name, err)
		}
		rapViews[i] = rv
		exposed[i] = exposedVals

		chunks := make([]*symbolic.Matrix, len(ext))
		for j, col := range ext {
			chunks[j] = symbolic.ChunkFromExtColumn(col)
		}
		commitment, err := p.PCS.Commit(chunks)
		if err != nil {
			return nil, fmt.Errorf("protocols: AIR %d (%s) extension commit: %w", i, w.Entry.Layout.Name, err)
		}
		extRoots[i] = commitment.Root()
		if err := p.Channel.Observe(commitment.Root()); err != nil {
			return nil, fmt.Errorf("protocols: observing AIR %d extension root: %w", i, err)
		}
	}

	alpha := p.Channel.SampleExtElement()

	quotientAIRs := make([]symbolic.QuotientAIR, len(witnesses))
	for i, w := range witnesses {
		n := w.Entry.DAG.NumConstraints()
		alphaPowers := make([]vfield.EF, n)
		cur := vfield.OneEF
		for j := 0; j < n; j++ {
			alphaPowers[n-1-j] = cur
			cur = cur.Mul(alpha)
		}

		quotientView, selectors, err := extendToQuotientDomain(rapViews[i], traceSizes[i], w.Entry.QuotientDegree)
		if err != nil {
			return nil, fmt.Errorf("protocols: AIR %d (%s) quotient-domain extension: %w", i, w.Entry.Layout.Name, err)
		}

		quotientAIRs[i] = symbolic.QuotientAIR{
			DAG:            w.Entry.DAG,
			TraceSize:      traceSizes[i],
			QuotientDegree: w.Entry.QuotientDegree,
			View:           quotientView,
			AlphaPowers:    alphaPowers,
			Selectors:      selectors,
		}
	}

	committer := symbolic.NewQuotientCommitter(p.lanesOrDefault())
	quotientCommitment, _, err := committer.CommitQuotient(ctx, quotientAIRs, p.PCS)
	if err != nil {
		return nil, fmt.Errorf("protocols: commit quotient: %w", err)
	}
	if err := p.Channel.Observe(quotientCommitment.Root()); err != nil {
		return nil, fmt.Errorf("protocols: observing quotient root: %w", err)
	}

	zeta := p.Channel.SampleExtElement()

	return &QuotientProof{
		MainRoots:     mainRoots,
		ExtRoots:      extRoots,
		Alpha:         alpha,
		QuotientRoot:  quotientCommitment.Root(),
		Zeta:          zeta,
		ExposedValues: exposed,
	}, nil
}

func (p *QuotientProver) lanesOrDefault() int {
	if p.Lanes <= 0 {
		return 4
	}
	return p.Lanes
}

func (p *QuotientProver) commitColumns(cols [][]field.Element) (symbolic.PCSCommitment, error) {
	m, err := view.MatrixFromColumns(cols)
	if err != nil {
		return nil, err
	}
	return p.PCS.Commit([]*symbolic.Matrix{m})
}

// log2Int returns the base-2 logarithm of a power-of-two n.
func log2Int(n int) int {
	l := 0
	for (1 << l) < n {
		l++
	}
	return l
}

// lowDegreeExtendColumn interpolates col (evaluations on traceDomain) and
// evaluates the resulting polynomial on quotientDomain, the same
// interpolate-then-evaluate move master_table.go's interpolateColumn and
// LowDegreeExtend perform against the FRI domain, here targeting the
// (much smaller) quotient domain instead.
func lowDegreeExtendColumn(col []field.Element, traceDomain, quotientDomain *ArithmeticDomain) ([]field.Element, error) {
	domainPoints := traceDomain.Elements()
	if len(col) != len(domainPoints) {
		return nil, fmt.Errorf("column length %d does not match trace domain length %d", len(col), len(domainPoints))
	}
	points := make([][2]field.Element, len(col))
	for i, x := range domainPoints {
		points[i] = [2]field.Element{x, col[i]}
	}
	poly := polynomial.Interpolate(points)
	return quotientDomain.Evaluate(poly)
}

// lowDegreeExtendExtColumn is lowDegreeExtendColumn's extension-field
// analogue: EF is a degree-4 vector space over the base field, so
// interpolation and evaluation (both linear in the column's values over a
// fixed set of base-field domain points) commute with taking the column
// apart into its four coordinate columns and stitching the result back
// together.
func lowDegreeExtendExtColumn(col []vfield.EF, traceDomain, quotientDomain *ArithmeticDomain) ([]vfield.EF, error) {
	n := len(col)
	coordCols := make([][]field.Element, vfield.Degree)
	for d := 0; d < vfield.Degree; d++ {
		coordCols[d] = make([]field.Element, n)
		for i, v := range col {
			coordCols[d][i] = v[d]
		}
	}
	extended := make([][]field.Element, vfield.Degree)
	for d, c := range coordCols {
		e, err := lowDegreeExtendColumn(c, traceDomain, quotientDomain)
		if err != nil {
			return nil, err
		}
		extended[d] = e
	}
	out := make([]vfield.EF, quotientDomain.Length)
	for i := range out {
		for d := 0; d < vfield.Degree; d++ {
			out[i][d] = extended[d][i]
		}
	}
	return out, nil
}

// extendToQuotientDomain low-degree-extends every column of a trace-sized
// RapView out to the quotient domain (TraceSize * QuotientDegree rows),
// the shape symbolic.QuotientAIR.View requires, and builds one Selectors
// per coset, including the real per-coset InvZeroifier (see below).
func extendToQuotientDomain(rv *symbolic.RapView, traceSize, quotientDegree int) (*symbolic.RapView, []*symbolic.Selectors, error) {
	if quotientDegree <= 0 {
		return nil, nil, fmt.Errorf("non-positive quotient degree %d", quotientDegree)
	}
	traceDomain, err := NewArithmeticDomain(traceSize)
	if err != nil {
		return nil, nil, fmt.Errorf("trace domain: %w", err)
	}
	quotientLen := traceSize * quotientDegree
	quotientDomain, err := NewArithmeticDomain(quotientLen)
	if err != nil {
		return nil, nil, fmt.Errorf("quotient domain: %w", err)
	}
	quotientDomain = quotientDomain.WithOffset(quotientDomainOffset)

	extendMain := func(src symbolic.ColumnSource) (*symbolic.Matrix, error) {
		width := src.Width()
		out := symbolic.NewMatrix(quotientLen, width)
		for c := 0; c < width; c++ {
			col := make([]field.Element, traceSize)
			for r := 0; r < traceSize; r++ {
				col[r] = src.At(r, c)
			}
			extended, err := lowDegreeExtendColumn(col, traceDomain, quotientDomain)
			if err != nil {
				return nil, err
			}
			for r, v := range extended {
				out.Set(r, c, v)
			}
		}
		return out, nil
	}

	out := &symbolic.RapView{
		PairView: symbolic.PairView{
			LogTraceHeight: log2Int(quotientLen),
			PublicValues:   rv.PublicValues,
		},
		Challenges:    rv.Challenges,
		ExposedValues: rv.ExposedValues,
	}

	if rv.Preprocessed != nil {
		pp, err := extendMain(rv.Preprocessed)
		if err != nil {
			return nil, nil, fmt.Errorf("preprocessed: %w", err)
		}
		out.Preprocessed = pp
	}

	out.PartitionedMain = make([]symbolic.ColumnSource, len(rv.PartitionedMain))
	for i, part := range rv.PartitionedMain {
		m, err := extendMain(part)
		if err != nil {
			return nil, nil, fmt.Errorf("partition %d: %w", i, err)
		}
		out.PartitionedMain[i] = m
	}

	if rv.ExtendedMatrix != nil {
		width := rv.ExtendedMatrix.Width()
		em := symbolic.NewExtMatrix(quotientLen, width)
		for c := 0; c < width; c++ {
			col := make([]vfield.EF, traceSize)
			for r := 0; r < traceSize; r++ {
				col[r] = rv.ExtendedMatrix.At(r, c)
			}
			extended, err := lowDegreeExtendExtColumn(col, traceDomain, quotientDomain)
			if err != nil {
				return nil, nil, fmt.Errorf("extended trace: %w", err)
			}
			for r, v := range extended {
				em.Set(r, c, v)
			}
		}
		out.ExtendedMatrix = em
	}

	// The trace domain's vanishing polynomial Z_H(x) = x^traceSize - 1 is
	// constant across any single quotient-domain coset: a coset-c point is
	// offset_Q * g_Q^c * g_T^i for i = 0..traceSize-1, where g_T = g_Q^quotientDegree
	// has order traceSize, so raising it to the traceSize power kills the
	// row-dependent g_T^i factor entirely. That leaves
	// z_c = offset_Q^traceSize * (g_Q^traceSize)^c - 1, a single scalar per
	// coset, which is all InvZeroifier needs to hold (repeated traceSize times).
	offsetPow := fieldPow(quotientDomain.Offset, traceSize)
	h := fieldPow(quotientDomain.Generator, traceSize)
	selectors := make([]*symbolic.Selectors, quotientDegree)
	for c := range selectors {
		zc := offsetPow.Mul(fieldPow(h, c)).Sub(field.One)
		selectors[c] = cosetSelectors(traceSize, zc.Inverse())
	}

	return out, selectors, nil
}

// fieldPow returns x^n by repeated squaring, for non-negative n.
func fieldPow(x field.Element, n int) field.Element {
	result := field.One
	base := x
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	return result
}

// cosetSelectors builds one coset's row indicators (row 0, row
// traceSize-1, all rows but the last) together with its InvZeroifier: the
// vanishing polynomial's reciprocal is the same scalar invZ at every row of
// a coset, per extendToQuotientDomain's derivation above.
func cosetSelectors(traceSize int, invZ field.Element) *symbolic.Selectors {
	isFirst := make([]field.Element, traceSize)
	isFirst[0] = field.One
	isLast := make([]field.Element, traceSize)
	isLast[traceSize-1] = field.One
	isTransition := make([]field.Element, traceSize)
	invZeroifier := make([]field.Element, traceSize)
	for i := 0; i < traceSize; i++ {
		invZeroifier[i] = invZ
		if i < traceSize-1 {
			isTransition[i] = field.One
		}
	}
	return &symbolic.Selectors{
		IsFirstRow:   isFirst,
		IsLastRow:    isLast,
		IsTransition: isTransition,
		InvZeroifier: invZeroifier,
	}
}
