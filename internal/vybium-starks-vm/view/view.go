// Package view adapts concrete execution-trace data into the
// symbolic.PairView/RapView shapes the quotient evaluator consumes.
//
// Following master_table.go's ExecutionTrace boundary, this package never
// imports vm: it accepts plain column-major [][]field.Element /
// [][]vfield.EF slices (or anything satisfying TraceSource below) and wraps
// them into symbolic.Matrix / symbolic.ExtMatrix, the same way MasterTable
// turns an AET into traceColumns before handing them to the quotient
// computation.
package view

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/symbolic"
)

// TraceSource mirrors protocols.ExecutionTrace so a view can be built
// directly from an AET-like object without importing vm or protocols.
type TraceSource interface {
	GetPaddedHeight() int
	GetTraceColumns() ([][]field.Element, error)
}

func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

func log2(n int) int {
	l := 0
	for (1 << l) < n {
		l++
	}
	return l
}

// MatrixFromColumns builds a dense symbolic.Matrix from column-major data
// (cols[c][row], matching traceColumns' layout in master_table.go). All
// columns must share the same height.
func MatrixFromColumns(cols [][]field.Element) (*symbolic.Matrix, error) {
	if len(cols) == 0 {
		return symbolic.NewMatrix(0, 0), nil
	}
	h := len(cols[0])
	for i, c := range cols {
		if len(c) != h {
			return nil, fmt.Errorf("view: column %d has height %d, want %d", i, len(c), h)
		}
	}
	m := symbolic.NewMatrix(h, len(cols))
	for c, col := range cols {
		for row, v := range col {
			m.Set(row, c, v)
		}
	}
	return m, nil
}

// ExtMatrixFromColumns is MatrixFromColumns' extension-field analogue, used
// for the after-challenge (RAP) columns.
func ExtMatrixFromColumns(cols [][]vfield.EF) (*symbolic.ExtMatrix, error) {
	if len(cols) == 0 {
		return symbolic.NewExtMatrix(0, 0), nil
	}
	h := len(cols[0])
	for i, c := range cols {
		if len(c) != h {
			return nil, fmt.Errorf("view: extension column %d has height %d, want %d", i, len(c), h)
		}
	}
	m := symbolic.NewExtMatrix(h, len(cols))
	for c, col := range cols {
		for row, v := range col {
			m.Set(row, c, v)
		}
	}
	return m, nil
}

// PairViewInput is the column-major data needed to build a PairView: one
// optional preprocessed trace and one or more partitioned main-trace
// segments (spec §3 allows an AIR's main trace to be split into several
// partitions, e.g. a before-challenge and padding-only partition).
type PairViewInput struct {
	Preprocessed    [][]field.Element
	PartitionedMain [][][]field.Element
	PublicValues    []field.Element
}

// BuildPairView turns PairViewInput into a symbolic.PairView, checking that
// every partition (and the preprocessed trace, if present) shares a common
// power-of-two height.
func BuildPairView(in PairViewInput) (*symbolic.PairView, error) {
	if len(in.PartitionedMain) == 0 {
		return nil, fmt.Errorf("view: at least one main-trace partition is required")
	}

	partitions := make([]symbolic.ColumnSource, len(in.PartitionedMain))
	height := -1
	for i, cols := range in.PartitionedMain {
		m, err := MatrixFromColumns(cols)
		if err != nil {
			return nil, fmt.Errorf("view: partition %d: %w", i, err)
		}
		if height == -1 {
			height = m.Height()
		} else if m.Height() != height {
			return nil, fmt.Errorf("view: partition %d has height %d, want %d", i, m.Height(), height)
		}
		partitions[i] = m
	}
	if !isPowerOfTwo(height) {
		return nil, fmt.Errorf("view: trace height %d is not a power of two", height)
	}

	var preprocessed symbolic.ColumnSource
	if len(in.Preprocessed) > 0 {
		pm, err := MatrixFromColumns(in.Preprocessed)
		if err != nil {
			return nil, fmt.Errorf("view: preprocessed trace: %w", err)
		}
		if pm.Height() != height {
			return nil, fmt.Errorf("view: preprocessed trace has height %d, want %d", pm.Height(), height)
		}
		preprocessed = pm
	}

	return &symbolic.PairView{
		LogTraceHeight:  log2(height),
		Preprocessed:    preprocessed,
		PartitionedMain: partitions,
		PublicValues:    in.PublicValues,
	}, nil
}

// BuildPairViewFromSource adapts a TraceSource (e.g. an AET) into a single
// unpartitioned PairView, matching master_table.go's extractTraceColumns.
func BuildPairViewFromSource(src TraceSource, publicValues []field.Element) (*symbolic.PairView, error) {
	cols, err := src.GetTraceColumns()
	if err != nil {
		return nil, fmt.Errorf("view: GetTraceColumns: %w", err)
	}
	if len(cols) > 0 && len(cols[0]) != src.GetPaddedHeight() {
		return nil, fmt.Errorf("view: trace column height %d does not match padded height %d",
			len(cols[0]), src.GetPaddedHeight())
	}
	return BuildPairView(PairViewInput{
		PartitionedMain: [][][]field.Element{cols},
		PublicValues:    publicValues,
	})
}

// RapViewInput extends PairViewInput with the after-challenge data from the
// log-up phase (air.NewLogUpAIR and friends).
type RapViewInput struct {
	Pair          PairViewInput
	Extended      [][]vfield.EF
	Challenges    []vfield.EF
	ExposedValues []vfield.EF
}

// BuildRapView builds a PairView via BuildPairView and attaches the
// after-challenge extended trace, requiring it to share the base trace's
// height.
func BuildRapView(in RapViewInput) (*symbolic.RapView, error) {
	pair, err := BuildPairView(in.Pair)
	if err != nil {
		return nil, err
	}

	var extended symbolic.ExtColumnSource
	if len(in.Extended) > 0 {
		em, err := ExtMatrixFromColumns(in.Extended)
		if err != nil {
			return nil, fmt.Errorf("view: extended trace: %w", err)
		}
		if em.Height() != (1 << uint(pair.LogTraceHeight)) {
			return nil, fmt.Errorf("view: extended trace has height %d, want %d", em.Height(), 1<<uint(pair.LogTraceHeight))
		}
		extended = em
	}

	return &symbolic.RapView{
		PairView:       *pair,
		ExtendedMatrix: extended,
		Challenges:     in.Challenges,
		ExposedValues:  in.ExposedValues,
	}, nil
}
