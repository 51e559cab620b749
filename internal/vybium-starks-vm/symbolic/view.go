package symbolic

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
)

// ColumnSource is a read-only row-major base-field matrix view. Both a
// materialized Matrix and a zero-copy Strided re-indexing of one implement
// it, matching the PCS's get_evaluations_on_domain contract (spec §6): the
// quotient evaluator never cares whether it is looking at an owned buffer
// or a strided view of one.
type ColumnSource interface {
	Width() int
	Height() int
	At(row, col int) field.Element
}

// Matrix is a dense, owned, row-major base-field matrix.
type Matrix struct {
	W, H int
	Data []field.Element
}

// NewMatrix allocates a zero-filled h x w matrix.
func NewMatrix(h, w int) *Matrix {
	return &Matrix{W: w, H: h, Data: make([]field.Element, h*w)}
}

func (m *Matrix) Width() int  { return m.W }
func (m *Matrix) Height() int { return m.H }
func (m *Matrix) At(row, col int) field.Element { return m.Data[row*m.W+col] }
func (m *Matrix) Set(row, col int, v field.Element) { m.Data[row*m.W+col] = v }

// Strided is a zero-copy view selecting every Stride-th row of Base,
// starting at Offset, wrapping modulo Base's height. The quotient committer
// uses it to present one coset of a quotient-domain LDE matrix as if it
// were its own dense trace_size-row matrix (spec §4.4 step 3).
type Strided struct {
	Base          ColumnSource
	Offset        int
	Stride        int
	Count         int
}

func (s *Strided) Width() int  { return s.Base.Width() }
func (s *Strided) Height() int { return s.Count }
func (s *Strided) At(row, col int) field.Element {
	return s.Base.At((s.Offset+row*s.Stride)%s.Base.Height(), col)
}

// ExtColumnSource is the extension-field analogue of ColumnSource, used for
// the after-challenge (RAP) trace.
type ExtColumnSource interface {
	Width() int
	Height() int
	At(row, col int) vfield.EF
}

// ExtMatrix is a dense, owned, row-major extension-field matrix.
type ExtMatrix struct {
	W, H int
	Data []vfield.EF
}

func NewExtMatrix(h, w int) *ExtMatrix {
	return &ExtMatrix{W: w, H: h, Data: make([]vfield.EF, h*w)}
}

func (m *ExtMatrix) Width() int  { return m.W }
func (m *ExtMatrix) Height() int { return m.H }
func (m *ExtMatrix) At(row, col int) vfield.EF { return m.Data[row*m.W+col] }
func (m *ExtMatrix) Set(row, col int, v vfield.EF) { m.Data[row*m.W+col] = v }

// ExtStrided is the extension-field analogue of Strided.
type ExtStrided struct {
	Base   ExtColumnSource
	Offset int
	Stride int
	Count  int
}

func (s *ExtStrided) Width() int  { return s.Base.Width() }
func (s *ExtStrided) Height() int { return s.Count }
func (s *ExtStrided) At(row, col int) vfield.EF {
	return s.Base.At((s.Offset+row*s.Stride)%s.Base.Height(), col)
}

// PairView bundles one AIR's LDE matrices for quotient evaluation, extended
// to (at least) the quotient domain's size (spec §3).
type PairView struct {
	LogTraceHeight  int
	Preprocessed    ColumnSource // nil if the AIR has no preprocessed trace
	PartitionedMain []ColumnSource
	PublicValues    []field.Element
}

// RapView adds the per-challenge-phase data to a PairView. Only a single
// challenge phase is modeled (spec §9's open question): ExtendedMatrix,
// Challenges and ExposedValues are all for phase 0.
type RapView struct {
	PairView
	ExtendedMatrix ExtColumnSource // nil if no challenge phase was configured
	Challenges     []vfield.EF
	ExposedValues  []vfield.EF
}

// Selectors holds the quotient-domain selector vectors for one coset,
// aligned so that index i is the coset-local row i. All four vectors must
// have equal length (the coset's row count).
type Selectors struct {
	IsFirstRow   []field.Element
	IsLastRow    []field.Element
	IsTransition []field.Element
	InvZeroifier []field.Element
}

// Len returns the common vector length, or -1 if the vectors disagree.
func (s *Selectors) Len() int {
	n := len(s.IsFirstRow)
	if len(s.IsLastRow) != n || len(s.IsTransition) != n || len(s.InvZeroifier) != n {
		return -1
	}
	return n
}
