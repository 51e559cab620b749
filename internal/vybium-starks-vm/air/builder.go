// Package air builds one AIR's constraints as symbolic expression trees:
// every constraint is built once, as a *symbolic.Expr, and fed through
// symbolic.BuildDAG rather than evaluated by a per-row Go closure, so the
// quotient evaluator can share one compiled DAG across every coset instead
// of re-walking a constraint closure per row.
package air

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/symbolic"
)

// Builder accumulates one AIR's constraints as shared-reference expression
// trees and its column layout, then produces the symbolic.DAG that keygen
// persists and the quotient evaluator consumes.
type Builder struct {
	name string

	width              int // main trace column count (single partition)
	preprocessedWidth  int
	publicValueCount   int
	permutationWidth   int // after-challenge (RAP) column count
	challengeCount     int
	exposedValueCount  int

	constraints []*symbolic.Expr
}

// NewBuilder starts a Builder for an AIR with the given name and main trace
// width. Additional witness tables (preprocessed columns, public values, a
// challenge phase) are declared with the With* methods below before any
// constraint is added, mirroring how protocols.NewAIRConstraints is
// configured before constraints are attached.
func NewBuilder(name string, width int) *Builder {
	return &Builder{name: name, width: width}
}

// WithPreprocessed declares a preprocessed trace of the given width.
func (b *Builder) WithPreprocessed(width int) *Builder {
	b.preprocessedWidth = width
	return b
}

// WithPublicValues declares the count of public values the AIR reads.
func (b *Builder) WithPublicValues(count int) *Builder {
	b.publicValueCount = count
	return b
}

// WithLogUp declares a single after-challenge phase of the given
// permutation-column width, challenge count and exposed-value count — the
// log-up permutation argument's RAP extension (spec §4.12/§9).
func (b *Builder) WithLogUp(permutationWidth, challengeCount, exposedValueCount int) *Builder {
	b.permutationWidth = permutationWidth
	b.challengeCount = challengeCount
	b.exposedValueCount = exposedValueCount
	return b
}

// Local returns an expression referencing column i of the local row of the
// main trace.
func (b *Builder) Local(i int) *symbolic.Expr { return symbolic.NewVar(symbolic.Main(0, 0, i)) }

// Next returns an expression referencing column i of the next row of the
// main trace.
func (b *Builder) Next(i int) *symbolic.Expr { return symbolic.NewVar(symbolic.Main(0, 1, i)) }

// Preprocessed returns an expression referencing column i of the local row
// of the preprocessed trace.
func (b *Builder) Preprocessed(i int) *symbolic.Expr {
	return symbolic.NewVar(symbolic.Preprocessed(0, i))
}

// Public returns an expression referencing public value i.
func (b *Builder) Public(i int) *symbolic.Expr { return symbolic.NewVar(symbolic.Public(i)) }

// Perm returns an expression referencing column i of the local row of the
// after-challenge trace.
func (b *Builder) Perm(i int) *symbolic.Expr {
	return symbolic.NewVar(symbolic.Permutation(0, i))
}

// PermNext returns an expression referencing column i of the next row of
// the after-challenge trace.
func (b *Builder) PermNext(i int) *symbolic.Expr {
	return symbolic.NewVar(symbolic.Permutation(1, i))
}

// Challenge returns an expression referencing sampled challenge i.
func (b *Builder) Challenge(i int) *symbolic.Expr { return symbolic.NewVar(symbolic.Challenge(i)) }

// Exposed returns an expression referencing exposed value i.
func (b *Builder) Exposed(i int) *symbolic.Expr { return symbolic.NewVar(symbolic.Exposed(i)) }

// Const returns a constant expression.
func (b *Builder) Const(c field.Element) *symbolic.Expr { return symbolic.NewConst(c) }

// IsFirstRow, IsLastRow and IsTransition mirror the package-level
// symbolic selector constructors, exposed here so AIR definitions only
// need to import this package.
func (b *Builder) IsFirstRow() *symbolic.Expr   { return symbolic.IsFirstRow() }
func (b *Builder) IsLastRow() *symbolic.Expr    { return symbolic.IsLastRow() }
func (b *Builder) IsTransition() *symbolic.Expr { return symbolic.IsTransition() }

// AddInitialConstraint adds a constraint enforced only on the first row:
// expr must vanish there. It is encoded as IsFirstRow() * expr so the same
// DAG node is evaluated uniformly over every row of the quotient domain and
// need not be special-cased by row index at evaluation time — exactly how
// protocols.AIRConstraints keeps initial/terminal constraints distinct from
// consistency constraints, but expressed as an algebraic factor instead of
// an index check.
func (b *Builder) AddInitialConstraint(expr *symbolic.Expr) {
	b.constraints = append(b.constraints, b.IsFirstRow().Mul(expr))
}

// AddTerminalConstraint adds a constraint enforced only on the last row.
func (b *Builder) AddTerminalConstraint(expr *symbolic.Expr) {
	b.constraints = append(b.constraints, b.IsLastRow().Mul(expr))
}

// AddConsistencyConstraint adds a constraint enforced on every row.
func (b *Builder) AddConsistencyConstraint(expr *symbolic.Expr) {
	b.constraints = append(b.constraints, expr)
}

// AddTransitionConstraint adds a constraint enforced on every row but the
// last (it references the next row, gated by IsTransition()).
func (b *Builder) AddTransitionConstraint(expr *symbolic.Expr) {
	b.constraints = append(b.constraints, b.IsTransition().Mul(expr))
}

// Layout describes the column/value counts the verifier and the quotient
// evaluator need to size their views, separate from the DAG itself.
type Layout struct {
	Name               string
	Width              int
	PreprocessedWidth  int
	PublicValueCount   int
	PermutationWidth   int
	ChallengeCount     int
	ExposedValueCount  int
}

// Layout returns b's declared witness-table shape.
func (b *Builder) Layout() Layout {
	return Layout{
		Name:              b.name,
		Width:             b.width,
		PreprocessedWidth: b.preprocessedWidth,
		PublicValueCount:  b.publicValueCount,
		PermutationWidth:  b.permutationWidth,
		ChallengeCount:    b.challengeCount,
		ExposedValueCount: b.exposedValueCount,
	}
}

// Build assembles the accumulated constraints into a symbolic.DAG.
func (b *Builder) Build() (*symbolic.DAG, error) {
	return symbolic.BuildDAG(b.constraints)
}
