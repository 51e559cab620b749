// Package pcs implements the polynomial commitment scheme boundary the
// quotient committer treats as an external black box (spec §6): a single
// Merkle commitment over a batch of base-field-matrix chunks, grounded on
// core.MerkleTree, plus the disjoint-domain/split-domain bookkeeping the
// quotient-domain coset layout needs. FRI itself (the actual low-degree
// test) is out of scope — see DESIGN.md for why a reference, non-FRI
// Merkle commitment stands in its place.
package pcs

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/core"
	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/symbolic"
)

// Commitment is a Merkle root over a batch of committed matrices.
type Commitment struct {
	tree *core.MerkleTree
}

// Root implements symbolic.PCSCommitment.
func (c *Commitment) Root() []byte { return c.tree.Root() }

// Scheme commits batches of base-field matrices (the quotient committer's
// chunks, or a trace's LDE columns) as one Merkle tree: row i of the batch
// is serialized as the concatenation of every chunk's row i, then hashed as
// a single leaf, so a single opening at a row proves every chunk's value
// there at once (the "combined PCS commit call" spec §4.4 asks for).
type Scheme struct {
	log zerolog.Logger
}

// New returns a Scheme logging through the given component name.
func New(component string) *Scheme {
	return &Scheme{log: log.With().Str("component", component).Logger()}
}

// Commit implements symbolic.PCS: every chunk must have the same height;
// row i across all chunks becomes one Merkle leaf.
func (s *Scheme) Commit(chunks []*symbolic.Matrix) (symbolic.PCSCommitment, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("pcs: cannot commit zero chunks")
	}
	height := chunks[0].Height()
	for i, c := range chunks {
		if c.Height() != height {
			return nil, fmt.Errorf("pcs: chunk %d has height %d, want %d", i, c.Height(), height)
		}
	}
	leaves := make([][]byte, height)
	for row := 0; row < height; row++ {
		leaves[row] = serializeRow(chunks, row)
	}
	s.log.Debug().Int("chunks", len(chunks)).Int("height", height).Msg("committing quotient chunks")
	tree, err := core.NewMerkleTree(leaves)
	if err != nil {
		return nil, fmt.Errorf("pcs: %w", err)
	}
	return &Commitment{tree: tree}, nil
}

// Open returns the Merkle proof and leaf bytes for row i of a commitment
// previously produced by Commit over the same chunks.
func (s *Scheme) Open(chunks []*symbolic.Matrix, tree *Commitment, row int) ([]core.ProofNode, []byte, error) {
	proof, err := tree.tree.Proof(row)
	if err != nil {
		return nil, nil, fmt.Errorf("pcs: %w", err)
	}
	return proof, serializeRow(chunks, row), nil
}

func serializeRow(chunks []*symbolic.Matrix, row int) []byte {
	var buf []byte
	for _, c := range chunks {
		for col := 0; col < c.Width(); col++ {
			buf = append(buf, encodeElement(c.At(row, col))...)
		}
	}
	return buf
}

func encodeElement(e field.Element) []byte {
	b := e.Bytes()
	return b[:]
}

// NaturalDomainForDegree returns the smallest power-of-two trace domain
// that can hold the given constraint degree's evaluation.
func NaturalDomainForDegree(degree int) int {
	n := 1
	for n < degree {
		n <<= 1
	}
	return n
}

// CreateDisjointDomain returns k, the number of disjoint quotient-domain
// cosets a quotient of the given blowup factor splits into (spec §6).
func CreateDisjointDomain(quotientDegree int) int { return quotientDegree }

// SplitDomains partitions a flat quotient-domain column of extension-field
// values into k disjoint, stride-k coset columns — the same striding
// symbolic.Strided performs lazily on a ColumnSource, exposed here as an
// eager helper for callers (e.g. tests) that already materialized the flat
// column.
func SplitDomains(flat []vfield.EF, k int) [][]vfield.EF {
	out := make([][]vfield.EF, k)
	n := len(flat) / k
	for c := 0; c < k; c++ {
		col := make([]vfield.EF, n)
		for i := 0; i < n; i++ {
			col[i] = flat[c+i*k]
		}
		out[c] = col
	}
	return out
}
