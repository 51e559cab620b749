package vybiumstarksvm

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/air"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/keygen"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/protocols"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/symbolic"
)

// FieldElement is the public type for base-field elements, the same field
// every AIR's columns and public values are expressed over.
type FieldElement = field.Element

// Expr is a constraint expression built from an AIRBuilder's Local/Next/
// Public/Perm/Challenge/Exposed accessors and combined with Add/Sub/Mul.
type Expr = symbolic.Expr

// AIRBuilder accumulates one AIR's constraints and column layout. Build it
// with NewAIRBuilder, declare any preprocessed/public/log-up witness tables
// with its With* methods, attach constraints with its Add*Constraint
// methods, then pass it (wrapped in an AIRSource) to BuildVerifyingKey.
type AIRBuilder = air.Builder

// AIRLayout describes an AIR's witness-table shape: column counts for its
// main, preprocessed and after-challenge traces, and its public/exposed
// value counts.
type AIRLayout = air.Layout

// AIRSource pairs an AIRBuilder with the quotient degree the prover and
// verifier have agreed on for it (the maximum degree its constraints can
// reach over the trace domain, rounded up to the next supported blowup).
type AIRSource = keygen.Source

// VerifyingKey is the ordered list of compiled AIRs a Prover commits
// against and a Verifier checks a Proof against. Build one with
// BuildVerifyingKey and keep it alongside any Proof it produced.
type VerifyingKey = keygen.VerifyingKey

// Witness is one AIR's concrete trace data for a single proving run: the
// column-major main trace BuildVerifyingKey's matching AIREntry was built
// for, its public values, and (for AIRs with a log-up phase) the
// challenge-independent "val" column ComputeLogUpExtension consumes.
type Witness = protocols.AIRWitness

// Proof bundles everything a Prove call produced: the transcript's
// commitments and sampled challenges, in the order a Verifier must
// recompute them in to accept the proof.
type Proof = protocols.QuotientProof

// KeyCodec is the pluggable wire format a VerifyingKey is persisted
// through; GobCodec and CBORCodec are the two supplied implementations.
type KeyCodec = keygen.Codec

// GobCodec persists a VerifyingKey's constraint DAGs with encoding/gob.
type GobCodec = keygen.GobCodec

// CBORCodec persists a VerifyingKey's constraint DAGs as length-framed CBOR
// blocks, for interoperating with non-Go verifiers.
type CBORCodec = keygen.CBORCodec

// NewAIRBuilder starts a builder for an AIR with the given name and main
// trace column count.
func NewAIRBuilder(name string, width int) *AIRBuilder {
	return air.NewBuilder(name, width)
}

// BuildVerifyingKey compiles every source's AIRBuilder into a constraint
// DAG exactly once and assembles the resulting VerifyingKey. Sources are
// kept in argument order; that order is also the combined proof's AIR
// ordering, so witnesses passed to Prover.Prove must line up with it.
func BuildVerifyingKey(sources []AIRSource) (*VerifyingKey, error) {
	vk, err := keygen.Build(sources)
	if err != nil {
		return nil, &Error{Code: ErrKeygenFailed, Message: "building verifying key", Cause: err}
	}
	return vk, nil
}

// ComputeLogUpExtension builds the after-challenge ("acc", "inv") columns
// and exposed running-sum value a log-up AIR's Witness needs, given its
// main "val" column and the RAP challenge a Prover.Prove call would
// otherwise sample internally. Most callers building a single-AIR log-up
// proof can leave Witness.LogUpValCol set and let Prove call this itself;
// it is exported for callers assembling a Witness ahead of time, or
// computing the extension against a challenge sampled some other way.
var ComputeLogUpExtension = air.ComputeLogUpExtension

// Config configures a Prover or Verifier.
type Config struct {
	// HashFunction selects the Fiat-Shamir transcript's underlying hash:
	// "sha256" or "sha3".
	HashFunction string

	// Lanes is the SIMD lane width the quotient evaluator packs trace rows
	// into; must be a positive power of two no larger than a proof's
	// smallest AIR trace size.
	Lanes int

	// PCSComponent labels the polynomial commitment scheme's internal
	// domain-separation tag, so two components of a larger system committing
	// with the same scheme never produce colliding roots.
	PCSComponent string
}

// DefaultConfig returns the configuration used by the test suite: SHA-3
// transcripts, 4-wide lane packing, and a "vybium-starks-vm" PCS component
// label.
func DefaultConfig() *Config {
	return &Config{
		HashFunction: "sha3",
		Lanes:        4,
		PCSComponent: "vybium-starks-vm",
	}
}
