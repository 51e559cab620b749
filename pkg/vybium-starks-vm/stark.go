package vybiumstarksvm

import (
	"context"
	"fmt"

	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/pcs"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/protocols"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/utils"
)

// Prover drives the commit/sample/commit sequence (spec §4.11) over a
// caller-supplied set of AIR witnesses: commit every AIR's main trace,
// sample one RAP challenge per challenge-needing AIR, commit its log-up
// extension, sample a shared combining challenge, commit the combined
// quotient, sample an out-of-domain point.
type Prover struct {
	config *Config
}

// NewProver returns a Prover using config, or DefaultConfig if config is
// nil.
func NewProver(config *Config) (*Prover, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Lanes <= 0 {
		return nil, &Error{Code: ErrInvalidConfig, Message: fmt.Sprintf("lanes must be positive, got %d", config.Lanes)}
	}
	return &Prover{config: config}, nil
}

// Prove runs the full orchestration over witnesses and returns the
// resulting Proof. Witnesses must be in the same order as the sources
// BuildVerifyingKey built the matching VerifyingKey from.
func (p *Prover) Prove(ctx context.Context, witnesses []Witness) (*Proof, error) {
	channel := utils.NewChannel(p.config.HashFunction)
	scheme := pcs.New(p.config.PCSComponent)
	prover := protocols.NewQuotientProver(channel, scheme, p.config.Lanes)

	proof, err := prover.Prove(ctx, witnesses)
	if err != nil {
		return nil, &Error{Code: ErrProofGeneration, Message: "proof generation failed", Cause: err}
	}
	return proof, nil
}

// Verifier re-derives the Fiat-Shamir challenges a Proof claims to have
// sampled, over a fresh transcript it controls, and rejects any proof whose
// claimed challenges do not match.
type Verifier struct {
	config *Config
}

// NewVerifier returns a Verifier using config, or DefaultConfig if config is
// nil. A Verifier's Config.HashFunction must match the Prover's that
// produced the proof being checked, since both sides must derive identical
// transcript state from identical observed bytes.
func NewVerifier(config *Config) (*Verifier, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return &Verifier{config: config}, nil
}

// Verify checks proof against vk, returning an error if verification fails
// for any reason: a structural mismatch between vk and proof, or a
// recomputed challenge that disagrees with one proof claims to have
// sampled.
func (v *Verifier) Verify(vk *VerifyingKey, proof *Proof) error {
	channel := utils.NewChannel(v.config.HashFunction)
	verifier := protocols.NewQuotientVerifier(channel)

	if err := verifier.Verify(vk, proof); err != nil {
		return &Error{Code: ErrProofVerification, Message: "proof verification failed", Cause: err}
	}
	return nil
}
