package protocols

import (
	"fmt"

	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/keygen"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/utils"
)

// QuotientVerifier re-derives the Fiat-Shamir challenges a QuotientProof
// claims to have sampled, by replaying the same Observe/SampleExtElement
// sequence QuotientProver.Prove used, over a fresh channel the verifier
// controls. Because SampleExtElement is a deterministic function of the
// channel's prior state, the prover could only have produced a matching
// alpha/zeta by having observed exactly the roots it claims to, in the
// order it claims to have observed them in — a verifier that recomputes
// them independently and finds a mismatch knows the prover deviated from
// the protocol (spec §4.11/§6), without needing to decode the roots
// themselves.
type QuotientVerifier struct {
	Channel *utils.Channel
}

// NewQuotientVerifier returns a verifier driving channel for randomness;
// the caller is responsible for giving it a channel in the same initial
// state the prover's channel started in.
func NewQuotientVerifier(channel *utils.Channel) *QuotientVerifier {
	return &QuotientVerifier{Channel: channel}
}

// Verify replays proof's commitment sequence against vk's AIR layouts and
// checks that the resulting alpha/zeta match what the prover claims.
func (v *QuotientVerifier) Verify(vk *keygen.VerifyingKey, proof *QuotientProof) error {
	if len(vk.AIRs) != len(proof.MainRoots) {
		return fmt.Errorf("protocols: verifying key has %d AIRs, proof has %d main roots", len(vk.AIRs), len(proof.MainRoots))
	}
	if len(proof.ExtRoots) != len(vk.AIRs) || len(proof.ExposedValues) != len(vk.AIRs) {
		return fmt.Errorf("protocols: proof's extension roots/exposed values must have one entry per AIR")
	}

	for i, root := range proof.MainRoots {
		if len(root) == 0 {
			return fmt.Errorf("protocols: AIR %d (%s): empty main root", i, vk.AIRs[i].Layout.Name)
		}
		if err := v.Channel.Observe(root); err != nil {
			return fmt.Errorf("protocols: observing AIR %d main root: %w", i, err)
		}
	}

	for i, entry := range vk.AIRs {
		if entry.Layout.ChallengeCount == 0 {
			if len(proof.ExtRoots[i]) != 0 {
				return fmt.Errorf("protocols: AIR %d (%s) has no challenge phase but proof carries an extension root", i, entry.Layout.Name)
			}
			continue
		}
		if entry.Layout.ChallengeCount != 1 {
			return fmt.Errorf("protocols: AIR %d (%s): only a single challenge phase is supported", i, entry.Layout.Name)
		}
		_ = v.Channel.SampleExtElement()
		if len(proof.ExtRoots[i]) == 0 {
			return fmt.Errorf("protocols: AIR %d (%s): missing extension root", i, entry.Layout.Name)
		}
		if err := v.Channel.Observe(proof.ExtRoots[i]); err != nil {
			return fmt.Errorf("protocols: observing AIR %d extension root: %w", i, err)
		}
	}

	alpha := v.Channel.SampleExtElement()
	if !alpha.Equal(proof.Alpha) {
		return fmt.Errorf("protocols: recomputed alpha does not match proof's claimed alpha")
	}

	if len(proof.QuotientRoot) == 0 {
		return fmt.Errorf("protocols: empty quotient root")
	}
	if err := v.Channel.Observe(proof.QuotientRoot); err != nil {
		return fmt.Errorf("protocols: observing quotient root: %w", err)
	}

	zeta := v.Channel.SampleExtElement()
	if !zeta.Equal(proof.Zeta) {
		return fmt.Errorf("protocols: recomputed zeta does not match proof's claimed zeta")
	}

	return nil
}
