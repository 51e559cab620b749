// Package keygen builds and persists the constraint-system half of a
// verifying key: one symbolic.DAG per AIR, alongside the column-count
// layout the quotient evaluator and verifier need to size their views
// (spec §6 "Persisted state layout").
package keygen

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/air"
	"github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/symbolic"
)

// AIREntry is one AIR's verifying-key component: its compiled constraint
// DAG plus the witness-table shape air.Builder.Layout declares and the
// quotient degree the prover/verifier agreed on for it.
type AIREntry struct {
	Layout         air.Layout
	DAG            *symbolic.DAG
	QuotientDegree int
}

// VerifyingKey is the ordered list of AIREntry the prover and verifier both
// hold. Order matches the combined commitment's AIR ordering (spec §5).
type VerifyingKey struct {
	AIRs []AIREntry
}

// Source pairs a Builder with the quotient degree the prover has chosen for
// it, the input to Build.
type Source struct {
	Builder        *air.Builder
	QuotientDegree int
}

// Build compiles every Source's Builder into a DAG, once, and assembles the
// resulting VerifyingKey. Each AIR's DAG is built exactly once here; the
// prover and verifier both consume the persisted result rather than
// rebuilding it per proof.
func Build(sources []Source) (*VerifyingKey, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("keygen: at least one AIR is required")
	}
	vk := &VerifyingKey{AIRs: make([]AIREntry, len(sources))}
	for i, s := range sources {
		if s.Builder == nil {
			return nil, fmt.Errorf("keygen: AIR %d has a nil builder", i)
		}
		if s.QuotientDegree <= 0 {
			return nil, fmt.Errorf("keygen: AIR %d has non-positive quotient degree %d", i, s.QuotientDegree)
		}
		dag, err := s.Builder.Build()
		if err != nil {
			return nil, fmt.Errorf("keygen: AIR %d (%s): %w", i, s.Builder.Layout().Name, err)
		}
		vk.AIRs[i] = AIREntry{
			Layout:         s.Builder.Layout(),
			DAG:            dag,
			QuotientDegree: s.QuotientDegree,
		}
	}
	return vk, nil
}

// Codec is the pluggable wire format a VerifyingKey is persisted through.
// GobCodec and CBORCodec below both wrap symbolic.DAG's own Encode/Decode
// pair, so a VerifyingKey's serialization is exactly as codec-agnostic as a
// single DAG's.
type Codec interface {
	EncodeDAG(w io.Writer, d *symbolic.DAG) error
	DecodeDAG(r io.Reader) (*symbolic.DAG, error)
}

// GobCodec is the default persistence format (spec §6).
type GobCodec struct{}

func (GobCodec) EncodeDAG(w io.Writer, d *symbolic.DAG) error { return d.EncodeGob(w) }
func (GobCodec) DecodeDAG(r io.Reader) (*symbolic.DAG, error) { return symbolic.DecodeDAGGob(r) }

// CBORCodec is the cross-language-friendly alternative format. Unlike
// GobCodec it cannot delegate straight to symbolic.DAG's own
// EncodeCBOR/DecodeDAGCBOR, since DecodeDAGCBOR reads its reader to EOF
// (there is only ever one DAG per stream at that layer); a multi-AIR
// VerifyingKey needs each DAG's CBOR block length-prefixed so framing
// survives sitting between two other AIRs' records.
type CBORCodec struct{}

func (CBORCodec) EncodeDAG(w io.Writer, d *symbolic.DAG) error {
	var buf bytes.Buffer
	if err := d.EncodeCBOR(&buf); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(buf.Len())); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (CBORCodec) DecodeDAG(r io.Reader) (*symbolic.DAG, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	block := make([]byte, n)
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, err
	}
	return symbolic.DecodeDAGCBOR(bytes.NewReader(block))
}

// wireAIREntry is the byte-stable per-AIR record: the layout's scalar
// fields plus the quotient degree. The DAG is not part of it: Encode writes
// the DAG right after this record through Codec (CBORCodec length-prefixes
// its block; GobCodec relies on gob's own framing), so Encode/Decode can
// vary the DAG's wire format without touching the surrounding framing.
type wireAIREntry struct {
	Name              string
	Width             int
	PreprocessedWidth int
	PublicValueCount  int
	PermutationWidth  int
	ChallengeCount    int
	ExposedValueCount int
	QuotientDegree    int
}

// encodeScalarFields/decodeScalarFields frame the per-AIR header with gob,
// which is self-delimiting, so it can share a stream with either DAG codec
// without the two interfering with each other's framing.
func encodeScalarFields(w io.Writer, we wireAIREntry) error {
	return gob.NewEncoder(w).Encode(we)
}

func decodeScalarFields(r io.Reader) (wireAIREntry, error) {
	var we wireAIREntry
	err := gob.NewDecoder(r).Decode(&we)
	return we, err
}

func writeUint32(w io.Writer, v uint32) error {
	buf := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}

// Encode writes vk to w using the given Codec for each AIR's DAG, framed by
// a count prefix and, per AIR, the wireAIREntry scalar fields followed by
// the DAG's own encoding.
func (vk *VerifyingKey) Encode(w io.Writer, codec Codec) error {
	if err := writeUint32(w, uint32(len(vk.AIRs))); err != nil {
		return fmt.Errorf("keygen: write AIR count: %w", err)
	}
	for i, e := range vk.AIRs {
		we := wireAIREntry{
			Name:              e.Layout.Name,
			Width:             e.Layout.Width,
			PreprocessedWidth: e.Layout.PreprocessedWidth,
			PublicValueCount:  e.Layout.PublicValueCount,
			PermutationWidth:  e.Layout.PermutationWidth,
			ChallengeCount:    e.Layout.ChallengeCount,
			ExposedValueCount: e.Layout.ExposedValueCount,
			QuotientDegree:    e.QuotientDegree,
		}
		if err := encodeScalarFields(w, we); err != nil {
			return fmt.Errorf("keygen: AIR %d header: %w", i, err)
		}
		if err := codec.EncodeDAG(w, e.DAG); err != nil {
			return fmt.Errorf("keygen: AIR %d DAG: %w", i, err)
		}
	}
	return nil
}

// Decode reads a VerifyingKey previously written by Encode. The stream does
// not record which DAG codec wrote it (each AIR's DAG block follows its
// header with no codec tag), so the caller must pass the same Codec used to
// encode.
func Decode(r io.Reader, codec Codec) (*VerifyingKey, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("keygen: read AIR count: %w", err)
	}
	vk := &VerifyingKey{AIRs: make([]AIREntry, n)}
	for i := uint32(0); i < n; i++ {
		we, err := decodeScalarFields(r)
		if err != nil {
			return nil, fmt.Errorf("keygen: AIR %d header: %w", i, err)
		}
		dag, err := codec.DecodeDAG(r)
		if err != nil {
			return nil, fmt.Errorf("keygen: AIR %d DAG: %w", i, err)
		}
		vk.AIRs[i] = AIREntry{
			Layout: air.Layout{
				Name:              we.Name,
				Width:             we.Width,
				PreprocessedWidth: we.PreprocessedWidth,
				PublicValueCount:  we.PublicValueCount,
				PermutationWidth:  we.PermutationWidth,
				ChallengeCount:    we.ChallengeCount,
				ExposedValueCount: we.ExposedValueCount,
			},
			DAG:            dag,
			QuotientDegree: we.QuotientDegree,
		}
	}
	return vk, nil
}
