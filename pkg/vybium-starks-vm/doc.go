// Package vybiumstarksvm provides a production-ready zkSTARK backend built
// around a symbolic constraint DAG and a quotient polynomial evaluation
// engine, supporting multiple AIRs batched into a single proof.
//
// # Features
//
// - Symbolic constraint expression trees, compiled once into a DAG and
//   reused by both the prover's quotient evaluator and the verifying key
// - RAP (randomized AIR with preprocessing) support via a log-up
//   permutation argument
// - Multi-AIR batching: several AIRs' traces commit and fold into a single
//   combined quotient commitment
// - A pluggable polynomial commitment scheme, committed through
//   Merkle-authenticated trace matrices
// - Fiat-Shamir transcripts over SHA-256 or SHA-3
//
// # Quick Start
//
// Defining an AIR, building a verifying key, and proving a trace:
//
//	builder := vybiumstarksvm.NewAIRBuilder("fibonacci", 3)
//	a, b, n := builder.Local(0), builder.Local(1), builder.Local(2)
//	builder.AddInitialConstraint(a.Sub(builder.Public(0)))
//	// ... remaining constraints ...
//
//	vk, err := vybiumstarksvm.BuildVerifyingKey([]vybiumstarksvm.AIRSource{
//		{Builder: builder, QuotientDegree: 2},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	witness := vybiumstarksvm.Witness{
//		Entry:        vk.AIRs[0],
//		MainColumns:  traceColumns,
//		PublicValues: publicValues,
//	}
//
//	prover, err := vybiumstarksvm.NewProver(vybiumstarksvm.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	proof, err := prover.Prove(context.Background(), []vybiumstarksvm.Witness{witness})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Verifying the proof:
//
//	verifier, err := vybiumstarksvm.NewVerifier(vybiumstarksvm.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := verifier.Verify(vk, proof); err != nil {
//		log.Fatal(err)
//	}
//
// # Architecture
//
// Vybium STARKs VM uses a hybrid public/private architecture:
//
// - pkg/vybium-starks-vm/: Public API (this package)
// - internal/vybium-starks-vm/: Private implementation (not importable)
//
// The public API provides stable interfaces for:
// - AIR definition (AIRBuilder) and verifying-key construction
// - STARK proving and verification (Prover, Verifier)
// - Common types and errors
//
// Implementation details in internal/ can be refactored without breaking the public API.
//
// # References
//
// - STARK Paper: https://eprint.iacr.org/2018/046
// - Plonky3's AIR/RAP formulation, which this package's symbolic DAG and
//   quotient evaluator follow closely
//
// # License
//
// See LICENSE file in the repository root.
package vybiumstarksvm
