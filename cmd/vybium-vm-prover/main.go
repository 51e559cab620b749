package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
	"github.com/vybium/vybium-starks-vm/pkg/vybium-starks-vm"
)

// claimInput is the JSON claim line read from stdin: the public starting
// pair and step count a Fibonacci proof run commits to.
type claimInput struct {
	A0    uint64 `json:"a0"`
	B0    uint64 `json:"b0"`
	Steps int    `json:"steps"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		fatal("failed to read claim")
	}
	var claim claimInput
	if err := json.Unmarshal(scanner.Bytes(), &claim); err != nil {
		fatal(fmt.Sprintf("failed to parse claim: %v", err))
	}
	if claim.Steps <= 0 || claim.Steps&(claim.Steps-1) != 0 {
		fatal(fmt.Sprintf("steps must be a positive power of two, got %d", claim.Steps))
	}

	logStderr("building fibonacci AIR...")
	builder := fibonacciAIR()
	vk, err := vybiumstarksvm.BuildVerifyingKey([]vybiumstarksvm.AIRSource{
		{Builder: builder, QuotientDegree: 2},
	})
	if err != nil {
		fatal(fmt.Sprintf("building verifying key: %v", err))
	}

	logStderr("building trace...")
	cols, public := fibonacciTrace(claim.Steps, field.New(claim.A0), field.New(claim.B0))

	witness := vybiumstarksvm.Witness{
		Entry:        vk.AIRs[0],
		MainColumns:  cols,
		PublicValues: public,
	}

	logStderr("creating prover...")
	prover, err := vybiumstarksvm.NewProver(vybiumstarksvm.DefaultConfig())
	if err != nil {
		fatal(fmt.Sprintf("creating prover: %v", err))
	}

	logStderr("generating proof...")
	proof, err := prover.Prove(context.Background(), []vybiumstarksvm.Witness{witness})
	if err != nil {
		fatal(fmt.Sprintf("proof generation failed: %v", err))
	}
	logStderr("proof generated successfully")

	out, err := json.Marshal(toWireProof(proof))
	if err != nil {
		fatal(fmt.Sprintf("failed to serialize proof: %v", err))
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

// fibonacciAIR builds the three-column (a, b, n) AIR this prover always
// proves: a, b the running pair, n a step counter, with two public values
// pinning the starting pair and one constraining the final step count.
func fibonacciAIR() *vybiumstarksvm.AIRBuilder {
	b := vybiumstarksvm.NewAIRBuilder("fibonacci", 3).WithPublicValues(3)

	a, bb, n := b.Local(0), b.Local(1), b.Local(2)
	aNext, bNext, nNext := b.Next(0), b.Next(1), b.Next(2)

	b.AddInitialConstraint(a.Sub(b.Public(0)))
	b.AddInitialConstraint(bb.Sub(b.Public(1)))
	b.AddInitialConstraint(n)

	b.AddTransitionConstraint(aNext.Sub(bb))
	b.AddTransitionConstraint(bNext.Sub(a.Add(bb)))
	b.AddTransitionConstraint(nNext.Sub(n.Add(b.Const(field.One))))

	b.AddTerminalConstraint(n.Sub(b.Public(2)))
	return b
}

// fibonacciTrace computes steps rows of (a, b, n) starting from (a0, b0).
func fibonacciTrace(steps int, a0, b0 field.Element) (cols [][]field.Element, public []field.Element) {
	a := make([]field.Element, steps)
	b := make([]field.Element, steps)
	n := make([]field.Element, steps)
	a[0], b[0] = a0, b0
	n[0] = field.Zero
	for i := 1; i < steps; i++ {
		a[i] = b[i-1]
		b[i] = a[i-1].Add(b[i-1])
		n[i] = n[i-1].Add(field.One)
	}
	return [][]field.Element{a, b, n}, []field.Element{a[0], b[0], n[steps-1]}
}

// wireProof is the JSON-serializable form of vybiumstarksvm.Proof: byte
// roots as hex strings, extension field elements as their per-coordinate
// hex-encoded bytes.
type wireProof struct {
	MainRoots     []string     `json:"main_roots"`
	ExtRoots      []string     `json:"ext_roots"`
	Alpha         []string     `json:"alpha"`
	QuotientRoot  string       `json:"quotient_root"`
	Zeta          []string     `json:"zeta"`
	ExposedValues [][][]string `json:"exposed_values"`
}

func toWireProof(p *vybiumstarksvm.Proof) wireProof {
	exposed := make([][][]string, len(p.ExposedValues))
	for i, vals := range p.ExposedValues {
		row := make([][]string, len(vals))
		for j, v := range vals {
			row[j] = hexEF(v)
		}
		exposed[i] = row
	}
	return wireProof{
		MainRoots:     hexRoots(p.MainRoots),
		ExtRoots:      hexRoots(p.ExtRoots),
		Alpha:         hexEF(p.Alpha),
		QuotientRoot:  hex.EncodeToString(p.QuotientRoot),
		Zeta:          hexEF(p.Zeta),
		ExposedValues: exposed,
	}
}

func hexRoots(roots [][]byte) []string {
	out := make([]string, len(roots))
	for i, r := range roots {
		out[i] = hex.EncodeToString(r)
	}
	return out
}

func hexEF(e vfield.EF) []string {
	out := make([]string, len(e))
	for i, c := range e {
		b := c.Bytes()
		out[i] = hex.EncodeToString(b[:])
	}
	return out
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "vybium-vm-prover:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
