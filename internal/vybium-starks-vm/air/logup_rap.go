package air

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
)

// ComputeLogUpExtension builds the after-challenge ("acc", "inv") columns
// and the exposed running-sum value for NewLogUpAIR's RAP, given the main
// trace's "val" column and the sampled challenge. This is the concrete
// witness-generation counterpart to NewLogUpAIR's constraints: a prover
// computing inv[i] = 1/(val[i] + challenge) and an accumulating running sum
// is the standard log-up construction, proving multiset membership through
// a single running-sum accumulator expressed entirely as algebraic RAP
// constraints rather than a Merkle-authenticated lookup table.
func ComputeLogUpExtension(val []field.Element, challenge vfield.EF) (ext [][]vfield.EF, exposed []vfield.EF, err error) {
	n := len(val)
	if n == 0 {
		return nil, nil, fmt.Errorf("air: log-up extension requires a non-empty trace")
	}

	inv := make([]vfield.EF, n)
	acc := make([]vfield.EF, n)
	for i, v := range val {
		term := vfield.FromBase(v).Add(challenge)
		invTerm, err := term.Inverse()
		if err != nil {
			return nil, nil, fmt.Errorf("air: row %d: %w", i, err)
		}
		inv[i] = invTerm
		if i == 0 {
			acc[i] = invTerm
		} else {
			acc[i] = acc[i-1].Add(invTerm)
		}
	}

	return [][]vfield.EF{acc, inv}, []vfield.EF{acc[n-1]}, nil
}
