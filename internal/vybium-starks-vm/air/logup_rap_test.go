package air

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vfield "github.com/vybium/vybium-starks-vm/internal/vybium-starks-vm/field"
)

func TestComputeLogUpExtensionSatisfiesConstraints(t *testing.T) {
	val := []field.Element{field.New(3), field.New(5), field.New(3), field.New(7)}
	challenge := vfield.FromBase(field.New(11))

	ext, exposed, err := ComputeLogUpExtension(val, challenge)
	if err != nil {
		t.Fatalf("ComputeLogUpExtension: %v", err)
	}
	acc, inv := ext[0], ext[1]

	// inv*(val+challenge)-1 == 0 at every row.
	for i := range val {
		term := vfield.FromBase(val[i]).Add(challenge)
		got := inv[i].Mul(term).Sub(vfield.OneEF)
		if !got.Equal(vfield.ZeroEF) {
			t.Fatalf("row %d: consistency constraint failed, got %v", i, got)
		}
	}

	// acc[0] == inv[0] (initial constraint).
	if !acc[0].Equal(inv[0]) {
		t.Fatalf("initial constraint failed: acc[0]=%v, inv[0]=%v", acc[0], inv[0])
	}

	// acc[i+1] - (acc[i] + inv[i+1]) == 0 (transition constraint).
	for i := 0; i < len(val)-1; i++ {
		got := acc[i+1].Sub(acc[i].Add(inv[i+1]))
		if !got.Equal(vfield.ZeroEF) {
			t.Fatalf("row %d: transition constraint failed, got %v", i, got)
		}
	}

	// acc[last] == exposed[0] (terminal constraint).
	if len(exposed) != 1 || !exposed[0].Equal(acc[len(val)-1]) {
		t.Fatalf("exposed value mismatch: exposed=%v, acc[last]=%v", exposed, acc[len(val)-1])
	}
}

func TestComputeLogUpExtensionRejectsEmptyTrace(t *testing.T) {
	if _, _, err := ComputeLogUpExtension(nil, vfield.ZeroEF); err == nil {
		t.Fatal("expected an error for an empty trace")
	}
}
