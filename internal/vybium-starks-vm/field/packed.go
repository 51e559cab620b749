package field

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// PF is a SIMD-lane-packed base field value: W independent F values,
// one per row of the current batch. No portable SIMD intrinsics package is
// grounded anywhere in the retrieved corpus (the only vectorization idiom
// the teacher shows is core/field_batch.go's chunked-goroutine batch
// arithmetic); PF follows that idiom instead of reaching for unsafe
// intrinsics, representing a lane-packed value as a plain slice processed
// with tight loops the Go compiler can auto-vectorize.
type PF []field.Element

// NewPF allocates a packed value of the given lane count, all zero.
func NewPF(lanes int) PF {
	return make(PF, lanes)
}

// Broadcast returns a packed value with every lane set to x.
func Broadcast(lanes int, x field.Element) PF {
	p := make(PF, lanes)
	for i := range p {
		p[i] = x
	}
	return p
}

// Add returns the lane-wise sum of p and o.
func (p PF) Add(o PF) PF {
	r := make(PF, len(p))
	for i := range p {
		r[i] = p[i].Add(o[i])
	}
	return r
}

// Sub returns the lane-wise difference of p and o.
func (p PF) Sub(o PF) PF {
	r := make(PF, len(p))
	for i := range p {
		r[i] = p[i].Sub(o[i])
	}
	return r
}

// Mul returns the lane-wise product of p and o.
func (p PF) Mul(o PF) PF {
	r := make(PF, len(p))
	for i := range p {
		r[i] = p[i].Mul(o[i])
	}
	return r
}

// Neg returns the lane-wise negation of p.
func (p PF) Neg() PF {
	r := make(PF, len(p))
	for i := range p {
		r[i] = field.Zero.Sub(p[i])
	}
	return r
}

// PEF is a SIMD-lane-packed extension field value: W independent EF values.
type PEF []EF

// NewPEF allocates a packed extension value of the given lane count, all zero.
func NewPEF(lanes int) PEF {
	return make(PEF, lanes)
}

// BroadcastEF returns a packed extension value with every lane set to x.
func BroadcastEF(lanes int, x EF) PEF {
	p := make(PEF, lanes)
	for i := range p {
		p[i] = x
	}
	return p
}

// FromPF lifts a packed base value into a packed extension value, lane by lane.
func FromPF(p PF) PEF {
	r := make(PEF, len(p))
	for i := range p {
		r[i] = FromBase(p[i])
	}
	return r
}

// Add returns the lane-wise sum of p and o.
func (p PEF) Add(o PEF) PEF {
	r := make(PEF, len(p))
	for i := range p {
		r[i] = p[i].Add(o[i])
	}
	return r
}

// Sub returns the lane-wise difference of p and o.
func (p PEF) Sub(o PEF) PEF {
	r := make(PEF, len(p))
	for i := range p {
		r[i] = p[i].Sub(o[i])
	}
	return r
}

// AddPF returns p + FromPF(o), lane-wise.
func (p PEF) AddPF(o PF) PEF {
	r := make(PEF, len(p))
	for i := range p {
		r[i] = p[i].Add(FromBase(o[i]))
	}
	return r
}

// SubPF returns p - FromPF(o), lane-wise.
func (p PEF) SubPF(o PF) PEF {
	r := make(PEF, len(p))
	for i := range p {
		r[i] = p[i].Sub(FromBase(o[i]))
	}
	return r
}

// Mul returns the lane-wise product of p and o.
func (p PEF) Mul(o PEF) PEF {
	r := make(PEF, len(p))
	for i := range p {
		r[i] = p[i].Mul(o[i])
	}
	return r
}

// MulPF returns the lane-wise product of p and a packed base value.
func (p PEF) MulPF(o PF) PEF {
	r := make(PEF, len(p))
	for i := range p {
		r[i] = p[i].MulBase(o[i])
	}
	return r
}

// Neg returns the lane-wise negation of p.
func (p PEF) Neg() PEF {
	r := make(PEF, len(p))
	for i := range p {
		r[i] = p[i].Neg()
	}
	return r
}

// Transpose writes the W*Degree base-field coefficients of p into dst,
// one scalar EF per lane, in row-major [lane][coeff] order. dst must have
// length len(p).
func (p PEF) Transpose(dst []EF) error {
	if len(dst) != len(p) {
		return fmt.Errorf("field: transpose length mismatch: dst=%d packed=%d", len(dst), len(p))
	}
	copy(dst, p)
	return nil
}
