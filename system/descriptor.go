// Package system implements spec.md §4.5's setup: deriving a
// curve/pairing descriptor and a parameters bundle from two desired bit
// lengths and a system identifier.
//
// Grounded on original_source/gen.c and config.c (sample q, sample p,
// sample master x, pick P, derive P_pub, precompute tables) and the
// teacher's top-level protocol.go for how a single setup call threads
// through to a long-lived, read-only parameters value shared by every
// later operation.
package system

import (
	"math/big"

	"threshold.network/ibecore/curve"
	"threshold.network/ibecore/fp2"
	"threshold.network/ibecore/pairing"
)

// Descriptor is the curve-level half of spec.md §3's "curve/system
// descriptor": the prime p, the subgroup order q, and everything derived
// from them alone (the Fp2 field, the Solinas-or-generic pairing engine,
// the distortion-map coefficient). It is immutable after NewDescriptor and safe for
// concurrent read-only use, per spec.md §5.
type Descriptor struct {
	Curve  *curve.Curve
	Engine *pairing.Engine
	Zeta   *fp2.Element // distortion map coefficient, a primitive cube root of unity in Fp2
}

// NewDescriptor builds a Descriptor for a given (p,q) pair. Most callers
// reach this indirectly through Setup; it is exported directly for
// loading previously-serialized parameters (wire.DecodeParams) without
// re-running prime generation.
func NewDescriptor(p, q *big.Int) (*Descriptor, error) {
	c, err := curve.New(p, q)
	if err != nil {
		return nil, err
	}
	return &Descriptor{
		Curve:  c,
		Engine: pairing.NewEngine(c),
		Zeta:   c.F2.CbrtUnity(),
	}, nil
}

// Phi applies this descriptor's distortion map to Q.
func (d *Descriptor) Phi(Q curve.Point) curve.Point {
	return pairing.Phi(d.Curve, d.Zeta, Q)
}

// Tate computes e(P,Q) using whichever Miller-loop variant this
// descriptor's pairing engine selected for q.
func (d *Descriptor) Tate(P, Q curve.Point) *fp2.Element {
	return d.Engine.Tate(P, Q)
}
