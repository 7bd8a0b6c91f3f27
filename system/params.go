package system

import (
	"math/big"

	"threshold.network/ibecore/curve"
	"threshold.network/ibecore/fp2"
	"threshold.network/ibecore/pairing"
)

// Params is spec.md §3's "parameters bundle": everything beyond the bare
// curve/pairing descriptor that travels with a deployed system, up to and
// including the robustness data split_master later fills in. It
// serializes as the ordered array spec.md §4.9 describes: version,
// system-id, p, q, P, P_pub, t, n, then n interleaved (x_i,P_i) pairs.
type Params struct {
	Descriptor *Descriptor

	Version  int
	SystemID string

	Generator      curve.Point
	GeneratorTable *curve.Preprocessed

	PPub      curve.Point
	PPubCache *pairing.Cache

	// T, N and the robust arrays are zero/nil until threshold.SplitMaster
	// populates them; spec.md §4.5's setup produces only the curve and
	// the single master scalar x, with splitting a separate step (§4.7).
	T, N    int
	RobustX []*big.Int
	RobustP []curve.Point
}

// CurrentVersion is the wire format version this package emits.
const CurrentVersion = 1

// Tate pairs Q against P_pub using the precomputed Miller cache (the
// generic, non-Solinas loop). Packages kem, sig and threshold do not call
// it; they pair through Descriptor.Engine.
func (p *Params) Tate(Q curve.Point) *fp2.Element {
	return pairing.TateCached(p.Descriptor.Curve, p.PPubCache, Q)
}

// ScalarMulGenerator computes n*P using the precomputed fixed-base table.
func (p *Params) ScalarMulGenerator(n *big.Int) curve.Point {
	return p.Descriptor.Curve.ScalarMulPreprocessed(p.GeneratorTable, n)
}
