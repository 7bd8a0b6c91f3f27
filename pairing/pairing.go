package pairing

import (
	"threshold.network/ibecore/curve"
	"threshold.network/ibecore/fp2"
)

// Engine bundles a curve together with its Solinas decomposition (when one
// exists), so callers need not re-run DecomposeSolinas on every pairing.
// When q has no Solinas form, Engine transparently falls back to the
// generic Miller loop in miller.go, per spec.md §6.
type Engine struct {
	Curve   *curve.Curve
	Solinas *Solinas // nil if q is not Solinas-compatible
}

// NewEngine derives an Engine for c, attempting a Solinas decomposition of
// c.Q once.
func NewEngine(c *curve.Curve) *Engine {
	sol, ok := DecomposeSolinas(c.Q)
	if !ok {
		return &Engine{Curve: c}
	}
	return &Engine{Curve: c, Solinas: sol}
}

// Tate computes e(P,Q), using the Solinas-specialized loop when available
// and the generic cache-based loop otherwise.
func (e *Engine) Tate(P, Q curve.Point) *fp2.Element {
	if e.Solinas != nil {
		return TateSolinas(e.Curve, P, Q, e.Solinas)
	}
	return Tate(e.Curve, P, Q)
}
