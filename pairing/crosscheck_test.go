package pairing

import (
	"math/big"
	"testing"

	"threshold.network/ibecore/internal/testutils"
)

// TestSolinasMatchesGenericMillerLoop is the property check spec.md §9
// calls out as "one of the simplest available": on a prime that does
// have a Solinas decomposition, the specialized loop must agree with the
// generic double-and-add Miller loop on every pairing value, not just
// happen to agree on one sample point.
func TestSolinasMatchesGenericMillerLoop(t *testing.T) {
	c := tinyCurve(t) // q=5, which DecomposeSolinas does resolve (a=2,b=1)
	sol, ok := DecomposeSolinas(c.Q)
	if !ok {
		t.Fatalf("expected q=5 to be Solinas-compatible")
	}

	G := generator(c)
	zeta := c.F2.CbrtUnity()
	H := Phi(c, zeta, G)

	for b := int64(1); b < 5; b++ {
		bQ := c.ScalarMul(big.NewInt(b), H)
		viaSolinas := TateSolinas(c, G, bQ, sol)
		viaGeneric := Tate(c, G, bQ)
		testutils.AssertBoolsEqual(t, "solinas loop matches generic loop", true, viaSolinas.Equal(viaGeneric))
	}
}
