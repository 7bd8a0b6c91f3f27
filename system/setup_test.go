package system

import (
	"math/big"
	"testing"

	"threshold.network/ibecore/internal/testutils"
)

func TestSetupProducesConsistentParams(t *testing.T) {
	params, master, err := Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	testutils.AssertBoolsEqual(t, "p is prime", true, params.Descriptor.Curve.P.ProbablyPrime(20))
	testutils.AssertBoolsEqual(t, "q is prime", true, params.Descriptor.Curve.Q.ProbablyPrime(20))

	mod12 := new(big.Int).Mod(params.Descriptor.Curve.P, big.NewInt(12))
	testutils.AssertBoolsEqual(t, "p == 11 mod 12", true, mod12.Cmp(big.NewInt(11)) == 0)

	testutils.AssertBoolsEqual(t, "master in [0,q)", true, master.Sign() >= 0 && master.Cmp(params.Descriptor.Curve.Q) < 0)
	testutils.AssertBoolsEqual(t, "P on curve", true, params.Descriptor.Curve.IsOnCurve(params.Generator))

	expectedPPub := params.Descriptor.Curve.ScalarMul(master, params.Generator)
	testutils.AssertBoolsEqual(t, "P_pub == master*P", true, params.Descriptor.Curve.Equal(expectedPPub, params.PPub))
}

func TestSetupRejectsTooFewBits(t *testing.T) {
	if _, _, err := Setup(10, 16, "broken", nil); err == nil {
		t.Fatalf("expected Setup to reject kBits<=qkBits+4")
	}
}

func TestSetupTateMatchesDirectPairing(t *testing.T) {
	params, _, err := Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	d := params.Descriptor

	id := MapToPoint(d, "alice@example.com")
	viaCache := params.Tate(id)
	viaDirect := d.Tate(params.PPub, id)
	testutils.AssertBoolsEqual(t, "cached pairing matches direct Tate", true, viaCache.Equal(viaDirect))
}
