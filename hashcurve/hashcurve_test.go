package hashcurve

import (
	"math/big"
	"testing"

	"threshold.network/ibecore/curve"
	"threshold.network/ibecore/internal/testutils"
)

func tinyCurve(t *testing.T) *curve.Curve {
	t.Helper()
	c, err := curve.New(big.NewInt(59), big.NewInt(5))
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	return c
}

func TestMapToPointLandsOnCurveInQTorsion(t *testing.T) {
	c := tinyCurve(t)
	for _, id := range []string{"alice@example.com", "bob@example.com", "", "a very long identity string used to test digest expansion"} {
		P := MapToPoint(c, id)
		testutils.AssertBoolsEqual(t, "MapToPoint("+id+") on curve", true, c.IsOnCurve(P))
		testutils.AssertBoolsEqual(t, "MapToPoint("+id+") has order dividing q", true, c.Add(c.ScalarMul(new(big.Int).Sub(c.Q, big.NewInt(1)), P), P).Infinity)
	}
}

func TestMapToPointIsDeterministic(t *testing.T) {
	c := tinyCurve(t)
	P1 := MapToPoint(c, "alice@example.com")
	P2 := MapToPoint(c, "alice@example.com")
	testutils.AssertBoolsEqual(t, "MapToPoint is deterministic", true, c.Equal(P1, P2))
}

func TestMapToPointDistinguishesIdentities(t *testing.T) {
	c := tinyCurve(t)
	P1 := MapToPoint(c, "alice@example.com")
	P2 := MapToPoint(c, "bob@example.com")
	testutils.AssertBoolsEqual(t, "different identities map to different points", false, c.Equal(P1, P2))
}

func TestHashToZpStaysWithinLimit(t *testing.T) {
	limit := big.NewInt(59)
	for _, digest := range [][]byte{{0xff, 0xff, 0xff}, {0x00}, {0x01, 0x02, 0x03, 0x04, 0x05}} {
		x := hashToZp(digest, limit)
		if x.Cmp(limit) > 0 {
			t.Fatalf("hashToZp(%x) = %v exceeds limit %v", digest, x, limit)
		}
		if x.Sign() < 0 {
			t.Fatalf("hashToZp(%x) = %v is negative", digest, x)
		}
	}
}
