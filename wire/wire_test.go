package wire

import (
	"math/big"
	"testing"

	"threshold.network/ibecore/curve"
	"threshold.network/ibecore/fp2"
	"threshold.network/ibecore/internal/testutils"
	"threshold.network/ibecore/system"
)

func testField(t *testing.T) *fp2.Field {
	t.Helper()
	f, err := fp2.NewField(big.NewInt(59))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

func TestArrayRoundTrip(t *testing.T) {
	parts := [][]byte{[]byte("a"), {}, []byte("hello world")}
	enc, err := EncodeArray(parts...)
	if err != nil {
		t.Fatalf("EncodeArray: %v", err)
	}
	dec, err := DecodeArray(enc)
	if err != nil {
		t.Fatalf("DecodeArray: %v", err)
	}
	if len(dec) != len(parts) {
		t.Fatalf("got %d parts, want %d", len(dec), len(parts))
	}
	for i := range parts {
		testutils.AssertBytesEqual(t, parts[i], dec[i])
	}
}

func TestDecodeArrayRejectsTruncatedBuffer(t *testing.T) {
	enc, err := EncodeArray([]byte("hello"))
	if err != nil {
		t.Fatalf("EncodeArray: %v", err)
	}
	if _, err := DecodeArray(enc[:len(enc)-1]); err == nil {
		t.Fatalf("expected DecodeArray to reject a truncated buffer")
	}
}

func TestFp2RoundTrip(t *testing.T) {
	f := testField(t)
	x := f.NewInt(41, 3)
	enc, err := EncodeFp2(x)
	if err != nil {
		t.Fatalf("EncodeFp2: %v", err)
	}
	dec, err := DecodeFp2(f, enc)
	if err != nil {
		t.Fatalf("DecodeFp2: %v", err)
	}
	testutils.AssertBoolsEqual(t, "fp2 round trip", true, x.Equal(dec))
}

func TestPointRoundTrip(t *testing.T) {
	f := testField(t)
	c, err := curve.New(big.NewInt(59), big.NewInt(5))
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	P := c.NewPoint(f.NewInt(28, 0), f.NewInt(51, 0))

	enc, err := EncodePoint(P)
	if err != nil {
		t.Fatalf("EncodePoint: %v", err)
	}
	dec, err := DecodePoint(f, enc)
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	testutils.AssertBoolsEqual(t, "point round trip", true, c.Equal(P, dec))
}

func TestEncodePointRejectsInfinity(t *testing.T) {
	c, err := curve.New(big.NewInt(59), big.NewInt(5))
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	if _, err := EncodePoint(c.Inf()); err == nil {
		t.Fatalf("expected EncodePoint to reject the infinity point")
	}
}

func TestParamsRoundTrip(t *testing.T) {
	params, _, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	params.T = 2
	params.N = 3
	params.RobustX = []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
	params.RobustP = []curve.Point{
		params.Descriptor.Curve.ScalarMul(big.NewInt(1), params.PPub),
		params.Descriptor.Curve.ScalarMul(big.NewInt(2), params.PPub),
		params.Descriptor.Curve.ScalarMul(big.NewInt(3), params.PPub),
	}

	enc, err := EncodeParams(params)
	if err != nil {
		t.Fatalf("EncodeParams: %v", err)
	}
	dec, err := DecodeParams(enc)
	if err != nil {
		t.Fatalf("DecodeParams: %v", err)
	}

	testutils.AssertBoolsEqual(t, "system id round trip", true, params.SystemID == dec.SystemID)
	testutils.AssertBigIntsEqual(t, "p round trip", params.Descriptor.Curve.P, dec.Descriptor.Curve.P)
	testutils.AssertBigIntsEqual(t, "q round trip", params.Descriptor.Curve.Q, dec.Descriptor.Curve.Q)
	testutils.AssertBoolsEqual(t, "P round trip", true, params.Descriptor.Curve.Equal(params.Generator, dec.Generator))
	testutils.AssertBoolsEqual(t, "P_pub round trip", true, params.Descriptor.Curve.Equal(params.PPub, dec.PPub))
	testutils.AssertBoolsEqual(t, "t round trip", true, params.T == dec.T)
	testutils.AssertBoolsEqual(t, "n round trip", true, params.N == dec.N)
	for i := 0; i < params.N; i++ {
		testutils.AssertBigIntsEqual(t, "robustx round trip", params.RobustX[i], dec.RobustX[i])
		testutils.AssertBoolsEqual(t, "robustP round trip", true, params.Descriptor.Curve.Equal(params.RobustP[i], dec.RobustP[i]))
	}
}
