package kem

import (
	"testing"

	"threshold.network/ibecore/internal/testutils"
	"threshold.network/ibecore/system"
)

func TestEncapsulateDecapsulateRoundTrip(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	id := "blynn@stanford.edu"
	ct, err := Encapsulate(params, []string{id}, nil)
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}

	Qid := system.MapToPoint(params.Descriptor, id)
	priv := PrivateKey{Id: id, XQid: params.Descriptor.Curve.ScalarMul(master, Qid)}

	secret, err := Decapsulate(params, priv, ct.U)
	if err != nil {
		t.Fatalf("Decapsulate: %v", err)
	}

	testutils.AssertBytesEqual(t, ct.Secrets[0][:], secret[:])
}

func TestEncapsulateDifferentIdsGetDifferentSecrets(t *testing.T) {
	params, _, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	ct, err := Encapsulate(params, []string{"alice@example.com", "bob@example.com"}, nil)
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}

	testutils.AssertBoolsEqual(t, "different ids yield different secrets", false, ct.Secrets[0] == ct.Secrets[1])
}

func TestEncapsulateRejectsEmptyIds(t *testing.T) {
	params, _, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := Encapsulate(params, nil, nil); err == nil {
		t.Fatalf("expected Encapsulate to reject an empty id list")
	}
}

func TestDecapsulateWithWrongPrivateKeyFails(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	id := "alice@example.com"
	ct, err := Encapsulate(params, []string{id}, nil)
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}

	wrongQid := system.MapToPoint(params.Descriptor, "eve@example.com")
	wrongPriv := PrivateKey{Id: "eve@example.com", XQid: params.Descriptor.Curve.ScalarMul(master, wrongQid)}

	secret, err := Decapsulate(params, wrongPriv, ct.U)
	if err != nil {
		t.Fatalf("Decapsulate: %v", err)
	}
	testutils.AssertBoolsEqual(t, "wrong identity's key must not reproduce the secret", false, ct.Secrets[0] == secret)
}
