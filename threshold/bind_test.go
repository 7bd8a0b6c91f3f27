package threshold

import (
	"testing"

	"threshold.network/ibecore/ephemeral"
	"threshold.network/ibecore/internal/testutils"
	"threshold.network/ibecore/system"
	"threshold.network/ibecore/wire"
)

func TestBindShareRoundTrip(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	shares, err := SplitMaster(params, master, 2, 3, nil)
	if err != nil {
		t.Fatalf("SplitMaster: %v", err)
	}
	ks := ExtractShare(params, shares[0], "alice@example.com")

	sharePoint, err := wire.EncodePoint(ks.Point)
	if err != nil {
		t.Fatalf("EncodePoint: %v", err)
	}

	pkgKP, err := ephemeral.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair (pkg): %v", err)
	}
	clientKP, err := ephemeral.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair (client): %v", err)
	}

	bound, err := BindShare(pkgKP.PrivateKey, clientKP.PublicKey, ks, sharePoint)
	if err != nil {
		t.Fatalf("BindShare: %v", err)
	}
	testutils.AssertIntsEqual(t, "bound share carries the original index", ks.Index, bound.Index)

	recovered, err := UnbindShare(clientKP.PrivateKey, pkgKP.PublicKey, bound)
	if err != nil {
		t.Fatalf("UnbindShare: %v", err)
	}
	testutils.AssertBytesEqual(t, sharePoint, recovered)
}

func TestUnbindShareFailsWithWrongClientKey(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	shares, err := SplitMaster(params, master, 2, 3, nil)
	if err != nil {
		t.Fatalf("SplitMaster: %v", err)
	}
	ks := ExtractShare(params, shares[0], "alice@example.com")
	sharePoint, err := wire.EncodePoint(ks.Point)
	if err != nil {
		t.Fatalf("EncodePoint: %v", err)
	}

	pkgKP, err := ephemeral.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair (pkg): %v", err)
	}
	clientKP, err := ephemeral.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair (client): %v", err)
	}
	impostorKP, err := ephemeral.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair (impostor): %v", err)
	}

	bound, err := BindShare(pkgKP.PrivateKey, clientKP.PublicKey, ks, sharePoint)
	if err != nil {
		t.Fatalf("BindShare: %v", err)
	}

	if _, err := UnbindShare(impostorKP.PrivateKey, pkgKP.PublicKey, bound); err == nil {
		t.Fatalf("expected UnbindShare to fail for a session it was not bound to")
	}
}
