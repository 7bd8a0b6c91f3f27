package sig

import (
	"testing"

	"threshold.network/ibecore/internal/testutils"
	"threshold.network/ibecore/system"
)

func TestBLSRoundTrip(t *testing.T) {
	params, _, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	kp, err := BLSKeygen(params, nil)
	if err != nil {
		t.Fatalf("BLSKeygen: %v", err)
	}

	message := []byte("Hello, World")
	sigma := BLSSign(params, message, kp.Priv)

	testutils.AssertBoolsEqual(t, "signature verifies under its own public key", true, BLSVerify(params, sigma, message, kp.Pub))

	other, err := BLSKeygen(params, nil)
	if err != nil {
		t.Fatalf("BLSKeygen: %v", err)
	}
	testutils.AssertBoolsEqual(t, "signature fails under an independent public key", false, BLSVerify(params, sigma, message, other.Pub))
}

func TestIBSChain(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	user, err := BLSKeygen(params, nil)
	if err != nil {
		t.Fatalf("BLSKeygen: %v", err)
	}

	id := "alice"
	cert, err := IBECertify(params, master, user.Pub, id)
	if err != nil {
		t.Fatalf("IBECertify: %v", err)
	}

	message := []byte("Hello, World")
	sigma := IBESign(params, message, user.Priv, cert)

	ok, err := IBEVerify(params, sigma, message, user.Pub, id)
	if err != nil {
		t.Fatalf("IBEVerify: %v", err)
	}
	testutils.AssertBoolsEqual(t, "signature verifies with matching pub and id", true, ok)

	otherUser, err := BLSKeygen(params, nil)
	if err != nil {
		t.Fatalf("BLSKeygen: %v", err)
	}
	ok, err = IBEVerify(params, sigma, message, otherUser.Pub, id)
	if err != nil {
		t.Fatalf("IBEVerify: %v", err)
	}
	testutils.AssertBoolsEqual(t, "signature fails under a different public key", false, ok)

	ok, err = IBEVerify(params, sigma, message, user.Pub, "bob")
	if err != nil {
		t.Fatalf("IBEVerify: %v", err)
	}
	testutils.AssertBoolsEqual(t, "signature fails under a different id", false, ok)
}

func TestIBECertifyShareMatchesDirectCertify(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	user, err := BLSKeygen(params, nil)
	if err != nil {
		t.Fatalf("BLSKeygen: %v", err)
	}
	id := "alice"

	direct, err := IBECertify(params, master, user.Pub, id)
	if err != nil {
		t.Fatalf("IBECertify: %v", err)
	}

	// A single-share certificate with the whole master playing the role
	// of its own one-party "share" must reproduce the direct certificate.
	share, err := IBECertifyShare(params, master, user.Pub, id)
	if err != nil {
		t.Fatalf("IBECertifyShare: %v", err)
	}

	testutils.AssertBoolsEqual(t, "certify-share with the full master matches direct certify", true, params.Descriptor.Curve.Equal(direct.Point, share.Point))
}
