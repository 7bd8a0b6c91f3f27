package threshold

import (
	"testing"

	"threshold.network/ibecore/internal/testutils"
	"threshold.network/ibecore/system"
)

func TestSplitMasterConstructMasterRoundTrip(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	shares, err := SplitMaster(params, master, 2, 3, nil)
	if err != nil {
		t.Fatalf("SplitMaster: %v", err)
	}
	if len(shares) != 3 {
		t.Fatalf("got %d shares, want 3", len(shares))
	}

	recovered, err := ConstructMaster(params, shares[:2])
	if err != nil {
		t.Fatalf("ConstructMaster: %v", err)
	}
	testutils.AssertBigIntsEqual(t, "recovered master matches original", master, recovered)

	recoveredAll, err := ConstructMaster(params, shares)
	if err != nil {
		t.Fatalf("ConstructMaster with all shares: %v", err)
	}
	testutils.AssertBigIntsEqual(t, "recovered master matches original using all shares", master, recoveredAll)
}

func TestConstructMasterRejectsTooFewShares(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	shares, err := SplitMaster(params, master, 3, 5, nil)
	if err != nil {
		t.Fatalf("SplitMaster: %v", err)
	}
	if _, err := ConstructMaster(params, shares[:2]); err == nil {
		t.Fatalf("expected ConstructMaster to reject a below-threshold share set")
	}
}

func TestExtractShareCombineMatchesDirectExtraction(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	shares, err := SplitMaster(params, master, 2, 3, nil)
	if err != nil {
		t.Fatalf("SplitMaster: %v", err)
	}

	id := "alice@example.com"
	var keyShares []KeyShare
	for _, s := range shares[:2] {
		keyShares = append(keyShares, ExtractShare(params, s, id))
	}

	combined, err := Combine(params, keyShares)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	Qid := system.MapToPoint(params.Descriptor, id)
	direct := params.Descriptor.Curve.ScalarMul(master, Qid)

	testutils.AssertBoolsEqual(t, "combined key matches directly-extracted key", true, params.Descriptor.Curve.Equal(direct, combined))
}

func TestCombineRejectsTooFewShares(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	shares, err := SplitMaster(params, master, 3, 5, nil)
	if err != nil {
		t.Fatalf("SplitMaster: %v", err)
	}

	id := "alice@example.com"
	var keyShares []KeyShare
	for _, s := range shares[:2] {
		keyShares = append(keyShares, ExtractShare(params, s, id))
	}
	if _, err := Combine(params, keyShares); err == nil {
		t.Fatalf("expected Combine to reject a below-threshold share set")
	}
}

func TestVerifyShareAcceptsHonestShare(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	shares, err := SplitMaster(params, master, 2, 3, nil)
	if err != nil {
		t.Fatalf("SplitMaster: %v", err)
	}

	id := "alice@example.com"
	ks := ExtractShare(params, shares[0], id)

	ok, err := VerifyShare(params, id, ks)
	if err != nil {
		t.Fatalf("VerifyShare: %v", err)
	}
	testutils.AssertBoolsEqual(t, "honest share verifies", true, ok)
}

func TestVerifyShareRejectsTamperedShare(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	shares, err := SplitMaster(params, master, 2, 3, nil)
	if err != nil {
		t.Fatalf("SplitMaster: %v", err)
	}

	id := "alice@example.com"
	ks := ExtractShare(params, shares[0], id)
	// Swap in the share computed for a different party's index, which was
	// evaluated at a different x and so does not match RobustP[0].
	tampered := KeyShare{Index: ks.Index, Point: ExtractShare(params, shares[1], id).Point}

	ok, err := VerifyShare(params, id, tampered)
	if err != nil {
		t.Fatalf("VerifyShare: %v", err)
	}
	testutils.AssertBoolsEqual(t, "tampered share fails verification", false, ok)
}

func TestVerifyShareRejectsWrongIdentity(t *testing.T) {
	params, master, err := system.Setup(40, 16, "test-system", nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	shares, err := SplitMaster(params, master, 2, 3, nil)
	if err != nil {
		t.Fatalf("SplitMaster: %v", err)
	}

	ks := ExtractShare(params, shares[0], "alice@example.com")

	ok, err := VerifyShare(params, "bob@example.com", ks)
	if err != nil {
		t.Fatalf("VerifyShare: %v", err)
	}
	testutils.AssertBoolsEqual(t, "share for a different identity fails verification", false, ok)
}
