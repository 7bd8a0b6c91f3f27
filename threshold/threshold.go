// Package threshold implements spec.md §4.7's Shamir-based master-key
// splitting and reconstruction, both in the scalar domain (master shares)
// and in the exponent (combining key shares as curve points).
//
// Grounded on the teacher's internal/testutils/shamir.go
// (generatePolynomial/calculatePolynomial/GenerateKeyShares), promoted
// here from a test-only helper into a production package and generalized
// to also combine "in the exponent" (spec.md's combine), which the
// teacher's Schnorr-only test helper never needed.
package threshold

import (
	"io"
	"math/big"

	"threshold.network/ibecore/curve"
	"threshold.network/ibecore/ibeerrors"
	"threshold.network/ibecore/system"
)

// MasterShare is spec.md's share_i=(i,f(x_i)): the i-th party's scalar
// share of the master key, with i identifying which published
// evaluation point (params.RobustX[i-1]) it was evaluated at.
type MasterShare struct {
	Index int
	Y     *big.Int
}

// KeyShare is spec.md's extract_share output: the i-th party's share of
// an identity's private key, y_i·Q_id.
type KeyShare struct {
	Index int
	Point curve.Point
}

// SplitMaster implements spec.md §4.7's split_master: build a random
// degree-(t-1) polynomial with f(0)=master, sample n pairwise-distinct
// nonzero evaluation points, and emit both the scalar shares and the
// robustness data (params.RobustX/RobustP) a caller can use to verify a
// share later via VerifyShare.
func SplitMaster(params *system.Params, master *big.Int, t, n int, r io.Reader) ([]MasterShare, error) {
	if t <= 0 || n <= 0 || t > n {
		return nil, ibeerrors.New(ibeerrors.KindDomain, "threshold.SplitMaster", "require 0 < t <= n")
	}
	q := params.Descriptor.Curve.Q

	coeffs, err := generatePolynomial(master, t, q, r)
	if err != nil {
		return nil, err
	}
	xs, err := sampleDistinctNonzero(n, q, r)
	if err != nil {
		return nil, err
	}

	shares := make([]MasterShare, n)
	robustP := make([]curve.Point, n)
	for i := 0; i < n; i++ {
		yi := evalPolynomial(coeffs, xs[i], q)
		shares[i] = MasterShare{Index: i + 1, Y: yi}
		robustP[i] = params.Descriptor.Curve.ScalarMul(yi, params.PPub)
	}

	params.T = t
	params.N = n
	params.RobustX = xs
	params.RobustP = robustP

	return shares, nil
}

// ConstructMaster implements spec.md §4.7's construct_master: Lagrange-
// interpolate the master scalar from at least t scalar shares, each
// carrying the index into params.RobustX it was evaluated at.
func ConstructMaster(params *system.Params, shares []MasterShare) (*big.Int, error) {
	if len(shares) < params.T {
		return nil, ibeerrors.New(ibeerrors.KindStructural, "threshold.ConstructMaster", "not enough shares to meet the threshold")
	}
	q := params.Descriptor.Curve.Q

	xs, err := sharePoints(params, shares)
	if err != nil {
		return nil, err
	}

	master := big.NewInt(0)
	for i, s := range shares {
		li, err := lagrangeCoefficient(xs, i, q)
		if err != nil {
			return nil, ibeerrors.Wrap(ibeerrors.KindStructural, "threshold.ConstructMaster", err)
		}
		term := new(big.Int).Mul(li, s.Y)
		master.Add(master, term)
		master.Mod(master, q)
	}
	return master, nil
}

// ExtractShare implements spec.md §4.7's extract_share: maps id to Q and
// scales it by the party's master-share scalar.
func ExtractShare(params *system.Params, masterShare MasterShare, id string) KeyShare {
	Qid := system.MapToPoint(params.Descriptor, id)
	point := params.Descriptor.Curve.ScalarMul(masterShare.Y, Qid)
	return KeyShare{Index: masterShare.Index, Point: point}
}

// Combine implements spec.md §4.7's combine: Lagrange-combine key shares
// in the group, Σ L_i·(y_i·Q) = (Σ L_i·y_i)·Q = master·Q, using the
// public params.RobustX values indexed by each share's carried index.
func Combine(params *system.Params, shares []KeyShare) (curve.Point, error) {
	if len(shares) < params.T {
		return curve.Point{}, ibeerrors.New(ibeerrors.KindStructural, "threshold.Combine", "not enough shares to meet the threshold")
	}
	q := params.Descriptor.Curve.Q

	ms := make([]MasterShare, len(shares))
	for i, s := range shares {
		ms[i] = MasterShare{Index: s.Index}
	}
	xs, err := sharePoints(params, ms)
	if err != nil {
		return curve.Point{}, err
	}

	acc := params.Descriptor.Curve.Inf()
	for i, s := range shares {
		li, err := lagrangeCoefficient(xs, i, q)
		if err != nil {
			return curve.Point{}, ibeerrors.Wrap(ibeerrors.KindStructural, "threshold.Combine", err)
		}
		term := params.Descriptor.Curve.ScalarMul(li, s.Point)
		acc = params.Descriptor.Curve.Add(acc, term)
	}
	return acc, nil
}

// VerifyShare is a supplemental operation (not named by spec.md §4.7,
// which calls the analogous check "out of scope for the protocol", but
// does not forbid offering the primitive): it checks a key share against
// the published robustness point P_i=f(x_i)·P_pub via a pairing identity,
// e(share,Φ(P_pub)) == e(Q_id,Φ(P_i)), which holds because both sides
// equal e(Q_id,Φ(P))^(x·y_i) by bilinearity.
func VerifyShare(params *system.Params, id string, share KeyShare) (bool, error) {
	if share.Index < 1 || share.Index > len(params.RobustP) {
		return false, ibeerrors.New(ibeerrors.KindStructural, "threshold.VerifyShare", "share index out of range")
	}
	Qid := system.MapToPoint(params.Descriptor, id)
	Pi := params.RobustP[share.Index-1]

	lhs := params.Descriptor.Engine.Tate(share.Point, params.Descriptor.Phi(params.PPub))
	rhs := params.Descriptor.Engine.Tate(Qid, params.Descriptor.Phi(Pi))
	return lhs.Equal(rhs), nil
}

// sharePoints resolves each share's index into its published evaluation
// point, failing if any index is out of range or duplicated.
func sharePoints(params *system.Params, shares []MasterShare) ([]*big.Int, error) {
	seen := make(map[int]bool, len(shares))
	xs := make([]*big.Int, len(shares))
	for i, s := range shares {
		if s.Index < 1 || s.Index > len(params.RobustX) {
			return nil, ibeerrors.New(ibeerrors.KindStructural, "threshold.sharePoints", "share index out of range")
		}
		if seen[s.Index] {
			return nil, ibeerrors.New(ibeerrors.KindStructural, "threshold.sharePoints", "duplicate share index")
		}
		seen[s.Index] = true
		xs[i] = params.RobustX[s.Index-1]
	}
	return xs, nil
}
