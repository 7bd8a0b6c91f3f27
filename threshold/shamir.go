package threshold

import (
	"crypto/rand"
	"io"
	"math/big"

	"threshold.network/ibecore/ibeerrors"
)

// generatePolynomial builds a degree-(t-1) polynomial over Fq with
// f(0)=secret and the remaining t-1 coefficients uniform in [0,q),
// generalized from the teacher's internal/testutils/shamir.go
// generatePolynomial (same shape: coefficients[0] is the fixed secret,
// the rest random mod order).
func generatePolynomial(secret *big.Int, t int, q *big.Int, r io.Reader) ([]*big.Int, error) {
	coeffs := make([]*big.Int, t)
	coeffs[0] = new(big.Int).Mod(secret, q)
	for i := 1; i < t; i++ {
		c, err := rand.Int(r, q)
		if err != nil {
			return nil, ibeerrors.Wrap(ibeerrors.KindRNG, "threshold.generatePolynomial", err)
		}
		coeffs[i] = c
	}
	return coeffs, nil
}

// evalPolynomial evaluates coeffs at x modulo q via Horner's rule,
// generalized from the teacher's calculatePolynomial (which re-exponentiates
// x^i from scratch per term; Horner's rule is spec.md §4.7's explicit
// instruction: "Horner's rule with mod-q reductions is used to evaluate").
func evalPolynomial(coeffs []*big.Int, x *big.Int, q *big.Int) *big.Int {
	result := big.NewInt(0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, coeffs[i])
		result.Mod(result, q)
	}
	return result
}

// sampleDistinctNonzero samples n pairwise-distinct nonzero values in
// [1,q), per spec.md §4.7 step 2's robustx requirement.
func sampleDistinctNonzero(n int, q *big.Int, r io.Reader) ([]*big.Int, error) {
	seen := make(map[string]bool, n)
	out := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		for {
			v, err := rand.Int(r, new(big.Int).Sub(q, big.NewInt(1)))
			if err != nil {
				return nil, ibeerrors.Wrap(ibeerrors.KindRNG, "threshold.sampleDistinctNonzero", err)
			}
			v.Add(v, big.NewInt(1)) // shift into [1,q-1]
			key := v.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			out[i] = v
			break
		}
	}
	return out, nil
}

// lagrangeCoefficient computes L_i = Π_{j≠i} x_j/(x_j-x_i) mod q for the
// evaluation point at position i within xs, per spec.md §4.7's
// construct_master/combine.
func lagrangeCoefficient(xs []*big.Int, i int, q *big.Int) (*big.Int, error) {
	num := big.NewInt(1)
	den := big.NewInt(1)
	xi := xs[i]
	for j, xj := range xs {
		if j == i {
			continue
		}
		num.Mul(num, xj)
		num.Mod(num, q)

		diff := new(big.Int).Sub(xj, xi)
		diff.Mod(diff, q)
		den.Mul(den, diff)
		den.Mod(den, q)
	}
	denInv := new(big.Int).ModInverse(den, q)
	if denInv == nil {
		return nil, ibeerrors.New(ibeerrors.KindStructural, "threshold.lagrangeCoefficient", "evaluation points are not pairwise distinct")
	}
	return new(big.Int).Mod(new(big.Int).Mul(num, denInv), q), nil
}
