package pairing

import (
	"math/big"

	"threshold.network/ibecore/curve"
	"threshold.network/ibecore/fp2"
)

// Solinas is a decomposition q = 2^A + signB*2^B + signA, with 0 < B < A
// and signB,signA ∈ {-1,+1}, matching the three-nonzero-digit primes
// spec.md §4.3/§6 calls "Solinas primes" (q=2^a±2^b±1). Deriving this once
// at descriptor-load time lets the Miller loop replace most of its
// conditional add steps with a pure doubling chain plus two corrections.
type Solinas struct {
	A, B  int
	SignB int
	SignA int
}

// DecomposeSolinas searches for a Solinas form of q with A fixed at
// q.BitLen()-1. It returns ok=false when none exists (e.g. q=3, whose only
// candidate b would equal a; q=5 in the tiny-prime test scenario does
// resolve, as 2^2+2^1-1), in which case callers must
// fall back to the generic loop in miller.go per spec.md §6: "if q is not
// Solinas-compatible, fall back to a generic Miller loop rather than
// failing the load."
func DecomposeSolinas(q *big.Int) (*Solinas, bool) {
	if q.Sign() <= 0 {
		return nil, false
	}
	a := q.BitLen() - 1
	pow2 := func(n int) *big.Int { return new(big.Int).Lsh(big.NewInt(1), uint(n)) }

	for _, signA := range []int{1, -1} {
		rem := new(big.Int).Sub(q, pow2(a))
		if signA == 1 {
			rem.Sub(rem, big.NewInt(1))
		} else {
			rem.Add(rem, big.NewInt(1))
		}
		if rem.Sign() == 0 {
			continue // degenerate: no 2^b term at all, not a 3-digit form
		}
		for _, signB := range []int{1, -1} {
			var candidate *big.Int
			if signB == 1 {
				candidate = new(big.Int).Set(rem)
			} else {
				candidate = new(big.Int).Neg(rem)
			}
			if candidate.Sign() <= 0 {
				continue
			}
			bitLen := trailing1LenHelper(candidate)
			if bitLen < 0 {
				continue // candidate is not a single power of two
			}
			b := bitLen - 1
			if b <= 0 || b >= a {
				continue
			}
			return &Solinas{A: a, B: b, SignB: signB, SignA: signA}, true
		}
	}
	return nil, false
}

// trailing1LenHelper returns x.BitLen() when x has exactly one set bit
// (i.e. x is a power of two), or -1 otherwise.
func trailing1LenHelper(x *big.Int) int {
	n := new(big.Int).Set(x)
	count := 0
	ones := 0
	for n.Sign() != 0 {
		if n.Bit(0) == 1 {
			ones++
		}
		count++
		n.Rsh(n, 1)
	}
	if ones != 1 {
		return -1
	}
	return count
}

// TateSolinas computes e(P,Q) using the Solinas-specialized loop described
// in spec.md §4.3: double P up to 2^A (saving the intermediate 2^B·P and
// its partial Miller value along the way), then fold in the 2^B and ±1
// correction terms via the standard addition-of-Miller-functions identity
// f_{m+n,P}(Q) = f_{m,P}(Q)·f_{n,P}(Q)·g_{mP,nP}(Q)/g_{(m+n)P}(Q), with
// f_{-n,P} = 1/(f_{n,P}·v_{nP}), v_{nP} being the vertical line at nP.
func TateSolinas(c *curve.Curve, P, Q curve.Point, sol *Solinas) *fp2.Element {
	f2 := c.F2
	if P.Infinity || Q.Infinity {
		return FinalExponentiation(c, f2.One())
	}
	f := f2.One()
	T := P

	var Tb curve.Point
	var fb *fp2.Element

	for i := 1; i <= sol.A; i++ {
		num, den, T2 := tangentLineAndDouble(c, T, Q)
		ratio, _ := f2.Div(num, den)
		f = f2.Mul(f2.Sqr(f), ratio)
		T = T2
		if i == sol.B {
			Tb = T
			fb = f.Clone()
		}
	}

	// Fold in s_b * 2^B * P.
	signedTb := Tb
	signedFb := fb
	if sol.SignB < 0 {
		signedTb = c.Neg(Tb)
		inv, err := f2.Inv(f2.Mul(fb, f2.Sub(Q.X, Tb.X)))
		if err == nil {
			signedFb = inv
		}
	}
	num, den, Tsum := addLineAndAdd(c, T, signedTb, Q)
	ratio, _ := f2.Div(num, den)
	f = f2.Mul(f2.Mul(f, signedFb), ratio)
	T = Tsum

	// Fold in s_a * P. f_{1,P} is the identity; f_{-1,P} = 1/v_P, the
	// inverted vertical at P, folded into the closing line's denominator.
	signedP := P
	if sol.SignA < 0 {
		signedP = c.Neg(P)
	}
	num2, den2, _ := addLineAndAdd(c, T, signedP, Q)
	if sol.SignA < 0 {
		den2 = f2.Mul(den2, f2.Sub(Q.X, P.X))
	}
	ratio2, _ := f2.Div(num2, den2)
	f = f2.Mul(f, ratio2)

	return FinalExponentiation(c, f)
}

func tangentLineAndDouble(c *curve.Curve, T, Q curve.Point) (num, den *fp2.Element, T2 curve.Point) {
	f2 := c.F2
	lambda := doublingSlope(c, T)
	num = f2.Sub(f2.Sub(Q.Y, T.Y), f2.Mul(lambda, f2.Sub(Q.X, T.X)))
	T2 = c.Double(T)
	den = f2.Sub(Q.X, T2.X)
	return num, den, T2
}

func addLineAndAdd(c *curve.Curve, T, R, Q curve.Point) (num, den *fp2.Element, sum curve.Point) {
	f2 := c.F2
	sum = c.Add(T, R)
	if sum.Infinity {
		num = f2.Sub(Q.X, T.X)
		den = f2.One()
		return num, den, sum
	}
	lambda := addSlope(c, T, R)
	num = f2.Sub(f2.Sub(Q.Y, T.Y), f2.Mul(lambda, f2.Sub(Q.X, T.X)))
	den = f2.Sub(Q.X, sum.X)
	return num, den, sum
}
