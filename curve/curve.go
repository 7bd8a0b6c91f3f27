// Package curve implements the supersingular elliptic curve
// E: y²=x³+1 over Fp used by the pairing engine, following spec.md §4.2.
//
// Grounded on original_source/curve.c (point_add, proj_double,
// proj_mix_in, point_random, point_mul) and the teacher's curve.go
// (Point{X,Y}, EcAdd/EcMul functional style, never mutating arguments).
// Unlike the teacher (a fixed secp256k1 Point over *big.Int), points here
// carry Fp2 coordinates because the pairing's second argument lives in
// E(Fp²); the same Add/Double/ScalarMul code serves both E(Fp) points
// (imaginary part always zero) and general E(Fp²) points, mirroring how
// original_source/curve.c's point_add operates on fp2_t uniformly rather
// than keeping separate base-field and extension-field code paths. This
// consolidates the C library's separate point_mul/general_point_mul into
// one ScalarMul implementation.
package curve

import (
	"math/big"

	"threshold.network/ibecore/fp2"
	"threshold.network/ibecore/ibeerrors"
)

// Curve bundles the supersingular curve y²=x³+1 over Fp together with the
// subgroup order q it will be used with — this is spec.md §3's "curve/system
// descriptor" minus the generator and fixed-base table, which live one
// level up in package system. A Curve is immutable after New and safe for
// concurrent read-only use (spec.md §5).
type Curve struct {
	F2 *fp2.Field

	P *big.Int // base prime, p ≡ 11 mod 12
	Q *big.Int // subgroup order

	Cofactor     *big.Int // (p+1)/q
	CbrtExponent *big.Int // (2p-1)/3, used to recover cube roots in Fp
}

// New validates that p is supersingular-compatible (p ≡ 2 mod 3, so cubing
// is a bijection on Fp) and that the quadratic extension is well formed
// (p ≡ 3 mod 4, checked inside fp2.NewField), then derives the curve's
// fixed constants from p and q.
func New(p, q *big.Int) (*Curve, error) {
	f2, err := fp2.NewField(p)
	if err != nil {
		return nil, ibeerrors.Wrap(ibeerrors.KindDomain, "curve.New", err)
	}
	three := big.NewInt(3)
	if new(big.Int).Mod(p, three).Cmp(big.NewInt(2)) != 0 {
		return nil, ibeerrors.New(ibeerrors.KindDomain, "curve.New", "p must be congruent to 2 mod 3 for y^2=x^3+1 to be supersingular")
	}

	cofactor := new(big.Int).Add(p, big.NewInt(1))
	cofactor.Div(cofactor, q)

	cbrtExp := new(big.Int).Mul(p, big.NewInt(2))
	cbrtExp.Sub(cbrtExp, big.NewInt(1))
	cbrtExp.Div(cbrtExp, three)

	return &Curve{
		F2:           f2,
		P:            new(big.Int).Set(p),
		Q:            new(big.Int).Set(q),
		Cofactor:     cofactor,
		CbrtExponent: cbrtExp,
	}, nil
}

// Point is an affine point of E, either the point at infinity or a pair
// (x,y) ∈ Fp²×Fp² satisfying y²=x³+1. Projective coordinates never cross
// this boundary (spec.md §9).
type Point struct {
	X, Y     *fp2.Element
	Infinity bool
}

// Inf returns the point at infinity.
func (c *Curve) Inf() Point { return Point{Infinity: true} }

// NewPoint builds an affine point from coordinates, without checking the
// curve equation; use IsOnCurve to validate untrusted input.
func (c *Curve) NewPoint(x, y *fp2.Element) Point {
	return Point{X: x, Y: y}
}

// IsOnCurve checks y²=x³+1 (spec invariant (a)); the infinity point always
// satisfies it vacuously.
func (c *Curve) IsOnCurve(P Point) bool {
	if P.Infinity {
		return true
	}
	f2 := c.F2
	lhs := f2.Sqr(P.Y)
	rhs := f2.Mul(f2.Sqr(P.X), P.X)
	rhs = f2.Add(rhs, f2.One())
	return lhs.Equal(rhs)
}

// Equal reports whether P and Q denote the same point.
func (c *Curve) Equal(P, Q Point) bool {
	if P.Infinity || Q.Infinity {
		return P.Infinity == Q.Infinity
	}
	return P.X.Equal(Q.X) && P.Y.Equal(Q.Y)
}

// Neg returns -P.
func (c *Curve) Neg(P Point) Point {
	if P.Infinity {
		return P
	}
	return Point{X: P.X, Y: c.F2.Neg(P.Y)}
}

// Add returns P+Q under the group law, handling the three degenerate
// cases explicitly: either operand is infinity, or the operands are
// additive inverses of each other. Grounded on original_source/curve.c's
// point_add.
func (c *Curve) Add(P, Q Point) Point {
	if P.Infinity {
		return Q
	}
	if Q.Infinity {
		return P
	}

	f2 := c.F2

	if P.X.Equal(Q.X) {
		if P.Y.Equal(f2.Neg(Q.Y)) {
			return c.Inf()
		}
		return c.Double(P)
	}

	// lambda = (Qy - Py) / (Qx - Px)
	num := f2.Sub(Q.Y, P.Y)
	den := f2.Sub(Q.X, P.X)
	lambda, err := f2.Div(num, den)
	if err != nil {
		// den != 0 was just established by the X.Equal check above.
		panic(ibeerrors.Wrap(ibeerrors.KindArithmetic, "curve.Add", err))
	}

	// Rx = lambda^2 - Px - Qx
	rx := f2.Sub(f2.Sub(f2.Sqr(lambda), P.X), Q.X)
	// Ry = (Px - Rx) * lambda - Py
	ry := f2.Sub(f2.Mul(f2.Sub(P.X, rx), lambda), P.Y)

	return Point{X: rx, Y: ry}
}

// Double returns 2P, avoiding inversion-by-zero on points of order 2 (which
// cannot occur here since the curve has no rational 2-torsion reachable
// from q-torsion generators) by using 2y as the slope denominator.
func (c *Curve) Double(P Point) Point {
	if P.Infinity {
		return P
	}
	f2 := c.F2
	if P.Y.IsZero() {
		return c.Inf()
	}

	// lambda = 3x^2 / 2y  (a=0 for y^2=x^3+1)
	threeX2 := f2.MulScalar(f2.Sqr(P.X), big.NewInt(3))
	twoY := f2.Add(P.Y, P.Y)
	lambda, err := f2.Div(threeX2, twoY)
	if err != nil {
		panic(ibeerrors.Wrap(ibeerrors.KindArithmetic, "curve.Double", err))
	}

	rx := f2.Sub(f2.Sqr(lambda), f2.Add(P.X, P.X))
	ry := f2.Sub(f2.Mul(f2.Sub(P.X, rx), lambda), P.Y)

	return Point{X: rx, Y: ry}
}
