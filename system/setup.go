package system

import (
	"crypto/rand"
	"io"
	"math/big"

	"threshold.network/ibecore/ibeerrors"
	"threshold.network/ibecore/pairing"
)

// millerRabinRounds matches the confidence level crypto/rand-backed
// prime search conventionally uses for cryptographic primes (the same
// margin math/big's own ProbablyPrime recommends for externally-supplied
// candidates).
const millerRabinRounds = 20

// Setup implements spec.md §4.5's IBE_setup: derive a qk-bit Solinas
// prime q, a k-bit prime p ≡ 11 mod 12 built from q, a random generator P
// of order q, a master scalar x, and P_pub=x·P, then precompute the
// fixed-base table for P and the Miller cache for P_pub.
//
// kBits must exceed qkBits+4 so a nonempty cofactor multiplier r remains;
// qkBits must be at least 3 so a 2^a±2^b±1 form with distinct a>b>0 is
// representable.
func Setup(kBits, qkBits int, systemID string, r io.Reader) (*Params, *big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	if qkBits < 3 {
		return nil, nil, ibeerrors.New(ibeerrors.KindDomain, "system.Setup", "qkBits must be at least 3")
	}
	if kBits <= qkBits+4 {
		return nil, nil, ibeerrors.New(ibeerrors.KindDomain, "system.Setup", "kBits must exceed qkBits+4")
	}

	q, err := sampleSolinasPrime(qkBits, r)
	if err != nil {
		return nil, nil, ibeerrors.Wrap(ibeerrors.KindRNG, "system.Setup", err)
	}

	p, err := samplePrimeFromQ(q, kBits, qkBits, r)
	if err != nil {
		return nil, nil, ibeerrors.Wrap(ibeerrors.KindRNG, "system.Setup", err)
	}

	desc, err := NewDescriptor(p, q)
	if err != nil {
		return nil, nil, ibeerrors.Wrap(ibeerrors.KindDomain, "system.Setup", err)
	}

	x, err := rand.Int(r, q)
	if err != nil {
		return nil, nil, ibeerrors.Wrap(ibeerrors.KindRNG, "system.Setup", err)
	}

	P, err := desc.Curve.PointRandom(r)
	if err != nil {
		return nil, nil, ibeerrors.Wrap(ibeerrors.KindRNG, "system.Setup", err)
	}
	PPub := desc.Curve.ScalarMul(x, P)

	params := &Params{
		Descriptor:     desc,
		Version:        CurrentVersion,
		SystemID:       systemID,
		Generator:      P,
		GeneratorTable: desc.Curve.Preprocess(P),
		PPub:           PPub,
		PPubCache:      pairing.Preprocess(desc.Curve, PPub),
	}
	return params, x, nil
}

// sampleSolinasPrime samples a qkBits-bit prime of the form
// 2^a ± 2^b ± 1 with a=qkBits-1 fixed (to guarantee the bit length) and
// b, and the two signs, resampled until the result is prime, per
// spec.md §4.5 step 1.
func sampleSolinasPrime(qkBits int, r io.Reader) (*big.Int, error) {
	a := qkBits - 1
	for {
		bBig, err := rand.Int(r, big.NewInt(int64(a)))
		if err != nil {
			return nil, err
		}
		b := int(bBig.Int64())
		if b == 0 {
			b = 1
		}

		for _, signA := range []int64{1, -1} {
			for _, signB := range []int64{1, -1} {
				q := new(big.Int).Lsh(big.NewInt(1), uint(a))
				term := new(big.Int).Lsh(big.NewInt(1), uint(b))
				term.Mul(term, big.NewInt(signB))
				q.Add(q, term)
				q.Add(q, big.NewInt(signA))

				if q.BitLen() == qkBits && q.ProbablyPrime(millerRabinRounds) {
					return q, nil
				}
			}
		}
	}
}

// samplePrimeFromQ samples r of length kBits-qkBits-4 bits and sets
// p = 12*q*r-1, retrying until p is prime, per spec.md §4.5 step 2. Every
// candidate is automatically ≡ 11 mod 12 by construction, so only
// primality needs checking.
func samplePrimeFromQ(q *big.Int, kBits, qkBits int, r io.Reader) (*big.Int, error) {
	rBits := kBits - qkBits - 4
	low := new(big.Int).Lsh(big.NewInt(1), uint(rBits-1))
	high := new(big.Int).Lsh(big.NewInt(1), uint(rBits))
	span := new(big.Int).Sub(high, low)

	twelve := big.NewInt(12)
	one := big.NewInt(1)

	for {
		delta, err := rand.Int(r, span)
		if err != nil {
			return nil, err
		}
		rv := new(big.Int).Add(low, delta)
		if rv.Bit(0) == 0 {
			rv.Add(rv, one)
		}

		p := new(big.Int).Mul(twelve, q)
		p.Mul(p, rv)
		p.Sub(p, one)

		if p.ProbablyPrime(millerRabinRounds) {
			return p, nil
		}
	}
}
