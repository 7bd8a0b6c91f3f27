// Package kem implements spec.md §4.6's identity-based key
// encapsulation: KEM_encrypt_array and KEM_decrypt.
//
// Grounded on original_source/ibe_lib.c's IBE_encrypt_array/IBE_decrypt
// (one ephemeral scalar r shared across every recipient id, one pairing
// per recipient) and hash_H (hashing an Fp2 element's wire serialization
// to derive the shared secret). The teacher has no KEM of its own; the
// crypto/sha256 idiom is carried over from hash.go the same way
// hashcurve's map-to-point carries it.
package kem

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"threshold.network/ibecore/curve"
	"threshold.network/ibecore/fp2"
	"threshold.network/ibecore/ibeerrors"
	"threshold.network/ibecore/system"
	"threshold.network/ibecore/wire"
)

// hkdfInfo domain-separates the KEM's secret derivation from any other
// consumer of the same Fp² serialization (e.g. a future symmetric layer
// keying off the same pairing value for a different purpose).
var hkdfInfo = []byte("ibecore-kem-secret")

// SecretLen is the width of each derived secret, fixed by sha256.
const SecretLen = sha256.Size

// Ciphertext is the per-recipient-group output of Encapsulate: a single
// U=r*P shared across every id, and one derived secret per id.
type Ciphertext struct {
	U       curve.Point
	Secrets [][SecretLen]byte
}

// Encapsulate implements KEM_encrypt_array: samples one ephemeral
// r∈[0,q), sets U=r·P via the precomputed fixed-base table, and for each
// id computes g_i=e(Q_id_i,Φ(P_pub))^r and secret_i=H(g_i).
func Encapsulate(params *system.Params, ids []string, r io.Reader) (*Ciphertext, error) {
	if r == nil {
		r = rand.Reader
	}
	if len(ids) == 0 {
		return nil, ibeerrors.New(ibeerrors.KindDomain, "kem.Encapsulate", "ids must be non-empty")
	}

	q := params.Descriptor.Curve.Q
	ephemeral, err := rand.Int(r, q)
	if err != nil {
		return nil, ibeerrors.Wrap(ibeerrors.KindRNG, "kem.Encapsulate", err)
	}

	U := params.ScalarMulGenerator(ephemeral)

	phiPPub := params.Descriptor.Phi(params.PPub)
	secrets := make([][SecretLen]byte, len(ids))
	for i, id := range ids {
		Qid := system.MapToPoint(params.Descriptor, id)
		g := params.Descriptor.Engine.Tate(Qid, phiPPub)
		gr := params.Descriptor.Curve.F2.Pow(g, ephemeral)
		secrets[i], err = hashSecret(gr)
		if err != nil {
			return nil, ibeerrors.Wrap(ibeerrors.KindArithmetic, "kem.Encapsulate", err)
		}
	}

	return &Ciphertext{U: U, Secrets: secrets}, nil
}

// PrivateKey is an identity's extracted decryption key x·Q_id, produced
// by package threshold's ExtractShare/Combine flow (or, for a
// single-party non-threshold deployment, directly as master·Q_id).
type PrivateKey struct {
	Id   string
	XQid curve.Point
}

// Decapsulate implements KEM_decrypt: g=e(x·Q_id,Φ(U)), secret=H(g).
func Decapsulate(params *system.Params, priv PrivateKey, U curve.Point) ([SecretLen]byte, error) {
	phiU := params.Descriptor.Phi(U)
	g := params.Descriptor.Engine.Tate(priv.XQid, phiU)
	return hashSecret(g)
}

// hashSecret is spec.md §4.6's H: a cryptographic derivation of the Fp2
// element's wire serialization, matching original_source/ibe_lib.c's
// hash_H in role (map a pairing value to a fixed-length secret) but
// using HKDF (extract-then-expand, SHA-256) rather than a bare digest, so the derived
// secret is domain-separated from any other use of the same pairing
// value's serialization.
func hashSecret(g *fp2.Element) ([SecretLen]byte, error) {
	enc, err := wire.EncodeFp2(g)
	if err != nil {
		return [SecretLen]byte{}, err
	}
	var out [SecretLen]byte
	kdf := hkdf.New(sha256.New, enc, nil, hkdfInfo)
	if _, err := io.ReadFull(kdf, out[:]); err != nil {
		return [SecretLen]byte{}, ibeerrors.Wrap(ibeerrors.KindArithmetic, "kem.hashSecret", err)
	}
	return out, nil
}
