package threshold

import (
	"threshold.network/ibecore/ephemeral"
	"threshold.network/ibecore/ibeerrors"
)

// BoundShare is a key share together with the symmetric transcript it was
// sealed under, letting the recipient's own ephemeral key confirm the PKG
// meant this particular session to receive it.
type BoundShare struct {
	Index      int
	Ciphertext []byte
}

// BindShare implements the supplemental share-binding primitive: it
// derives a transcript key from an ECDH exchange between the PKG's and
// the client's ephemeral keypairs and seals the key share's serialized
// point under it, so a party intercepting the transport cannot splice a
// share meant for a different session onto its own.
//
// Grounded on the teacher's ephemeral package (ECDH-derived symmetric
// box); original_source's request.c/pkghtml.c perform an analogous
// binding over HTTPS session state, which this reinstates as a pairing-
// core primitive without the HTTP server itself.
func BindShare(pkgKey *ephemeral.PrivateKey, clientKey *ephemeral.PublicKey, share KeyShare, sharePoint []byte) (BoundShare, error) {
	transcriptKey := pkgKey.Ecdh(clientKey)
	ciphertext, err := transcriptKey.Encrypt(sharePoint)
	if err != nil {
		return BoundShare{}, ibeerrors.Wrap(ibeerrors.KindStructural, "threshold.BindShare", err)
	}
	return BoundShare{Index: share.Index, Ciphertext: ciphertext}, nil
}

// UnbindShare reverses BindShare: the client recovers the share's
// serialized point using its own private key and the PKG's ephemeral
// public key.
func UnbindShare(clientKey *ephemeral.PrivateKey, pkgKey *ephemeral.PublicKey, bound BoundShare) ([]byte, error) {
	transcriptKey := clientKey.Ecdh(pkgKey)
	plaintext, err := transcriptKey.Decrypt(bound.Ciphertext)
	if err != nil {
		return nil, ibeerrors.Wrap(ibeerrors.KindStructural, "threshold.UnbindShare", err)
	}
	return plaintext, nil
}
