package ephemeral

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec"
)

// ShareTranscriptKey is the symmetric key a PKG and a client derive over
// an ephemeral ECDH exchange to authenticate one key-share handoff
// (`threshold.BindShare`/`UnbindShare`). It satisfies `SymmetricKey`.
type ShareTranscriptKey struct {
	box *box
}

// Ecdh derives the shared transcript key for one PKG/client session: an
// Elliptic Curve Diffie-Hellman exchange between the PKG's ephemeral
// private key and the client's ephemeral public key, hashed down to a
// 32-byte secretbox key. Either side can call this with its own private
// key and the other's public key and land on the same key.
func (pk *PrivateKey) Ecdh(publicKey *PublicKey) *ShareTranscriptKey {
	shared := btcec.GenerateSharedSecret(
		(*btcec.PrivateKey)(pk),
		(*btcec.PublicKey)(publicKey),
	)

	return &ShareTranscriptKey{
		box: newBox(sha256.Sum256(shared)),
	}
}

// Encrypt binds a key-share payload to this transcript.
func (stk *ShareTranscriptKey) Encrypt(plaintext []byte) ([]byte, error) {
	return stk.box.encrypt(plaintext)
}

// Decrypt recovers a key-share payload bound to this transcript.
func (stk *ShareTranscriptKey) Decrypt(ciphertext []byte) (plaintext []byte, err error) {
	return stk.box.decrypt(ciphertext)
}
