// Package ephemeral provides short-lived ECDH keypairs used to authenticate
// a transcript between two parties without involving the long-term IBE
// system: one PKG and one client, binding a single key-share handoff.
package ephemeral

import (
	"github.com/btcsuite/btcd/btcec"
)

// PrivateKey is an ephemeral secp256k1 private key.
type PrivateKey btcec.PrivateKey

// PublicKey is an ephemeral secp256k1 public key.
type PublicKey btcec.PublicKey

// KeyPair bundles a freshly generated private/public pair.
type KeyPair struct {
	PrivateKey *PrivateKey
	PublicKey  *PublicKey
}

// GenerateKeyPair samples a new ephemeral secp256k1 keypair.
func GenerateKeyPair() (*KeyPair, error) {
	key, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		PrivateKey: (*PrivateKey)(key),
		PublicKey:  (*PublicKey)(key.PubKey()),
	}, nil
}

// SymmetricKey is satisfied by any ephemeral key able to encrypt and
// decrypt a transcript under a shared secret.
type SymmetricKey interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}
