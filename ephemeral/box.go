package ephemeral

import (
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// box is a NaCl secretbox sealed under a 32-byte shared secret. Every
// call to encrypt draws a fresh nonce so repeated calls with the same
// plaintext produce distinct ciphertexts.
//
// golang.org/x/crypto is a teacher go.mod dependency the example pack's
// copy of this directory never shows wired in (the file defining `box`
// is missing from the pack — see DESIGN.md); `nacl/secretbox` is the
// natural fit for a symmetric key already shaped as a raw 32-byte array,
// which is what `Ecdh`'s SHA-256 output and `box_test.go`'s direct
// `newBox(sha256.Sum256(...))` call both assume.
type box struct {
	key [32]byte
}

func newBox(key [32]byte) *box {
	return &box{key: key}
}

func (b *box) encrypt(plaintext []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &b.key), nil
}

func (b *box) decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < 24 {
		return nil, errors.New("symmetric key decryption failed")
	}
	var nonce [24]byte
	copy(nonce[:], ciphertext[:24])
	plaintext, ok := secretbox.Open(nil, ciphertext[24:], &nonce, &b.key)
	if !ok {
		return nil, errors.New("symmetric key decryption failed")
	}
	return plaintext, nil
}
