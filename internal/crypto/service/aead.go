package service

import (
	"crypto/cipher"
	"crypto/rand"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
	apperrors "github.com/allisson/chatcrypt/internal/errors"
)

// SealDetached encrypts plaintext with a fresh random nonce and returns the
// nonce, ciphertext, and authentication tag as separate values.
//
// A unique 12-byte nonce is generated from crypto/rand for every call. Nonce
// uniqueness per key is the core AEAD safety invariant: reuse under the same
// key breaks both confidentiality and authenticity for GCM-family ciphers.
// If the random source fails the operation aborts with ErrRandomSource; a
// nonce must never come from a weaker source.
//
// The aad (associated data) is authenticated but not encrypted. The exact
// same bytes must be supplied to OpenDetached for decryption to succeed.
func SealDetached(aead cipher.AEAD, plaintext, aad []byte) (nonce, ciphertext, tag []byte, err error) {
	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, apperrors.Wrap(cryptoDomain.ErrRandomSource, err.Error())
	}

	// Seal appends the tag to the ciphertext; split it into a separate field.
	sealed := aead.Seal(nil, nonce, plaintext, aad)
	tagStart := len(sealed) - aead.Overhead()
	return nonce, sealed[:tagStart], sealed[tagStart:], nil
}

// OpenDetached authenticates and decrypts ciphertext produced by SealDetached.
//
// Any authentication failure (tampered ciphertext, tampered tag, or
// mismatched associated data) returns ErrDecryptionFailed with no further
// detail: the three cases are deliberately indistinguishable to callers.
func OpenDetached(aead cipher.AEAD, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(nonce) != aead.NonceSize() || len(tag) != aead.Overhead() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
