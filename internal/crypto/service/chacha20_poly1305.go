package service

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
)

// NewChaCha20Poly1305 creates a ChaCha20-Poly1305 AEAD instance.
//
// The key must be exactly 32 bytes (256 bits). ChaCha20-Poly1305 uses the
// same 12-byte nonce and 16-byte tag sizes as AES-GCM, so payloads produced
// with either algorithm share the same wire layout.
func NewChaCha20Poly1305(key []byte) (cipher.AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return aead, nil
}
