package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
)

// NewAESGCM creates an AES-256-GCM AEAD instance.
//
// The key must be exactly 32 bytes (256 bits). Keys should come from the
// vault, which generates them with crypto/rand. The returned cipher.AEAD is
// stateless and safe for concurrent use; nonce handling is the caller's
// responsibility (see SealDetached).
func NewAESGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aead, nil
}
