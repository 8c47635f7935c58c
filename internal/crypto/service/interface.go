// Package service provides the AEAD primitives for conversation message
// encryption: cipher construction for the supported algorithms and detached
// seal/open helpers that keep the nonce and authentication tag as separate
// wire fields.
package service

import (
	"context"
	"crypto/cipher"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
)

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	// The returned handle is stateless and safe for concurrent use; callers may
	// cache it for the lifetime of the key material.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (cipher.AEAD, error)
}

// KMSKeeper is the subset of a gocloud.dev secrets keeper used to wrap
// exported key material. *secrets.Keeper satisfies this interface.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService defines the interface for opening KMS keepers.
type KMSService interface {
	// OpenKeeper opens a keeper for the configured KMS provider key URI.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}
