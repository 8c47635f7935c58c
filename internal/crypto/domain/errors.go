package domain

import (
	"github.com/allisson/chatcrypt/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not
	// supported. Supported algorithms: AESGCM, ChaCha20.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates key material is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// Tampered ciphertext, a tampered tag, and mismatched associated data all
	// surface as this single error. The specific cause is deliberately not
	// disclosed to callers to avoid acting as a padding/tamper oracle.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrUnsupportedPayload indicates a payload's version or algorithm field
	// does not match a format this build can decrypt.
	ErrUnsupportedPayload = errors.Wrap(errors.ErrInvalidInput, "unsupported payload format")

	// ErrRandomSource indicates the secure random source failed. This is an
	// environment fault: no key or nonce may ever be produced without it.
	ErrRandomSource = errors.Wrap(errors.ErrUnavailable, "secure random source failed")
)
