// Package domain defines the core cryptographic domain model for conversation
// message encryption: the supported AEAD algorithms, wire format constants,
// and the errors shared by the vault and message layers.
package domain

// Algorithm represents the AEAD algorithm used to protect message bodies.
//
// Both supported algorithms provide Authenticated Encryption with Associated
// Data: confidentiality for the message body plus integrity for the body and
// any bound context (sender id, conversation metadata).
type Algorithm string

const (
	// AESGCM is AES-256-GCM. Preferred on CPUs with AES-NI acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Constant-time in software, preferred on
	// platforms without AES hardware support.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Valid reports whether a is a supported algorithm.
func (a Algorithm) Valid() bool {
	return a == AESGCM || a == ChaCha20
}

const (
	// KeySize is the symmetric key size in bytes (256 bits) for both algorithms.
	KeySize = 32

	// NonceSize is the per-encryption IV size in bytes (96 bits).
	NonceSize = 12

	// TagSize is the authentication tag size in bytes (128 bits).
	TagSize = 16

	// PayloadVersion is the current encryption payload format version.
	// Decryption rejects payloads with any other version.
	PayloadVersion = 1
)
