// Package usecase implements the key vault: the in-memory store that issues,
// rotates, expires, and revokes the symmetric keys protecting conversations.
package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
	vaultDomain "github.com/allisson/chatcrypt/internal/vault/domain"
)

// ExportFormat selects the encoding for exported key material.
type ExportFormat string

const (
	// ExportBase64 encodes raw material with standard base64.
	ExportBase64 ExportFormat = "base64"
	// ExportHex encodes raw material as lowercase hex.
	ExportHex ExportFormat = "hex"
	// ExportWrapped encrypts material under the configured KMS keeper and
	// base64-encodes the result. Requires a KMS key URI in configuration.
	ExportWrapped ExportFormat = "wrapped"
)

// CreateKeyOptions carries the optional parameters for key creation and rotation.
type CreateKeyOptions struct {
	// TTL overrides the vault's default key lifetime when positive.
	TTL time.Duration
	// Material supplies 32-byte key material; when nil the vault generates
	// material from the secure random source.
	Material []byte
	// Algorithm overrides the vault's default AEAD algorithm when set.
	Algorithm cryptoDomain.Algorithm
}

// KeyVault defines the interface for conversation key lifecycle management.
//
// At most one active (non-revoked, non-expired) key exists per conversation;
// historical keys remain resolvable by fingerprint until they expire or are
// revoked, so older ciphertexts stay decryptable after rotation.
type KeyVault interface {
	// CreateKey generates a new key for the conversation and makes it the
	// active key. Fails if the secure random source is unavailable.
	CreateKey(ctx context.Context, conversationID string, opts CreateKeyOptions) (*vaultDomain.ConversationKeyRecord, error)

	// EnsureActiveKey returns the conversation's active key, creating one if
	// none exists. A call after the TTL elapses yields a fresh key with a new
	// fingerprint.
	EnsureActiveKey(ctx context.Context, conversationID string) (*vaultDomain.ConversationKeyRecord, error)

	// GetActiveKey is the read-only variant of EnsureActiveKey; it never
	// creates a key and returns ErrKeyNotFound when none is active.
	GetActiveKey(ctx context.Context, conversationID string) (*vaultDomain.ConversationKeyRecord, error)

	// GetByFingerprint resolves a key for decryption. Unknown, revoked, and
	// expired fingerprints are indistinguishable: all return ErrKeyNotFound.
	GetByFingerprint(ctx context.Context, fingerprint string) (*vaultDomain.ConversationKeyRecord, error)

	// RotateKey unconditionally issues a new active key. Prior keys remain
	// usable for decryption until their own expiry.
	RotateKey(ctx context.Context, conversationID string, opts CreateKeyOptions) (*vaultDomain.ConversationKeyRecord, error)

	// Revoke marks the key with the given fingerprint permanently unusable.
	Revoke(ctx context.Context, fingerprint string) error

	// MarkUsed records one successful encrypt or decrypt with the key.
	MarkUsed(ctx context.Context, fingerprint string) error

	// ExportMaterial returns the active key's material in the requested
	// format. This is an explicit escape hatch for backup/display; the
	// encryption path never uses it.
	ExportMaterial(ctx context.Context, conversationID string, format ExportFormat) (string, error)

	// Reset clears all vault state, zeroing key material. Test hook.
	Reset(ctx context.Context) error
}
