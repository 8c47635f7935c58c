// Package domain defines the key vault domain model: per-conversation
// symmetric key records, their lifecycle metadata, and fingerprint derivation.
package domain

import (
	"crypto/cipher"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
)

// DefaultKeyTTL is the lifetime of a conversation key when no explicit TTL is
// given. After expiry the key is rejected for new operations and a fresh key
// is issued on demand.
const DefaultKeyTTL = 24 * time.Hour

// ConversationKeyRecord is the unit of key material: one symmetric key
// protecting the messages of one conversation.
//
// Records are immutable once created except for usage tracking (UsageCount,
// LastUsedAt) and revocation, both performed by the vault under its lock. Key
// material is held unexported and never leaves the record except through
// ExportMaterial; the encryption path works exclusively through the cached
// AEAD handle.
type ConversationKeyRecord struct {
	ID             uuid.UUID
	ConversationID string
	Algorithm      cryptoDomain.Algorithm

	// Fingerprint is a deterministic, non-reversible identifier derived from
	// the key material (SHA-256, hex-encoded). It locates the correct key at
	// decrypt time without transmitting a key id.
	Fingerprint string

	CreatedAt     time.Time
	ExpiresAt     time.Time
	LastRotatedAt time.Time
	LastUsedAt    time.Time
	UsageCount    uint64

	// Revoked marks the record permanently unusable for both encryption and
	// decryption. It is never cleared.
	Revoked bool

	material []byte
	aead     cipher.AEAD
}

// NewConversationKeyRecord creates a key record from 32-byte material and a
// pre-built AEAD handle for that material.
//
// The handle is derived once here and cached for the record's lifetime;
// records are immutable, so the cache never needs invalidation. The material
// slice is copied so the caller's buffer can be zeroed independently.
func NewConversationKeyRecord(
	conversationID string,
	material []byte,
	alg cryptoDomain.Algorithm,
	ttl time.Duration,
	aead cipher.AEAD,
) (*ConversationKeyRecord, error) {
	if len(material) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if ttl <= 0 {
		ttl = DefaultKeyTTL
	}

	owned := make([]byte, len(material))
	copy(owned, material)

	now := time.Now().UTC()
	return &ConversationKeyRecord{
		ID:             uuid.Must(uuid.NewV7()),
		ConversationID: conversationID,
		Algorithm:      alg,
		Fingerprint:    ComputeFingerprint(owned),
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
		LastRotatedAt:  now,
		material:       owned,
		aead:           aead,
	}, nil
}

// Cipher returns the cached AEAD handle for this record's material.
func (r *ConversationKeyRecord) Cipher() cipher.AEAD {
	return r.aead
}

// ExportMaterial returns a copy of the raw key material. This is the single
// sanctioned escape hatch for displaying or backing up a key; the encryption
// path never calls it.
func (r *ConversationKeyRecord) ExportMaterial() []byte {
	out := make([]byte, len(r.material))
	copy(out, r.material)
	return out
}

// IsExpired reports whether the record's TTL has elapsed at the given instant.
func (r *ConversationKeyRecord) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IsActive reports whether the record may be used for new operations:
// not revoked and not expired.
func (r *ConversationKeyRecord) IsActive(now time.Time) bool {
	return !r.Revoked && !r.IsExpired(now)
}

// MarkUsed records one successful encrypt or decrypt with this key.
// Callers must hold the vault lock.
func (r *ConversationKeyRecord) MarkUsed(now time.Time) {
	r.UsageCount++
	r.LastUsedAt = now
}

// Revoke marks the record permanently unusable for new operations. The
// material and cached AEAD handle stay intact so an operation that resolved
// this record before revocation can still finish; wiping happens in Zeroize.
// Callers must hold the vault lock.
func (r *ConversationKeyRecord) Revoke() {
	r.Revoked = true
}

// Zeroize wipes the key material and drops the AEAD handle. Only safe when no
// other goroutine can still hold the record, i.e. at vault reset or process
// shutdown.
func (r *ConversationKeyRecord) Zeroize() {
	cryptoDomain.Zero(r.material)
	r.aead = nil
}
