package dto

import (
	"time"

	vaultDomain "github.com/allisson/chatcrypt/internal/vault/domain"
)

// KeyMetadataResponse represents a conversation key in API responses. It
// carries lifecycle metadata only; key material never appears here.
type KeyMetadataResponse struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	Algorithm      string     `json:"algorithm"`
	Fingerprint    string     `json:"fingerprint"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	LastRotatedAt  time.Time  `json:"last_rotated_at"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	UsageCount     uint64     `json:"usage_count"`
	Revoked        bool       `json:"revoked"`
}

// MapKeyToResponse converts a domain key record to an API response.
func MapKeyToResponse(record *vaultDomain.ConversationKeyRecord) KeyMetadataResponse {
	resp := KeyMetadataResponse{
		ID:             record.ID.String(),
		ConversationID: record.ConversationID,
		Algorithm:      string(record.Algorithm),
		Fingerprint:    record.Fingerprint,
		CreatedAt:      record.CreatedAt,
		ExpiresAt:      record.ExpiresAt,
		LastRotatedAt:  record.LastRotatedAt,
		UsageCount:     record.UsageCount,
		Revoked:        record.Revoked,
	}
	if !record.LastUsedAt.IsZero() {
		lastUsed := record.LastUsedAt
		resp.LastUsedAt = &lastUsed
	}
	return resp
}

// ExportKeyResponse contains exported key material. This is the only response
// in the API that carries material; it must only travel over TLS.
type ExportKeyResponse struct {
	ConversationID string `json:"conversation_id"`
	Format         string `json:"format"`
	Material       string `json:"material"`
}
