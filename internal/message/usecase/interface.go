// Package usecase implements the message encryption service: authenticated
// encryption and decryption of chat message bodies using keys obtained from
// the vault, plus the redaction contract for parties without plaintext rights.
package usecase

import (
	"context"

	messageDomain "github.com/allisson/chatcrypt/internal/message/domain"
)

// EncryptOptions carries the optional parameters for an encrypt call.
type EncryptOptions struct {
	// AssociatedData is context bound into the authentication tag. It is
	// canonicalized (sorted keys) before encryption.
	AssociatedData messageDomain.AssociatedData
	// AssociatedDataRaw supplies a pre-encoded associated-data string
	// verbatim; it takes precedence over AssociatedData when non-empty.
	AssociatedDataRaw string
	// PreviewLimit overrides the configured preview length when positive.
	PreviewLimit int
}

// DecryptOptions carries the optional parameters for a decrypt call.
type DecryptOptions struct {
	// AssociatedData overrides the associated data embedded in the payload.
	AssociatedData messageDomain.AssociatedData
	// AssociatedDataRaw supplies a pre-encoded override verbatim; it takes
	// precedence over AssociatedData when non-empty.
	AssociatedDataRaw string
}

// EncryptResult is the output of an encrypt call: the wire payload plus the
// non-sensitive preview derived from the plaintext.
type EncryptResult struct {
	Payload messageDomain.EncryptionPayload
	Preview string
}

// EncryptionUseCase defines the interface for message encryption operations.
type EncryptionUseCase interface {
	// Encrypt protects plaintext under the conversation's active key,
	// transparently issuing a key when none is active. Nothing is persisted;
	// the caller hands the payload and preview to the transport layer.
	Encrypt(ctx context.Context, conversationID, plaintext string, opts EncryptOptions) (*EncryptResult, error)

	// Decrypt authenticates and decrypts a payload. When conversationID is
	// non-empty it must match the key's conversation. All tamper and
	// mismatch conditions surface as a single opaque failure.
	Decrypt(ctx context.Context, payload messageDomain.EncryptionPayload, conversationID string, opts DecryptOptions) (string, error)

	// Scrub derives the redacted view of a message for transmission to
	// parties without plaintext rights.
	Scrub(msg messageDomain.Message, includePlaintext bool) messageDomain.Message
}
