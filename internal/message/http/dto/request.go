// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	messageDomain "github.com/allisson/chatcrypt/internal/message/domain"
	customValidation "github.com/allisson/chatcrypt/internal/validation"
)

// EncryptMessageRequest contains the parameters for encrypting a message body.
type EncryptMessageRequest struct {
	// Plaintext is the raw message body. Empty bodies are legal and encrypt
	// to an empty ciphertext with a valid tag.
	Plaintext string `json:"plaintext"`
	// AssociatedData is optional context bound into the authentication tag.
	AssociatedData map[string]string `json:"associated_data,omitempty"`
	// AssociatedDataRaw supplies a pre-encoded associated-data string
	// verbatim, taking precedence over AssociatedData.
	AssociatedDataRaw string `json:"associated_data_raw,omitempty"`
	// PreviewLimit overrides the configured preview length when positive.
	PreviewLimit int `json:"preview_limit,omitempty"`
}

// Validate checks if the encrypt request is valid.
func (r *EncryptMessageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PreviewLimit, validation.Min(0)),
	)
}

// DecryptMessageRequest contains the parameters for decrypting a message payload.
type DecryptMessageRequest struct {
	// ConversationID optionally binds the decryption to a conversation; when
	// set it must match the conversation the payload's key belongs to.
	ConversationID string `json:"conversation_id,omitempty"`
	// Payload is the encrypted message payload as produced by encryption.
	Payload messageDomain.EncryptionPayload `json:"payload"`
	// AssociatedData optionally overrides the associated data embedded in
	// the payload.
	AssociatedData map[string]string `json:"associated_data,omitempty"`
	// AssociatedDataRaw supplies a pre-encoded override verbatim.
	AssociatedDataRaw string `json:"associated_data_raw,omitempty"`
}

// Validate checks if the decrypt request is valid.
func (r *DecryptMessageRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.ConversationID, customValidation.NoWhitespace),
	); err != nil {
		return err
	}

	p := &r.Payload
	return validation.ValidateStruct(p,
		validation.Field(&p.Fingerprint, validation.Required, customValidation.Fingerprint),
		validation.Field(&p.IV, validation.Required, customValidation.Base64),
		validation.Field(&p.Ciphertext, customValidation.Base64),
		validation.Field(&p.AuthTag, validation.Required, customValidation.Base64),
	)
}
