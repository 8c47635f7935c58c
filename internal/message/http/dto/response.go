package dto

import (
	messageDomain "github.com/allisson/chatcrypt/internal/message/domain"
)

// EncryptMessageResponse contains the result of an encryption operation: the
// wire payload plus the non-sensitive preview derived from the plaintext.
type EncryptMessageResponse struct {
	ConversationID string                          `json:"conversation_id"`
	Payload        messageDomain.EncryptionPayload `json:"payload"`
	Preview        string                          `json:"preview"`
}

// DecryptMessageResponse contains the result of a decryption operation.
// The plaintext is sensitive and must only travel over TLS.
type DecryptMessageResponse struct {
	ConversationID string `json:"conversation_id"`
	Plaintext      string `json:"plaintext"`
}
