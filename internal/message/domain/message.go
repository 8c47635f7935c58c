package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is the chat-message envelope as seen by this subsystem. The
// transport layer owns persistence and delivery; this package only defines
// which fields may leave the process in which contexts.
type Message struct {
	ID             uuid.UUID          `json:"id"`
	ConversationID string             `json:"conversation_id"`
	SenderID       string             `json:"sender_id"`
	Body           string             `json:"body"`
	Preview        string             `json:"preview"`
	Encryption     *EncryptionPayload `json:"encryption,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ScrubForTransmission derives the view of a message safe to hand to a party
// without plaintext rights.
//
// With includePlaintext true (the sender's own view, or a context that has
// already decrypted locally) the message is returned unchanged. Otherwise the
// body is replaced by the precomputed preview, falling back to masking the
// stored body when no preview was recorded. This is the only sanctioned way
// to redact a message for transmission.
func ScrubForTransmission(msg Message, includePlaintext bool) Message {
	if includePlaintext {
		return msg
	}

	scrubbed := msg
	if scrubbed.Preview == "" {
		scrubbed.Preview = MaskPreview(msg.Body, DefaultPreviewLimit)
	}
	scrubbed.Body = scrubbed.Preview
	return scrubbed
}
