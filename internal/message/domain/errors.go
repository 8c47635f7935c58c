package domain

import (
	"github.com/allisson/chatcrypt/internal/errors"
)

// Message encryption error definitions.
var (
	// ErrConversationMismatch indicates a payload's key belongs to a different
	// conversation than the one asserted by the caller. A payload encrypted
	// for conversation A must never be accepted under conversation B.
	ErrConversationMismatch = errors.Wrap(errors.ErrInvalidInput, "conversation mismatch")
)
