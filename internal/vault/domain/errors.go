package domain

import (
	"github.com/allisson/chatcrypt/internal/errors"
)

// Key vault error definitions.
var (
	// ErrKeyNotFound indicates no usable key exists for the given lookup.
	//
	// Unknown fingerprints, revoked keys, and expired keys all surface as this
	// single error: distinguishing them would leak why a key is unusable.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "conversation key not found")

	// ErrUnknownExportFormat indicates an unsupported key export format.
	ErrUnknownExportFormat = errors.Wrap(errors.ErrInvalidInput, "unknown export format")

	// ErrKMSNotConfigured indicates a wrapped export was requested but no KMS
	// keeper is configured.
	ErrKMSNotConfigured = errors.Wrap(errors.ErrUnavailable, "kms keeper not configured")
)
