package domain

import (
	"strings"
)

const (
	// DefaultPreviewLimit is the maximum preview length in runes when no
	// override is given.
	DefaultPreviewLimit = 120

	// EmptyPreviewPlaceholder is shown when the message body normalizes to
	// nothing, so parties without decryption rights still see a non-empty hint.
	EmptyPreviewPlaceholder = "Encrypted message"
)

// MaskPreview derives a bounded, non-sensitive hint from plaintext.
//
// Runs of whitespace collapse to single spaces and the ends are trimmed. An
// empty result yields EmptyPreviewPlaceholder. Text longer than limit is cut
// to limit-1 runes with a single ellipsis appended, so the result never
// exceeds limit runes. This is a display convenience, not a security
// boundary.
func MaskPreview(plaintext string, limit int) string {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}

	normalized := strings.Join(strings.Fields(plaintext), " ")
	if normalized == "" {
		return EmptyPreviewPlaceholder
	}

	runes := []rune(normalized)
	if len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit-1]) + "…"
}
