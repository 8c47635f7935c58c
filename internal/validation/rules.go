// Package validation provides custom validation rules for request payloads.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/chatcrypt/internal/errors"
)

// fingerprintRegex matches a hex-encoded SHA-256 digest.
var fingerprintRegex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that a string has no leading or trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// Fingerprint validates that a string is a hex-encoded SHA-256 key fingerprint.
var Fingerprint = validation.NewStringRuleWithError(
	func(s string) bool {
		return fingerprintRegex.MatchString(s)
	},
	validation.NewError("validation_fingerprint", "must be a 64-character lowercase hex digest"),
)
