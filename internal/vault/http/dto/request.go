// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"fmt"
	"time"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
	vaultUseCase "github.com/allisson/chatcrypt/internal/vault/usecase"
)

// RotateKeyRequest contains the optional parameters for rotating a
// conversation key. An empty body rotates with the vault defaults.
type RotateKeyRequest struct {
	Algorithm string `json:"algorithm,omitempty"` // "aes-gcm" or "chacha20-poly1305"
	TTLHours  int    `json:"ttl_hours,omitempty"`
}

// Validate checks if the rotate key request is valid.
func (r *RotateKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Algorithm, validation.By(validateOptionalAlgorithm)),
		validation.Field(&r.TTLHours, validation.Min(0)),
	)
}

// Options converts the request to vault create/rotate options.
func (r *RotateKeyRequest) Options() vaultUseCase.CreateKeyOptions {
	opts := vaultUseCase.CreateKeyOptions{
		TTL: time.Duration(r.TTLHours) * time.Hour,
	}
	if r.Algorithm != "" {
		alg, _ := ParseAlgorithm(r.Algorithm)
		opts.Algorithm = alg
	}
	return opts
}

// validateOptionalAlgorithm accepts an empty string or a supported algorithm.
func validateOptionalAlgorithm(value interface{}) error {
	alg, ok := value.(string)
	if !ok {
		return validation.NewError("validation_algorithm_type", "must be a string")
	}
	if alg == "" {
		return nil
	}
	_, err := ParseAlgorithm(alg)
	return err
}

// ParseAlgorithm converts a string to a cryptoDomain.Algorithm.
// Returns an error if the algorithm is not supported.
func ParseAlgorithm(alg string) (cryptoDomain.Algorithm, error) {
	switch alg {
	case "aes-gcm":
		return cryptoDomain.AESGCM, nil
	case "chacha20-poly1305":
		return cryptoDomain.ChaCha20, nil
	default:
		return "", fmt.Errorf("invalid algorithm: must be 'aes-gcm' or 'chacha20-poly1305'")
	}
}

// ParseExportFormat converts a string to a vault export format. An empty
// string defaults to base64.
func ParseExportFormat(format string) (vaultUseCase.ExportFormat, error) {
	switch format {
	case "", "base64":
		return vaultUseCase.ExportBase64, nil
	case "hex":
		return vaultUseCase.ExportHex, nil
	case "wrapped":
		return vaultUseCase.ExportWrapped, nil
	default:
		return "", fmt.Errorf("invalid format: must be 'base64', 'hex' or 'wrapped'")
	}
}
