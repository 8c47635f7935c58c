package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/chatcrypt/internal/crypto/service"
	vaultDomain "github.com/allisson/chatcrypt/internal/vault/domain"
)

// RunGenerateKey generates cryptographically secure 32-byte key material and
// prints it with its fingerprint. Material is zeroed from memory after
// encoding.
//
// With a KMS key URI the material is additionally printed wrapped (encrypted
// under the KMS key, base64-encoded), suitable for offline backup. For local
// development use kmsKeyURI="base64key://<32-byte-base64-key>".
func RunGenerateKey(ctx context.Context, algorithm, kmsKeyURI string, io IOTuple) error {
	alg := cryptoDomain.Algorithm(algorithm)
	if !alg.Valid() {
		return fmt.Errorf("invalid algorithm: must be 'aes-gcm' or 'chacha20-poly1305'")
	}

	material := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(material); err != nil {
		return fmt.Errorf("failed to generate key material: %w", err)
	}
	defer cryptoDomain.Zero(material)

	fingerprint := vaultDomain.ComputeFingerprint(material)

	fmt.Fprintf(io.Writer, "algorithm:   %s\n", alg)
	fmt.Fprintf(io.Writer, "fingerprint: %s\n", fingerprint)
	fmt.Fprintf(io.Writer, "base64:      %s\n", base64.StdEncoding.EncodeToString(material))
	fmt.Fprintf(io.Writer, "hex:         %s\n", hex.EncodeToString(material))

	if kmsKeyURI == "" {
		return nil
	}

	keeper, err := cryptoService.NewKMSService().OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			fmt.Fprintf(io.Writer, "warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	wrapped, err := keeper.Encrypt(ctx, material)
	if err != nil {
		return fmt.Errorf("failed to wrap key material with KMS: %w", err)
	}

	fmt.Fprintf(io.Writer, "wrapped:     %s\n", base64.StdEncoding.EncodeToString(wrapped))

	return nil
}
