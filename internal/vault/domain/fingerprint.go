package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeFingerprint derives the deterministic, non-reversible identifier for
// key material: the hex-encoded SHA-256 digest of the raw bytes.
//
// A collision-resistant digest guarantees that two independently generated
// keys cannot share a fingerprint, so the fingerprint embedded in a payload
// always resolves to exactly one key.
func ComputeFingerprint(material []byte) string {
	digest := sha256.Sum256(material)
	return hex.EncodeToString(digest[:])
}
