// Package domain defines the message encryption domain model: the wire
// payload produced by AEAD encryption, canonical associated data, masked
// previews, and the chat message envelope.
package domain

import (
	"encoding/base64"
	"sort"
	"strings"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
)

// EncryptionPayload is the wire/storage representation of an encrypted
// message body. All binary fields are base64-encoded for transport. A payload
// is immutable once created and references its key only by fingerprint.
type EncryptionPayload struct {
	Version   uint                   `json:"version"`
	Algorithm cryptoDomain.Algorithm `json:"algorithm"`

	// IV is the per-encryption 96-bit nonce.
	IV string `json:"iv"`
	// Ciphertext is the encrypted message body.
	Ciphertext string `json:"ciphertext"`
	// AuthTag is the 128-bit authentication tag, kept as a separate field.
	AuthTag string `json:"auth_tag"`

	// Fingerprint identifies which vault key decrypts this payload.
	Fingerprint string `json:"fingerprint"`

	// AssociatedData is the canonical associated-data string bound into the
	// authentication tag. It is authenticated but never encrypted, so it is
	// public; embedding it lets receivers decrypt without out-of-band context.
	AssociatedData string `json:"associated_data,omitempty"`
}

// NewEncryptionPayload assembles a payload from raw AEAD outputs.
func NewEncryptionPayload(
	alg cryptoDomain.Algorithm,
	iv, ciphertext, tag []byte,
	fingerprint, associatedData string,
) EncryptionPayload {
	return EncryptionPayload{
		Version:        cryptoDomain.PayloadVersion,
		Algorithm:      alg,
		IV:             base64.StdEncoding.EncodeToString(iv),
		Ciphertext:     base64.StdEncoding.EncodeToString(ciphertext),
		AuthTag:        base64.StdEncoding.EncodeToString(tag),
		Fingerprint:    fingerprint,
		AssociatedData: associatedData,
	}
}

// CheckFormat rejects payloads this build cannot decrypt: wrong version or
// unknown algorithm.
func (p *EncryptionPayload) CheckFormat() error {
	if p.Version != cryptoDomain.PayloadVersion {
		return cryptoDomain.ErrUnsupportedPayload
	}
	if !p.Algorithm.Valid() {
		return cryptoDomain.ErrUnsupportedPayload
	}
	return nil
}

// DecodeParts decodes the transport-encoded iv, ciphertext, and tag. Any
// malformed encoding is reported as the generic decryption failure: a caller
// must not learn which field was corrupt.
func (p *EncryptionPayload) DecodeParts() (iv, ciphertext, tag []byte, err error) {
	iv, err = base64.StdEncoding.DecodeString(p.IV)
	if err != nil {
		return nil, nil, nil, cryptoDomain.ErrDecryptionFailed
	}
	ciphertext, err = base64.StdEncoding.DecodeString(p.Ciphertext)
	if err != nil {
		return nil, nil, nil, cryptoDomain.ErrDecryptionFailed
	}
	tag, err = base64.StdEncoding.DecodeString(p.AuthTag)
	if err != nil {
		return nil, nil, nil, cryptoDomain.ErrDecryptionFailed
	}
	return iv, ciphertext, tag, nil
}

// AssociatedData carries context that is authenticated but not encrypted,
// binding it cryptographically to the ciphertext (e.g., the sender id).
type AssociatedData map[string]string

// Canonical encodes the map deterministically: keys sorted, entries joined as
// "k=v" with "&". Both the encrypt and decrypt sides derive identical bytes
// regardless of map iteration order. A nil or empty map yields "".
func (ad AssociatedData) Canonical() string {
	if len(ad) == 0 {
		return ""
	}

	keys := make([]string, 0, len(ad))
	for k := range ad {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(ad[k])
	}
	return b.String()
}
