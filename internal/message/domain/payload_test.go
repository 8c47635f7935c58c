package domain

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
)

func TestNewEncryptionPayload(t *testing.T) {
	payload := NewEncryptionPayload(
		cryptoDomain.AESGCM,
		[]byte("twelve-bytes"),
		[]byte("ciphertext"),
		[]byte("sixteen-byte-tag"),
		"fp1",
		"sender_id=u1",
	)

	assert.Equal(t, uint(cryptoDomain.PayloadVersion), payload.Version)
	assert.Equal(t, cryptoDomain.AESGCM, payload.Algorithm)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("twelve-bytes")), payload.IV)
	assert.Equal(t, "fp1", payload.Fingerprint)
	assert.Equal(t, "sender_id=u1", payload.AssociatedData)

	iv, ciphertext, tag, err := payload.DecodeParts()
	require.NoError(t, err)
	assert.Equal(t, []byte("twelve-bytes"), iv)
	assert.Equal(t, []byte("ciphertext"), ciphertext)
	assert.Equal(t, []byte("sixteen-byte-tag"), tag)
}

func TestEncryptionPayload_CheckFormat(t *testing.T) {
	valid := EncryptionPayload{Version: cryptoDomain.PayloadVersion, Algorithm: cryptoDomain.AESGCM}
	assert.NoError(t, valid.CheckFormat())

	t.Run("Error_WrongVersion", func(t *testing.T) {
		p := valid
		p.Version = 2
		assert.ErrorIs(t, p.CheckFormat(), cryptoDomain.ErrUnsupportedPayload)
	})

	t.Run("Error_UnknownAlgorithm", func(t *testing.T) {
		p := valid
		p.Algorithm = "rot13"
		assert.ErrorIs(t, p.CheckFormat(), cryptoDomain.ErrUnsupportedPayload)
	})
}

func TestEncryptionPayload_DecodeParts_InvalidBase64(t *testing.T) {
	base := EncryptionPayload{
		IV:         base64.StdEncoding.EncodeToString([]byte("iv")),
		Ciphertext: base64.StdEncoding.EncodeToString([]byte("ct")),
		AuthTag:    base64.StdEncoding.EncodeToString([]byte("tag")),
	}

	for name, mutate := range map[string]func(*EncryptionPayload){
		"IV":         func(p *EncryptionPayload) { p.IV = "!not-base64!" },
		"Ciphertext": func(p *EncryptionPayload) { p.Ciphertext = "!not-base64!" },
		"AuthTag":    func(p *EncryptionPayload) { p.AuthTag = "!not-base64!" },
	} {
		t.Run(name, func(t *testing.T) {
			p := base
			mutate(&p)
			_, _, _, err := p.DecodeParts()
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		})
	}
}

func TestAssociatedData_Canonical(t *testing.T) {
	t.Run("SortedAndJoined", func(t *testing.T) {
		ad := AssociatedData{"sender_id": "u1", "conversation_id": "c1"}
		assert.Equal(t, "conversation_id=c1&sender_id=u1", ad.Canonical())
	})

	t.Run("OrderIndependent", func(t *testing.T) {
		a := AssociatedData{"a": "1", "b": "2", "c": "3"}
		b := AssociatedData{"c": "3", "a": "1", "b": "2"}
		assert.Equal(t, a.Canonical(), b.Canonical())
	})

	t.Run("EmptyAndNil", func(t *testing.T) {
		assert.Empty(t, AssociatedData{}.Canonical())
		assert.Empty(t, AssociatedData(nil).Canonical())
	})

	t.Run("SingleEntry", func(t *testing.T) {
		assert.Equal(t, "sender_id=u1", AssociatedData{"sender_id": "u1"}.Canonical())
	})
}
