package domain

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/chatcrypt/internal/crypto/service"
)

func newTestRecord(t *testing.T, conversationID string, ttl time.Duration) *ConversationKeyRecord {
	t.Helper()
	material := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(material)
	require.NoError(t, err)

	aead, err := cryptoService.NewAESGCM(material)
	require.NoError(t, err)

	record, err := NewConversationKeyRecord(conversationID, material, cryptoDomain.AESGCM, ttl, aead)
	require.NoError(t, err)
	return record
}

func TestNewConversationKeyRecord(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		record := newTestRecord(t, "c1", time.Hour)

		assert.Equal(t, "c1", record.ConversationID)
		assert.Equal(t, cryptoDomain.AESGCM, record.Algorithm)
		assert.Len(t, record.Fingerprint, 64)
		assert.NotNil(t, record.Cipher())
		assert.False(t, record.Revoked)
		assert.Zero(t, record.UsageCount)
		assert.Equal(t, record.CreatedAt.Add(time.Hour), record.ExpiresAt)
		assert.Equal(t, record.CreatedAt, record.LastRotatedAt)
	})

	t.Run("DefaultTTLWhenZero", func(t *testing.T) {
		record := newTestRecord(t, "c1", 0)
		assert.Equal(t, record.CreatedAt.Add(DefaultKeyTTL), record.ExpiresAt)
	})

	t.Run("Error_InvalidMaterialSize", func(t *testing.T) {
		_, err := NewConversationKeyRecord("c1", make([]byte, 16), cryptoDomain.AESGCM, time.Hour, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("MaterialIsCopied", func(t *testing.T) {
		material := make([]byte, cryptoDomain.KeySize)
		_, err := rand.Read(material)
		require.NoError(t, err)

		aead, err := cryptoService.NewAESGCM(material)
		require.NoError(t, err)
		record, err := NewConversationKeyRecord("c1", material, cryptoDomain.AESGCM, time.Hour, aead)
		require.NoError(t, err)

		fingerprint := record.Fingerprint
		cryptoDomain.Zero(material)
		// Zeroing the caller's buffer must not affect the record's copy.
		assert.Equal(t, fingerprint, ComputeFingerprint(record.ExportMaterial()))
	})
}

func TestConversationKeyRecord_Lifecycle(t *testing.T) {
	t.Run("ExpiryBoundary", func(t *testing.T) {
		record := newTestRecord(t, "c1", time.Hour)
		assert.False(t, record.IsExpired(record.ExpiresAt.Add(-time.Second)))
		assert.True(t, record.IsExpired(record.ExpiresAt))
		assert.True(t, record.IsExpired(record.ExpiresAt.Add(time.Second)))
	})

	t.Run("ActiveStates", func(t *testing.T) {
		record := newTestRecord(t, "c1", time.Hour)
		now := time.Now().UTC()
		assert.True(t, record.IsActive(now))

		record.Revoke()
		assert.False(t, record.IsActive(now))
	})

	t.Run("MarkUsed", func(t *testing.T) {
		record := newTestRecord(t, "c1", time.Hour)
		now := time.Now().UTC()

		record.MarkUsed(now)
		record.MarkUsed(now.Add(time.Second))

		assert.Equal(t, uint64(2), record.UsageCount)
		assert.Equal(t, now.Add(time.Second), record.LastUsedAt)
	})

	t.Run("RevokeKeepsHandleForInFlightOperations", func(t *testing.T) {
		record := newTestRecord(t, "c1", time.Hour)
		fingerprint := record.Fingerprint

		record.Revoke()

		assert.True(t, record.Revoked)
		assert.NotNil(t, record.Cipher())
		assert.Equal(t, fingerprint, ComputeFingerprint(record.ExportMaterial()))
	})

	t.Run("ZeroizeWipesMaterial", func(t *testing.T) {
		record := newTestRecord(t, "c1", time.Hour)
		record.Zeroize()

		assert.Nil(t, record.Cipher())
		assert.Equal(t, make([]byte, cryptoDomain.KeySize), record.ExportMaterial())
	})
}

func TestComputeFingerprint(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		material := []byte("0123456789abcdef0123456789abcdef")
		assert.Equal(t, ComputeFingerprint(material), ComputeFingerprint(material))
	})

	t.Run("DistinctMaterialsDistinctFingerprints", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			material := make([]byte, cryptoDomain.KeySize)
			_, err := rand.Read(material)
			require.NoError(t, err)

			fp := ComputeFingerprint(material)
			assert.False(t, seen[fp], "fingerprint collision")
			seen[fp] = true
		}
	})

	t.Run("HexEncoded64Chars", func(t *testing.T) {
		fp := ComputeFingerprint([]byte("material"))
		assert.Len(t, fp, 64)
		assert.Regexp(t, "^[0-9a-f]+$", fp)
	})
}
