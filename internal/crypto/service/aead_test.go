package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestAEADManager_CreateCipher(t *testing.T) {
	manager := NewAEADManager()

	t.Run("Success_AESGCM", func(t *testing.T) {
		aead, err := manager.CreateCipher(testKey(t), cryptoDomain.AESGCM)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.NonceSize, aead.NonceSize())
		assert.Equal(t, cryptoDomain.TagSize, aead.Overhead())
	})

	t.Run("Success_ChaCha20", func(t *testing.T) {
		aead, err := manager.CreateCipher(testKey(t), cryptoDomain.ChaCha20)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.NonceSize, aead.NonceSize())
		assert.Equal(t, cryptoDomain.TagSize, aead.Overhead())
	})

	t.Run("Error_InvalidKeySize", func(t *testing.T) {
		_, err := manager.CreateCipher(make([]byte, 16), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(testKey(t), cryptoDomain.Algorithm("3des"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})
}

func TestSealOpenDetached(t *testing.T) {
	manager := NewAEADManager()

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			aead, err := manager.CreateCipher(testKey(t), alg)
			require.NoError(t, err)

			plaintext := []byte("attack at dawn")
			aad := []byte("sender_id=u1")

			nonce, ciphertext, tag, err := SealDetached(aead, plaintext, aad)
			require.NoError(t, err)
			assert.Len(t, nonce, cryptoDomain.NonceSize)
			assert.Len(t, tag, cryptoDomain.TagSize)
			assert.Len(t, ciphertext, len(plaintext))
			assert.NotEqual(t, plaintext, ciphertext)

			decrypted, err := OpenDetached(aead, nonce, ciphertext, tag, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		})
	}
}

func TestSealDetached_NonceUniqueness(t *testing.T) {
	aead, err := NewAESGCM(testKey(t))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		nonce, _, _, err := SealDetached(aead, []byte("msg"), nil)
		require.NoError(t, err)
		assert.False(t, seen[string(nonce)], "nonce reused")
		seen[string(nonce)] = true
	}
}

func TestOpenDetached_TamperDetection(t *testing.T) {
	aead, err := NewAESGCM(testKey(t))
	require.NoError(t, err)

	nonce, ciphertext, tag, err := SealDetached(aead, []byte("original message"), []byte("ctx"))
	require.NoError(t, err)

	t.Run("TamperedCiphertext", func(t *testing.T) {
		for i := range ciphertext {
			corrupted := append([]byte(nil), ciphertext...)
			corrupted[i] ^= 0x01
			_, err := OpenDetached(aead, nonce, corrupted, tag, []byte("ctx"))
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		}
	})

	t.Run("TamperedTag", func(t *testing.T) {
		for i := range tag {
			corrupted := append([]byte(nil), tag...)
			corrupted[i] ^= 0x01
			_, err := OpenDetached(aead, nonce, ciphertext, corrupted, []byte("ctx"))
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		}
	})

	t.Run("TamperedNonce", func(t *testing.T) {
		corrupted := append([]byte(nil), nonce...)
		corrupted[0] ^= 0x01
		_, err := OpenDetached(aead, corrupted, ciphertext, tag, []byte("ctx"))
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("MismatchedAssociatedData", func(t *testing.T) {
		_, err := OpenDetached(aead, nonce, ciphertext, tag, []byte("other"))
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("TruncatedNonce", func(t *testing.T) {
		_, err := OpenDetached(aead, nonce[:8], ciphertext, tag, []byte("ctx"))
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("TruncatedTag", func(t *testing.T) {
		_, err := OpenDetached(aead, nonce, ciphertext, tag[:8], []byte("ctx"))
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestSealOpenDetached_EmptyPlaintext(t *testing.T) {
	aead, err := NewChaCha20Poly1305(testKey(t))
	require.NoError(t, err)

	nonce, ciphertext, tag, err := SealDetached(aead, []byte{}, nil)
	require.NoError(t, err)
	assert.Empty(t, ciphertext)

	decrypted, err := OpenDetached(aead, nonce, ciphertext, tag, nil)
	require.NoError(t, err)
	assert.Empty(t, decrypted)
}

func TestCrossAlgorithmDecryptFails(t *testing.T) {
	key := testKey(t)

	gcm, err := NewAESGCM(key)
	require.NoError(t, err)
	chacha, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)

	nonce, ciphertext, tag, err := SealDetached(gcm, []byte("hello"), nil)
	require.NoError(t, err)

	_, err = OpenDetached(chacha, nonce, ciphertext, tag, nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}
