package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// localKeyURI builds a localsecrets keeper URI with a random 32-byte key.
func localKeyURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return fmt.Sprintf("base64key://%s", base64.URLEncoding.EncodeToString(key))
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	svc := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := svc.OpenKeeper(ctx, localKeyURI(t))
		require.NoError(t, err)
		defer func() { assert.NoError(t, keeper.Close()) }()

		material := []byte("conversation key material")
		wrapped, err := keeper.Encrypt(ctx, material)
		require.NoError(t, err)
		assert.NotEqual(t, material, wrapped)

		unwrapped, err := keeper.Decrypt(ctx, wrapped)
		require.NoError(t, err)
		assert.Equal(t, material, unwrapped)
	})

	t.Run("Error_UnknownScheme", func(t *testing.T) {
		_, err := svc.OpenKeeper(ctx, "bogus://key")
		assert.Error(t, err)
	})
}
