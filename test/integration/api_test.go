// Package integration provides end-to-end integration tests for the
// encryption API: key lifecycle, message encryption and decryption, and the
// redaction contract, exercised through the full HTTP stack.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/chatcrypt/internal/app"
	"github.com/allisson/chatcrypt/internal/config"
	messageDTO "github.com/allisson/chatcrypt/internal/message/http/dto"
	vaultDTO "github.com/allisson/chatcrypt/internal/vault/http/dto"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	server    *httptest.Server
}

func setupIntegrationTest(t *testing.T) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServerHost:       "localhost",
		ServerPort:       8080,
		LogLevel:         "error",
		KeyTTL:           time.Hour,
		KeyAlgorithm:     "aes-gcm",
		PreviewLimit:     120,
		MetricsEnabled:   true,
		MetricsNamespace: "chatcrypt",
		MetricsPort:      8081,
		KMSKeyURI:        "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=",
	}

	container := app.NewContainer(cfg)

	httpServer, err := container.HTTPServer()
	require.NoError(t, err)

	server := httptest.NewServer(httpServer.GetHandler())
	t.Cleanup(func() {
		server.Close()
		require.NoError(t, container.Shutdown(context.Background()))
	})

	return &integrationTestContext{
		container: container,
		server:    server,
	}
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, resp.Body.Close())

	return resp, respBody
}

func TestAPI_MessageLifecycle(t *testing.T) {
	ctx := setupIntegrationTest(t)

	plaintext := "gm base frens — ready for the challenge tonight?"

	// Encrypt without touching the key API: the vault issues a key on demand.
	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/conversations/c1/encrypt", messageDTO.EncryptMessageRequest{
		Plaintext:      plaintext,
		AssociatedData: map[string]string{"sender_id": "u1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var encrypted messageDTO.EncryptMessageResponse
	require.NoError(t, json.Unmarshal(body, &encrypted))
	assert.Equal(t, plaintext, encrypted.Preview)
	assert.Equal(t, "sender_id=u1", encrypted.Payload.AssociatedData)

	// The issued key is visible as the conversation's active key.
	resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/conversations/c1/keys/active", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var key vaultDTO.KeyMetadataResponse
	require.NoError(t, json.Unmarshal(body, &key))
	assert.Equal(t, encrypted.Payload.Fingerprint, key.Fingerprint)
	assert.Equal(t, uint64(1), key.UsageCount)

	// Decrypt with conversation binding.
	resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/decrypt", messageDTO.DecryptMessageRequest{
		ConversationID: "c1",
		Payload:        encrypted.Payload,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decrypted messageDTO.DecryptMessageResponse
	require.NoError(t, json.Unmarshal(body, &decrypted))
	assert.Equal(t, plaintext, decrypted.Plaintext)

	// Binding to the wrong conversation is rejected.
	resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/decrypt", messageDTO.DecryptMessageRequest{
		ConversationID: "c2",
		Payload:        encrypted.Payload,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Rotation keeps the old payload decryptable.
	resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/conversations/c1/keys/rotate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rotated vaultDTO.KeyMetadataResponse
	require.NoError(t, json.Unmarshal(body, &rotated))
	assert.NotEqual(t, key.Fingerprint, rotated.Fingerprint)

	resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/decrypt", messageDTO.DecryptMessageRequest{
		ConversationID: "c1",
		Payload:        encrypted.Payload,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Revocation makes the old payload undecryptable, indistinguishable from
	// an unknown key or tampered input.
	resp, _ = ctx.makeRequest(t, http.MethodDelete, "/v1/keys/"+key.Fingerprint, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/decrypt", messageDTO.DecryptMessageRequest{
		ConversationID: "c1",
		Payload:        encrypted.Payload,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "decryption_failed")
}

func TestAPI_TamperDetection(t *testing.T) {
	ctx := setupIntegrationTest(t)

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/conversations/c1/encrypt", messageDTO.EncryptMessageRequest{
		Plaintext:      "payload integrity matters",
		AssociatedData: map[string]string{"sender_id": "u1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var encrypted messageDTO.EncryptMessageResponse
	require.NoError(t, json.Unmarshal(body, &encrypted))

	// Flipping the associated data breaks authentication.
	tampered := encrypted.Payload
	tampered.AssociatedData = "sender_id=u2"

	resp, respBody := ctx.makeRequest(t, http.MethodPost, "/v1/decrypt", messageDTO.DecryptMessageRequest{
		Payload: tampered,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(respBody), "decryption_failed")
	assert.NotContains(t, string(respBody), "associated")
}

func TestAPI_KeyExport(t *testing.T) {
	ctx := setupIntegrationTest(t)

	resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/conversations/c1/keys", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, format := range []string{"base64", "hex", "wrapped"} {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/conversations/c1/keys/export?format="+format, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, format)

		var exported vaultDTO.ExportKeyResponse
		require.NoError(t, json.Unmarshal(body, &exported))
		assert.Equal(t, format, exported.Format)
		assert.NotEmpty(t, exported.Material)
	}
}

func TestAPI_MetricsEndpoint(t *testing.T) {
	ctx := setupIntegrationTest(t)

	resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/conversations/c1/encrypt", messageDTO.EncryptMessageRequest{
		Plaintext: "observable",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	provider, err := ctx.container.MetricsProvider()
	require.NoError(t, err)
	require.NotNil(t, provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()
	assert.Contains(t, output, "chatcrypt_operations_total")
	assert.Contains(t, output, "chatcrypt_http_requests_total")
}
