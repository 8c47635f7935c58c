// Package http provides HTTP handlers for conversation key lifecycle management.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/chatcrypt/internal/httputil"
	customValidation "github.com/allisson/chatcrypt/internal/validation"
	"github.com/allisson/chatcrypt/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/chatcrypt/internal/vault/usecase"
)

// KeyVaultHandler handles HTTP requests for conversation key management.
type KeyVaultHandler struct {
	keyVault vaultUseCase.KeyVault
	logger   *slog.Logger
}

// NewKeyVaultHandler creates a new key vault handler with required dependencies.
func NewKeyVaultHandler(keyVault vaultUseCase.KeyVault, logger *slog.Logger) *KeyVaultHandler {
	return &KeyVaultHandler{
		keyVault: keyVault,
		logger:   logger,
	}
}

// conversationID extracts and validates the conversation id URL parameter.
func (h *KeyVaultHandler) conversationID(c *gin.Context) (string, bool) {
	id := c.Param("conversation_id")
	if id == "" {
		httputil.HandleBadRequestGin(
			c,
			fmt.Errorf("conversation id cannot be empty"),
			h.logger,
		)
		return "", false
	}
	return id, true
}

// EnsureKeyHandler returns the conversation's active key metadata, issuing a
// fresh key when none is active.
// POST /v1/conversations/:conversation_id/keys
// Returns 200 OK with key metadata; material is never included.
func (h *KeyVaultHandler) EnsureKeyHandler(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	record, err := h.keyVault.EnsureActiveKey(c.Request.Context(), conversationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapKeyToResponse(record))
}

// GetActiveKeyHandler returns the conversation's active key metadata without
// ever creating a key.
// GET /v1/conversations/:conversation_id/keys/active
// Returns 200 OK with key metadata, or 404 when no key is active.
func (h *KeyVaultHandler) GetActiveKeyHandler(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	record, err := h.keyVault.GetActiveKey(c.Request.Context(), conversationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapKeyToResponse(record))
}

// RotateKeyHandler unconditionally issues a new active key for the
// conversation. Prior keys remain usable for decryption until expiry.
// POST /v1/conversations/:conversation_id/keys/rotate
// Returns 200 OK with the new key's metadata.
func (h *KeyVaultHandler) RotateKeyHandler(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	// An empty body rotates with the vault defaults.
	var req dto.RotateKeyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.keyVault.RotateKey(c.Request.Context(), conversationID, req.Options())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapKeyToResponse(record))
}

// RevokeKeyHandler marks the key with the given fingerprint permanently
// unusable and zeroes its material.
// DELETE /v1/keys/:fingerprint
// Returns 204 No Content, or 404 for unknown fingerprints.
func (h *KeyVaultHandler) RevokeKeyHandler(c *gin.Context) {
	fingerprint := c.Param("fingerprint")
	if err := customValidation.WrapValidationError(
		customValidation.Fingerprint.Validate(fingerprint),
	); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.keyVault.Revoke(c.Request.Context(), fingerprint); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportKeyHandler returns the active key's material in the requested format.
// GET /v1/conversations/:conversation_id/keys/export?format=base64
// This is the only endpoint that exposes material; it must sit behind TLS and
// operator-level access control.
func (h *KeyVaultHandler) ExportKeyHandler(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	format, err := dto.ParseExportFormat(c.Query("format"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	material, err := h.keyVault.ExportMaterial(c.Request.Context(), conversationID, format)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ExportKeyResponse{
		ConversationID: conversationID,
		Format:         string(format),
		Material:       material,
	})
}
