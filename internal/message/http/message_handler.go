// Package http provides HTTP handlers for message encryption and decryption.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/chatcrypt/internal/httputil"
	"github.com/allisson/chatcrypt/internal/message/http/dto"
	messageUseCase "github.com/allisson/chatcrypt/internal/message/usecase"
	customValidation "github.com/allisson/chatcrypt/internal/validation"
)

// MessageHandler handles HTTP requests for message encryption and decryption.
type MessageHandler struct {
	encryptionUseCase messageUseCase.EncryptionUseCase
	logger            *slog.Logger
}

// NewMessageHandler creates a new message handler with required dependencies.
func NewMessageHandler(
	encryptionUseCase messageUseCase.EncryptionUseCase,
	logger *slog.Logger,
) *MessageHandler {
	return &MessageHandler{
		encryptionUseCase: encryptionUseCase,
		logger:            logger,
	}
}

// EncryptHandler encrypts a message body under the conversation's active key,
// issuing a key transparently when none is active.
// POST /v1/conversations/:conversation_id/encrypt
// Returns 200 OK with the encryption payload and the masked preview.
func (h *MessageHandler) EncryptHandler(c *gin.Context) {
	conversationID := c.Param("conversation_id")
	if conversationID == "" {
		httputil.HandleBadRequestGin(
			c,
			fmt.Errorf("conversation id cannot be empty"),
			h.logger,
		)
		return
	}

	var req dto.EncryptMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.encryptionUseCase.Encrypt(c.Request.Context(), conversationID, req.Plaintext, messageUseCase.EncryptOptions{
		AssociatedData:    req.AssociatedData,
		AssociatedDataRaw: req.AssociatedDataRaw,
		PreviewLimit:      req.PreviewLimit,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptMessageResponse{
		ConversationID: conversationID,
		Payload:        result.Payload,
		Preview:        result.Preview,
	})
}

// DecryptHandler authenticates and decrypts a message payload. The key is
// located by the payload's fingerprint; a conversation id in the body, when
// present, must match the key's conversation.
// POST /v1/decrypt
// Returns 200 OK with the plaintext. Every decryption failure, whatever the
// cause, produces the same 422 response.
func (h *MessageHandler) DecryptHandler(c *gin.Context) {
	var req dto.DecryptMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := h.encryptionUseCase.Decrypt(c.Request.Context(), req.Payload, req.ConversationID, messageUseCase.DecryptOptions{
		AssociatedData:    req.AssociatedData,
		AssociatedDataRaw: req.AssociatedDataRaw,
	})
	if err != nil {
		httputil.HandleDecryptErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptMessageResponse{
		ConversationID: req.ConversationID,
		Plaintext:      plaintext,
	})
}
