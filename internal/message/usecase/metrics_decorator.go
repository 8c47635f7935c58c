package usecase

import (
	"context"
	"time"

	messageDomain "github.com/allisson/chatcrypt/internal/message/domain"
	"github.com/allisson/chatcrypt/internal/metrics"
)

// encryptionUseCaseWithMetrics decorates EncryptionUseCase with metrics
// instrumentation.
type encryptionUseCaseWithMetrics struct {
	next    EncryptionUseCase
	metrics metrics.BusinessMetrics
}

// NewEncryptionUseCaseWithMetrics wraps an EncryptionUseCase with metrics
// recording.
func NewEncryptionUseCaseWithMetrics(uc EncryptionUseCase, m metrics.BusinessMetrics) EncryptionUseCase {
	return &encryptionUseCaseWithMetrics{
		next:    uc,
		metrics: m,
	}
}

func (e *encryptionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "message", operation, status)
	e.metrics.RecordDuration(ctx, "message", operation, time.Since(start), status)
}

func (e *encryptionUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	conversationID, plaintext string,
	opts EncryptOptions,
) (*EncryptResult, error) {
	start := time.Now()
	result, err := e.next.Encrypt(ctx, conversationID, plaintext, opts)
	e.record(ctx, "message_encrypt", start, err)
	return result, err
}

func (e *encryptionUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	payload messageDomain.EncryptionPayload,
	conversationID string,
	opts DecryptOptions,
) (string, error) {
	start := time.Now()
	plaintext, err := e.next.Decrypt(ctx, payload, conversationID, opts)
	e.record(ctx, "message_decrypt", start, err)
	return plaintext, err
}

func (e *encryptionUseCaseWithMetrics) Scrub(msg messageDomain.Message, includePlaintext bool) messageDomain.Message {
	return e.next.Scrub(msg, includePlaintext)
}
