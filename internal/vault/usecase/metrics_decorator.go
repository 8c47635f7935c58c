package usecase

import (
	"context"
	"time"

	"github.com/allisson/chatcrypt/internal/metrics"
	vaultDomain "github.com/allisson/chatcrypt/internal/vault/domain"
)

// keyVaultWithMetrics decorates KeyVault with metrics instrumentation.
type keyVaultWithMetrics struct {
	next    KeyVault
	metrics metrics.BusinessMetrics
}

// NewKeyVaultWithMetrics wraps a KeyVault with metrics recording.
func NewKeyVaultWithMetrics(vault KeyVault, m metrics.BusinessMetrics) KeyVault {
	return &keyVaultWithMetrics{
		next:    vault,
		metrics: m,
	}
}

// record emits the operation counter and duration histogram for one call.
func (k *keyVaultWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "vault", operation, status)
	k.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

func (k *keyVaultWithMetrics) CreateKey(
	ctx context.Context,
	conversationID string,
	opts CreateKeyOptions,
) (*vaultDomain.ConversationKeyRecord, error) {
	start := time.Now()
	record, err := k.next.CreateKey(ctx, conversationID, opts)
	k.record(ctx, "key_create", start, err)
	return record, err
}

func (k *keyVaultWithMetrics) EnsureActiveKey(
	ctx context.Context,
	conversationID string,
) (*vaultDomain.ConversationKeyRecord, error) {
	start := time.Now()
	record, err := k.next.EnsureActiveKey(ctx, conversationID)
	k.record(ctx, "key_ensure_active", start, err)
	return record, err
}

func (k *keyVaultWithMetrics) GetActiveKey(
	ctx context.Context,
	conversationID string,
) (*vaultDomain.ConversationKeyRecord, error) {
	start := time.Now()
	record, err := k.next.GetActiveKey(ctx, conversationID)
	k.record(ctx, "key_get_active", start, err)
	return record, err
}

func (k *keyVaultWithMetrics) GetByFingerprint(
	ctx context.Context,
	fingerprint string,
) (*vaultDomain.ConversationKeyRecord, error) {
	start := time.Now()
	record, err := k.next.GetByFingerprint(ctx, fingerprint)
	k.record(ctx, "key_get_by_fingerprint", start, err)
	return record, err
}

func (k *keyVaultWithMetrics) RotateKey(
	ctx context.Context,
	conversationID string,
	opts CreateKeyOptions,
) (*vaultDomain.ConversationKeyRecord, error) {
	start := time.Now()
	record, err := k.next.RotateKey(ctx, conversationID, opts)
	k.record(ctx, "key_rotate", start, err)
	return record, err
}

func (k *keyVaultWithMetrics) Revoke(ctx context.Context, fingerprint string) error {
	start := time.Now()
	err := k.next.Revoke(ctx, fingerprint)
	k.record(ctx, "key_revoke", start, err)
	return err
}

func (k *keyVaultWithMetrics) MarkUsed(ctx context.Context, fingerprint string) error {
	// Usage tracking is already counted by the encrypt/decrypt metrics.
	return k.next.MarkUsed(ctx, fingerprint)
}

func (k *keyVaultWithMetrics) ExportMaterial(
	ctx context.Context,
	conversationID string,
	format ExportFormat,
) (string, error) {
	start := time.Now()
	out, err := k.next.ExportMaterial(ctx, conversationID, format)
	k.record(ctx, "key_export", start, err)
	return out, err
}

func (k *keyVaultWithMetrics) Reset(ctx context.Context) error {
	return k.next.Reset(ctx)
}
