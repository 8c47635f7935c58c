package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/chatcrypt/internal/crypto/service"
	messageDomain "github.com/allisson/chatcrypt/internal/message/domain"
	vaultUsecase "github.com/allisson/chatcrypt/internal/vault/usecase"
)

type encryptionUseCase struct {
	keyVault     vaultUsecase.KeyVault
	previewLimit int
}

// NewEncryptionUseCase returns an EncryptionUseCase backed by the given key
// vault. previewLimit bounds generated previews; non-positive values fall back
// to the domain default.
func NewEncryptionUseCase(keyVault vaultUsecase.KeyVault, previewLimit int) EncryptionUseCase {
	if previewLimit <= 0 {
		previewLimit = messageDomain.DefaultPreviewLimit
	}
	return &encryptionUseCase{keyVault: keyVault, previewLimit: previewLimit}
}

func (e *encryptionUseCase) Encrypt(ctx context.Context, conversationID, plaintext string, opts EncryptOptions) (*EncryptResult, error) {
	record, err := e.keyVault.EnsureActiveKey(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	aad := resolveAssociatedData(opts.AssociatedDataRaw, opts.AssociatedData)
	nonce, ciphertext, tag, err := cryptoService.SealDetached(record.Cipher(), []byte(plaintext), []byte(aad))
	if err != nil {
		return nil, err
	}

	payload := messageDomain.NewEncryptionPayload(record.Algorithm, nonce, ciphertext, tag, record.Fingerprint, aad)

	limit := opts.PreviewLimit
	if limit <= 0 {
		limit = e.previewLimit
	}

	// Usage tracking is best effort; a concurrent revoke must not undo a
	// completed encryption.
	_ = e.keyVault.MarkUsed(ctx, record.Fingerprint)

	return &EncryptResult{
		Payload: payload,
		Preview: messageDomain.MaskPreview(plaintext, limit),
	}, nil
}

func (e *encryptionUseCase) Decrypt(ctx context.Context, payload messageDomain.EncryptionPayload, conversationID string, opts DecryptOptions) (string, error) {
	if err := payload.CheckFormat(); err != nil {
		return "", err
	}

	record, err := e.keyVault.GetByFingerprint(ctx, payload.Fingerprint)
	if err != nil {
		return "", err
	}
	if conversationID != "" && conversationID != record.ConversationID {
		return "", messageDomain.ErrConversationMismatch
	}
	if record.Algorithm != payload.Algorithm {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	aad := resolveAssociatedData(opts.AssociatedDataRaw, opts.AssociatedData)
	if aad == "" {
		aad = payload.AssociatedData
	}

	nonce, ciphertext, tag, err := payload.DecodeParts()
	if err != nil {
		return "", err
	}

	plaintext, err := cryptoService.OpenDetached(record.Cipher(), nonce, ciphertext, tag, []byte(aad))
	if err != nil {
		return "", err
	}

	_ = e.keyVault.MarkUsed(ctx, record.Fingerprint)

	return string(plaintext), nil
}

func (e *encryptionUseCase) Scrub(msg messageDomain.Message, includePlaintext bool) messageDomain.Message {
	return messageDomain.ScrubForTransmission(msg, includePlaintext)
}

func resolveAssociatedData(raw string, ad messageDomain.AssociatedData) string {
	if raw != "" {
		return raw
	}
	return ad.Canonical()
}
