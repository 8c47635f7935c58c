package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"sync"
	"time"

	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/chatcrypt/internal/crypto/service"
	apperrors "github.com/allisson/chatcrypt/internal/errors"
	vaultDomain "github.com/allisson/chatcrypt/internal/vault/domain"
)

// keyVault implements the KeyVault interface with an in-memory store.
//
// State is a pair of indexes guarded by one RWMutex: conversation id to its
// key records (newest first) and fingerprint to record for O(1) reverse
// lookup at decrypt time. The vault is a constructed, injectable value rather
// than package-level state, so multiple isolated instances can coexist
// (deterministic tests, one vault per tenant).
//
// Expired and revoked records are pruned lazily on the next write access to
// their conversation's list. Staleness only affects index size, never
// correctness: lookups check expiry and revocation before returning a record.
type keyVault struct {
	mu             sync.RWMutex
	byConversation map[string][]*vaultDomain.ConversationKeyRecord
	byFingerprint  map[string]*vaultDomain.ConversationKeyRecord

	aeadManager cryptoService.AEADManager
	keeper      cryptoService.KMSKeeper

	defaultTTL       time.Duration
	defaultAlgorithm cryptoDomain.Algorithm

	nowFunc func() time.Time
}

// NewKeyVault creates a key vault with the provided dependencies.
//
// The keeper is optional; when nil, the "wrapped" export format is rejected
// with ErrKMSNotConfigured. A non-positive defaultTTL falls back to
// vaultDomain.DefaultKeyTTL and an empty algorithm falls back to AES-256-GCM.
func NewKeyVault(
	aeadManager cryptoService.AEADManager,
	keeper cryptoService.KMSKeeper,
	defaultTTL time.Duration,
	defaultAlgorithm cryptoDomain.Algorithm,
) KeyVault {
	if defaultTTL <= 0 {
		defaultTTL = vaultDomain.DefaultKeyTTL
	}
	if defaultAlgorithm == "" {
		defaultAlgorithm = cryptoDomain.AESGCM
	}

	return &keyVault{
		byConversation:   make(map[string][]*vaultDomain.ConversationKeyRecord),
		byFingerprint:    make(map[string]*vaultDomain.ConversationKeyRecord),
		aeadManager:      aeadManager,
		keeper:           keeper,
		defaultTTL:       defaultTTL,
		defaultAlgorithm: defaultAlgorithm,
		nowFunc:          time.Now,
	}
}

// now returns the current UTC time via the injectable clock.
func (v *keyVault) now() time.Time {
	return v.nowFunc().UTC()
}

// CreateKey generates and indexes a new active key for the conversation.
func (v *keyVault) CreateKey(
	ctx context.Context,
	conversationID string,
	opts CreateKeyOptions,
) (*vaultDomain.ConversationKeyRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pruneLocked(conversationID)
	return v.createLocked(conversationID, opts)
}

// createLocked builds a record and inserts it at the head of the conversation
// list and into the fingerprint index. Callers must hold the write lock.
func (v *keyVault) createLocked(
	conversationID string,
	opts CreateKeyOptions,
) (*vaultDomain.ConversationKeyRecord, error) {
	alg := opts.Algorithm
	if alg == "" {
		alg = v.defaultAlgorithm
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = v.defaultTTL
	}

	material := opts.Material
	if material == nil {
		material = make([]byte, cryptoDomain.KeySize)
		if _, err := rand.Read(material); err != nil {
			// Fatal: a key must never be generated from a weak source.
			return nil, apperrors.Wrap(cryptoDomain.ErrRandomSource, err.Error())
		}
		defer cryptoDomain.Zero(material)
	}

	aead, err := v.aeadManager.CreateCipher(material, alg)
	if err != nil {
		return nil, err
	}

	record, err := vaultDomain.NewConversationKeyRecord(conversationID, material, alg, ttl, aead)
	if err != nil {
		return nil, err
	}

	if _, exists := v.byFingerprint[record.Fingerprint]; exists {
		return nil, apperrors.Wrap(apperrors.ErrConflict, "key material already present in vault")
	}

	v.byConversation[conversationID] = append(
		[]*vaultDomain.ConversationKeyRecord{record},
		v.byConversation[conversationID]...,
	)
	v.byFingerprint[record.Fingerprint] = record

	return record, nil
}

// EnsureActiveKey returns the existing active key or creates one.
func (v *keyVault) EnsureActiveKey(
	ctx context.Context,
	conversationID string,
) (*vaultDomain.ConversationKeyRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pruneLocked(conversationID)

	now := v.now()
	for _, record := range v.byConversation[conversationID] {
		if record.IsActive(now) {
			return record, nil
		}
	}

	return v.createLocked(conversationID, CreateKeyOptions{})
}

// GetActiveKey returns the conversation's active key without creating one.
func (v *keyVault) GetActiveKey(
	ctx context.Context,
	conversationID string,
) (*vaultDomain.ConversationKeyRecord, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	now := v.now()
	for _, record := range v.byConversation[conversationID] {
		if record.IsActive(now) {
			return record, nil
		}
	}

	return nil, vaultDomain.ErrKeyNotFound
}

// GetByFingerprint resolves a key for decryption.
func (v *keyVault) GetByFingerprint(
	ctx context.Context,
	fingerprint string,
) (*vaultDomain.ConversationKeyRecord, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	record, ok := v.byFingerprint[fingerprint]
	if !ok || record.Revoked || record.IsExpired(v.now()) {
		return nil, vaultDomain.ErrKeyNotFound
	}
	return record, nil
}

// RotateKey unconditionally issues a new active key for the conversation.
func (v *keyVault) RotateKey(
	ctx context.Context,
	conversationID string,
	opts CreateKeyOptions,
) (*vaultDomain.ConversationKeyRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pruneLocked(conversationID)
	return v.createLocked(conversationID, opts)
}

// Revoke marks a key permanently unusable and drops it from the fingerprint
// index. The record stays in its conversation list until the next prune.
func (v *keyVault) Revoke(ctx context.Context, fingerprint string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	record, ok := v.byFingerprint[fingerprint]
	if !ok {
		return vaultDomain.ErrKeyNotFound
	}

	record.Revoke()
	delete(v.byFingerprint, fingerprint)
	return nil
}

// MarkUsed records one successful encrypt or decrypt with the key.
func (v *keyVault) MarkUsed(ctx context.Context, fingerprint string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	record, ok := v.byFingerprint[fingerprint]
	if !ok {
		return vaultDomain.ErrKeyNotFound
	}

	record.MarkUsed(v.now())
	return nil
}

// ExportMaterial returns the active key's material in the requested format.
func (v *keyVault) ExportMaterial(
	ctx context.Context,
	conversationID string,
	format ExportFormat,
) (string, error) {
	record, err := v.GetActiveKey(ctx, conversationID)
	if err != nil {
		return "", err
	}

	material := record.ExportMaterial()
	defer cryptoDomain.Zero(material)

	switch format {
	case ExportBase64:
		return base64.StdEncoding.EncodeToString(material), nil
	case ExportHex:
		return hex.EncodeToString(material), nil
	case ExportWrapped:
		if v.keeper == nil {
			return "", vaultDomain.ErrKMSNotConfigured
		}
		wrapped, err := v.keeper.Encrypt(ctx, material)
		if err != nil {
			return "", apperrors.Wrap(err, "failed to wrap key material")
		}
		return base64.StdEncoding.EncodeToString(wrapped), nil
	default:
		return "", vaultDomain.ErrUnknownExportFormat
	}
}

// Reset clears all vault state, zeroing key material first. Test hook.
func (v *keyVault) Reset(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, records := range v.byConversation {
		for _, record := range records {
			record.Revoke()
			record.Zeroize()
		}
	}

	v.byConversation = make(map[string][]*vaultDomain.ConversationKeyRecord)
	v.byFingerprint = make(map[string]*vaultDomain.ConversationKeyRecord)
	return nil
}

// pruneLocked removes expired and revoked records from the conversation's
// list and the fingerprint index. Callers must hold the write lock.
func (v *keyVault) pruneLocked(conversationID string) {
	records := v.byConversation[conversationID]
	if len(records) == 0 {
		return
	}

	now := v.now()
	kept := records[:0]
	for _, record := range records {
		if record.Revoked || record.IsExpired(now) {
			delete(v.byFingerprint, record.Fingerprint)
			continue
		}
		kept = append(kept, record)
	}

	// The filter reuses the backing array; clear the freed tail so pruned
	// records become collectible.
	clear(records[len(kept):])

	if len(kept) == 0 {
		delete(v.byConversation, conversationID)
		return
	}
	v.byConversation[conversationID] = kept
}
