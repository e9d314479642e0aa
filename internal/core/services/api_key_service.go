package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sterlingfx/currency_converter_app/internal/apperrors"
	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portsrepo "github.com/sterlingfx/currency_converter_app/internal/core/ports/repositories"
	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
	"github.com/sterlingfx/currency_converter_app/internal/utils"
)

const (
	// keySecretBytes is the entropy of the random part of a key; 20 bytes
	// hex-encode to 40 characters.
	keySecretBytes = 20

	// keyPrefixLen is how many leading characters of the plaintext are stored
	// in clear for lookup. Covers "cck_" plus 8 hex characters.
	keyPrefixLen = 12

	keyScheme = "cck_"
)

// apiKeyService implements the APIKeySvc interface.
// Keys are stored as bcrypt hashes; a short cleartext prefix narrows the
// candidate set on validation so the hash comparison stays constant-cost.
type apiKeyService struct {
	BaseService
	keyRepo portsrepo.APIKeyRepository
}

// NewAPIKeyService creates a new instance of apiKeyService
func NewAPIKeyService(keyRepo portsrepo.APIKeyRepository) portssvc.APIKeySvc {
	return &apiKeyService{keyRepo: keyRepo}
}

// CreateKey generates a new API key and returns the plaintext exactly once.
func (s *apiKeyService) CreateKey(ctx context.Context, name string, expiresIn *time.Duration) (string, *domain.APIKey, error) {
	if name == "" {
		return "", nil, fmt.Errorf("%w: key name is required", apperrors.ErrValidation)
	}
	if expiresIn != nil && *expiresIn <= 0 {
		return "", nil, fmt.Errorf("%w: expiresIn must be positive", apperrors.ErrValidation)
	}

	secret, err := utils.GenerateSecureRandomString(keySecretBytes)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	plaintext := keyScheme + secret

	hash, err := utils.HashAPIKey(plaintext)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash key: %w", err)
	}

	var expiresAt *time.Time
	if expiresIn != nil {
		expiry := time.Now().Add(*expiresIn)
		expiresAt = &expiry
	}

	now := time.Now()
	key := &domain.APIKey{
		APIKeyID:  uuid.NewString(),
		Name:      name,
		KeyPrefix: plaintext[:keyPrefixLen],
		KeyHash:   hash,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.keyRepo.Create(ctx, key); err != nil {
		s.LogError(ctx, err, "failed to save api key", "key_name", name)
		return "", nil, fmt.Errorf("failed to save key: %w", err)
	}

	// The plaintext is only available here; it is never persisted.
	return plaintext, key, nil
}

// ListKeys returns all API keys.
func (s *apiKeyService) ListKeys(ctx context.Context) ([]domain.APIKey, error) {
	keys, err := s.keyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	if keys == nil {
		return []domain.APIKey{}, nil
	}
	return keys, nil
}

// RevokeKey revokes a specific API key.
func (s *apiKeyService) RevokeKey(ctx context.Context, keyID string) error {
	if keyID == "" {
		return fmt.Errorf("%w: key ID is required", apperrors.ErrValidation)
	}

	key, err := s.keyRepo.FindByID(ctx, keyID)
	if err != nil {
		return fmt.Errorf("failed to find key: %w", err)
	}
	if key.IsRevoked() {
		// Revocation is idempotent.
		return nil
	}

	if err := s.keyRepo.Revoke(ctx, keyID, time.Now()); err != nil {
		s.LogError(ctx, err, "failed to revoke api key", "key_id", keyID)
		return fmt.Errorf("failed to revoke key: %w", err)
	}
	return nil
}

// ValidateKey checks a plaintext key and returns the matching API key.
func (s *apiKeyService) ValidateKey(ctx context.Context, plaintext string) (*domain.APIKey, error) {
	if len(plaintext) < keyPrefixLen {
		return nil, apperrors.ErrUnauthorized
	}

	candidates, err := s.keyRepo.FindByPrefix(ctx, plaintext[:keyPrefixLen])
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up key: %w", err)
	}

	for i := range candidates {
		key := &candidates[i]
		if !utils.CheckAPIKeyHash(plaintext, key.KeyHash) {
			continue
		}
		if key.IsRevoked() || key.IsExpired() {
			return nil, apperrors.ErrUnauthorized
		}

		// Best-effort usage tracking; a failed touch must not fail the request.
		key.UpdateLastUsed()
		if err := s.keyRepo.TouchLastUsed(ctx, key.APIKeyID, *key.LastUsedAt); err != nil {
			s.LogDebug(ctx, "failed to update key last_used_at", "key_id", key.APIKeyID, "error", err.Error())
		}
		return key, nil
	}

	return nil, apperrors.ErrUnauthorized
}

// EnsureBootstrapKey stores the configured root key when the key table is
// empty. The plaintext comes from config, so unlike CreateKey it is chosen by
// the operator rather than generated here.
func (s *apiKeyService) EnsureBootstrapKey(ctx context.Context, plaintext string) error {
	if len(plaintext) < keyPrefixLen {
		return fmt.Errorf("%w: bootstrap key must be at least %d characters", apperrors.ErrValidation, keyPrefixLen)
	}

	existing, err := s.keyRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing keys: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := utils.HashAPIKey(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap key: %w", err)
	}

	now := time.Now()
	key := &domain.APIKey{
		APIKeyID:  uuid.NewString(),
		Name:      "bootstrap",
		KeyPrefix: plaintext[:keyPrefixLen],
		KeyHash:   hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.keyRepo.Create(ctx, key); err != nil {
		return fmt.Errorf("failed to save bootstrap key: %w", err)
	}

	s.LogInfo(ctx, "bootstrap api key installed", "key_id", key.APIKeyID)
	return nil
}

var _ portssvc.APIKeySvc = (*apiKeyService)(nil)
