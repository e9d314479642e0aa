package services

import (
	"context"
	"time"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// APIKeySvc defines operations for API key management
type APIKeySvc interface {
	// CreateKey generates a new API key.
	// Returns the plaintext key (only shown once) and the key details.
	CreateKey(ctx context.Context, name string, expiresIn *time.Duration) (string, *domain.APIKey, error)

	// ListKeys returns all API keys.
	ListKeys(ctx context.Context) ([]domain.APIKey, error)

	// RevokeKey revokes a specific API key.
	RevokeKey(ctx context.Context, keyID string) error

	// ValidateKey checks a plaintext key and returns the matching API key.
	// Updates the last_used_at timestamp on success.
	ValidateKey(ctx context.Context, plaintext string) (*domain.APIKey, error)

	// EnsureBootstrapKey stores the configured root key when no keys exist
	// yet, so a fresh deployment can authenticate and mint real keys.
	EnsureBootstrapKey(ctx context.Context, plaintext string) error
}
