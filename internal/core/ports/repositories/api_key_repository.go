package repositories

import (
	"context"
	"time"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// APIKeyRepository defines the interface for API key data access operations
type APIKeyRepository interface {
	// Create persists a new API key
	Create(ctx context.Context, key *domain.APIKey) error

	// FindByID retrieves an API key by its ID
	FindByID(ctx context.Context, id string) (*domain.APIKey, error)

	// FindByPrefix retrieves the keys sharing a lookup prefix (used for validation)
	FindByPrefix(ctx context.Context, prefix string) ([]domain.APIKey, error)

	// List retrieves all API keys, including revoked ones
	List(ctx context.Context) ([]domain.APIKey, error)

	// TouchLastUsed updates last_used_at for a key
	TouchLastUsed(ctx context.Context, id string, at time.Time) error

	// Revoke marks a key as revoked
	Revoke(ctx context.Context, id string, at time.Time) error

	// DeleteExpired removes keys that expired before the given instant
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
