package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sterlingfx/currency_converter_app/internal/apperrors"
	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portsrepo "github.com/sterlingfx/currency_converter_app/internal/core/ports/repositories"
)

type PgxAPIKeyRepository struct {
	BaseRepository
}

// NewPgxAPIKeyRepository creates a new repository for API key data.
func NewPgxAPIKeyRepository(pool *pgxpool.Pool) portsrepo.APIKeyRepository {
	return &PgxAPIKeyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

const (
	selectAPIKeyFields = `
		api_key_id, name, key_prefix, key_hash,
		last_used_at, expires_at, revoked_at, created_at, updated_at
	`

	insertAPIKeyQuery = `
		INSERT INTO api_keys (api_key_id, name, key_prefix, key_hash, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	findAPIKeyByIDQuery = `
		SELECT ` + selectAPIKeyFields + `
		FROM api_keys
		WHERE api_key_id = $1;
	`

	findAPIKeysByPrefixQuery = `
		SELECT ` + selectAPIKeyFields + `
		FROM api_keys
		WHERE key_prefix = $1;
	`

	listAPIKeysQuery = `
		SELECT ` + selectAPIKeyFields + `
		FROM api_keys
		ORDER BY created_at DESC;
	`

	touchAPIKeyQuery = `
		UPDATE api_keys
		SET last_used_at = $2, updated_at = NOW()
		WHERE api_key_id = $1;
	`

	revokeAPIKeyQuery = `
		UPDATE api_keys
		SET revoked_at = $2, updated_at = NOW()
		WHERE api_key_id = $1 AND revoked_at IS NULL;
	`

	deleteExpiredAPIKeysQuery = `
		DELETE FROM api_keys
		WHERE expires_at IS NOT NULL AND expires_at < $1;
	`
)

func scanAPIKey(row pgx.Row) (domain.APIKey, error) {
	var key domain.APIKey
	err := row.Scan(
		&key.APIKeyID,
		&key.Name,
		&key.KeyPrefix,
		&key.KeyHash,
		&key.LastUsedAt,
		&key.ExpiresAt,
		&key.RevokedAt,
		&key.CreatedAt,
		&key.UpdatedAt,
	)
	return key, err
}

// Create persists a new API key.
func (r *PgxAPIKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	if key == nil {
		return fmt.Errorf("%w: key cannot be nil", apperrors.ErrValidation)
	}

	_, err := r.Pool.Exec(ctx, insertAPIKeyQuery,
		key.APIKeyID,
		key.Name,
		key.KeyPrefix,
		key.KeyHash,
		key.ExpiresAt,
		key.CreatedAt,
		key.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: api key id already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert api key: %w", err)
	}
	return nil
}

// FindByID retrieves an API key by its ID.
func (r *PgxAPIKeyRepository) FindByID(ctx context.Context, id string) (*domain.APIKey, error) {
	key, err := scanAPIKey(r.Pool.QueryRow(ctx, findAPIKeyByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find api key %s: %w", id, err)
	}
	return &key, nil
}

// FindByPrefix retrieves the keys sharing a lookup prefix.
func (r *PgxAPIKeyRepository) FindByPrefix(ctx context.Context, prefix string) ([]domain.APIKey, error) {
	rows, err := r.Pool.Query(ctx, findAPIKeysByPrefixQuery, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query api keys by prefix: %w", err)
	}
	defer rows.Close()

	keys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.APIKey, error) {
		return scanAPIKey(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan api keys: %w", err)
	}
	if len(keys) == 0 {
		return nil, apperrors.ErrNotFound
	}

	return keys, nil
}

// List retrieves all API keys, including revoked ones.
func (r *PgxAPIKeyRepository) List(ctx context.Context) ([]domain.APIKey, error) {
	rows, err := r.Pool.Query(ctx, listAPIKeysQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query api keys: %w", err)
	}
	defer rows.Close()

	keys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.APIKey, error) {
		return scanAPIKey(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan api keys: %w", err)
	}

	return keys, nil
}

// TouchLastUsed updates last_used_at for a key.
func (r *PgxAPIKeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.Pool.Exec(ctx, touchAPIKeyQuery, id, at)
	if err != nil {
		return fmt.Errorf("failed to touch api key %s: %w", id, err)
	}
	return nil
}

// Revoke marks a key as revoked. Revoking an already revoked key is a no-op.
func (r *PgxAPIKeyRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, revokeAPIKeyQuery, id, at)
	if err != nil {
		return fmt.Errorf("failed to revoke api key %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		// Either unknown or already revoked; FindByID distinguishes if needed.
		return nil
	}
	return nil
}

// DeleteExpired removes keys that expired before the given instant.
func (r *PgxAPIKeyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, deleteExpiredAPIKeysQuery, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired api keys: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ portsrepo.APIKeyRepository = (*PgxAPIKeyRepository)(nil)
