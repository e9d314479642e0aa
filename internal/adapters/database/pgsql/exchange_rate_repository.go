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

// PgxExchangeRateRepository stores base-relative exchange rates with validity windows.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewPgxExchangeRateRepository creates a new repository for exchange rate data.
func NewPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryWithTx {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

const (
	selectRateFields = `
		exchange_rate_id, currency_code, rate_per_base, valid_from, valid_to,
		created_at, created_by, last_updated_at, last_updated_by
	`

	insertRateQuery = `
		INSERT INTO exchange_rates (` + selectRateFields + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	// Batch loads re-run on fixture reloads, so they upsert on the
	// (currency_code, valid_from) key instead of failing on conflict.
	upsertRateQuery = `
		INSERT INTO exchange_rates (` + selectRateFields + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (currency_code, valid_from) DO UPDATE SET
			rate_per_base = EXCLUDED.rate_per_base,
			valid_to = EXCLUDED.valid_to,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`

	// The currently valid rate is the one whose window covers the instant;
	// overlapping windows resolve to the latest valid_from.
	findCurrentRateQuery = `
		SELECT ` + selectRateFields + `
		FROM exchange_rates
		WHERE currency_code = $1
		  AND valid_from <= $2
		  AND (valid_to IS NULL OR valid_to > $2)
		ORDER BY valid_from DESC
		LIMIT 1;
	`

	listCurrentRatesQuery = `
		SELECT DISTINCT ON (currency_code) ` + selectRateFields + `
		FROM exchange_rates
		WHERE valid_from <= $1
		  AND (valid_to IS NULL OR valid_to > $1)
		ORDER BY currency_code, valid_from DESC;
	`
)

func scanExchangeRate(row pgx.Row) (domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	err := row.Scan(
		&rate.ExchangeRateID,
		&rate.CurrencyCode,
		&rate.RatePerBase,
		&rate.ValidFrom,
		&rate.ValidTo,
		&rate.CreatedAt,
		&rate.CreatedBy,
		&rate.LastUpdatedAt,
		&rate.LastUpdatedBy,
	)
	return rate, err
}

func rateInsertArgs(rate *domain.ExchangeRate) []any {
	return []any{
		rate.ExchangeRateID,
		rate.CurrencyCode,
		rate.RatePerBase,
		rate.ValidFrom,
		rate.ValidTo,
		rate.CreatedAt,
		rate.CreatedBy,
		rate.LastUpdatedAt,
		rate.LastUpdatedBy,
	}
}

// SaveExchangeRate inserts a new exchange rate.
// A second rate for the same currency and valid_from maps to ErrDuplicate.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	_, err := r.Pool.Exec(ctx, insertRateQuery, rateInsertArgs(&rate)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: rate for %s at %s already exists", apperrors.ErrDuplicate, rate.CurrencyCode, rate.ValidFrom.Format(time.RFC3339))
		}
		return fmt.Errorf("error inserting exchange rate: %w", err)
	}
	return nil
}

// SaveExchangeRates upserts a batch of rates in one transaction.
func (r *PgxExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	argSets := make([][]any, len(rates))
	for i := range rates {
		argSets[i] = rateInsertArgs(&rates[i])
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := execBatch(ctx, tx, upsertRateQuery, argSets); err != nil {
			return fmt.Errorf("failed to save rate batch: %w", err)
		}
		return nil
	})
}

// FindCurrentRate retrieves the rate valid for a currency at the given instant.
func (r *PgxExchangeRateRepository) FindCurrentRate(ctx context.Context, currencyCode string, at time.Time) (*domain.ExchangeRate, error) {
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, findCurrentRateQuery, currencyCode, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding current rate for %s: %w", currencyCode, err)
	}
	return &rate, nil
}

// ListCurrentRates retrieves the valid rate per currency at the given instant.
func (r *PgxExchangeRateRepository) ListCurrentRates(ctx context.Context, at time.Time) ([]domain.ExchangeRate, error) {
	rows, err := r.Pool.Query(ctx, listCurrentRatesQuery, at)
	if err != nil {
		return nil, fmt.Errorf("failed to query current rates: %w", err)
	}
	defer rows.Close()

	rates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeRate, error) {
		return scanExchangeRate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan current rates: %w", err)
	}

	return rates, nil
}

var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)
