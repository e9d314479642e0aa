package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sterlingfx/currency_converter_app/internal/apperrors"
	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portsrepo "github.com/sterlingfx/currency_converter_app/internal/core/ports/repositories"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

// NewPgxCurrencyRepository creates a new repository for currency data.
func NewPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryWithTx {
	return &PgxCurrencyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

const (
	selectCurrencyFields = `
		currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by
	`

	upsertCurrencyQuery = `
		INSERT INTO currencies (currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (currency_code) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			precision = EXCLUDED.precision,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`

	findCurrencyByCodeQuery = `
		SELECT ` + selectCurrencyFields + `
		FROM currencies
		WHERE currency_code = $1;
	`

	listCurrenciesQuery = `
		SELECT ` + selectCurrencyFields + `
		FROM currencies
		ORDER BY currency_code;
	`
)

func currencyInsertArgs(currency *domain.Currency) []any {
	return []any{
		currency.CurrencyCode,
		currency.Symbol,
		currency.Name,
		currency.Precision,
		currency.CreatedAt,
		currency.CreatedBy,
		currency.LastUpdatedAt,
		currency.LastUpdatedBy,
	}
}

func scanCurrency(row pgx.Row) (domain.Currency, error) {
	var currency domain.Currency
	err := row.Scan(
		&currency.CurrencyCode,
		&currency.Symbol,
		&currency.Name,
		&currency.Precision,
		&currency.CreatedAt,
		&currency.CreatedBy,
		&currency.LastUpdatedAt,
		&currency.LastUpdatedBy,
	)
	return currency, err
}

// SaveCurrency inserts or updates a currency.
// CurrencyCode is the unique identifier; existing rows keep their created_at/by.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	_, err := r.Pool.Exec(ctx, upsertCurrencyQuery, currencyInsertArgs(&currency)...)
	if err != nil {
		return fmt.Errorf("failed to save currency %s: %w", currency.CurrencyCode, err)
	}
	return nil
}

// SaveCurrencies upserts a batch of currencies in one transaction.
func (r *PgxCurrencyRepository) SaveCurrencies(ctx context.Context, currencies []domain.Currency) error {
	if len(currencies) == 0 {
		return nil
	}

	argSets := make([][]any, len(currencies))
	for i := range currencies {
		argSets[i] = currencyInsertArgs(&currencies[i])
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := execBatch(ctx, tx, upsertCurrencyQuery, argSets); err != nil {
			return fmt.Errorf("failed to save currency batch: %w", err)
		}
		return nil
	})
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := scanCurrency(r.Pool.QueryRow(ctx, findCurrencyByCodeQuery, currencyCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Map db not found error to application specific error
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", currencyCode, err)
	}
	return &currency, nil
}

// ListCurrencies retrieves all currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.Pool.Query(ctx, listCurrenciesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}

	return currencies, nil
}

var _ portsrepo.CurrencyRepositoryWithTx = (*PgxCurrencyRepository)(nil)
