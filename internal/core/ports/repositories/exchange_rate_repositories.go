package repositories

import (
	"context"
	"time"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// ExchangeRateReader defines read operations for base-relative exchange rate data
type ExchangeRateReader interface {
	// FindCurrentRate retrieves the rate for a currency whose validity window
	// covers the given instant. When several windows overlap, the one with the
	// latest ValidFrom wins.
	FindCurrentRate(ctx context.Context, currencyCode string, at time.Time) (*domain.ExchangeRate, error)

	// ListCurrentRates retrieves the currently valid rate for every currency
	// that has one at the given instant.
	ListCurrentRates(ctx context.Context, at time.Time) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// SaveExchangeRates upserts a batch of rates in one transaction, keyed on
	// (currency code, valid_from). Used by fixture ingestion, which re-runs.
	SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
