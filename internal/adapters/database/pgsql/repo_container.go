package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sterlingfx/currency_converter_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires up the pgsql-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	currencyRepo := NewPgxCurrencyRepository(dbPool)
	exchangeRateRepo := NewPgxExchangeRateRepository(dbPool)
	apiKeyRepo := NewPgxAPIKeyRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CurrencyRepo:     currencyRepo,
		ExchangeRateRepo: exchangeRateRepo,
		APIKeyRepo:       apiKeyRepo,
	}
}
