package cache

import (
	"context"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// RateCache is a read-through cache of currently valid base-relative rates,
// keyed by currency code. Implementations bound entry lifetime with a TTL so
// rates nearing the end of their validity window age out on their own.
//
// Cache failures must never fail a conversion: implementations log and
// degrade to a miss instead of returning errors.
type RateCache interface {
	// Get returns the cached rate for a currency code, if present.
	Get(ctx context.Context, currencyCode string) (*domain.ExchangeRate, bool)

	// Set stores the rate under its currency code.
	Set(ctx context.Context, rate domain.ExchangeRate)

	// Clear drops all cached entries. Called after fixture loads and rate writes.
	Clear(ctx context.Context)

	// Close releases cache resources.
	Close()
}
