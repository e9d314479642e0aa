package cache

import (
	"context"
	"time"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portscache "github.com/sterlingfx/currency_converter_app/internal/core/ports/cache"
	portsrepo "github.com/sterlingfx/currency_converter_app/internal/core/ports/repositories"
)

// CachedExchangeRateRepository decorates an exchange rate repository with a
// read-through rate cache. Writes invalidate the whole cache, so a new rate
// window takes effect on the next read rather than after the TTL.
type CachedExchangeRateRepository struct {
	inner portsrepo.ExchangeRateRepositoryFacade
	rates portscache.RateCache
}

func NewCachedExchangeRateRepository(inner portsrepo.ExchangeRateRepositoryFacade, rates portscache.RateCache) portsrepo.ExchangeRateRepositoryFacade {
	return &CachedExchangeRateRepository{inner: inner, rates: rates}
}

func (r *CachedExchangeRateRepository) FindCurrentRate(ctx context.Context, currencyCode string, at time.Time) (*domain.ExchangeRate, error) {
	if cached, ok := r.rates.Get(ctx, currencyCode); ok && cached.IsValidAt(at) {
		return cached, nil
	}

	rate, err := r.inner.FindCurrentRate(ctx, currencyCode, at)
	if err != nil {
		return nil, err
	}

	r.rates.Set(ctx, *rate)
	return rate, nil
}

// ListCurrentRates always goes to the database; listing is used by admin and
// fixture flows where freshness beats latency.
func (r *CachedExchangeRateRepository) ListCurrentRates(ctx context.Context, at time.Time) ([]domain.ExchangeRate, error) {
	return r.inner.ListCurrentRates(ctx, at)
}

func (r *CachedExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	if err := r.inner.SaveExchangeRate(ctx, rate); err != nil {
		return err
	}
	r.rates.Clear(ctx)
	return nil
}

func (r *CachedExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if err := r.inner.SaveExchangeRates(ctx, rates); err != nil {
		return err
	}
	r.rates.Clear(ctx)
	return nil
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*CachedExchangeRateRepository)(nil)
