package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portscache "github.com/sterlingfx/currency_converter_app/internal/core/ports/cache"
)

// The rate universe is bounded by the number of ISO currency codes, so a
// fixed capacity is plenty.
const maxCachedRates = 1024

type RistrettoRateCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewRistrettoRateCache creates an in-process rate cache backed by ristretto.
func NewRistrettoRateCache(ttl time.Duration) (portscache.RateCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxCachedRates,
		MaxCost:     maxCachedRates,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache failed: %w", err)
	}
	return &RistrettoRateCache{cache: c, ttl: ttl}, nil
}

func (c *RistrettoRateCache) Get(ctx context.Context, currencyCode string) (*domain.ExchangeRate, bool) {
	v, ok := c.cache.Get(currencyCode)
	if !ok {
		return nil, false
	}
	rate, ok := v.(domain.ExchangeRate)
	if !ok {
		return nil, false
	}
	return &rate, true
}

func (c *RistrettoRateCache) Set(ctx context.Context, rate domain.ExchangeRate) {
	c.cache.SetWithTTL(rate.CurrencyCode, rate, 1, c.ttl)
}

func (c *RistrettoRateCache) Clear(ctx context.Context) {
	c.cache.Clear()
}

func (c *RistrettoRateCache) Close() {
	c.cache.Close()
}

var _ portscache.RateCache = (*RistrettoRateCache)(nil)
