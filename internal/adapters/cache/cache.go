// Package cache provides the rate cache adapters and the cached repository
// decorator that puts them in front of the database.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	portscache "github.com/sterlingfx/currency_converter_app/internal/core/ports/cache"
	"github.com/sterlingfx/currency_converter_app/internal/platform/config"
)

// NewRateCache builds the rate cache selected by CACHE_DRIVER.
// Returns nil (and no error) when caching is disabled.
func NewRateCache(ctx context.Context, cfg *config.Config) (portscache.RateCache, error) {
	switch cfg.CacheDriver {
	case config.CacheDriverMemory:
		return NewRistrettoRateCache(cfg.CacheTTL)
	case config.CacheDriverRedis:
		return NewRedisRateCache(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.CacheTTL)
	case config.CacheDriverNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache driver: %s", cfg.CacheDriver)
	}
}
