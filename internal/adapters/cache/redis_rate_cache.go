package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portscache "github.com/sterlingfx/currency_converter_app/internal/core/ports/cache"
	"github.com/sterlingfx/currency_converter_app/internal/middleware"
)

const rateKeyPrefix = "rate:"

type RedisRateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRateCache creates a shared rate cache backed by redis. The
// connection is verified with a ping so a misconfigured address fails at boot
// rather than on first request.
func NewRedisRateCache(ctx context.Context, opts *redis.Options, ttl time.Duration) (portscache.RateCache, error) {
	rdb := redis.NewClient(opts)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisRateCache{rdb: rdb, ttl: ttl}, nil
}

func (c *RedisRateCache) Get(ctx context.Context, currencyCode string) (*domain.ExchangeRate, bool) {
	payload, err := c.rdb.Get(ctx, rateKeyPrefix+currencyCode).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			middleware.GetLoggerFromCtx(ctx).Debug("Rate cache read failed",
				slog.String("currency_code", currencyCode),
				slog.String("error", err.Error()))
		}
		return nil, false
	}

	var rate domain.ExchangeRate
	if err := json.Unmarshal(payload, &rate); err != nil {
		middleware.GetLoggerFromCtx(ctx).Debug("Rate cache entry corrupt",
			slog.String("currency_code", currencyCode),
			slog.String("error", err.Error()))
		return nil, false
	}
	return &rate, true
}

func (c *RedisRateCache) Set(ctx context.Context, rate domain.ExchangeRate) {
	payload, err := json.Marshal(rate)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Debug("Rate cache encode failed",
			slog.String("currency_code", rate.CurrencyCode),
			slog.String("error", err.Error()))
		return
	}
	if err := c.rdb.Set(ctx, rateKeyPrefix+rate.CurrencyCode, payload, c.ttl).Err(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Debug("Rate cache write failed",
			slog.String("currency_code", rate.CurrencyCode),
			slog.String("error", err.Error()))
	}
}

// Clear deletes only this cache's keys, so a shared redis DB is left alone.
func (c *RedisRateCache) Clear(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, rateKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			middleware.GetLoggerFromCtx(ctx).Debug("Rate cache delete failed",
				slog.String("key", iter.Val()),
				slog.String("error", err.Error()))
		}
	}
	if err := iter.Err(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Debug("Rate cache scan failed",
			slog.String("error", err.Error()))
	}
}

func (c *RedisRateCache) Close() {
	_ = c.rdb.Close()
}

var _ portscache.RateCache = (*RedisRateCache)(nil)
