package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/models"
)

const brandConfigKeyPrefix = "brandcfg:"

// RedisStore caches brand configurations in Redis so several SDK processes
// can share one lookup per brand.
type RedisStore struct {
	Client *redis.Client
	logger *zap.Logger
}

var _ BrandConfigStore = (*RedisStore)(nil)

// InitRedis connects to addr and returns a RedisStore.
func InitRedis(ctx context.Context, addr string, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rs := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
	}

	if err := redisotel.InstrumentTracing(rs.Client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := rs.Client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("Connected to Redis", zap.String("addr", addr))
	return rs, nil
}

func brandConfigKey(brandID string) string {
	return brandConfigKeyPrefix + brandID
}

// GetBrandConfig returns the cached configuration for brandID. A missing
// or undecodable entry is reported as a miss.
func (r *RedisStore) GetBrandConfig(ctx context.Context, brandID string) (models.BrandConfig, bool, error) {
	raw, err := r.Client.Get(ctx, brandConfigKey(brandID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.BrandConfig{}, false, nil
	}
	if err != nil {
		return models.BrandConfig{}, false, err
	}
	var cfg models.BrandConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		r.logger.Warn("discarding corrupt brand config entry", zap.String("brand_id", brandID), zap.Error(err))
		return models.BrandConfig{}, false, nil
	}
	return cfg, true, nil
}

// SetBrandConfig stores cfg for ttl. Zero ttl keeps it until evicted.
func (r *RedisStore) SetBrandConfig(ctx context.Context, brandID string, cfg models.BrandConfig, ttl time.Duration) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, brandConfigKey(brandID), raw, ttl).Err()
}

// Close shuts down the Redis client.
func (r *RedisStore) Close() {
	if r != nil && r.Client != nil {
		if err := r.Client.Close(); err != nil {
			r.logger.Error("redis close", zap.Error(err))
		}
	}
}
