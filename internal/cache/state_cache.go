package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache stores JSON values with a fixed TTL. Without a client every
// lookup misses and every write is skipped.
type RedisCache struct {
	redis  client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if rdb == nil {
		return &RedisCache{ttl: ttl, logger: logger}
	}
	return &RedisCache{redis: rdb, ttl: ttl, logger: logger}
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c.redis == nil {
		return false, nil
	}

	val, err := c.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		c.logger.Warn("Dropping unreadable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.Delete(ctx, key)
		return false, nil
	}

	return true, nil
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	if c.redis == nil || c.ttl == 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	return c.redis.Set(ctx, key, string(data), c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.redis == nil {
		return nil
	}

	return c.redis.Del(ctx, key).Err()
}

// Connect parses a redis:// url and pings the server. An empty url
// disables caching and returns a nil client.
func Connect(ctx context.Context, url string, logger *zap.Logger) (*redis.Client, error) {
	if url == "" {
		logger.Info("REDIS_URL not set, state cache is disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("Connected to redis", zap.String("addr", opts.Addr))
	return rdb, nil
}
