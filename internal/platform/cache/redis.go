package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/openrouter"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL applies when the configured TTL is zero.
const DefaultTTL = time.Hour

// RedisCache is a generation.Cache backed by Redis.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

var _ generation.Cache = (*RedisCache)(nil)

// NewRedisCache wraps an existing client. A non-positive ttl selects DefaultTTL.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, log *slog.Logger) *RedisCache {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: log.With(slog.String("component", "redis_cache")),
	}
}

// Open connects to the Redis server named by cfg and verifies the connection
// with PING.
func Open(ctx context.Context, cfg config.CacheConfig, log *slog.Logger) (*RedisCache, error) {
	if !cfg.Enabled() {
		return nil, errors.New("redis address is not configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	c := NewRedisCache(client, time.Duration(cfg.TTLMinutes)*time.Minute, log)
	if err := c.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return c, nil
}

// Get returns the cards stored under key. A missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]openrouter.Flashcard, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis cache: get: %w", err)
	}

	var cards []openrouter.Flashcard
	if err := json.Unmarshal(val, &cards); err != nil {
		c.logger.Warn("discarding unreadable cache entry", "key", key, "error", err)
		return nil, false, fmt.Errorf("redis cache: unmarshal: %w", err)
	}
	return cards, true, nil
}

// Set stores cards under key with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, key string, cards []openrouter.Flashcard) error {
	data, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("redis cache: marshal: %w", err)
	}
	if err := c.client.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis cache: set: %w", err)
	}
	c.logger.Debug("cached generation", "key", key, "cards", len(cards), "ttl", c.ttl)
	return nil
}

// TTL returns the expiry applied to new entries.
func (c *RedisCache) TTL() time.Duration {
	return c.ttl
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis cache: ping: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
