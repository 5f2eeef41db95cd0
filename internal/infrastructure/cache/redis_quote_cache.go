package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appshipping "github.com/commerceos/backend/internal/application/shipping"
	"github.com/commerceos/backend/internal/domain/courier"
	"github.com/commerceos/backend/internal/infrastructure/config"
)

// RedisQuoteCache stores serviceability quotes in Redis. Cache failures are
// logged and treated as misses; quoting always falls back to the carrier API.
type RedisQuoteCache struct {
	client     *redis.Client
	ownsClient bool
	logger     *zap.Logger
}

// NewRedisQuoteCache creates a quote cache with its own Redis client
func NewRedisQuoteCache(cfg config.RedisConfig, logger *zap.Logger) (*RedisQuoteCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisQuoteCache{
		client:     client,
		ownsClient: true,
		logger:     logger,
	}, nil
}

// NewRedisQuoteCacheWithClient creates a quote cache with an existing client.
// The caller retains ownership of the client.
func NewRedisQuoteCacheWithClient(client *redis.Client, logger *zap.Logger) *RedisQuoteCache {
	return &RedisQuoteCache{
		client: client,
		logger: logger,
	}
}

func quoteCacheKey(key string) string {
	return "shipping:" + key
}

// Get retrieves cached quotes; a miss or any Redis error returns ok=false
func (c *RedisQuoteCache) Get(ctx context.Context, key string) ([]courier.Quote, bool) {
	data, err := c.client.Get(ctx, quoteCacheKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Failed to read quotes from cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var quotes []courier.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		c.logger.Warn("Corrupt quote cache entry, dropping", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, quoteCacheKey(key))
		return nil, false
	}
	return quotes, true
}

// Set stores quotes with a TTL; failures are logged, never surfaced
func (c *RedisQuoteCache) Set(ctx context.Context, key string, quotes []courier.Quote, ttl time.Duration) {
	data, err := json.Marshal(quotes)
	if err != nil {
		c.logger.Warn("Failed to marshal quotes for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, quoteCacheKey(key), data, ttl).Err(); err != nil {
		c.logger.Warn("Failed to write quotes to cache", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the Redis client when this cache owns it
func (c *RedisQuoteCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisQuoteCache implements the application port
var _ appshipping.QuoteCache = (*RedisQuoteCache)(nil)
