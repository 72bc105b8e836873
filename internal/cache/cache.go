package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mini-mercado/internal/config"
	"mini-mercado/internal/model"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProductCache is a read-through cache for single-product lookups.
// Cache failures are never surfaced to callers; a broken cache behaves
// like an empty one.
type ProductCache interface {
	// Get returns the cached product and true on a hit.
	Get(ctx context.Context, id int64) (*model.Product, bool)

	// Set stores the product under its id with the configured TTL.
	Set(ctx context.Context, product *model.Product)

	// Invalidate drops the cached entry for the id.
	Invalidate(ctx context.Context, id int64)

	// Close releases the underlying connection.
	Close() error
}

const keyPrefix = "product:"

// redisCache implements ProductCache on Redis with JSON values.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
	logger  zerolog.Logger
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg config.RedisConfig, logger zerolog.Logger) (ProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger = logger.With().Str("component", "product-cache").Logger()
	logger.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("redis cache connected")

	return &redisCache{
		client:  client,
		ttl:     time.Duration(cfg.TTLSeconds) * time.Second,
		timeout: 250 * time.Millisecond,
		logger:  logger,
	}, nil
}

func cacheKey(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

// Get returns the cached product and true on a hit.
func (c *redisCache) Get(ctx context.Context, id int64) (*model.Product, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Int64("product_id", id).Msg("cache get failed")
		}
		return nil, false
	}

	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn().Err(err).Int64("product_id", id).Msg("cache entry corrupt, dropping")
		c.client.Del(ctx, cacheKey(id))
		return nil, false
	}

	return &p, true
}

// Set stores the product under its id with the configured TTL.
func (c *redisCache) Set(ctx context.Context, product *model.Product) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn().Err(err).Int64("product_id", product.ID).Msg("cache encode failed")
		return
	}

	if err := c.client.Set(ctx, cacheKey(product.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("product_id", product.ID).Msg("cache set failed")
	}
}

// Invalidate drops the cached entry for the id.
func (c *redisCache) Invalidate(ctx context.Context, id int64) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("product_id", id).Msg("cache invalidate failed")
	}
}

// Close releases the underlying connection.
func (c *redisCache) Close() error {
	return c.client.Close()
}

// nopCache satisfies ProductCache when caching is disabled.
type nopCache struct{}

// NewNopCache returns a cache that never hits.
func NewNopCache() ProductCache {
	return nopCache{}
}

func (nopCache) Get(context.Context, int64) (*model.Product, bool) { return nil, false }
func (nopCache) Set(context.Context, *model.Product)               {}
func (nopCache) Invalidate(context.Context, int64)                 {}
func (nopCache) Close() error                                      { return nil }
