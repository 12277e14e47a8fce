package iocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces cached items in a shared Redis database.
const redisKeyPrefix = "lootlens:item:"

// RedisConfig holds the connection settings of the Redis lookup cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisLookupCache shares item lookups between processes through Redis.
// Redis failures degrade to computing the item directly.
type RedisLookupCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.LookupCache = &RedisLookupCache{} // Compile-time check

// NewRedisLookupCache connects to Redis and verifies the connection.
func NewRedisLookupCache(cfg RedisConfig) (*RedisLookupCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return newRedisLookupCache(client, cfg.TTL), nil
}

func newRedisLookupCache(client *redis.Client, ttl time.Duration) *RedisLookupCache {
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}
	return &RedisLookupCache{client: client, ttl: ttl}
}

func redisItemKey(id int64) string {
	return redisKeyPrefix + strconv.FormatInt(id, 10)
}

// GetOrCompute implements the LookupCache interface.
func (c *RedisLookupCache) GetOrCompute(ctx context.Context, id int64, compute func(context.Context) (schema.ItemReference, error)) (schema.ItemReference, error) {
	key := redisItemKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var item schema.ItemReference
		if jsonErr := json.Unmarshal(data, &item); jsonErr == nil {
			return item, nil
		}
		// Corrupt entries are recomputed and overwritten
	case errors.Is(err, redis.Nil):
	default:
		contract.LogWarn("redis lookup cache get", err)
	}

	item, err := compute(ctx)
	if err != nil {
		return schema.ItemReference{}, err
	}

	if payload, err := json.Marshal(item); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			contract.LogWarn("redis lookup cache set", err)
		}
	}
	return item, nil
}

// Invalidate implements the LookupCache interface.
func (c *RedisLookupCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	keys := make([]string, 0, 100)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == cap(keys) {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to invalidate redis cache: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan redis cache: %w", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate redis cache: %w", err)
		}
	}
	return nil
}

// Close closes the Redis client.
func (c *RedisLookupCache) Close() error {
	return c.client.Close()
}
