package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) GetMovies(ctx context.Context, key string) ([]byte, error) {
	logger.Debugf(ctx, "getting cache entry %q...", key)

	val, err := c.client.Get(ctx, dataKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (c *Cache) GetEtagMovies(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, etagKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (c *Cache) SetMovies(ctx context.Context, key string, data []byte, ttl time.Duration) {
	logger.Debugf(ctx, "caching entry %q for %s...", key, ttl)

	if err := c.client.Set(ctx, dataKey(key), data, ttl).Err(); err != nil {
		logger.Warnf(ctx, "redis set %q failed: %v", key, err)
	}
}

func (c *Cache) SetEtagMovies(ctx context.Context, key string, etag string, ttl time.Duration) {
	if err := c.client.Set(ctx, etagKey(key), etag, ttl).Err(); err != nil {
		logger.Warnf(ctx, "redis set etag %q failed: %v", key, err)
	}
}

func (c *Cache) DeleteMovies(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	logger.Debugf(ctx, "deleting cache entries %v...", keys)

	all := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		all = append(all, dataKey(k), etagKey(k))
	}
	if err := c.client.Del(ctx, all...).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Payloads and ETags live under disjoint prefixes whatever key they are given.
func dataKey(key string) string {
	return "movies:data:" + key
}

func etagKey(key string) string {
	return "movies:etag:" + key
}
