package storage

import (
	"context"
	"errors"
	"fmt"

	"table-ordering/order-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCache is the device-local key/value store. Keys never expire.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache namespaces every key under "device:<deviceID>:".
func NewRedisCache(rdb *redis.Client, deviceID string) *RedisCache {
	prefix := ""
	if deviceID != "" {
		prefix = fmt.Sprintf("device:%s:", deviceID)
	}
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrCacheMiss)
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.rdb.Set(ctx, c.prefix+key, value, 0).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.prefix+key).Err()
}
