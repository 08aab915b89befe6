// Package cache stores successful flow outputs in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "promptcraft-studio/internal/common/errors"
)

const keyPrefix = "promptcraft"

// Cache is the lookup surface flows depend on.
type Cache interface {
	// Get decodes a stored value into dst. It reports false on a miss.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Key builds promptcraft:<flow>:<sha256 of parts joined by '|'>.
func Key(flow string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%s:%s", keyPrefix, flow, hex.EncodeToString(sum[:]))
}

type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewCacheFailedError("get", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, apperrors.NewCacheFailedError("decode", err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewCacheFailedError("encode", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return apperrors.NewCacheFailedError("set", err)
	}
	return nil
}

// Noop never hits. It stands in when Redis is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, interface{}) error         { return nil }
