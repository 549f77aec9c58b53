// Package auth – Redis-backed verification cache.
//
// When the deployment runs more than one replica, the in-memory cache gives
// each process its own staleness window. Pointing REDIS_ADDR at a shared
// Redis makes verification results visible to every replica instead.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// RedisCache is a Cache backed by a shared Redis instance. Keys are derived
// from a SHA-256 of the raw token so the token itself is never stored; values
// are JSON-encoded user records with a server-side TTL.
//
// Redis failures degrade to cache misses: Verify falls back to the credential
// store rather than failing the request.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache constructs a RedisCache over an existing client.
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, raw string) (*domain.User, bool) {
	val, err := c.rdb.Get(ctx, cacheKey(raw)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("verify cache read failed")
		return nil, false
	}
	var u domain.User
	if err := json.Unmarshal([]byte(val), &u); err != nil {
		return nil, false
	}
	return &u, true
}

// Set implements Cache. Encoding or write failures are logged and dropped.
func (c *RedisCache) Set(ctx context.Context, raw string, user *domain.User, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(raw), payload, ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("verify cache write failed")
	}
}

// cacheKey hashes the raw token into a fixed-size Redis key.
func cacheKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "verify:" + hex.EncodeToString(sum[:])
}
