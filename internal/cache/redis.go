package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/search-service/internal/model"
)

const redisKeyPrefix = "search:cache:"

// Redis persists entries as JSON with an expiry so results survive a
// restart and are shared between instances. Redis errors count as misses.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewRedis wraps a client. A non-positive ttl means DefaultTTL.
func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{rdb: rdb, ttl: ttl, now: time.Now}
}

func (r *Redis) Get(ctx context.Context, key string) (model.CacheEntry, bool) {
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache: redis get failed", "key", key, "err", err)
		}
		return model.CacheEntry{}, false
	}

	var e model.CacheEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		slog.Warn("cache: dropping undecodable entry", "key", key, "err", err)
		return model.CacheEntry{}, false
	}
	if !fresh(e.CreatedAt, r.now(), r.ttl) {
		return model.CacheEntry{}, false
	}
	return e, true
}

func (r *Redis) Set(ctx context.Context, e model.CacheEntry) {
	now := r.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	remaining := r.ttl - now.Sub(e.CreatedAt)
	if remaining <= 0 {
		return
	}

	raw, err := json.Marshal(e)
	if err != nil {
		slog.Warn("cache: encode entry", "key", e.Key, "err", err)
		return
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+e.Key, raw, remaining).Err(); err != nil {
		slog.Warn("cache: redis set failed", "key", e.Key, "err", err)
	}
}
