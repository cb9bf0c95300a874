package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zunda_backend/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// UserTTL bounds how stale a cached profile snapshot may get for readers
// that did not just write.
const UserTTL = 5 * time.Minute

// UserCache keeps profile snapshots in Redis. A nil client or an unreachable
// backend makes every method a transparent miss, so callers always fall
// through to the database.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUserCache connects to Redis. With an empty addr, or when the ping
// fails, the cache is disabled rather than taking the server down.
func NewUserCache(addr, password string, db int) *UserCache {
	if addr == "" {
		return &UserCache{ttl: UserTTL}
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, user cache disabled", "error", err)
		return &UserCache{ttl: UserTTL}
	}

	logger.Info("user cache connected", "addr", addr)
	return &UserCache{rdb: rdb, ttl: UserTTL}
}

// NewUserCacheWithClient wraps an existing client (used by tests).
func NewUserCacheWithClient(rdb *redis.Client) *UserCache {
	return &UserCache{rdb: rdb, ttl: UserTTL}
}

// Client exposes the underlying Redis client; nil when the cache is disabled.
func (c *UserCache) Client() *redis.Client {
	return c.rdb
}

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// Get returns the cached snapshot as raw JSON, or ok=false on any miss or
// backend error.
func (c *UserCache) Get(ctx context.Context, id int64, dest any) bool {
	if c.rdb == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

// Set stores the snapshot with the cache TTL. Errors are dropped.
func (c *UserCache) Set(ctx context.Context, id int64, v any) {
	if c.rdb == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, userKey(id), raw, c.ttl).Err(); err != nil {
		logger.Debug("user cache set failed", "user_id", id, "error", err)
	}
}

// Invalidate drops the snapshot so the next read comes from the store.
// Balance mutations must call this before returning to the caller.
func (c *UserCache) Invalidate(ctx context.Context, ids ...int64) {
	if c.rdb == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, userKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Debug("user cache invalidate failed", "error", err)
	}
}

// Close releases the Redis connection.
func (c *UserCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
