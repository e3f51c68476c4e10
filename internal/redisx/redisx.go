// Package redisx provides the optional Redis cache for the project list.
package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"projectboard/internal/config"
	"projectboard/internal/store"
)

// Client is an alias for a Redis client
type Client = redis.Client

// listKey caches the full project list; every mutation invalidates it.
const listKey = "projects:all"

// listTTL bounds staleness when an invalidation is missed.
const listTTL = 30 * time.Second

// Open creates a new Redis client based on configuration. An empty addr means
// no cache; callers must tolerate a nil client.
func Open(cfg *config.Config) (*Client, func(), error) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, func() {}, err
	}
	closer := func() { _ = rdb.Close() }
	return rdb, closer, nil
}

// GetProjectList returns the cached list, with ok=false on miss or any cache
// error. Cache trouble must never fail a read.
func GetProjectList(ctx context.Context, rdb *Client) ([]store.ProjectRecord, bool) {
	if rdb == nil {
		return nil, false
	}
	raw, err := rdb.Get(ctx, listKey).Bytes()
	if err != nil {
		return nil, false
	}
	var out []store.ProjectRecord
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

// SetProjectList caches the freshly fetched list. Best-effort.
func SetProjectList(ctx context.Context, rdb *Client, records []store.ProjectRecord) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	_ = rdb.Set(ctx, listKey, raw, listTTL).Err()
}

// InvalidateProjectList drops the cached list after a mutation. Best-effort.
func InvalidateProjectList(ctx context.Context, rdb *Client) {
	if rdb == nil {
		return
	}
	_ = rdb.Del(ctx, listKey).Err()
}
