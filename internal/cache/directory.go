// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// directory.go provides a Valkey-backed cache for the unfiltered public
// directory responses. The full resource list and the category tree change
// only on admin writes, so serving the encoded JSON straight from Valkey
// skips the DB query on the hottest endpoints. Filtered queries bypass
// the cache entirely.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// directoryKeyPrefix is the Valkey key prefix for cached payloads.
	directoryKeyPrefix = "dir:"

	// DefaultDirectoryTTL is how long a payload stays cached. Admin writes
	// invalidate eagerly; the TTL only bounds staleness after missed
	// invalidations.
	DefaultDirectoryTTL = 5 * time.Minute
)

// DirectoryCache caches encoded JSON payloads in Valkey. All methods
// degrade to a miss or a no-op on Valkey errors; callers fall back to
// the database.
type DirectoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDirectoryCache creates a directory cache backed by the given Valkey client.
func NewDirectoryCache(client *redis.Client, ttl time.Duration) *DirectoryCache {
	if ttl == 0 {
		ttl = DefaultDirectoryTTL
	}
	return &DirectoryCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Returns (nil, false) on miss.
func (dc *DirectoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := dc.client.Get(ctx, directoryKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("directory cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("directory cache hit", "key", key)
	return val, true
}

// Set stores an encoded payload with the configured TTL.
func (dc *DirectoryCache) Set(ctx context.Context, key string, payload []byte) {
	if err := dc.client.Set(ctx, directoryKeyPrefix+key, payload, dc.ttl).Err(); err != nil {
		slog.Warn("directory cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single cached payload.
func (dc *DirectoryCache) Invalidate(ctx context.Context, key string) {
	if err := dc.client.Del(ctx, directoryKeyPrefix+key).Err(); err != nil {
		slog.Warn("directory cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("directory cache invalidated", "key", key)
}

// InvalidateAll removes every cached payload by scanning for the prefix.
// Called on admin writes, since resource and category payloads overlap.
func (dc *DirectoryCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := dc.client.Scan(ctx, cursor, directoryKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("directory cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := dc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("directory cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("directory cache fully cleared", "deleted", deleted)
	}
}

// ResourcesKey is the cache key for the unfiltered public resource list.
func ResourcesKey() string {
	return "resources"
}

// CategoriesKey returns the cache key for a category listing view
// ("flat" or "tree").
func CategoriesKey(view string) string {
	return "categories:" + view
}
