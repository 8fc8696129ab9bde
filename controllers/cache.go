package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheTTL         = 10 * time.Minute
	cacheKeyPrefix   = "properties:"
	cacheScanPattern = cacheKeyPrefix + "*"
	cacheScanCount   = 100
)

// PropertyCache caches GET /api/properties responses in Redis, keyed by the
// normalized query string. A nil cache is a no-op, so tests and deployments
// without Redis skip caching entirely.
type PropertyCache struct {
	client *redis.Client
}

func NewPropertyCache(client *redis.Client) *PropertyCache {
	if client == nil {
		return nil
	}
	return &PropertyCache{client: client}
}

func (c *PropertyCache) Get(ctx context.Context, query url.Values) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	key := cacheKey(query)
	cached, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("redis GET failed", "key", key, "err", err)
		return nil, false
	}
	return []byte(cached), true
}

func (c *PropertyCache) Set(ctx context.Context, query url.Values, payload []byte) {
	if c == nil {
		return
	}
	key := cacheKey(query)
	if err := c.client.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
		slog.Warn("failed to cache property response", "key", key, "err", err)
	}
}

// Invalidate drops every cached listing response. Called after any property
// mutation, from a goroutine so the write path is not held up.
func (c *PropertyCache) Invalidate() {
	if c == nil {
		return
	}
	ctx := context.Background()

	var keysToDelete []string
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, cacheScanPattern, cacheScanCount).Result()
		if err != nil {
			slog.Warn("redis SCAN failed during cache invalidation", "err", err)
			return
		}
		keysToDelete = append(keysToDelete, keys...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := c.client.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("failed to invalidate property cache", "err", err)
		return
	}
	slog.Info("property cache invalidated", "keys", len(keysToDelete))
}

func cacheKey(queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
