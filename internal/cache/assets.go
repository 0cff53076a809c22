// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// assets.go provides a Valkey-backed cache for remote template assets.
// Stylesheets, scripts and default images fetched from an HTTP base URL or
// an S3 bucket are stored so repeated generations skip the round trip.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// assetKeyPrefix is the Valkey key prefix for cached assets.
	assetKeyPrefix = "asset:"

	// DefaultAssetTTL is how long a fetched asset stays cached.
	DefaultAssetTTL = 30 * time.Minute

	// maxCachedAsset skips caching of unusually large files.
	maxCachedAsset = 4 << 20
)

// AssetCache stores fetched asset bytes in Valkey.
type AssetCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAssetCache creates an asset cache backed by the given Valkey client.
func NewAssetCache(client *redis.Client, ttl time.Duration) *AssetCache {
	if ttl == 0 {
		ttl = DefaultAssetTTL
	}
	return &AssetCache{client: client, ttl: ttl}
}

// Get returns the cached bytes of key. Errors are logged and reported as a miss.
func (ac *AssetCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := ac.client.Get(ctx, assetKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("asset cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("asset cache hit", "key", key)
	return val, true
}

// Set stores data under key with the configured TTL.
func (ac *AssetCache) Set(ctx context.Context, key string, data []byte) {
	if len(data) > maxCachedAsset {
		return
	}
	if err := ac.client.Set(ctx, assetKeyPrefix+key, data, ac.ttl).Err(); err != nil {
		slog.Warn("asset cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached asset by scanning for the prefix.
// Used when the remote theme is redeployed.
func (ac *AssetCache) InvalidateAll(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := ac.client.Scan(ctx, cursor, assetKeyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			if err := ac.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("asset cache cleared", "deleted", deleted)
	}
	return deleted, nil
}
