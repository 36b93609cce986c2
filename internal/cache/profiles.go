// Package cache provides a Redis read-cache for the public profile list.
//
// The list endpoint is the only unauthenticated query that scans the whole
// table, so it is the only thing cached. Every profile write invalidates
// the key; a miss falls through to the store. The cache is optional — when
// Redis is not configured the service simply runs without it.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sakif/devconnect/internal/model"
)

const keyProfileList = "profiles:list"

// ProfileCache caches the full profile list in Redis.
type ProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewProfileCache returns a ProfileCache with the given TTL.
func NewProfileCache(rdb *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list, or nil on a miss.
func (c *ProfileCache) GetList(ctx context.Context) ([]model.Profile, error) {
	b, err := c.rdb.Get(ctx, keyProfileList).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []model.Profile
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list with the configured TTL.
func (c *ProfileCache) SetList(ctx context.Context, list []model.Profile) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyProfileList, b, c.ttl).Err()
}

// Invalidate drops the cached list. Called after every profile write.
func (c *ProfileCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyProfileList).Err()
}
