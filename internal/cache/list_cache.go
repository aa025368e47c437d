package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"services/ea-service/internal/model"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ListCache is a Redis-backed read-through cache of per-owner model list
// snapshots with TTL expiry. Writers must invalidate the owner's entry so
// stale reads never outlive a mutation. A nil client disables caching and
// every lookup misses.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewListCache creates a list cache over the given Redis client
func NewListCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ListCache {
	return &ListCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// ownerKey builds the cache key for an owner's model list
func ownerKey(ownerID int) string {
	return fmt.Sprintf("eamodels:owner:%d", ownerID)
}

// Get returns the cached snapshot for an owner when present and unexpired
func (c *ListCache) Get(ctx context.Context, ownerID int) ([]model.EAModel, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, ownerKey(ownerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Error("Failed to read list cache",
				zap.Error(err), zap.Int("owner_id", ownerID))
		}
		return nil, false
	}

	var models []model.EAModel
	if err := json.Unmarshal(data, &models); err != nil {
		c.logger.Error("Failed to decode cached list",
			zap.Error(err), zap.Int("owner_id", ownerID))
		return nil, false
	}

	return models, true
}

// Set stores a snapshot for an owner with the configured TTL
func (c *ListCache) Set(ctx context.Context, ownerID int, models []model.EAModel) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(models)
	if err != nil {
		c.logger.Error("Failed to encode list for cache",
			zap.Error(err), zap.Int("owner_id", ownerID))
		return
	}

	if err := c.client.Set(ctx, ownerKey(ownerID), data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to set list cache",
			zap.Error(err), zap.Int("owner_id", ownerID))
	}
}

// Invalidate drops the cached snapshot for an owner
func (c *ListCache) Invalidate(ctx context.Context, ownerID int) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, ownerKey(ownerID)).Err(); err != nil {
		c.logger.Error("Failed to invalidate list cache",
			zap.Error(err), zap.Int("owner_id", ownerID))
	}
}
