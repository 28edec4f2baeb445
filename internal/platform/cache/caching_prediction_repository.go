// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"predict_backend/internal/feature/prediction/domain/entity"
	"predict_backend/internal/feature/prediction/usecase"
)

// CachingPredictionRepository decorates a PredictionRepository with Redis
// caching. It implements the decorator pattern, transparently adding caching
// without modifying the underlying repository. All entries for a user are
// invalidated whenever that user's history changes.
type CachingPredictionRepository struct {
	inner     usecase.PredictionRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.PredictionRepository = (*CachingPredictionRepository)(nil)

// NewCachingPredictionRepository decorates a PredictionRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "predictions".
func NewCachingPredictionRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PredictionRepository, namespace string) *CachingPredictionRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "predictions"
	}
	return &CachingPredictionRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create persists a prediction and invalidates the owner's cache entries.
func (c *CachingPredictionRepository) Create(ctx context.Context, p *entity.Prediction) error {
	if err := c.inner.Create(ctx, p); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.deleteByPattern(ctx, c.userKeyPrefix(p.UserID)+"*") // Best effort: don't fail if cache deletion fails
	return nil
}

// ListByUser retrieves predictions, checking cache first then falling back to the database.
func (c *CachingPredictionRepository) ListByUser(ctx context.Context, userID uint, limit, skip int) ([]*entity.Prediction, error) {
	if c.rdb == nil {
		return c.inner.ListByUser(ctx, userID, limit, skip)
	}

	key := fmt.Sprintf("%slist:%d:%d", c.userKeyPrefix(userID), limit, skip)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []*entity.Prediction
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListByUser(ctx, userID, limit, skip)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// CountByUser retrieves the per-user total, cached.
func (c *CachingPredictionRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	if c.rdb == nil {
		return c.inner.CountByUser(ctx, userID)
	}

	key := c.userKeyPrefix(userID) + "count"
	if v, err := c.rdb.Get(ctx, key).Int64(); err == nil {
		return v, nil
	}

	count, err := c.inner.CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	_ = c.rdb.Set(ctx, key, count, c.ttl).Err()
	return count, nil
}

// CountByUserSince passes through uncached: the window boundary moves with
// the clock, so cached values would go stale in a way TTLs don't capture.
func (c *CachingPredictionRepository) CountByUserSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	return c.inner.CountByUserSince(ctx, userID, since)
}

// DeleteByUser removes a user's predictions and invalidates their cache entries.
func (c *CachingPredictionRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	count, err := c.inner.DeleteByUser(ctx, userID)
	if err != nil {
		return count, err
	}
	if c.rdb == nil {
		return count, nil
	}
	_ = c.deleteByPattern(ctx, c.userKeyPrefix(userID)+"*")
	return count, nil
}

// userKeyPrefix generates the key prefix holding all entries for one user.
func (c *CachingPredictionRepository) userKeyPrefix(userID uint) string {
	return fmt.Sprintf("%s:%d:", c.namespace, userID)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingPredictionRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
