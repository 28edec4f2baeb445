// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	predictionadapters "predict_backend/internal/feature/prediction/adapters"
	"predict_backend/internal/feature/prediction/usecase"
	"predict_backend/internal/platform/cache"
)

// NewPredictionRepository creates a PredictionRepository implementation.
// If Redis is available, history reads and counts are cached in front of
// Postgres. Otherwise the plain Postgres repository is returned.
func NewPredictionRepository(rdb *redis.Client, db *gorm.DB) usecase.PredictionRepository {
	repo := predictionadapters.NewPredictionPostgres(db)
	if rdb != nil {
		return cache.NewCachingPredictionRepository(rdb, 5*time.Minute, repo, "predictions")
	}
	return repo
}
