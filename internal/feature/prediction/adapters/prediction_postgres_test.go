package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"predict_backend/internal/feature/prediction/domain/entity"
)

// setupTestDB はインメモリSQLiteでテスト用DBをセットアップします。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Prediction{}))
	return db
}

// seedPrediction は指定の作成日時で予測レコードを投入します。
// 並び順のテストを決定的にするため、CreatedAtを明示的に与えます。
func seedPrediction(t *testing.T, db *gorm.DB, userID uint, createdAt time.Time) *entity.Prediction {
	t.Helper()

	p := &entity.Prediction{
		UserID:         userID,
		PredictionType: entity.TypeHouse,
		InputData:      datatypes.JSON(`{"SquareFootage":2000}`),
		PredictedValue: 100,
		CreatedAt:      createdAt,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestPredictionPostgres_Create(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPredictionPostgres(db)

	p := &entity.Prediction{
		UserID:         1,
		PredictionType: entity.TypeDiabetes,
		InputData:      datatypes.JSON(`{"BMI":31.2}`),
		PredictedValue: 2,
		Metadata:       datatypes.JSON(`{"result_text":"Diabetes"}`),
	}
	require.NoError(t, repo.Create(ctx, p))

	// BeforeCreateフックでIDが採番されること
	assert.NotEmpty(t, p.ID)

	got, err := repo.ListByUser(ctx, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p.ID, got[0].ID)
	assert.Equal(t, entity.TypeDiabetes, got[0].PredictionType)
}

func TestPredictionPostgres_ListByUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPredictionPostgres(db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// 挿入順と時系列を意図的にずらす
	mid := seedPrediction(t, db, 1, base.Add(1*time.Hour))
	oldest := seedPrediction(t, db, 1, base)
	newest := seedPrediction(t, db, 1, base.Add(2*time.Hour))
	seedPrediction(t, db, 2, base.Add(3*time.Hour)) // 別ユーザー

	t.Run("newest first", func(t *testing.T) {
		got, err := repo.ListByUser(ctx, 1, 0, 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, newest.ID, got[0].ID)
		assert.Equal(t, mid.ID, got[1].ID)
		assert.Equal(t, oldest.ID, got[2].ID)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := repo.ListByUser(ctx, 1, 2, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newest.ID, got[0].ID)
		assert.Equal(t, mid.ID, got[1].ID)
	})

	t.Run("skip", func(t *testing.T) {
		got, err := repo.ListByUser(ctx, 1, 0, 1)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, mid.ID, got[0].ID)
	})

	t.Run("limit and skip", func(t *testing.T) {
		got, err := repo.ListByUser(ctx, 1, 1, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, mid.ID, got[0].ID)
	})

	t.Run("no records", func(t *testing.T) {
		got, err := repo.ListByUser(ctx, 99, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestPredictionPostgres_CountByUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPredictionPostgres(db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedPrediction(t, db, 1, base)
	seedPrediction(t, db, 1, base.Add(time.Hour))
	seedPrediction(t, db, 2, base)

	count, err := repo.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByUser(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestPredictionPostgres_CountByUserSince(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPredictionPostgres(db)

	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedPrediction(t, db, 1, cutoff.Add(-time.Hour))  // 対象外
	seedPrediction(t, db, 1, cutoff)                  // 境界は含む
	seedPrediction(t, db, 1, cutoff.Add(time.Hour))   // 対象
	seedPrediction(t, db, 2, cutoff.Add(time.Hour))   // 別ユーザー

	count, err := repo.CountByUserSince(ctx, 1, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPredictionPostgres_DeleteByUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPredictionPostgres(db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedPrediction(t, db, 1, base)
	seedPrediction(t, db, 1, base.Add(time.Hour))
	other := seedPrediction(t, db, 2, base)

	deleted, err := repo.DeleteByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := repo.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// 別ユーザーのレコードは残ること
	got, err := repo.ListByUser(ctx, 2, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, other.ID, got[0].ID)

	// 対象ゼロ件の削除はエラーにしない
	deleted, err = repo.DeleteByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
