package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"predict_backend/internal/feature/auth/domain"
	"predict_backend/internal/feature/auth/domain/entity"
)

// setupTestDB はインメモリSQLiteでテスト用DBをセットアップします。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}))
	return db
}

func TestUserPostgres_Create(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserPostgres(db)

	user := &entity.User{Email: "test@example.com", Name: "Test User", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	// 同一メールアドレスの二重登録はユニーク制約で拒否される
	// (SQLiteはpgconn.PgErrorを返さないため、ここではエラーの有無のみ検証)
	dup := &entity.User{Email: "test@example.com", Name: "Dup", Password: "hashed"}
	err := repo.Create(ctx, dup)
	assert.Error(t, err)
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserPostgres(db)

	seed := &entity.User{Email: "test@example.com", Name: "Test User", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, seed))

	t.Run("found", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "test@example.com")
		require.NoError(t, err)
		assert.Equal(t, seed.ID, got.ID)
		assert.Equal(t, "Test User", got.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "missing@example.com")
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})
}

func TestUserPostgres_UpdateName(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserPostgres(db)

	seed := &entity.User{Email: "test@example.com", Name: "Old", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, seed))

	t.Run("updates existing user", func(t *testing.T) {
		require.NoError(t, repo.UpdateName(ctx, seed.ID, "New Name"))

		got, err := repo.FindByEmail(ctx, "test@example.com")
		require.NoError(t, err)
		assert.Equal(t, "New Name", got.Name)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.UpdateName(ctx, 9999, "Nobody")
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})
}

func TestUserPostgres_Delete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserPostgres(db)

	seed := &entity.User{Email: "test@example.com", Name: "Test User", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, seed))

	t.Run("deletes existing user", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, seed.ID))

		_, err := repo.FindByEmail(ctx, "test@example.com")
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.Delete(ctx, 9999)
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})
}
