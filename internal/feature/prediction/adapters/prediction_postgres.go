// Package adapters はpredictionフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"predict_backend/internal/feature/prediction/domain/entity"
	"predict_backend/internal/feature/prediction/usecase"
)

// predictionPostgres はPredictionRepositoryインターフェースのPostgres実装です。
// GORMを使用してデータベース操作を行います。
type predictionPostgres struct {
	db *gorm.DB
}

// predictionPostgresがPredictionRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.PredictionRepository = (*predictionPostgres)(nil)

// NewPredictionPostgres は指定されたgorm.DB接続でpredictionPostgresの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewPredictionPostgres(db *gorm.DB) *predictionPostgres {
	return &predictionPostgres{db: db}
}

// Create は予測レコードをデータベースに追加します。
func (r *predictionPostgres) Create(ctx context.Context, p *entity.Prediction) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListByUser は指定ユーザーの予測履歴を作成日時の新しい順に取得します。
// limitが0以下の場合は全件を返します。
func (r *predictionPostgres) ListByUser(ctx context.Context, userID uint, limit, skip int) ([]*entity.Prediction, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var records []*entity.Prediction
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountByUser は指定ユーザーの予測レコード総数を返します。
func (r *predictionPostgres) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Prediction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountByUserSince は指定時刻以降に作成された予測レコード数を返します。
func (r *predictionPostgres) CountByUserSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Prediction{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

// DeleteByUser は指定ユーザーの全予測レコードを削除し、削除件数を返します。
func (r *predictionPostgres) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.Prediction{})
	return res.RowsAffected, res.Error
}
