// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"predict_backend/internal/feature/auth/domain"
	"predict_backend/internal/feature/auth/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、domain.ErrUserAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateName は指定されたユーザーの表示名を更新します。
	UpdateName(ctx context.Context, id uint, name string) error

	// Delete は指定されたユーザーを削除します。
	Delete(ctx context.Context, id uint) error
}

// TokenGenerator はアクセストークン発行のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenGenerator interface {
	// GenerateToken は指定されたアイデンティティの署名済みトークンを生成します。
	GenerateToken(email, name string) (string, error)
}

// PredictionPurger はアカウント削除時の予測履歴の一括削除を抽象化します。
// ストア自体は参照整合性を持たないため、カスケード削除は本ユースケースの責務です。
type PredictionPurger interface {
	// DeleteByUser は指定ユーザーの全予測レコードを削除し、削除件数を返します。
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}

// authUsecase は認証・ユーザー管理のビジネスロジックを実装します。
type authUsecase struct {
	users       UserRepository
	tokens      TokenGenerator
	predictions PredictionPurger
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens TokenGenerator, predictions PredictionPurger) *authUsecase {
	return &authUsecase{
		users:       users,
		tokens:      tokens,
		predictions: predictions,
	}
}

// NormalizeEmail はメールアドレスを正規化（小文字化・トリム）します。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup は新規ユーザーを登録し、発行済みトークンとともに返します。
// メールアドレスの重複チェックは check-then-insert であり、同時登録の競合は
// ストアのユニーク制約で検出されます。
func (u *authUsecase) Signup(ctx context.Context, email, name, password string) (*entity.User, string, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	// 既存ユーザーの確認
	_, err := u.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, "", domain.ErrUserAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Email: email, Name: name, Password: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.GenerateToken(user.Email, user.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login はユーザーを認証し、成功時にアクセストークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email))

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(user.Email, user.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// UpdateName はユーザーの表示名を更新します。
func (u *authUsecase) UpdateName(ctx context.Context, user *entity.User, name string) error {
	name = strings.TrimSpace(name)
	if err := u.users.UpdateName(ctx, user.ID, name); err != nil {
		return fmt.Errorf("failed to update name: %w", err)
	}
	user.Name = name
	return nil
}

// DeleteAccount はユーザーと、そのユーザーの全予測履歴を削除します。
// 予測履歴を先に削除するため、途中で失敗してもユーザーレコードは残ります。
func (u *authUsecase) DeleteAccount(ctx context.Context, user *entity.User) error {
	if _, err := u.predictions.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user predictions: %w", err)
	}
	if err := u.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
