// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"predict_backend/internal/api"
	"predict_backend/internal/feature/auth/domain"
	"predict_backend/internal/feature/auth/domain/entity"
	jwtmw "predict_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ユーザーを登録し、発行済みトークンとともに返します。
	Signup(ctx context.Context, email, name, password string) (*entity.User, string, error)
	// Login はユーザーを認証し、成功時にアクセストークンを返します。
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// UserToResponse はユーザーエンティティを外部向け表現へ変換します。
// パスワードハッシュは決して含めません。
func UserToResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - 必須フィールド欠落時は400を返却
// - メール重複時は400を返却
// - 成功時はトークンとユーザー情報付きで201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Success: false, Message: "Missing required fields"})
		return
	}

	user, token, err := h.auth.Signup(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Success: false, Message: "User already exists"})
			return
		}
		slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Success: false, Message: "An unexpected error occurred"})
		return
	}

	slog.Info("user signup successful", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.AuthResponse{
		Success: true,
		Message: "User created successfully",
		Token:   token,
		User:    UserToResponse(user),
	})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - 必須フィールド欠落時は400を返却
// - 認証失敗時は401を返却
// - 認証成功時はトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Success: false, Message: "Missing email or password"})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、未検出とパスワード不一致を区別しない
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Success: false, Message: "Invalid email or password"})
			return
		}
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Success: false, Message: "An unexpected error occurred"})
		return
	}

	slog.Info("user login successful", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    UserToResponse(user),
	})
}

// Logout はログアウトAPIエンドポイントを処理します。
// トークンはサーバー側で無効化されず、クッキーの破棄をクライアントへ指示するだけです。
func (h *AuthHandler) Logout(c *gin.Context) {
	clearTokenCookie(c)
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Logged out successfully"})
}

// clearTokenCookie はtokenクッキーを空値・即時失効で上書きします。
func clearTokenCookie(c *gin.Context) {
	c.SetCookie(jwtmw.TokenCookieName, "", -1, "/", "", false, true)
}
