package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"predict_backend/internal/api"
	"predict_backend/internal/feature/auth/domain/entity"
	jwtmw "predict_backend/internal/platform/jwt"
)

// UserUsecase はユーザー管理操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	// UpdateName はユーザーの表示名を更新します。
	UpdateName(ctx context.Context, user *entity.User, name string) error
	// DeleteAccount はユーザーと、そのユーザーの全予測履歴を削除します。
	DeleteAccount(ctx context.Context, user *entity.User) error
}

// UserHandler はユーザー管理操作のHTTPリクエストを処理します。
// 全ルートは認可ミドルウェアの背後に配置されます。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Update はプロフィール更新APIエンドポイントを処理します。
func (h *UserHandler) Update(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Success: false, Message: "Token is missing"})
		return
	}

	var req api.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Success: false, Message: "Name is required"})
		return
	}
	if strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Success: false, Message: "Name cannot be empty"})
		return
	}

	if err := h.users.UpdateName(c.Request.Context(), user, *req.Name); err != nil {
		slog.Error("profile update failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Success: false, Message: "An unexpected error occurred"})
		return
	}

	c.JSON(http.StatusOK, api.UserUpdateResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    UserToResponse(user),
	})
}

// Delete はアカウント削除APIエンドポイントを処理します。
// ユーザーの予測履歴を含めて削除し、tokenクッキーを失効させます。
func (h *UserHandler) Delete(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Success: false, Message: "Token is missing"})
		return
	}

	if err := h.users.DeleteAccount(c.Request.Context(), user); err != nil {
		slog.Error("account deletion failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Success: false, Message: "An unexpected error occurred"})
		return
	}

	slog.Info("account deleted", "user_id", user.ID, "email", user.Email)
	clearTokenCookie(c)
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Account deleted successfully"})
}

// Page は認証必須ページのエンドポイントを処理します。
// テンプレート描画は持たないため、解決済みユーザーをそのまま返します。
func (h *UserHandler) Page(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Success: false, Message: "Token is missing"})
		return
	}
	c.JSON(http.StatusOK, api.PageResponse{Success: true, User: UserToResponse(user)})
}
