package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predict_backend/internal/feature/auth/domain/entity"
	jwtmw "predict_backend/internal/platform/jwt"
)

// mockUserUsecase はUserUsecaseインターフェースのモック実装です。
type mockUserUsecase struct {
	UpdateNameFunc    func(ctx context.Context, user *entity.User, name string) error
	DeleteAccountFunc func(ctx context.Context, user *entity.User) error
}

func (m *mockUserUsecase) UpdateName(ctx context.Context, user *entity.User, name string) error {
	if m.UpdateNameFunc != nil {
		return m.UpdateNameFunc(ctx, user, name)
	}
	return nil
}

func (m *mockUserUsecase) DeleteAccount(ctx context.Context, user *entity.User) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, user)
	}
	return nil
}

// injectUser は認可ミドルウェアの代替として、解決済みユーザーをコンテキストへ設定します。
func injectUser(user *entity.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(jwtmw.ContextUserKey, user)
		}
		c.Next()
	}
}

func TestUserHandler_Update(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		user        *entity.User
		updateFunc  func(ctx context.Context, user *entity.User, name string) error
		wantStatus  int
		wantMessage string
	}{
		{
			name: "successful update",
			body: `{"name":"New Name"}`,
			user: testUser(),
			updateFunc: func(ctx context.Context, user *entity.User, name string) error {
				user.Name = "New Name"
				return nil
			},
			wantStatus:  http.StatusOK,
			wantMessage: "Profile updated successfully",
		},
		{
			name:        "name field absent",
			body:        `{}`,
			user:        testUser(),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Name is required",
		},
		{
			name:        "name is blank",
			body:        `{"name":"   "}`,
			user:        testUser(),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Name cannot be empty",
		},
		{
			name:        "no authenticated user",
			body:        `{"name":"New Name"}`,
			user:        nil,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token is missing",
		},
		{
			name: "internal error",
			body: `{"name":"New Name"}`,
			user: testUser(),
			updateFunc: func(ctx context.Context, user *entity.User, name string) error {
				return errors.New("database error")
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUserHandler(&mockUserUsecase{UpdateNameFunc: tt.updateFunc})
			router := gin.New()
			router.PUT("/api/user/update", injectUser(tt.user), h.Update)

			req := httptest.NewRequest(http.MethodPut, "/api/user/update", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMessage, resp["message"])
		})
	}
}

func TestUserHandler_Update_ReturnsUpdatedUser(t *testing.T) {
	h := NewUserHandler(&mockUserUsecase{
		UpdateNameFunc: func(ctx context.Context, user *entity.User, name string) error {
			user.Name = name
			return nil
		},
	})
	router := gin.New()
	router.PUT("/api/user/update", injectUser(testUser()), h.Update)

	req := httptest.NewRequest(http.MethodPut, "/api/user/update", strings.NewReader(`{"name":"Renamed"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Renamed", resp.User.Name)
}

func TestUserHandler_Delete(t *testing.T) {
	t.Run("successful deletion clears cookie", func(t *testing.T) {
		var deleted *entity.User
		h := NewUserHandler(&mockUserUsecase{
			DeleteAccountFunc: func(ctx context.Context, user *entity.User) error {
				deleted = user
				return nil
			},
		})
		user := testUser()
		router := gin.New()
		router.DELETE("/api/user/delete", injectUser(user), h.Delete)

		req := httptest.NewRequest(http.MethodDelete, "/api/user/delete", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, deleted)
		assert.Equal(t, user.ID, deleted.ID)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Account deleted successfully", resp["message"])

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "token", cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
	})

	t.Run("internal error", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{
			DeleteAccountFunc: func(ctx context.Context, user *entity.User) error {
				return errors.New("database error")
			},
		})
		router := gin.New()
		router.DELETE("/api/user/delete", injectUser(testUser()), h.Delete)

		req := httptest.NewRequest(http.MethodDelete, "/api/user/delete", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		// 失敗時はクッキーを失効させない
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestUserHandler_Page(t *testing.T) {
	t.Run("returns resolved user", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{})
		router := gin.New()
		router.GET("/dashboard", injectUser(testUser()), h.Page)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool `json:"success"`
			User    struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "test@example.com", resp.User.Email)
	})

	t.Run("no authenticated user", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{})
		router := gin.New()
		router.GET("/dashboard", injectUser(nil), h.Page)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
