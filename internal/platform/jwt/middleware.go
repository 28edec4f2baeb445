package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"predict_backend/internal/api"
	"predict_backend/internal/feature/auth/domain"
	"predict_backend/internal/feature/auth/domain/entity"
)

// ContextUserKey is the gin context key under which AuthRequired stores the
// resolved user.
const ContextUserKey = "currentUser"

// TokenCookieName is the cookie checked for a bearer token before the
// Authorization header.
const TokenCookieName = "token"

// UserResolver looks up the acting user for validated token claims.
// Following Go convention: interfaces are defined by the consumer.
type UserResolver interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// AuthRequired returns a Gin middleware that restricts access to
// authenticated users. The token is taken from the "token" cookie first,
// then from an "Authorization: Bearer <token>" header. Valid claims are
// resolved to a stored user, which is placed in the request context.
func AuthRequired(tokens Validator, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		if v, err := c.Cookie(TokenCookieName); err == nil && v != "" {
			tokenStr = v
		} else if auth := c.GetHeader("Authorization"); auth != "" {
			parts := strings.Split(auth, " ")
			if len(parts) != 2 {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					api.ErrorResponse{Success: false, Message: "Token format is invalid"})
				return
			}
			tokenStr = parts[1]
		}

		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				api.ErrorResponse{Success: false, Message: "Token is missing"})
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			msg := "Token is invalid"
			if errors.Is(err, ErrTokenExpired) {
				msg = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				api.ErrorResponse{Success: false, Message: msg})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			// The user may have been deleted since the token was issued.
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					api.ErrorResponse{Success: false, Message: "User not found"})
				return
			}
			slog.Error("user lookup failed during auth", "error", err, "email", claims.Email)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				api.ErrorResponse{Success: false, Message: "An unexpected error occurred"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok
}
