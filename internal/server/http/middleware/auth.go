package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	pkgAuth "github.com/NarekMan21/test-deploy-crm/internal/pkg/auth"
	"github.com/NarekMan21/test-deploy-crm/internal/server/http/dto"
)

const (
	// UserContextKey is a gin context key for the authenticated user.
	UserContextKey = "currentUser"
	authCookieName = "crm_token"
)

// IdentityResolver turns a bearer token into an account.
type IdentityResolver interface {
	ParseToken(token string) (int64, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthRequired resolves the bearer token to a user and stores it in the
// request context. Disabled or unknown users are rejected the same way
// as a bad token so the response does not leak account state.
func AuthRequired(facade IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			unauthorized(c)
			return
		}

		userID, err := facade.ParseToken(token)
		if err != nil {
			if err == pkgAuth.ErrInvalidToken {
				unauthorized(c)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		user, err := facade.UserByID(c.Request.Context(), userID)
		if err != nil || !user.Active {
			unauthorized(c)
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Detail: "could not validate credentials",
	})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}
