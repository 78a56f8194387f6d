package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nomzodai/nomzod-api/internal/actorctx"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/service"
)

// Keep this small interface so tests can fake it easily.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (user.User, error)
}

type AuthMiddleware struct {
	users UserResolver
}

func NewAuthMiddleware(users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	reqID, _ := c.Get(CtxRequestID)
	rid, _ := reqID.(string)

	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   message,
			"requestId": rid,
		},
	})
}

// RequireAuth resolves the bearer token into the calling user once per
// request and stores it on both the gin and the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		raw := strings.TrimSpace(authHeader[7:])
		if raw == "" {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		u, err := m.users.ResolveUser(c.Request.Context(), raw)
		switch {
		case errors.Is(err, service.ErrInactiveUser):
			abortWithError(c, http.StatusForbidden, "inactive_user", "Inactive user")
			return
		case errors.Is(err, service.ErrUnauthorized):
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		case err != nil:
			abortWithError(c, http.StatusInternalServerError, "internal_error", "Could not resolve user")
			return
		}

		c.Set(CtxUser, u)
		c.Request = c.Request.WithContext(actorctx.WithUser(c.Request.Context(), u))

		c.Next()
	}
}

// Optional helpers so handlers don't need to know the magic keys.

func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	u, ok := UserFromContext(c)
	if !ok {
		return "", false
	}
	return strconv.FormatInt(u.ID, 10), true
}
