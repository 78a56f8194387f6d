package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (m *AuthMiddleware) RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := UserFromContext(c)

		if !ok {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		if !u.IsSuperuser {
			abortWithError(c, http.StatusForbidden, "forbidden", "Not authorized")
			return
		}
		c.Next()
	}
}
