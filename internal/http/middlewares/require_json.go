package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func RequireJSON() gin.HandlerFunc {
	return RequireContentType("application/json")
}

// RequireContentType rejects bodies of write requests whose Content-Type does
// not start with one of the given media types.
func RequireContentType(mediaTypes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			// allow "application/json; charset=utf-8"
			ct := strings.ToLower(c.GetHeader("Content-Type"))
			for _, mt := range mediaTypes {
				if ct != "" && strings.HasPrefix(ct, mt) {
					c.Next()
					return
				}
			}

			abortWithError(c, http.StatusUnsupportedMediaType, "unsupported_media_type",
				"Content-Type must be "+strings.Join(mediaTypes, " or "))
			return
		}
		c.Next()
	}
}
