package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultCSP = "default-src 'none'"
	// uploaded images are rendered directly by browsers
	storageCSP = "default-src 'none'; img-src 'self'; style-src 'unsafe-inline'"
	// Swagger UI page needs CDN assets + inline bootstrap script/style.
	docsCSP = "default-src 'self'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; connect-src 'self'; img-src 'self' data: https:; font-src 'self' https://unpkg.com data:; style-src 'self' 'unsafe-inline' https://unpkg.com; script-src 'self' 'unsafe-inline' https://unpkg.com"
)

// SecurityHeaders sets the baseline response headers. HSTS is only sent
// outside dev.
func SecurityHeaders(env string) gin.HandlerFunc {
	hsts := env != "dev" && env != "test"

	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("X-XSS-Protection", "0")
		if hsts {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		path := c.Request.URL.Path
		switch {
		case strings.HasPrefix(path, "/docs"):
			c.Header("Content-Security-Policy", docsCSP)
		case strings.HasPrefix(path, "/storage"):
			c.Header("Content-Security-Policy", storageCSP)
		default:
			c.Header("Content-Security-Policy", defaultCSP)
		}

		if strings.HasPrefix(path, "/auth") {
			c.Header("Cache-Control", "no-store")
		}
		c.Next()
	}
}
