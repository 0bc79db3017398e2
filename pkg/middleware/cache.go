package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheControl sets cache headers per route family. Served upload payloads
// never change for a given URL, everything else under /api is dynamic.
func CacheControl() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		switch {
		case strings.HasPrefix(path, "/api/images/"), strings.HasPrefix(path, "/api/attachments/"):
			c.Header("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/api"):
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}

		c.Next()
	}
}
