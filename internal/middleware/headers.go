package middleware

import (
	"github.com/gin-gonic/gin"
)

// HeaderBackend names the storage backend that served the request.
const HeaderBackend = "X-Lexis-Backend"

// APIHeaders marks record responses as uncacheable, since every write can
// cascade into other records, and reports which backend answered.
func APIHeaders(backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", "no-store")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set(HeaderBackend, backend)
		c.Next()
	}
}
