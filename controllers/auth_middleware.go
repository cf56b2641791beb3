package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyRequired guards the tenant-facing routes with a shared key, sent as
// "Authorization: Bearer <key>" or "X-Api-Key: <key>". An empty key
// disables the check.
func APIKeyRequired(key string) gin.HandlerFunc {
	key = strings.TrimSpace(key)
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		provided := strings.TrimSpace(c.GetHeader("X-Api-Key"))
		if h := c.GetHeader("Authorization"); provided == "" && strings.HasPrefix(strings.ToLower(h), "bearer ") {
			provided = strings.TrimSpace(h[len("Bearer "):])
		}
		if provided == "" {
			RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			RespondError(c, "invalid api key", http.StatusUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
