package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"muanapay/pkg/utils"
)

// GatewayKeyMiddleware checks the forwarding gateway's shared key against a bcrypt
// hash. The key is read from the apikey header, then from a Bearer token. An empty
// hash disables the check.
func GatewayKeyMiddleware(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if keyHash == "" {
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader("apikey"))
		if key == "" {
			key, _ = bearerToken(c)
		}
		if key == "" || utils.CompareSecret(keyHash, key) != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid gateway key")
			c.Abort()
			return
		}

		c.Next()
	}
}
