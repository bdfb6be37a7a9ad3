package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"muanapay/pkg/utils"
)

// JWTAuthMiddleware requires a Bearer HS256 token signed with secret. An empty
// secret disables the check.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken([]byte(secret), tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		// Pass user information to the next handler
		c.Set("user_id", claims.Subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}
