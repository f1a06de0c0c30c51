package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voisinage/voisin_go_server/internal/pkg/jwt"
	"github.com/voisinage/voisin_go_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"
)

// Auth validates the bearer token and injects the trusted user id.
// Token issuance happens elsewhere; this middleware only verifies.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "jeton d'authentification manquant")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "format d'authentification invalide")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "jeton invalide ou expiré")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// GetUserID reads the trusted user id from the request context
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}
