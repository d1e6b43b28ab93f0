package middleware

import (
	"context"
	"net/http"
	"strings"

	"datex/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the bearer token and checks its hash
// against the Redis session written at sign-in, so tokens revoked by
// logout stop working immediately. On success the user ID is stored in
// the request context under "userID".
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		ctx := context.Background()
		authCache := utils.GetAuthCacheClient()
		storedHash, err := authCache.Get(ctx, "session:"+userID).Result()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please sign in again"})
			return
		}
		if storedHash != utils.HashToken(tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// UserID extracts the authenticated user's ID set by JWTAuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	val, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
