package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngfenglong/JiakAIBot/config"
	"github.com/ngfenglong/JiakAIBot/services"
)

// AccessMiddleware gates routes on an approved access request. The status
// is read from the database on every request, so a revocation takes effect
// immediately.
func AccessMiddleware(access *services.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		authorized, err := access.IsAuthorized(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization check failed"})
			return
		}
		if !authorized {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access not approved"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware restricts routes to the configured admin allow-list.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if !config.IsAdmin(userID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
