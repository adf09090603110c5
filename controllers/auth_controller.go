package controllers

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ngfenglong/JiakAIBot/utils"
)

// IssueToken mints a dashboard JWT for a Telegram user id. The bot calls
// this with the shared service key when a user asks for a web login link;
// there is no password flow because identity comes from Telegram.
func IssueToken(c *gin.Context) {
	serviceKey := os.Getenv("SERVICE_API_KEY")
	if serviceKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured: SERVICE_API_KEY not set"})
		return
	}
	provided := c.GetHeader("X-Api-Key")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(serviceKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		return
	}

	var body struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := utils.GenerateJWT(body.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
