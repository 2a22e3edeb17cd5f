package handlers

import (
	"net/http"
	"os"

	"milktea-server/internal/ai"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// AskAssistant lets an admin ask the back-office assistant about the menu,
// sales, and order queue in plain language.
func AskAssistant(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return
	}

	response, err := ai.RunAgent(req.Message, apiKey)
	if err != nil {
		zap.L().Error("assistant call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assistant is unavailable right now"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": response})
}
