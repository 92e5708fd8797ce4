package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

// Health handles GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:  "healthy",
		Message: "Chatbot backend is running!",
	})
}
