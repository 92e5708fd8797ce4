package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jrichmond93/ChatbotPOC/internal/assistant"
	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

type SuggestionsHandler struct {
	engine *assistant.Engine
}

func NewSuggestionsHandler(engine *assistant.Engine) *SuggestionsHandler {
	return &SuggestionsHandler{engine: engine}
}

// GetSuggestions handles GET /api/chatbot/suggestions
func (h *SuggestionsHandler) GetSuggestions(c *gin.Context) {
	followUp := c.Query("followup")
	if followUp == "" {
		followUp = c.Query("isFollowUp")
	}

	req := types.SuggestionsRequest{
		SessionID:  c.Query("sessionId"),
		Stock:      strings.TrimSpace(c.Query("stock")),
		IsFollowUp: parseFlag(followUp),
	}
	c.JSON(http.StatusOK, h.engine.Suggestions(req))
}

// PostSuggestions handles POST /api/suggestions
func (h *SuggestionsHandler) PostSuggestions(c *gin.Context) {
	var req types.SuggestionsRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.engine.Suggestions(req))
}

func parseFlag(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
