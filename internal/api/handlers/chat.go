package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jrichmond93/ChatbotPOC/internal/assistant"
	"github.com/jrichmond93/ChatbotPOC/internal/logger"
	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

type ChatHandler struct {
	engine *assistant.Engine
}

func NewChatHandler(engine *assistant.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// SendMessage handles POST /api/chatbot/message and POST /api/chat
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req types.ChatRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resp := h.engine.HandleMessage(req)
	c.JSON(http.StatusOK, resp)
}

// bindOptionalJSON decodes the request body into dst. An empty body leaves
// dst at its zero value. A malformed body writes a 400 and returns false.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Failed to read request body"})
		return false
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		logger.Debugf("[api] rejected body on %s: %v", c.FullPath(), err)
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid JSON body"})
		return false
	}
	return true
}
