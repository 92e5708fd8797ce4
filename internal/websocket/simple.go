package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jrichmond93/ChatbotPOC/internal/assistant"
	"github.com/jrichmond93/ChatbotPOC/internal/logger"
	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

const (
	maxFrameBytes = 64 << 10
	writeWait     = 10 * time.Second
)

// Server streams chat turns over plain WebSocket connections.
type Server struct {
	engine   *assistant.Engine
	manager  *ConnectionManager
	upgrader websocket.Upgrader
}

// NewServer creates a chat socket server backed by engine.
func NewServer(engine *assistant.Engine) *Server {
	return &Server{
		engine:  engine,
		manager: NewConnectionManager(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is permissive for the HTTP routes too
			},
		},
	}
}

// Manager returns the live connection registry.
func (s *Server) Manager() *ConnectionManager { return s.manager }

// HandleWebSocket handles GET /api/chatbot/ws
func (s *Server) HandleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameBytes)

	client := &ClientConnection{ID: uuid.NewString(), Conn: conn}
	client.setSessionID(c.Query("sessionId"))
	s.manager.AddConnection(client)
	defer s.manager.RemoveConnection(client.ID)

	logger.Infof("[ws] client connected: %s (live=%d)", client.ID, s.manager.GetConnectionCount())

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("[ws] read error on %s: %v", client.ID, err)
			}
			break
		}
		if msgType != websocket.TextMessage {
			s.send(client, errorFrame("Only text frames are supported"))
			continue
		}
		s.handleFrame(client, data)
	}

	logger.Infof("[ws] client disconnected: %s", client.ID)
}

// handleFrame dispatches one inbound frame.
func (s *Server) handleFrame(client *ClientConnection, data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		s.send(client, errorFrame("Invalid JSON frame"))
		return
	}

	payload := frame.Data
	if frame.Type == "" {
		frame.Type = FrameMessage
		payload = data
	}

	switch frame.Type {
	case FrameMessage:
		var req types.ChatRequest
		if !decodePayload(payload, &req) {
			s.send(client, errorFrame("Invalid chat request"))
			return
		}
		if req.SessionID == "" {
			req.SessionID = client.SessionID()
		}
		resp := s.engine.HandleMessage(req)
		client.setSessionID(resp.SessionID)

		out := dataFrame(FrameResponse, resp)
		for _, peer := range s.manager.GetSessionConnections(resp.SessionID) {
			s.send(peer, out)
		}

	case FrameSuggestions:
		var req types.SuggestionsRequest
		if !decodePayload(payload, &req) {
			s.send(client, errorFrame("Invalid suggestions request"))
			return
		}
		if req.SessionID == "" {
			req.SessionID = client.SessionID()
		}
		s.send(client, dataFrame(FrameSuggestions, s.engine.Suggestions(req)))

	default:
		s.send(client, errorFrame("Unknown frame type: "+frame.Type))
	}
}

func (s *Server) send(client *ClientConnection, frame Frame) {
	if err := client.WriteJSON(frame, writeWait); err != nil {
		logger.Debugf("[ws] write to %s failed: %v", client.ID, err)
	}
}

// Close sends a going-away close frame to every connected client.
func (s *Server) Close() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, client := range s.manager.All() {
		client.writeMu.Lock()
		client.Conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		client.writeMu.Unlock()
		client.Conn.Close()
	}
}

// decodePayload accepts an absent or null payload as the zero request.
func decodePayload(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	return json.Unmarshal(raw, dst) == nil
}

func dataFrame(kind string, v any) Frame {
	data, err := json.Marshal(v)
	if err != nil {
		return errorFrame("Failed to encode response")
	}
	return Frame{Type: kind, Data: data}
}

func errorFrame(msg string) Frame {
	data, _ := json.Marshal(ErrorData{Error: msg})
	return Frame{Type: FrameError, Data: data}
}
