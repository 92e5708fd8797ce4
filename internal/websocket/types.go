package websocket

import "encoding/json"

// Frame types carried in Frame.Type.
const (
	FrameMessage     = "message"
	FrameSuggestions = "suggestions"
	FrameResponse    = "response"
	FrameError       = "error"
)

// Frame is the envelope of every message on the chat socket. Inbound frames
// without a type are treated as a bare chat request.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ErrorData is the payload of an error frame.
type ErrorData struct {
	Error string `json:"error"`
}
