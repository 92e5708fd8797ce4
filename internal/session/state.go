package session

import (
	"time"

	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Running-context keys written by the assistant.
const (
	ContextCurrentStock     = "current_stock"
	ContextStockPrice       = "stock_price"
	ContextConversationType = "conversation_type"
	ContextUserName         = "user_name"
)

// AttributeName is the user attribute holding the remembered name.
const AttributeName = "name"

// Message is one turn of a conversation. Messages are never modified once
// appended to a State.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time
	Stock     *types.StockQuote
}

// State is the conversation memory of one session.
//
// State is not safe for concurrent use; access it through Session.Update or
// Session.View.
type State struct {
	ID             string
	Messages       []Message
	Context        map[string]any
	Attributes     map[string]any
	CreatedAt      time.Time
	LastActivityAt time.Time

	now   func() time.Time
	newID func() string
}

func newState(id string, now func() time.Time, newID func() string) *State {
	t := now()
	return &State{
		ID:             id,
		Context:        make(map[string]any),
		Attributes:     make(map[string]any),
		CreatedAt:      t,
		LastActivityAt: t,
		now:            now,
		newID:          newID,
	}
}

// Append adds a message to the end of the transcript and returns it.
func (s *State) Append(sender Sender, text string, stock *types.StockQuote) Message {
	msg := Message{
		ID:        s.newID(),
		Text:      text,
		Sender:    sender,
		Timestamp: s.now(),
		Stock:     stock,
	}
	s.Messages = append(s.Messages, msg)
	s.LastActivityAt = msg.Timestamp
	return msg
}

// MergeContext shallow-merges values into the running context. Keys present
// in values overwrite existing keys; other keys are kept.
func (s *State) MergeContext(values map[string]any) {
	if len(values) == 0 {
		return
	}
	for k, v := range values {
		s.Context[k] = v
	}
	s.LastActivityAt = s.now()
}

// SetAttributes records user attributes, last write wins.
func (s *State) SetAttributes(values map[string]any) {
	for k, v := range values {
		s.Attributes[k] = v
	}
}

// Recent returns up to the last n messages. The returned slice aliases the
// transcript and must not be modified.
func (s *State) Recent(n int) []Message {
	if n <= 0 || len(s.Messages) == 0 {
		return nil
	}
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// UserName returns the remembered name, if any.
func (s *State) UserName() string {
	if name, ok := s.Attributes[AttributeName].(string); ok && name != "" {
		return name
	}
	if name, ok := s.Context[ContextUserName].(string); ok {
		return name
	}
	return ""
}

// ContextString returns a running-context value as a string, or "".
func (s *State) ContextString(key string) string {
	v, ok := s.Context[key].(string)
	if !ok {
		return ""
	}
	return v
}

// CurrentStock is the symbol the user is currently viewing, if any.
func (s *State) CurrentStock() string {
	return s.ContextString(ContextCurrentStock)
}
