package types

import (
	"bytes"
	"encoding/json"
)

// Common response types

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StockQuote is the snapshot of the stock a user is viewing when a message
// is sent. Only Symbol is required.
type StockQuote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Change        string   `json:"change,omitempty"`
	ChangePercent string   `json:"changePercent,omitempty"`
	Volume        string   `json:"volume,omitempty"`
}

// TopicContext is the loosely shaped "context" field some clients send in
// place of stockContext. Both a bare quote ({"symbol": ...}) and the
// serverless form ({"stock": quote} or {"stock": "SYM"}) are accepted.
type TopicContext struct {
	Quote *StockQuote
}

func (c *TopicContext) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if stock, ok := raw["stock"]; ok {
		var symbol string
		if err := json.Unmarshal(stock, &symbol); err == nil {
			if symbol != "" {
				c.Quote = &StockQuote{Symbol: symbol}
			}
			return nil
		}
		var q StockQuote
		if err := json.Unmarshal(stock, &q); err != nil {
			return err
		}
		if q.Symbol != "" {
			c.Quote = &q
		}
		return nil
	}

	var q StockQuote
	if err := json.Unmarshal(data, &q); err != nil {
		return err
	}
	if q.Symbol != "" {
		c.Quote = &q
	}
	return nil
}

func (c TopicContext) MarshalJSON() ([]byte, error) {
	if c.Quote == nil {
		return []byte("null"), nil
	}
	return json.Marshal(c.Quote)
}

// Chat types

type ChatRequest struct {
	Message      string        `json:"message"`
	SessionID    string        `json:"sessionId,omitempty"`
	StockContext *StockQuote   `json:"stockContext,omitempty"`
	Context      *TopicContext `json:"context,omitempty"`
}

// Quote returns the attached stock snapshot, preferring stockContext.
func (r ChatRequest) Quote() *StockQuote {
	if r.StockContext != nil && r.StockContext.Symbol != "" {
		return r.StockContext
	}
	if r.Context != nil {
		return r.Context.Quote
	}
	return nil
}

type ChatResponse struct {
	Response            string   `json:"response"`
	SessionID           string   `json:"sessionId"`
	ConversationSummary string   `json:"conversationSummary"`
	MessageCount        int      `json:"messageCount"`
	MentionedStocks     []string `json:"mentionedStocks"`
}

// Suggestion types

type SuggestionsRequest struct {
	SessionID  string        `json:"sessionId,omitempty"`
	Stock      string        `json:"stock,omitempty"`
	IsFollowUp bool          `json:"isFollowUp"`
	Context    *TopicContext `json:"context,omitempty"`
}

// Topic returns the stock symbol the suggestions should focus on, if any.
func (r SuggestionsRequest) Topic() string {
	if r.Stock != "" {
		return r.Stock
	}
	if r.Context != nil && r.Context.Quote != nil {
		return r.Context.Quote.Symbol
	}
	return ""
}

type ConversationContext struct {
	MessageCount     int      `json:"message_count"`
	MentionedStocks  []string `json:"mentioned_stocks"`
	ConversationType string   `json:"conversation_type"`
	CurrentStock     string   `json:"current_stock,omitempty"`
	Summary          string   `json:"summary"`
}

type SuggestionsResponse struct {
	Suggestions         []string            `json:"suggestions"`
	Context             string              `json:"context"`
	ConversationContext ConversationContext `json:"conversationContext"`
	SessionID           string              `json:"sessionId"`
}

// Task types

type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type CreateTaskRequest struct {
	Title string `json:"title"`
}

type UpdateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}
