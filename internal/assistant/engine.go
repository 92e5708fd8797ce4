// Package assistant turns inbound chat messages into replies and follow-up
// suggestions using keyword rules over the session's stored history and
// running context. Nothing in this package can fail: every input, however
// degenerate, yields a well-formed reply.
package assistant

import (
	"github.com/jrichmond93/ChatbotPOC/internal/logger"
	"github.com/jrichmond93/ChatbotPOC/internal/session"
	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

const conversationTypeGeneral = "general"

// Observer is notified about every turn and suggestion query.
type Observer interface {
	ObserveTurn(rule string)
	ObserveSuggestions(pool string)
}

type nopObserver struct{}

func (nopObserver) ObserveTurn(string)        {}
func (nopObserver) ObserveSuggestions(string) {}

// Option configures an Engine.
type Option func(*Engine)

// WithSuggester sets the suggester, typically one with a seeded Rand.
func WithSuggester(s *Suggester) Option {
	return func(e *Engine) {
		if s != nil {
			e.suggester = s
		}
	}
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithExtractAfterReply makes personal details found in a message apply only
// from the next turn on. By default they already shape the reply to the
// message they appear in.
func WithExtractAfterReply() Option {
	return func(e *Engine) { e.extractAfterReply = true }
}

// Engine runs message turns and suggestion queries against a session store.
type Engine struct {
	store             *session.Store
	suggester         *Suggester
	observer          Observer
	extractAfterReply bool
}

// NewEngine creates an Engine backed by store.
func NewEngine(store *session.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		suggester: NewSuggester(nil),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the engine's session store.
func (e *Engine) Store() *session.Store { return e.store }

// HandleMessage records the user's message, picks a reply, records the reply
// and reports the resulting conversation state. A missing session id starts
// a new session.
func (e *Engine) HandleMessage(req types.ChatRequest) types.ChatResponse {
	id := req.SessionID
	if id == "" {
		id = e.store.NewID()
	}
	quote := req.Quote()

	var (
		resp  types.ChatResponse
		reply Reply
	)
	e.store.GetOrCreate(id).Update(func(st *session.State) {
		st.Append(session.SenderUser, req.Message, quote)
		Merge(st, StockContext(quote))

		attrs := Extract(req.Message)
		if !e.extractAfterReply {
			remember(st, attrs)
		}

		reply = Evaluate(req.Message, st)
		st.Append(session.SenderBot, reply.Text, nil)

		if e.extractAfterReply {
			remember(st, attrs)
		}

		resp = types.ChatResponse{
			Response:            reply.Text,
			SessionID:           id,
			ConversationSummary: Summary(st),
			MessageCount:        len(st.Messages),
			MentionedStocks:     MentionedStocks(st),
		}
	})

	e.observer.ObserveTurn(reply.Rule)
	logger.Debugf("[chat] session=%s rule=%s messages=%d", id, reply.Rule, resp.MessageCount)
	return resp
}

// Suggestions proposes next questions. Unknown or missing sessions are
// treated as having no history.
func (e *Engine) Suggestions(req types.SuggestionsRequest) types.SuggestionsResponse {
	var conv ConversationContext
	if req.SessionID != "" {
		if sess, ok := e.store.Get(req.SessionID); ok {
			sess.View(func(st *session.State) { conv = Describe(st) })
		}
	}

	topic := req.Topic()
	pool := SelectPool(SuggestionInput{Topic: topic, FollowUp: req.IsFollowUp, Conversation: conv})
	suggestions := e.suggester.Sample(pool)
	e.observer.ObserveSuggestions(pool.Name)

	kind := conversationTypeGeneral
	if topic != "" {
		kind = "stock"
	}

	mentioned := conv.MentionedStocks
	if mentioned == nil {
		mentioned = []string{}
	}
	return types.SuggestionsResponse{
		Suggestions: suggestions,
		Context:     kind,
		ConversationContext: types.ConversationContext{
			MessageCount:     conv.MessageCount,
			MentionedStocks:  mentioned,
			ConversationType: conv.ConversationType,
			CurrentStock:     conv.CurrentStock,
			Summary:          conv.Summary,
		},
		SessionID: req.SessionID,
	}
}

// Describe summarizes a session for suggestion selection.
func Describe(st *session.State) ConversationContext {
	kind := st.ContextString(session.ContextConversationType)
	if kind == "" {
		kind = conversationTypeGeneral
	}
	return ConversationContext{
		MessageCount:     len(st.Messages),
		MentionedStocks:  MentionedStocks(st),
		ConversationType: kind,
		CurrentStock:     st.CurrentStock(),
		Summary:          Summary(st),
	}
}
