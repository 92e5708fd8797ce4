package assistant

import (
	"testing"

	"github.com/jrichmond93/ChatbotPOC/internal/session"
	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

// newTestState returns a fresh state. Tests use it from a single goroutine,
// so holding it outside Session.Update is fine.
func newTestState(t *testing.T) *session.State {
	t.Helper()
	var st *session.State
	session.NewStore().GetOrCreate("test").Update(func(s *session.State) { st = s })
	return st
}

func quote(symbol string, price float64) *types.StockQuote {
	return &types.StockQuote{Symbol: symbol, Price: &price}
}

// say appends a user message the way the engine does before replying.
func say(st *session.State, text string, q *types.StockQuote) {
	st.Append(session.SenderUser, text, q)
	Merge(st, StockContext(q))
}

// exchange records a complete user/bot turn.
func exchange(st *session.State, text string, q *types.StockQuote) {
	say(st, text, q)
	st.Append(session.SenderBot, Respond(text, st), nil)
}
