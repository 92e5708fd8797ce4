package assistant

import (
	"github.com/jrichmond93/ChatbotPOC/internal/session"
	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

const conversationTypeStock = "stock_analysis"

// Merge folds caller-supplied context into the session's running context.
// Values are stored as given.
func Merge(st *session.State, values map[string]any) {
	st.MergeContext(values)
}

// StockContext builds the running-context update for a viewed stock. It
// returns nil when there is no usable quote. The price is always written so
// a quote without one clears the previous stock's price.
func StockContext(q *types.StockQuote) map[string]any {
	if q == nil || q.Symbol == "" {
		return nil
	}
	values := map[string]any{
		session.ContextCurrentStock:     q.Symbol,
		session.ContextConversationType: conversationTypeStock,
		session.ContextStockPrice:       nil,
	}
	if q.Price != nil {
		values[session.ContextStockPrice] = *q.Price
	}
	return values
}
