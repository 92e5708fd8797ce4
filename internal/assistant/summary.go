package assistant

import (
	"strings"

	"github.com/jrichmond93/ChatbotPOC/internal/session"
)

const (
	SummaryNew     = "New conversation"
	SummaryGeneral = "General conversation about tasks and app features"

	summaryMinMessages = 3
	summaryWindow      = 5
)

// Summary describes the conversation so far in one line.
func Summary(st *session.State) string {
	if len(st.Messages) < summaryMinMessages {
		return SummaryNew
	}

	symbols := stockSymbols(st.Recent(summaryWindow))
	if len(symbols) == 0 {
		return SummaryGeneral
	}

	topics := make([]string, len(symbols))
	for i, s := range symbols {
		topics[i] = "discussed " + s
	}
	return "Recent topics: " + strings.Join(topics, ", ")
}

// MentionedStocks lists every stock symbol attached to any message, in the
// order each was first seen. The result is never nil.
func MentionedStocks(st *session.State) []string {
	return stockSymbols(st.Messages)
}

func stockSymbols(msgs []session.Message) []string {
	seen := make(map[string]struct{})
	symbols := []string{}
	for _, m := range msgs {
		if m.Stock == nil || m.Stock.Symbol == "" {
			continue
		}
		if _, dup := seen[m.Stock.Symbol]; dup {
			continue
		}
		seen[m.Stock.Symbol] = struct{}{}
		symbols = append(symbols, m.Stock.Symbol)
	}
	return symbols
}
