package assistant

import (
	"testing"

	"github.com/jrichmond93/ChatbotPOC/internal/session"
	"github.com/stretchr/testify/require"
)

func TestSummary_NewConversationBelowThreeMessages(t *testing.T) {
	st := newTestState(t)
	require.Equal(t, SummaryNew, Summary(st))

	st.Append(session.SenderUser, "one", quote("ACME", 1))
	require.Equal(t, SummaryNew, Summary(st))

	st.Append(session.SenderBot, "two", nil)
	require.Equal(t, SummaryNew, Summary(st))
}

func TestSummary_GenericWithoutStocks(t *testing.T) {
	st := newTestState(t)
	for _, text := range []string{"a", "b", "c"} {
		st.Append(session.SenderUser, text, nil)
	}
	require.Equal(t, SummaryGeneral, Summary(st))
}

func TestSummary_RecentTopicsDeduplicated(t *testing.T) {
	st := newTestState(t)
	st.Append(session.SenderUser, "acme?", quote("ACME", 1))
	st.Append(session.SenderBot, "reply", nil)
	st.Append(session.SenderUser, "globex?", quote("GLOBEX", 2))
	st.Append(session.SenderBot, "reply", nil)
	st.Append(session.SenderUser, "acme again", quote("ACME", 3))

	require.Equal(t, "Recent topics: discussed ACME, discussed GLOBEX", Summary(st))
}

func TestSummary_OnlyScansRecentWindow(t *testing.T) {
	st := newTestState(t)
	st.Append(session.SenderUser, "old", quote("OLD", 1))
	for i := 0; i < 5; i++ {
		st.Append(session.SenderBot, "filler", nil)
	}
	require.Equal(t, SummaryGeneral, Summary(st))
	require.Equal(t, []string{"OLD"}, MentionedStocks(st))
}

func TestMentionedStocks_FirstSeenOrder(t *testing.T) {
	st := newTestState(t)
	require.NotNil(t, MentionedStocks(st))
	require.Empty(t, MentionedStocks(st))

	st.Append(session.SenderUser, "x", quote("ZETA", 1))
	st.Append(session.SenderUser, "y", quote("ALPHA", 1))
	st.Append(session.SenderUser, "z", quote("ZETA", 1))
	st.Append(session.SenderUser, "w", nil)

	require.Equal(t, []string{"ZETA", "ALPHA"}, MentionedStocks(st))
}
