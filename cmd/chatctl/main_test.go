package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

type fakeChatter struct {
	sent []types.ChatRequest
}

func (f *fakeChatter) SendMessage(_ context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	f.sent = append(f.sent, req)
	return &types.ChatResponse{
		Response:     "reply to " + req.Message,
		SessionID:    "s1",
		MessageCount: 2 * len(f.sent),
	}, nil
}

func (f *fakeChatter) Suggestions(context.Context, types.SuggestionsRequest) (*types.SuggestionsResponse, error) {
	return &types.SuggestionsResponse{Suggestions: []string{"What next?"}}, nil
}

func TestRunChat_KeepsSessionAcrossTurns(t *testing.T) {
	fake := &fakeChatter{}
	var out bytes.Buffer

	err := runChat(context.Background(), fake, strings.NewReader("hello\nagain\n/quit\nignored\n"), &out)
	require.NoError(t, err)

	require.Len(t, fake.sent, 2)
	require.Empty(t, fake.sent[0].SessionID)
	require.Equal(t, "s1", fake.sent[1].SessionID)
	require.Contains(t, out.String(), "reply to again")
	require.Contains(t, out.String(), "What next?")
}

func TestRenderReply(t *testing.T) {
	got := renderReply(&types.ChatResponse{
		Response:        "hi",
		SessionID:       "abc",
		MessageCount:    4,
		MentionedStocks: []string{"ACME", "GLOBEX"},
	})
	require.Contains(t, got, "hi")
	require.Contains(t, got, "session abc")
	require.Contains(t, got, "stocks: ACME, GLOBEX")
}

func TestRenderSuggestions_Empty(t *testing.T) {
	require.Empty(t, renderSuggestions(nil))
}
