package assistant

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func seeded() *Suggester {
	return NewSuggester(rand.New(rand.NewPCG(1, 2)))
}

func TestSelectPool_Branches(t *testing.T) {
	history := ConversationContext{MessageCount: 6, MentionedStocks: []string{"ACME", "GLOBEX", "INITECH"}}
	quiet := ConversationContext{MessageCount: 6}

	cases := []struct {
		name     string
		in       SuggestionInput
		pool     string
		contains string
	}{
		{"topic initial", SuggestionInput{Topic: "ACME"}, PoolStockInitial, "What's ACME's current trend?"},
		{"topic initial ignores history", SuggestionInput{Topic: "ACME", Conversation: history}, PoolStockInitial, "Compare ACME to its competitors"},
		{"topic follow-up multi", SuggestionInput{Topic: "GLOBEX", FollowUp: true, Conversation: history}, PoolStockCompare, "How does GLOBEX compare to ACME, INITECH?"},
		{"topic follow-up single", SuggestionInput{Topic: "ACME", FollowUp: true, Conversation: ConversationContext{MentionedStocks: []string{"ACME"}}}, PoolStockDeepDive, "Can you summarize what we've discussed about this stock?"},
		{"history with stocks", SuggestionInput{Conversation: history}, PoolGeneralHistory, "Let's discuss a different stock than INITECH"},
		{"history without stocks", SuggestionInput{FollowUp: true, Conversation: quiet}, PoolGeneralNextSteps, "Help me find stocks to research"},
		{"short history", SuggestionInput{FollowUp: true, Conversation: ConversationContext{MessageCount: 3, MentionedStocks: []string{"ACME"}}}, PoolInitial, "How can I add a new task?"},
		{"nothing", SuggestionInput{}, PoolInitial, "What can you help me with?"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := SelectPool(tc.in)
			require.Equal(t, tc.pool, p.Name)
			require.Contains(t, p.Items, tc.contains)
		})
	}
}

func TestSelectPool_HistoryReferencesFirstTwo(t *testing.T) {
	p := SelectPool(SuggestionInput{Conversation: ConversationContext{
		MessageCount:    4,
		MentionedStocks: []string{"ACME", "GLOBEX", "INITECH"},
	}})
	require.Contains(t, p.Items, "How do the stocks we discussed (ACME, GLOBEX) fit in a portfolio?")
}

func TestSelectPool_CompareWithoutOtherStocks(t *testing.T) {
	p := SelectPool(SuggestionInput{Topic: "ACME", FollowUp: true, Conversation: ConversationContext{
		MentionedStocks: []string{"ACME", "ACME"},
	}})
	require.Equal(t, PoolStockCompare, p.Name)
	require.Contains(t, p.Items, "Which has better growth potential: ACME or other stocks?")
}

func TestSuggest_SizeAndMembership(t *testing.T) {
	s := seeded()
	inputs := []SuggestionInput{
		{},
		{Topic: "ACME"},
		{Topic: "ACME", FollowUp: true},
		{Conversation: ConversationContext{MessageCount: 10}},
	}
	for _, in := range inputs {
		pool := SelectPool(in)
		for i := 0; i < 50; i++ {
			got := s.Suggest(in)
			require.Len(t, got, 3)
			seen := map[string]bool{}
			for _, g := range got {
				require.Contains(t, pool.Items, g)
				require.False(t, seen[g], "duplicate suggestion %q", g)
				seen[g] = true
			}
		}
	}
}

func TestSample_SmallAndEmptyPools(t *testing.T) {
	s := seeded()

	got := s.Sample(Pool{Name: "tiny", Items: []string{"only", "two"}})
	require.ElementsMatch(t, []string{"only", "two"}, got)

	got = s.Sample(Pool{Name: "empty"})
	require.Equal(t, FallbackSuggestions, got)
}

func TestSample_DoesNotReorderPool(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	s := seeded()
	for i := 0; i < 10; i++ {
		s.Sample(Pool{Items: items})
	}
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, items)
}

type fixedRand struct{}

func (fixedRand) IntN(int) int { return 0 }

func TestSample_InjectedRandIsDeterministic(t *testing.T) {
	s := NewSuggester(fixedRand{})
	got := s.Suggest(SuggestionInput{})
	require.Equal(t, initialGeneralSuggestions[:3], got)
}
