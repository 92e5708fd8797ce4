package assistant

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Pool names.
const (
	PoolStockInitial     = "stock-initial"
	PoolStockCompare     = "stock-compare"
	PoolStockDeepDive    = "stock-deep-dive"
	PoolGeneralHistory   = "general-history"
	PoolGeneralNextSteps = "general-next-steps"
	PoolInitial          = "initial"
)

const (
	maxSuggestions = 3
	// historyMessageMinimum is the message count a session must exceed
	// before history-aware general pools are used.
	historyMessageMinimum = 3
)

var (
	initialGeneralSuggestions = []string{
		"How can I add a new task?",
		"What features are available on this app?",
		"Can you help me navigate the interface?",
		"Tell me about the stock market data",
		"How do I manage my tasks effectively?",
		"What can you help me with?",
		"Explain how to use the task manager",
		"Show me how to mark tasks as complete",
		"Can you give me productivity tips?",
		"What's the difference between the pages?",
	}

	followUpGeneralSuggestions = []string{
		"Can you explain that in more detail?",
		"What else should I know about this?",
		"Are there any tips or best practices?",
		"How does this compare to other options?",
		"Can you give me an example?",
		"What are the benefits of doing this?",
		"Is there anything I should be careful about?",
		"How often should I do this?",
		"What's the most important thing to remember?",
		"Can you help me with something else?",
		"Tell me about another feature",
		"What would you recommend for beginners?",
		"How can I be more efficient?",
		"What are some common mistakes to avoid?",
		"Can you show me a different approach?",
	}

	initialStockSuggestions = []string{
		"What's the current price trend?",
		"Should I be concerned about this stock?",
		"Tell me more about this company",
		"What does the trading volume indicate?",
		"How has this stock performed recently?",
		"What factors affect this stock price?",
		"Is this a good investment opportunity?",
		"Compare this to other tech stocks",
		"What's the market sentiment for this stock?",
		"Explain the price changes today",
	}

	followUpStockSuggestions = []string{
		"What about the long-term outlook?",
		"How does this compare to competitors?",
		"What are the main risks with this stock?",
		"Should I consider buying more?",
		"What news might affect this stock?",
		"Is this stock suitable for beginners?",
		"What's the dividend situation?",
		"How volatile is this stock typically?",
		"What do analysts say about this stock?",
		"When is the best time to buy/sell?",
		"What's the company's financial health?",
		"Are there any upcoming events to watch?",
		"How does market sentiment look?",
		"What's the technical analysis showing?",
		"Should I set a stop loss?",
	}

	// FallbackSuggestions is returned when the selected pool is empty.
	FallbackSuggestions = []string{
		"How can I help you today?",
		"What would you like to know?",
		"Tell me what interests you most",
	}
)

// ConversationContext is what the suggestion engine knows about a session.
// The zero value describes a session with no history.
type ConversationContext struct {
	MessageCount     int
	MentionedStocks  []string
	ConversationType string
	CurrentStock     string
	Summary          string
}

// SuggestionInput selects a suggestion pool.
type SuggestionInput struct {
	Topic        string
	FollowUp     bool
	Conversation ConversationContext
}

// Pool is a named list of candidate questions.
type Pool struct {
	Name  string
	Items []string
}

// Rand is the randomness a Suggester samples with. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Suggester picks follow-up questions.
type Suggester struct {
	rnd Rand
}

// NewSuggester returns a Suggester sampling with rnd, or with the global
// source when rnd is nil.
func NewSuggester(rnd Rand) *Suggester {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Suggester{rnd: rnd}
}

// Suggest returns up to three distinct questions drawn from the pool
// selected for in.
func (s *Suggester) Suggest(in SuggestionInput) []string {
	return s.Sample(SelectPool(in))
}

// Sample draws min(3, len(pool)) items without replacement.
func (s *Suggester) Sample(p Pool) []string {
	if len(p.Items) == 0 {
		return append([]string(nil), FallbackSuggestions...)
	}
	k := min(maxSuggestions, len(p.Items))

	// Partial Fisher-Yates over a copy so pools are never reordered.
	items := append([]string(nil), p.Items...)
	for i := 0; i < k; i++ {
		j := i + s.rnd.IntN(len(items)-i)
		items[i], items[j] = items[j], items[i]
	}
	return items[:k]
}

// SelectPool applies the pool selection policy; the first matching branch
// wins.
func SelectPool(in SuggestionInput) Pool {
	topic := in.Topic
	mentioned := in.Conversation.MentionedStocks

	switch {
	case topic != "" && !in.FollowUp:
		return Pool{Name: PoolStockInitial, Items: concat([]string{
			fmt.Sprintf("What's %s's current trend?", topic),
			fmt.Sprintf("Tell me about %s's fundamentals", topic),
			fmt.Sprintf("How is %s performing today?", topic),
			fmt.Sprintf("What are the risks with %s?", topic),
			fmt.Sprintf("Compare %s to its competitors", topic),
		}, initialStockSuggestions)}

	case topic != "" && len(mentioned) > 1:
		others := make([]string, 0, 2)
		for _, s := range mentioned {
			if s != topic && len(others) < 2 {
				others = append(others, s)
			}
		}
		rival := "other stocks"
		if len(others) > 0 {
			rival = others[0]
		}
		return Pool{Name: PoolStockCompare, Items: concat([]string{
			fmt.Sprintf("How does %s compare to %s?", topic, strings.Join(others, ", ")),
			fmt.Sprintf("Which has better growth potential: %s or %s?", topic, rival),
			"What's the risk profile of each stock we discussed?",
			fmt.Sprintf("Should I diversify between %s and the other stocks we talked about?", topic),
		}, followUpStockSuggestions)}

	case topic != "":
		return Pool{Name: PoolStockDeepDive, Items: concat([]string{
			fmt.Sprintf("What's the long-term outlook for %s?", topic),
			fmt.Sprintf("Should I buy more %s at this price?", topic),
			fmt.Sprintf("What are analysts saying about %s?", topic),
			fmt.Sprintf("How has %s performed historically?", topic),
			"Can you summarize what we've discussed about this stock?",
		}, followUpStockSuggestions)}

	case in.Conversation.MessageCount > historyMessageMinimum && len(mentioned) > 0:
		firstTwo := mentioned[:min(2, len(mentioned))]
		return Pool{Name: PoolGeneralHistory, Items: concat([]string{
			fmt.Sprintf("Let's discuss a different stock than %s", mentioned[len(mentioned)-1]),
			"Can you summarize our stock discussion?",
			"What other investment options should I consider?",
			fmt.Sprintf("How do the stocks we discussed (%s) fit in a portfolio?", strings.Join(firstTwo, ", ")),
			"What should I research next based on our conversation?",
		}, followUpGeneralSuggestions)}

	case in.Conversation.MessageCount > historyMessageMinimum:
		return Pool{Name: PoolGeneralNextSteps, Items: concat([]string{
			"Help me find stocks to research",
			"What market trends should I know about?",
			"Can you explain different investment strategies?",
			"Based on our conversation, what should I focus on?",
			"What other app features might interest me?",
		}, followUpGeneralSuggestions)}

	default:
		return Pool{Name: PoolInitial, Items: concat(nil, initialGeneralSuggestions)}
	}
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
