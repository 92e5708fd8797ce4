package assistant

import (
	"testing"

	"github.com/jrichmond93/ChatbotPOC/internal/session"
	"github.com/stretchr/testify/require"
)

func TestRespond_NameQuery(t *testing.T) {
	st := newTestState(t)
	say(st, "what's my name?", nil)

	reply := Evaluate("what's my name?", st)
	require.Equal(t, RuleNameQuery, reply.Rule)
	require.Contains(t, reply.Text, "told me your name yet")
	require.NotContains(t, reply.Text, "Your name is")

	remember(st, Extract("my name is Alice"))
	require.Contains(t, Respond("What's my name?", st), "Your name is Alice")
}

func TestRespond_NameQueryBeatsRecap(t *testing.T) {
	st := newTestState(t)
	remember(st, Extract("I'm Alice"))
	exchange(st, "hello", nil)
	msg := "what's my name, give me a summary"
	say(st, msg, nil)

	reply := Evaluate(msg, st)
	require.Equal(t, RuleNameQuery, reply.Rule)
	require.Contains(t, reply.Text, "Alice")
}

func TestRespond_GreetingNeedsKnownName(t *testing.T) {
	st := newTestState(t)
	say(st, "hey there", nil)
	require.NotEqual(t, RuleGreeting, Evaluate("hey there", st).Rule)

	remember(st, Extract("call me Bob"))
	reply := Evaluate("hey there", st)
	require.Equal(t, RuleGreeting, reply.Rule)
	require.Contains(t, reply.Text, "Hello, Bob!")

	st.Append(session.SenderBot, reply.Text, nil)
	say(st, "hi again", nil)
	require.Contains(t, Respond("hi again", st), "Hello again, Bob!")
}

func TestRespond_GreetingMatchesWholeWords(t *testing.T) {
	st := newTestState(t)
	remember(st, Extract("call me Bob"))
	say(st, "they said this was fine", nil)
	require.NotEqual(t, RuleGreeting, Evaluate("they said this was fine", st).Rule)
}

func TestRespond_PriceUsesRunningContext(t *testing.T) {
	st := newTestState(t)
	say(st, "what is the price?", quote("ACME", 100))

	reply := Evaluate("what is the price?", st)
	require.Equal(t, RulePrice, reply.Rule)
	require.Contains(t, reply.Text, "The current price of ACME is $100.")
}

func TestRespond_CompareNeedsTwoStocks(t *testing.T) {
	st := newTestState(t)
	exchange(st, "look at this", quote("ACME", 100))
	say(st, "compare", nil)
	require.NotEqual(t, RuleCompare, Evaluate("compare", st).Rule)

	st.Append(session.SenderBot, "ok", nil)
	exchange(st, "and this one", quote("GLOBEX", 50))
	say(st, "compare them", nil)
	reply := Evaluate("compare them", st)
	require.Equal(t, RuleCompare, reply.Rule)
	require.Contains(t, reply.Text, "ACME, GLOBEX")
}

func TestRespond_Recall(t *testing.T) {
	t.Run("stocks", func(t *testing.T) {
		st := newTestState(t)
		exchange(st, "show me", quote("ACME", 1))
		say(st, "what did we discuss?", nil)
		reply := Evaluate("what did we discuss?", st)
		require.Equal(t, RuleRecall, reply.Rule)
		require.Contains(t, reply.Text, "you've asked about: ACME")
	})

	t.Run("recent user messages", func(t *testing.T) {
		st := newTestState(t)
		exchange(st, "tell me a joke", nil)
		say(st, "do you remember?", nil)
		reply := Evaluate("do you remember?", st)
		require.Equal(t, RuleRecall, reply.Rule)
		require.Contains(t, reply.Text, "tell me a joke, do you remember?")
		require.NotContains(t, reply.Text, "...")
	})

	t.Run("ellipsis beyond two", func(t *testing.T) {
		st := newTestState(t)
		say(st, "one", nil)
		say(st, "two", nil)
		say(st, "recall three", nil)
		reply := Evaluate("recall three", st)
		require.Contains(t, reply.Text, "one, two...")
	})

	t.Run("empty", func(t *testing.T) {
		st := newTestState(t)
		require.Contains(t, Respond("remember anything?", st), "just getting started")
	})
}

func TestRespond_Recap(t *testing.T) {
	st := newTestState(t)
	exchange(st, "first", nil)
	say(st, "give me a recap", nil)

	reply := Evaluate("give me a recap", st)
	require.Equal(t, RuleRecap, reply.Rule)
	require.Contains(t, reply.Text, "(3 messages): "+SummaryGeneral)
}

func TestRespond_StockSpecificRules(t *testing.T) {
	st := newTestState(t)
	say(st, "should I buy?", quote("ACME", 12.5))

	reply := Evaluate("should I buy?", st)
	require.Equal(t, RuleTrade, reply.Rule)
	require.Contains(t, reply.Text, "discussing ACME at $12.5")

	reply = Evaluate("what is the risk here", st)
	require.Equal(t, RuleRisk, reply.Rule)
	require.Contains(t, reply.Text, "When discussing ACME")
}

func TestRespond_StockRulesNeedCurrentStock(t *testing.T) {
	st := newTestState(t)
	say(st, "should I sell?", nil)
	require.Equal(t, RuleDefault, Evaluate("should I sell?", st).Rule)
}

func TestRespond_TasksAndFeatures(t *testing.T) {
	st := newTestState(t)
	say(st, "how do I add a todo", nil)
	require.Equal(t, RuleTasks, Evaluate("how do I add a todo", st).Rule)
	require.Equal(t, RuleAppFeatures, Evaluate("what features exist", st).Rule)
	require.Equal(t, RuleAppFeatures, Evaluate("what does this app do", st).Rule)
	require.NotEqual(t, RuleAppFeatures, Evaluate("apples are tasty", st).Rule)
}

func TestRespond_FollowUpConnectsPriorTopic(t *testing.T) {
	st := newTestState(t)
	exchange(st, "tell me about dividends", nil)
	say(st, "and bonds?", nil)

	reply := Evaluate("and bonds?", st)
	require.Equal(t, RuleFollowUp, reply.Rule)
	require.Contains(t, reply.Text, "'and bonds?'")
	require.Contains(t, reply.Text, "'tell me about dividends'")
	require.Contains(t, reply.Text, "connect to general conversation about tasks and app features")
}

func TestRespond_FollowUpSkipsRepeatedText(t *testing.T) {
	st := newTestState(t)
	exchange(st, "same thing", nil)
	say(st, "same thing", nil)
	require.Equal(t, RuleDefault, Evaluate("same thing", st).Rule)
}

func TestRespond_Default(t *testing.T) {
	st := newTestState(t)
	say(st, "quantum widgets", nil)
	reply := Evaluate("quantum widgets", st)
	require.Equal(t, RuleDefault, reply.Rule)
	require.Contains(t, reply.Text, "'quantum widgets'. New conversation.")

	// Repeating the same text keeps the follow-up rule from firing.
	st = newTestState(t)
	say(st, "and?", quote("A", 1))
	say(st, "and?", quote("B", 1))
	say(st, "and?", quote("C", 1))
	reply = Evaluate("and?", st)
	require.Equal(t, RuleDefault, reply.Rule)
	require.Contains(t, reply.Text, "Based on our conversation about A, B and others, I understand you're asking about 'and?'.")
}

func TestRespond_EmptyMessageNeverFails(t *testing.T) {
	st := newTestState(t)
	say(st, "", nil)
	reply := Evaluate("", st)
	require.NotEmpty(t, reply.Text)
	require.Equal(t, RuleDefault, reply.Rule)
}
