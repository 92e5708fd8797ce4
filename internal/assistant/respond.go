package assistant

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jrichmond93/ChatbotPOC/internal/session"
)

// Rule names, in cascade order.
const (
	RuleNameQuery   = "name_query"
	RuleGreeting    = "greeting"
	RulePrice       = "price"
	RuleCompare     = "compare"
	RuleRecall      = "recall"
	RuleRecap       = "recap"
	RuleTrade       = "trade"
	RuleRisk        = "risk"
	RuleTasks       = "tasks"
	RuleAppFeatures = "app_features"
	RuleFollowUp    = "follow_up"
	RuleDefault     = "default"
)

const recallWindow = 3

var (
	nameQueryPhrases = []string{"my name", "what is my name", "what's my name", "remember my name"}
	greetingWords    = []string{"hello", "hi", "hey"}
	recallPhrases    = []string{"remember", "recall", "mentioned", "talked about", "discuss"}
	taskPhrases      = []string{"task", "todo", "manage"}
)

// Reply is the outcome of one pass through the rule cascade.
type Reply struct {
	Text string
	Rule string
}

// turn is the precomputed view of a message against a session that every
// rule reads from.
type turn struct {
	text      string
	lower     string
	words     map[string]struct{}
	st        *session.State
	name      string
	stock     string
	mentioned []string
}

func newTurn(text string, st *session.State) *turn {
	lower := strings.ToLower(text)
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = struct{}{}
	}
	return &turn{
		text:      text,
		lower:     lower,
		words:     words,
		st:        st,
		name:      st.UserName(),
		stock:     st.CurrentStock(),
		mentioned: MentionedStocks(st),
	}
}

func (t *turn) contains(phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(t.lower, p) {
			return true
		}
	}
	return false
}

func (t *turn) hasWord(words ...string) bool {
	for _, w := range words {
		if _, ok := t.words[w]; ok {
			return true
		}
	}
	return false
}

// prior returns the messages before the current user message. The current
// message is the last one in the transcript.
func (t *turn) prior() []session.Message {
	msgs := t.st.Messages
	if n := len(msgs); n > 0 && msgs[n-1].Sender == session.SenderUser && msgs[n-1].Text == t.text {
		return msgs[:n-1]
	}
	return msgs
}

type rule struct {
	name  string
	apply func(t *turn) (string, bool)
}

// cascade is evaluated top to bottom; the first rule that applies wins.
var cascade = []rule{
	{RuleNameQuery, nameQuery},
	{RuleGreeting, greeting},
	{RulePrice, price},
	{RuleCompare, compare},
	{RuleRecall, recall},
	{RuleRecap, recap},
	{RuleTrade, trade},
	{RuleRisk, risk},
	{RuleTasks, tasks},
	{RuleAppFeatures, appFeatures},
	{RuleFollowUp, followUp},
}

// Respond selects a reply for text given the session state. The state is
// expected to already hold text as its most recent user message.
func Respond(text string, st *session.State) string {
	return Evaluate(text, st).Text
}

// Evaluate is Respond that also reports which rule fired.
func Evaluate(text string, st *session.State) Reply {
	t := newTurn(text, st)
	for _, r := range cascade {
		if out, ok := r.apply(t); ok {
			return Reply{Text: out, Rule: r.name}
		}
	}
	return Reply{Text: fallback(t), Rule: RuleDefault}
}

func nameQuery(t *turn) (string, bool) {
	if !t.contains(nameQueryPhrases...) {
		return "", false
	}
	if t.name != "" {
		return fmt.Sprintf("Yes, I remember! Your name is %s. It's nice to continue our conversation together.", t.name), true
	}
	return "I don't believe you've told me your name yet. Feel free to let me know what you'd like me to call you!", true
}

func greeting(t *turn) (string, bool) {
	if t.name == "" || !t.hasWord(greetingWords...) {
		return "", false
	}
	hello := "Hello again"
	if countUser(t.prior()) == 0 {
		hello = "Hello"
	}
	return fmt.Sprintf("%s, %s! How can I help you today? We can continue discussing stocks, tasks, or explore new topics.", hello, t.name), true
}

func price(t *turn) (string, bool) {
	if t.stock == "" || !t.contains("price") {
		return "", false
	}
	return fmt.Sprintf("The current price of %s is $%s. We've been discussing this stock in our conversation. Would you like me to explain any price movements or compare it with other stocks we've talked about?",
		t.stock, t.storedPrice()), true
}

func compare(t *turn) (string, bool) {
	if len(t.mentioned) <= 1 || !t.contains("compare") {
		return "", false
	}
	return fmt.Sprintf("In our conversation, we've discussed %s. I can help you compare their performance, market cap, P/E ratios, or recent price movements. Which aspect would you like to focus on?",
		strings.Join(t.mentioned, ", ")), true
}

func recall(t *turn) (string, bool) {
	if !t.contains(recallPhrases...) {
		return "", false
	}
	if len(t.mentioned) > 0 {
		return fmt.Sprintf("In our conversation, you've asked about: %s. We've covered topics like current prices, market trends, and company information. What specific aspect would you like me to elaborate on?",
			strings.Join(t.mentioned, ", ")), true
	}

	var topics []string
	for _, m := range t.st.Recent(summaryWindow) {
		if m.Sender == session.SenderUser {
			topics = append(topics, m.Text)
		}
	}
	if len(topics) > recallWindow {
		topics = topics[len(topics)-recallWindow:]
	}
	if len(topics) == 0 {
		return "We're just getting started with our conversation! Feel free to ask me about tasks, stocks, or any features of this app.", true
	}

	shown := topics
	more := ""
	if len(shown) > 2 {
		shown, more = shown[:2], "..."
	}
	return fmt.Sprintf("We've been discussing various topics including: %s%s. What would you like to know more about?",
		strings.Join(shown, ", "), more), true
}

func recap(t *turn) (string, bool) {
	if !t.contains("summary", "recap") {
		return "", false
	}
	return fmt.Sprintf("Here's a recap of our conversation (%d messages): %s. We can continue exploring any of these topics or move on to something new. What interests you most?",
		len(t.st.Messages), Summary(t.st)), true
}

func trade(t *turn) (string, bool) {
	if t.stock == "" || !t.contains("buy", "sell") {
		return "", false
	}
	return fmt.Sprintf("I can't provide investment advice, but I can share that we've been discussing %s at $%s. Consider factors like your risk tolerance, investment timeline, and portfolio diversification. Would you like me to explain what to research before making investment decisions?",
		t.stock, t.storedPrice()), true
}

func risk(t *turn) (string, bool) {
	if t.stock == "" || !t.contains("risk") {
		return "", false
	}
	return fmt.Sprintf("When discussing %s, it's important to consider various risks: market volatility, company-specific risks, and sector-wide challenges. Based on our conversation, would you like me to explain any specific risk factors or how to assess them?",
		t.stock), true
}

func tasks(t *turn) (string, bool) {
	if !t.contains(taskPhrases...) {
		return "", false
	}
	return "I can help you with task management! This app lets you create, complete, and delete tasks. Based on our conversation, you seem interested in both productivity features and market data. Would you like tips on organizing tasks or managing investment research?", true
}

func appFeatures(t *turn) (string, bool) {
	if !t.contains("feature") && !t.hasWord("app", "apps") {
		return "", false
	}
	return "This app has several features we can explore: task management, real-time stock data, and this AI chat system. Given our conversation history, you might be interested in how the stock data updates or how to use tasks to track your investment research. What would you like to learn about?", true
}

func followUp(t *turn) (string, bool) {
	prior := t.prior()
	if len(prior) <= 1 {
		return "", false
	}
	previous := ""
	for i := len(prior) - 1; i >= 0; i-- {
		if prior[i].Sender == session.SenderUser && prior[i].Text != t.text {
			previous = prior[i].Text
			break
		}
	}
	if previous == "" {
		return "", false
	}
	return fmt.Sprintf("Following up on your question about '%s' - and considering we just discussed '%s' - I can provide more specific guidance. These topics are related in how they both connect to %s. Would you like me to explore the connections?",
		t.text, previous, strings.ToLower(Summary(t.st))), true
}

func fallback(t *turn) string {
	if len(t.mentioned) > 0 {
		shown := t.mentioned
		others := ""
		if len(shown) > 2 {
			shown, others = shown[:2], " and others"
		}
		return fmt.Sprintf("Based on our conversation about %s%s, I understand you're asking about '%s'. How can I help you dive deeper into this topic?",
			strings.Join(shown, ", "), others, t.text)
	}
	return fmt.Sprintf("That's an interesting question about '%s'. %s. I'm here to help with tasks, stock information, app features, or general questions. What specific aspect would you like me to focus on?",
		t.text, Summary(t.st))
}

func (t *turn) storedPrice() string {
	return formatValue(t.st.Context[session.ContextStockPrice])
}

func countUser(msgs []session.Message) int {
	n := 0
	for _, m := range msgs {
		if m.Sender == session.SenderUser {
			n++
		}
	}
	return n
}

// formatValue renders a running-context value for display.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "N/A"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case string:
		if x == "" {
			return "N/A"
		}
		return x
	default:
		return fmt.Sprint(x)
	}
}
