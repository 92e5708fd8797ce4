package assistant

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jrichmond93/ChatbotPOC/internal/session"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// namePatterns are tried in order against the lower-cased message. Names
// may contain any letter, not just ASCII.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`my name is ([\p{L}\p{N}_]+)`),
	regexp.MustCompile(`\bi'?m ([\p{L}\p{N}_]+)`),
	regexp.MustCompile(`\bi am ([\p{L}\p{N}_]+)`),
	regexp.MustCompile(`call me ([\p{L}\p{N}_]+)`),
	regexp.MustCompile(`\bi'm called ([\p{L}\p{N}_]+)`),
}

// Extract pulls personal attributes out of a message. It currently knows how
// to find the user's name. The result is empty, never nil, when nothing
// matches.
func Extract(text string) map[string]any {
	attrs := make(map[string]any)
	lower := strings.ToLower(text)

	for _, re := range namePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		// "i'm called bob" also satisfies the "i'm" pattern.
		if m[1] == "called" {
			continue
		}
		attrs[session.AttributeName] = capitalize(m[1])
		break
	}
	return attrs
}

// capitalize title-cases the first rune and leaves the rest untouched, so
// "2pac" stays "2pac".
func capitalize(word string) string {
	_, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return word
	}
	return cases.Title(language.Und, cases.NoLower).String(word[:size]) + word[size:]
}

// remember applies extracted attributes to a state. The name is mirrored
// into the running context.
func remember(st *session.State, attrs map[string]any) {
	if len(attrs) == 0 {
		return
	}
	st.SetAttributes(attrs)
	if name, ok := attrs[session.AttributeName]; ok {
		st.MergeContext(map[string]any{session.ContextUserName: name})
	}
}
