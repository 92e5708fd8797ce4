package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"})
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func renderReply(resp *types.ChatResponse) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("bot> "))
	b.WriteString(botStyle.Render(resp.Response))
	b.WriteString("\n")

	meta := fmt.Sprintf("session %s · %d messages · %s", resp.SessionID, resp.MessageCount, resp.ConversationSummary)
	if len(resp.MentionedStocks) > 0 {
		meta += " · stocks: " + strings.Join(resp.MentionedStocks, ", ")
	}
	b.WriteString(mutedStyle.Render(meta))
	return b.String()
}

func renderSuggestions(items []string) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, infoStyle.Render("Try asking:"))
	for _, s := range items {
		lines = append(lines, "  • "+s)
	}
	return strings.Join(lines, "\n")
}
