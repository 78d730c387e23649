package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmelnyk/persona-chat-go/chat"
)

const assistantWrapWidth = 80

var (
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	indexStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	attachmentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("222"))
	traceTagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true)
	traceStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func newRenderer() *glamour.TermRenderer {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(assistantWrapWidth),
	)
	return renderer
}

// renderConversation renders the display view of the history. Each
// visible message is numbered so /edit and /delete can reference it;
// the numbers map to message IDs, never to raw history indices.
func renderConversation(renderer *glamour.TermRenderer, display []chat.Message, personaName string) string {
	var b strings.Builder
	for i, msg := range display {
		idx := indexStyle.Render(fmt.Sprintf("[%d]", i+1))
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString(fmt.Sprintf("\n%s %s %s\n", idx, userStyle.Render("You:"), msg.Content.PlainText()))
			if msg.Content.HasAttachment() {
				b.WriteString(attachmentStyle.Render("    [image attached]") + "\n")
			}
		case chat.RoleAssistant:
			b.WriteString(fmt.Sprintf("\n%s %s\n%s\n", idx, userStyle.Render(personaName+":"),
				renderAssistantText(renderer, msg.Content.PlainText())))
		}
	}
	return b.String()
}

// renderAssistantText renders assistant markdown, splitting off a
// thinking trace when one is present.
func renderAssistantText(renderer *glamour.TermRenderer, content string) string {
	reasoning, answer := chat.SplitThinking(content)

	var sections []string
	if reasoning != "" {
		traceBlock := fmt.Sprintf("%s\n%s\n%s",
			traceTagStyle.Render("<thinking>"),
			traceStyle.Render(wrapTrace(reasoning)),
			traceTagStyle.Render("</thinking>"),
		)
		sections = append(sections, traceBlock)
	}

	if renderer != nil {
		if rendered, err := renderer.Render(answer); err == nil {
			sections = append(sections, strings.TrimRight(rendered, "\n"))
			return strings.Join(sections, "\n")
		}
	}
	sections = append(sections, answer)
	return strings.Join(sections, "\n")
}

// wrapTrace wraps reasoning text to the assistant wrap width.
func wrapTrace(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, assistantWrapWidth))
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return line
	}

	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if lineLen > 0 && lineLen+1+len(w) > width {
			b.WriteString("\n")
			lineLen = 0
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}

// confirmationPrompt renders the approval question for a pending
// confirmation.
func confirmationPrompt(c chat.Confirmation) string {
	switch c.Kind {
	case chat.ConfirmSearch:
		return fmt.Sprintf("The assistant wants to search the web for: %q\nAllow? (y/n)", c.Query)
	default:
		return fmt.Sprintf("The assistant wants to remember: %q\nSave this memory? (y/n)", c.Summary)
	}
}

const chatHelpText = `Commands:
/new              - Start a new chat (prompts when unsaved)
/save             - Save or update the current chat
/chats            - Browse saved chats (Enter loads, d deletes)
/personas         - Switch persona (before the first message only)
/edit <n>         - Edit the numbered message
/delete <n>       - Delete the numbered message (removes its reply too)
/regenerate       - Regenerate the last answer
/attach <url>     - Attach an image to the next message
/search           - Toggle web search
/provider         - Toggle search provider (brave/ddgs)
/animate          - Toggle avatar animation
/profile          - Show the stored user profile
/help             - Show this help
/quit             - Exit

While editing: Enter resends from the edited message, Ctrl+S saves the
edit in place, Esc cancels.`
