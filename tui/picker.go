package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmelnyk/persona-chat-go/api"
	"github.com/kmelnyk/persona-chat-go/chat"
)

// personaItem adapts a persona for the list component.
type personaItem struct {
	persona chat.Persona
}

func (i personaItem) Title() string {
	if i.persona.Title != "" {
		return fmt.Sprintf("%s — %s", i.persona.Name, i.persona.Title)
	}
	return i.persona.Name
}
func (i personaItem) Description() string { return i.persona.Greeting }
func (i personaItem) FilterValue() string { return i.persona.Name }

// newPersonaList builds the persona selection list.
func newPersonaList(personas []chat.Persona, width, height int) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("170")).
		BorderLeftForeground(lipgloss.Color("170"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("170")).
		BorderLeftForeground(lipgloss.Color("170"))

	items := make([]list.Item, len(personas))
	for i, p := range personas {
		items[i] = personaItem{persona: p}
	}

	l := list.New(items, delegate, width, height)
	l.Title = "Pick a persona"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		Padding(0, 1)
	return l
}

// chatPicker is a cursor list over the saved chats.
type chatPicker struct {
	chats    []api.ChatSummary
	selected int
	width    int
	height   int
}

func newChatPicker(chats []api.ChatSummary, width, height int) *chatPicker {
	return &chatPicker{
		chats:  chats,
		width:  width,
		height: height,
	}
}

func (p *chatPicker) moveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

func (p *chatPicker) moveDown() {
	if p.selected < len(p.chats)-1 {
		p.selected++
	}
}

func (p *chatPicker) current() (api.ChatSummary, bool) {
	if len(p.chats) == 0 {
		return api.ChatSummary{}, false
	}
	return p.chats[p.selected], true
}

func (p *chatPicker) remove(id int) {
	kept := p.chats[:0]
	for _, c := range p.chats {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	p.chats = kept
	if p.selected >= len(p.chats) && p.selected > 0 {
		p.selected = len(p.chats) - 1
	}
}

func (p *chatPicker) View() string {
	if len(p.chats) == 0 {
		return "\nNo saved chats.\n\nPress [Esc] to go back."
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("75")).
		MarginBottom(1)
	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("75")).
		Bold(true)
	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("246"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Select a chat to load:"))
	b.WriteString("\n\n")

	for i, c := range p.chats {
		cursor := "  "
		style := normalStyle
		if i == p.selected {
			cursor = "▸ "
			style = selectedStyle
		}

		persona := c.PersonaID
		if persona == "" {
			persona = chat.DefaultPersonaID
		}
		line := fmt.Sprintf("%s#%d %s (%s)", cursor, c.ID, truncateString(c.Title, 50), persona)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("\n[↑/↓/j/k] Navigate  [Enter] Load  [d] Delete  [Esc] Cancel"))
	return b.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
