package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmelnyk/persona-chat-go/api"
	"github.com/kmelnyk/persona-chat-go/chat"
	"github.com/kmelnyk/persona-chat-go/config"
	"github.com/kmelnyk/persona-chat-go/persona"
)

// mode is the current input mode of the app.
type mode int

const (
	modeChat mode = iota
	modeConfirm
	modeNewChatPrompt
	modePersonaPicker
	modeChatPicker
)

// Model is the top-level bubbletea model. Session mutations happen
// synchronously inside Update; only the HTTP round trips run as
// commands, and each one reports back with exactly one message.
type Model struct {
	client   *api.Client
	cfg      *config.Manager
	personas *persona.Store
	session  *chat.Session

	renderer *glamour.TermRenderer
	textarea textarea.Model
	chatView viewport.Model
	spinner  spinner.Model

	mode        mode
	personaList list.Model
	picker      *chatPicker

	// saveThenNew defers the reset until the save round trip lands.
	saveThenNew  bool
	pendingImage string
	notice       string
	errText      string

	width       int
	height      int
	initialized bool
}

// New builds the TUI around an already-seeded session.
func New(client *api.Client, cfg *config.Manager, personas *persona.Store, session *chat.Session) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message, or /help for commands..."
	ta.Focus()
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := &Model{
		client:   client,
		cfg:      cfg,
		personas: personas,
		session:  session,
		renderer: newRenderer(),
		textarea: ta,
		chatView: viewport.New(80, 20),
		spinner:  sp,
	}
	m.refreshChatView()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.initialized = true
		m.refreshChatView()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case chatRespMsg:
		return m.applyChatResponse(msg)

	case chatsListMsg:
		if msg.err != nil {
			m.errText = fmt.Sprintf("Could not load chats: %v", msg.err)
			return m, nil
		}
		m.picker = newChatPicker(msg.chats, m.width, m.height)
		m.mode = modeChatPicker
		return m, nil

	case chatLoadedMsg:
		if msg.err != nil {
			m.errText = fmt.Sprintf("Could not load chat #%d: %v", msg.id, msg.err)
			m.mode = modeChat
			return m, nil
		}
		p, _ := m.personas.Get(msg.record.PersonaID)
		m.session.LoadSaved(msg.id, msg.record.Messages, p)
		m.mode = modeChat
		m.notice = fmt.Sprintf("Loaded chat #%d.", msg.id)
		m.refreshChatView()
		return m, nil

	case chatSavedMsg:
		if msg.err != nil {
			m.errText = fmt.Sprintf("Save failed: %v", msg.err)
			m.saveThenNew = false
			return m, nil
		}
		m.session.MarkSaved(msg.id)
		m.notice = fmt.Sprintf("Saved as chat #%d.", msg.id)
		if m.saveThenNew {
			m.saveThenNew = false
			m.startNewChat()
		}
		m.refreshChatView()
		return m, nil

	case chatDeletedMsg:
		if msg.err != nil {
			m.errText = fmt.Sprintf("Delete failed: %v", msg.err)
			return m, nil
		}
		if m.picker != nil {
			m.picker.remove(msg.id)
		}
		if id, ok := m.session.SavedChatID(); ok && id == msg.id {
			m.startNewChat()
		}
		return m, nil

	case profileMsg:
		if msg.err != nil {
			m.errText = fmt.Sprintf("Could not load profile: %v", msg.err)
			return m, nil
		}
		m.notice = formatProfile(msg.profile)
		m.refreshChatView()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateChildren(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeConfirm:
		return m.handleConfirmKey(msg)
	case modeNewChatPrompt:
		return m.handleNewChatPromptKey(msg)
	case modePersonaPicker:
		return m.handlePersonaPickerKey(msg)
	case modeChatPicker:
		return m.handleChatPickerKey(msg)
	}

	switch msg.String() {
	case "enter":
		return m.handleEnter()

	case "ctrl+s":
		if m.session.Editing() {
			m.session.SetEditDraft(m.textarea.Value())
			if err := m.session.CommitEdit(); err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.textarea.SetValue("")
			m.textarea.Placeholder = "Type a message, or /help for commands..."
			m.notice = "Message updated."
			m.refreshChatView()
		}
		return m, nil

	case "esc":
		if m.session.Editing() {
			m.session.CancelEdit()
			m.textarea.SetValue("")
			m.textarea.Placeholder = "Type a message, or /help for commands..."
			m.refreshChatView()
		}
		return m, nil
	}

	return m.updateChildren(msg)
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())

	if m.session.Editing() {
		if input == "" {
			return m, nil
		}
		m.session.SetEditDraft(input)
		history, err := m.session.PrepareEditResend()
		if err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.textarea.SetValue("")
		m.textarea.Placeholder = "Type a message, or /help for commands..."
		m.clearStatus()
		m.refreshChatView()
		return m, sendChat(m.client, history, m.cfg.Settings(), m.session.Persona().ID, nil)
	}

	if input == "" {
		return m, nil
	}
	if strings.HasPrefix(input, "/") {
		m.textarea.SetValue("")
		return m.handleCommand(input)
	}

	history, err := m.session.PrepareSend(input, m.pendingImage)
	if err != nil {
		m.errText = err.Error()
		return m, nil
	}
	m.pendingImage = ""
	m.textarea.SetValue("")
	m.clearStatus()
	m.refreshChatView()
	return m, sendChat(m.client, history, m.cfg.Settings(), m.session.Persona().ID, nil)
}

func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]
	m.clearStatus()

	switch cmd {
	case "/quit", "/exit":
		return m, tea.Quit

	case "/help":
		m.notice = chatHelpText
		m.refreshChatView()
		return m, nil

	case "/new":
		if m.session.InFlight() {
			m.errText = chat.ErrRequestInFlight.Error()
			return m, nil
		}
		if m.session.Dirty() {
			m.mode = modeNewChatPrompt
			return m, nil
		}
		m.startNewChat()
		return m, nil

	case "/save":
		return m.saveCurrentChat()

	case "/chats":
		if m.session.InFlight() {
			m.errText = chat.ErrRequestInFlight.Error()
			return m, nil
		}
		return m, loadChats(m.client)

	case "/personas":
		if m.session.Locked() {
			m.errText = "The persona can only change before the first message. Use /new first."
			return m, nil
		}
		personas := m.personas.All()
		if len(personas) == 0 {
			m.errText = "No personas available."
			return m, nil
		}
		m.personaList = newPersonaList(personas, m.width, m.height-4)
		m.mode = modePersonaPicker
		return m, nil

	case "/edit":
		id, err := m.resolveDisplayRef(args)
		if err != nil {
			m.errText = err.Error()
			return m, nil
		}
		draft, err := m.session.StartEdit(id)
		if err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.textarea.SetValue(draft)
		m.textarea.Placeholder = "Edit the message..."
		m.textarea.CursorEnd()
		m.refreshChatView()
		return m, nil

	case "/delete":
		id, err := m.resolveDisplayRef(args)
		if err != nil {
			m.errText = err.Error()
			return m, nil
		}
		removed, err := m.session.DeleteMessage(id)
		if err != nil {
			m.errText = err.Error()
			return m, nil
		}
		if removed == 2 {
			m.notice = "Deleted the message and its reply."
		} else {
			m.notice = "Deleted the message."
		}
		m.refreshChatView()
		return m, nil

	case "/regenerate":
		history, err := m.session.PrepareRegenerate()
		if err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.refreshChatView()
		return m, sendChat(m.client, history, m.cfg.Settings(), m.session.Persona().ID, nil)

	case "/attach":
		if len(args) != 1 {
			m.errText = "Usage: /attach <image-url>"
			return m, nil
		}
		m.pendingImage = args[0]
		m.notice = "Image attached to the next message."
		m.refreshChatView()
		return m, nil

	case "/search":
		s := m.cfg.Settings()
		s.WebSearchEnabled = !s.WebSearchEnabled
		return m.applySettings(s, fmt.Sprintf("Web search %s.", onOff(s.WebSearchEnabled)))

	case "/provider":
		s := m.cfg.Settings()
		if s.Provider == "brave" {
			s.Provider = "ddgs"
		} else {
			s.Provider = "brave"
		}
		return m.applySettings(s, fmt.Sprintf("Search provider set to %s.", s.Provider))

	case "/animate":
		s := m.cfg.Settings()
		s.IsAnimated = !s.IsAnimated
		return m.applySettings(s, fmt.Sprintf("Avatar animation %s.", onOff(s.IsAnimated)))

	case "/profile":
		return m, loadProfile(m.personas)

	default:
		m.errText = fmt.Sprintf("Unknown command %s. Try /help.", cmd)
		return m, nil
	}
}

func (m Model) applySettings(s config.Settings, notice string) (tea.Model, tea.Cmd) {
	if err := m.cfg.Update(s); err != nil {
		m.errText = fmt.Sprintf("Could not save settings: %v", err)
		return m, nil
	}
	m.notice = notice
	m.refreshChatView()
	return m, nil
}

// resolveDisplayRef turns a "/edit 3" style argument into the message ID
// of the third visible message.
func (m *Model) resolveDisplayRef(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected a message number, e.g. /edit 2")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("%q is not a message number", args[0])
	}
	display := m.session.Display()
	if n < 1 || n > len(display) {
		return "", fmt.Errorf("message number %d is out of range (1-%d)", n, len(display))
	}
	return display[n-1].ID, nil
}

func (m Model) saveCurrentChat() (tea.Model, tea.Cmd) {
	if m.session.InFlight() {
		m.errText = chat.ErrRequestInFlight.Error()
		return m, nil
	}
	if !m.session.Dirty() {
		if _, ok := m.session.SavedChatID(); ok {
			m.notice = "Nothing new to save."
			return m, nil
		}
	}
	history := m.session.History()
	personaID := m.session.Persona().ID
	if id, ok := m.session.SavedChatID(); ok {
		return m, updateChat(m.client, id, history, personaID)
	}
	return m, createChat(m.client, m.session.Title(), history, personaID)
}

func (m *Model) startNewChat() {
	p, _ := m.personas.Get(m.session.Persona().ID)
	m.session.Reset(p)
	m.mode = modeChat
	m.pendingImage = ""
	m.clearStatus()
	m.notice = "Started a new chat."
	m.refreshChatView()
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var approved bool
	switch msg.String() {
	case "y", "Y":
		approved = true
	case "n", "N", "esc":
		approved = false
	default:
		return m, nil
	}

	history, cont, err := m.session.PrepareResolve(approved)
	if err != nil {
		m.errText = err.Error()
		m.mode = modeChat
		return m, nil
	}
	m.mode = modeChat
	m.refreshChatView()
	return m, sendChat(m.client, history, m.cfg.Settings(), m.session.Persona().ID, &cont)
}

func (m Model) handleNewChatPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.saveThenNew = true
		m.mode = modeChat
		return m.saveCurrentChat()
	case "n", "N":
		m.startNewChat()
		return m, nil
	case "esc":
		m.mode = modeChat
		return m, nil
	}
	return m, nil
}

func (m Model) handlePersonaPickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if item, ok := m.personaList.SelectedItem().(personaItem); ok {
			if err := m.session.SwitchPersona(item.persona); err != nil {
				m.errText = err.Error()
			} else {
				m.notice = fmt.Sprintf("Now chatting with %s.", item.persona.Name)
			}
		}
		m.mode = modeChat
		m.refreshChatView()
		return m, nil
	case "esc":
		m.mode = modeChat
		return m, nil
	}

	var cmd tea.Cmd
	m.personaList, cmd = m.personaList.Update(msg)
	return m, cmd
}

func (m Model) handleChatPickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.picker.moveUp()
		return m, nil
	case "down", "j":
		m.picker.moveDown()
		return m, nil
	case "enter":
		if c, ok := m.picker.current(); ok {
			return m, loadChat(m.client, c.ID)
		}
		return m, nil
	case "d":
		if c, ok := m.picker.current(); ok {
			return m, deleteChat(m.client, c.ID)
		}
		return m, nil
	case "esc":
		m.mode = modeChat
		return m, nil
	}
	return m, nil
}

func (m Model) applyChatResponse(msg chatRespMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.session.FailRequest()
		m.errText = fmt.Sprintf("Request failed: %v", msg.err)
		m.refreshChatView()
		return m, nil
	}

	if err := m.session.ApplyResponse(msg.result.History, msg.result.Confirmation); err != nil {
		m.errText = err.Error()
		m.refreshChatView()
		return m, nil
	}
	if _, pending := m.session.PendingConfirmation(); pending {
		m.mode = modeConfirm
	}
	m.refreshChatView()
	return m, nil
}

func (m Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.mode == modeChat && !m.session.InFlight() {
		ta, cmd := m.textarea.Update(msg)
		m.textarea = ta
		cmds = append(cmds, cmd)
	}

	vp, cmd := m.chatView.Update(msg)
	m.chatView = vp
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	headerHeight := 2
	inputHeight := 5
	m.chatView.Width = m.width - 2
	m.chatView.Height = m.height - headerHeight - inputHeight
	m.textarea.SetWidth(m.width - 4)
	if m.picker != nil {
		m.picker.width = m.width
		m.picker.height = m.height
	}
}

func (m *Model) clearStatus() {
	m.notice = ""
	m.errText = ""
}

func (m *Model) refreshChatView() {
	var b strings.Builder
	b.WriteString(renderConversation(m.renderer, m.session.Display(), m.session.Persona().Name))

	if m.pendingImage != "" {
		b.WriteString("\n" + attachmentStyle.Render(fmt.Sprintf("[will attach: %s]", m.pendingImage)) + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}
	if m.errText != "" {
		b.WriteString("\n" + noticeStyle.Render(m.errText) + "\n")
	}

	m.chatView.SetContent(b.String())
	m.chatView.GotoBottom()
}

func (m Model) View() string {
	if !m.initialized {
		return "Loading..."
	}

	switch m.mode {
	case modePersonaPicker:
		return m.personaList.View()
	case modeChatPicker:
		return m.picker.View()
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.chatView.View())

	switch m.mode {
	case modeConfirm:
		if c, ok := m.session.PendingConfirmation(); ok {
			sections = append(sections, noticeStyle.Render(confirmationPrompt(c)))
		}
	case modeNewChatPrompt:
		sections = append(sections, noticeStyle.Render("The current chat has unsaved changes. Save it first? (y/n, Esc cancels)"))
	default:
		sections = append(sections, m.renderInputArea())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	p := m.session.Persona()
	title := p.Name
	if p.Title != "" {
		title += " (" + p.Title + ")"
	}

	var flags []string
	if m.session.Locked() {
		flags = append(flags, "locked")
	}
	if m.session.Dirty() {
		flags = append(flags, "unsaved")
	}
	if id, ok := m.session.SavedChatID(); ok {
		flags = append(flags, fmt.Sprintf("chat #%d", id))
	}
	s := m.cfg.Settings()
	if s.WebSearchEnabled {
		flags = append(flags, "search:"+s.Provider)
	}

	left := userStyle.Render(title)
	right := helpStyle.Render(strings.Join(flags, " | "))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

func (m Model) renderInputArea() string {
	if m.session.InFlight() {
		return m.spinner.View() + " Waiting for " + m.session.Persona().Name + "..."
	}

	label := "Message:"
	if m.session.Editing() {
		label = "Editing (Enter resends, Ctrl+S saves in place, Esc cancels):"
	}
	return lipgloss.JoinVertical(lipgloss.Left, helpStyle.Render(label), m.textarea.View())
}

func formatProfile(p api.Profile) string {
	var b strings.Builder
	b.WriteString("Profile\n")
	name := p.Name
	if name == "" {
		name = "(not set)"
	}
	b.WriteString("  Name: " + name + "\n")
	if len(p.KeyFacts) > 0 {
		b.WriteString("  Key facts:\n")
		for _, f := range p.KeyFacts {
			b.WriteString("    - " + f + "\n")
		}
	}
	if len(p.MainGoals) > 0 {
		b.WriteString("  Main goals:\n")
		for _, g := range p.MainGoals {
			b.WriteString("    - " + g + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
