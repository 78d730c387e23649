package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmelnyk/persona-chat-go/api"
	"github.com/kmelnyk/persona-chat-go/chat"
	"github.com/kmelnyk/persona-chat-go/config"
)

// Messages fed back into the update loop by backend commands.
type (
	// chatRespMsg carries the completion response (or its failure).
	chatRespMsg struct {
		result *api.ChatResult
		err    error
	}

	// chatsListMsg carries the saved chat list.
	chatsListMsg struct {
		chats []api.ChatSummary
		err   error
	}

	// chatLoadedMsg carries one loaded chat.
	chatLoadedMsg struct {
		id     int
		record *api.ChatRecord
		err    error
	}

	// chatSavedMsg reports a create or update of the current chat.
	chatSavedMsg struct {
		id  int
		err error
	}

	// chatDeletedMsg reports a deleted saved chat.
	chatDeletedMsg struct {
		id  int
		err error
	}

	// profileMsg carries the user profile.
	profileMsg struct {
		profile api.Profile
		err     error
	}
)

// sendChat dispatches the completion request. The session already
// recorded the request as in flight; exactly one chatRespMsg comes back.
func sendChat(client *api.Client, history []chat.Message, settings config.Settings, personaID string, continuation *chat.Continuation) tea.Cmd {
	return func() tea.Msg {
		result, err := client.SendChat(context.Background(), history, settings, personaID, continuation)
		return chatRespMsg{result: result, err: err}
	}
}

func loadChats(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		chats, err := client.ListChats(context.Background())
		return chatsListMsg{chats: chats, err: err}
	}
}

func loadChat(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		record, err := client.GetChat(context.Background(), id)
		return chatLoadedMsg{id: id, record: record, err: err}
	}
}

func createChat(client *api.Client, title string, history []chat.Message, personaID string) tea.Cmd {
	return func() tea.Msg {
		summary, err := client.CreateChat(context.Background(), title, history, personaID)
		if err != nil {
			return chatSavedMsg{err: err}
		}
		return chatSavedMsg{id: summary.ID}
	}
}

func updateChat(client *api.Client, id int, history []chat.Message, personaID string) tea.Cmd {
	return func() tea.Msg {
		err := client.UpdateChat(context.Background(), id, history, personaID)
		return chatSavedMsg{id: id, err: err}
	}
}

func deleteChat(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteChat(context.Background(), id)
		return chatDeletedMsg{id: id, err: err}
	}
}

func loadProfile(store profileLoader) tea.Cmd {
	return func() tea.Msg {
		profile, err := store.Profile(context.Background())
		return profileMsg{profile: profile, err: err}
	}
}

// profileLoader is the slice of the persona store the profile command
// needs.
type profileLoader interface {
	Profile(ctx context.Context) (api.Profile, error)
}
