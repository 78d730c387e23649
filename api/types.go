package api

import (
	"github.com/kmelnyk/persona-chat-go/chat"
	"github.com/kmelnyk/persona-chat-go/config"
)

// Message is the wire form of one history entry. The backend identifies
// messages positionally, so local message IDs stay client-side.
type Message struct {
	Role    string       `json:"role"`
	Content chat.Content `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	History      []Message          `json:"history"`
	Settings     config.Settings    `json:"settings"`
	PersonaID    string             `json:"persona_id"`
	Continuation *chat.Continuation `json:"continuation,omitempty"`
}

// chatResponse is the raw body of POST /api/chat.
type chatResponse struct {
	History      []Message         `json:"history"`
	Confirmation *wireConfirmation `json:"confirmation,omitempty"`
}

type wireConfirmation struct {
	Type    string `json:"type"`
	Query   string `json:"query,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// ChatResult is a completion response translated into session types. The
// returned history carries fresh message IDs: the backend's sequence is
// authoritative and fully replaces local state.
type ChatResult struct {
	History      []chat.Message
	Confirmation *chat.Confirmation
}

// ChatSummary is one entry of GET /api/chats.
type ChatSummary struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	PersonaID string `json:"persona_id"`
}

// ChatRecord is the body of GET /api/chats/{id}.
type ChatRecord struct {
	Messages  []chat.Message
	PersonaID string
}

// Profile is the user profile record owned by the backend.
type Profile struct {
	Name      string   `json:"name"`
	KeyFacts  []string `json:"key_facts"`
	MainGoals []string `json:"main_goals"`
}

// toWire strips local IDs from session messages.
func toWire(history []chat.Message) []Message {
	out := make([]Message, len(history))
	for i, m := range history {
		out[i] = Message{Role: string(m.Role), Content: m.Content}
	}
	return out
}

// fromWire assigns fresh IDs to backend messages.
func fromWire(messages []Message) []chat.Message {
	out := make([]chat.Message, len(messages))
	for i, m := range messages {
		out[i] = chat.NewMessage(chat.Role(m.Role), m.Content)
	}
	return out
}

func (c *wireConfirmation) toSession() *chat.Confirmation {
	if c == nil {
		return nil
	}
	switch c.Type {
	case "search":
		return &chat.Confirmation{Kind: chat.ConfirmSearch, Query: c.Query}
	case "memory":
		return &chat.Confirmation{Kind: chat.ConfirmMemory, Summary: c.Summary}
	default:
		return nil
	}
}
