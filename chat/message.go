package chat

import (
	"github.com/google/uuid"
)

// Role represents the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in the conversation history. Every message gets a
// stable ID at creation so edit, delete and regenerate can target a
// durable identity instead of a slice position.
type Message struct {
	ID      string
	Role    Role
	Content Content
}

// NewMessage creates a message with a fresh ID.
func NewMessage(role Role, content Content) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
	}
}

// Persona describes one selectable conversation partner. Personas are
// owned by the backend; the client caches them.
type Persona struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Avatar      string `json:"avatar"`
	Personality string `json:"personality"`
	Greeting    string `json:"greeting"`
}

// DefaultPersonaID is used when a saved chat carries no persona.
const DefaultPersonaID = "assistant"
