package chat

import (
	"strings"
)

// toolCallMarker flags assistant text that encodes an internal tool-call
// request rather than a displayable reply.
const toolCallMarker = `"tool_name"`

// HistoryStore owns the ordered message sequence for the active session.
// It is the single writer: every other component reads the history and
// requests mutations through these operations, never by splicing slices
// directly.
type HistoryStore struct {
	messages []Message
}

// NewHistoryStore creates an empty store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Len returns the number of messages.
func (s *HistoryStore) Len() int {
	return len(s.messages)
}

// Messages returns a copy of the full history.
func (s *HistoryStore) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// At returns the message at index i.
func (s *HistoryStore) At(i int) (Message, error) {
	if i < 0 || i >= len(s.messages) {
		return Message{}, &IndexError{Index: i, Length: len(s.messages)}
	}
	return s.messages[i], nil
}

// IndexOf resolves a message ID to its index in the backing history.
// Indices used for edit or delete must come from here, never from the
// filtered display view.
func (s *HistoryStore) IndexOf(id string) (int, bool) {
	for i, m := range s.messages {
		if m.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Append pushes a message to the end of the history.
func (s *HistoryStore) Append(m Message) {
	s.messages = append(s.messages, m)
}

// ReplaceAll swaps the entire history for the given sequence. The backend
// is the authority for post-send state, so every completion response
// replaces the history wholesale rather than being merged as a delta.
func (s *HistoryStore) ReplaceAll(messages []Message) {
	s.messages = make([]Message, len(messages))
	copy(s.messages, messages)
}

// ReplaceAt substitutes the content of the message at index i in place,
// keeping its identity. Used for committing an edit without a resend.
func (s *HistoryStore) ReplaceAt(i int, content Content) error {
	if i < 0 || i >= len(s.messages) {
		return &IndexError{Index: i, Length: len(s.messages)}
	}
	s.messages[i].Content = content
	return nil
}

// TruncateAndReplace keeps [0, i), then appends a single message carrying
// the new content in place of the one previously at i. Everything after
// is discarded, so a regenerate request never carries orphaned downstream
// turns.
func (s *HistoryStore) TruncateAndReplace(i int, content Content) error {
	if i < 0 || i >= len(s.messages) {
		return &IndexError{Index: i, Length: len(s.messages)}
	}
	role := s.messages[i].Role
	s.messages = s.messages[:i]
	s.messages = append(s.messages, NewMessage(role, content))
	return nil
}

// DeleteAt removes the message at index i and returns how many messages
// were removed. A user message followed directly by an assistant reply is
// one conversational unit: both are removed as a pair.
func (s *HistoryStore) DeleteAt(i int) (int, error) {
	if i < 0 || i >= len(s.messages) {
		return 0, &IndexError{Index: i, Length: len(s.messages)}
	}

	removed := 1
	if s.messages[i].Role == RoleUser && i+1 < len(s.messages) && s.messages[i+1].Role == RoleAssistant {
		removed = 2
	}

	s.messages = append(s.messages[:i], s.messages[i+removed:]...)
	return removed, nil
}

// LastUserIndex returns the highest index holding a user message.
func (s *HistoryStore) LastUserIndex() (int, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == RoleUser {
			return i, true
		}
	}
	return 0, false
}

// Display returns the read-only view shown to the user: system and tool
// messages are hidden, as are assistant messages that encode an internal
// tool-call request.
func (s *HistoryStore) Display() []Message {
	var out []Message
	for _, m := range s.messages {
		if m.Role == RoleSystem || m.Role == RoleTool {
			continue
		}
		if strings.Contains(m.Content.PlainText(), toolCallMarker) {
			continue
		}
		out = append(out, m)
	}
	return out
}
