package chat

import (
	"strings"
)

// Session orchestrates the conversation state machine for one chat: the
// history store, the confirmation gate, the edit controller and the
// persona binder. All mutations run on the UI event path; the only
// suspension point is the outbound request, and at most one request is
// in flight at a time, so history changes are strictly linearized.
type Session struct {
	store  *HistoryStore
	gate   *ConfirmationGate
	edit   *EditController
	binder *PersonaBinder

	savedChatID int
	saved       bool
	dirty       bool
	inFlight    bool
}

// NewSession creates an unlocked session seeded for the given persona.
func NewSession(p Persona) *Session {
	store := NewHistoryStore()
	s := &Session{
		store:  store,
		gate:   NewConfirmationGate(),
		edit:   NewEditController(store),
		binder: NewPersonaBinder(p),
	}
	store.ReplaceAll(s.binder.SeedHistory())
	return s
}

// History returns a copy of the full backing history.
func (s *Session) History() []Message {
	return s.store.Messages()
}

// Display returns the filtered history shown to the user.
func (s *Session) Display() []Message {
	return s.store.Display()
}

// Persona returns the active persona.
func (s *Session) Persona() Persona {
	return s.binder.Active()
}

// Locked reports whether the persona can still be switched.
func (s *Session) Locked() bool {
	return s.binder.Locked()
}

// Dirty reports whether the session has unsaved changes.
func (s *Session) Dirty() bool {
	return s.dirty
}

// InFlight reports whether a completion request is outstanding.
func (s *Session) InFlight() bool {
	return s.inFlight
}

// SavedChatID returns the backend chat ID when the session was saved.
func (s *Session) SavedChatID() (int, bool) {
	return s.savedChatID, s.saved
}

// PendingConfirmation returns the confirmation waiting on the user.
func (s *Session) PendingConfirmation() (Confirmation, bool) {
	return s.gate.Pending()
}

// Editing reports whether an edit session is open.
func (s *Session) Editing() bool {
	return s.edit.Editing()
}

// EditDraft returns the current edit draft text.
func (s *Session) EditDraft() string {
	return s.edit.Draft()
}

// SwitchPersona rebinds the session to a different persona. Only allowed
// while unlocked; the seed history replaces whatever was typed so far.
func (s *Session) SwitchPersona(p Persona) error {
	if s.inFlight {
		return ErrRequestInFlight
	}
	if err := s.binder.Set(p); err != nil {
		return err
	}
	s.store.ReplaceAll(s.binder.SeedHistory())
	s.gate.Clear()
	s.edit.Cancel()
	s.dirty = false
	return nil
}

// Reset starts a new chat: the persona unlocks and rebinds to p, the
// history reseeds, and every gate, the saved-chat link and the dirty
// flag are cleared.
func (s *Session) Reset(p Persona) {
	s.binder.Unlock()
	s.binder.active = p
	s.store.ReplaceAll(s.binder.SeedHistory())
	s.gate.Clear()
	s.edit.Cancel()
	s.saved = false
	s.savedChatID = 0
	s.dirty = false
	s.inFlight = false
}

// composable reports whether a new request may be prepared.
func (s *Session) composable() error {
	if s.inFlight {
		return ErrRequestInFlight
	}
	if _, pending := s.gate.Pending(); pending {
		return ErrConfirmationPending
	}
	if s.edit.Editing() {
		return ErrEditPending
	}
	return nil
}

// PrepareSend appends the user's message, locks the persona and marks
// the session busy. It returns the history snapshot to send; the local
// append is optimistic and is not rolled back if the request fails.
func (s *Session) PrepareSend(text, imageURL string) ([]Message, error) {
	if err := s.composable(); err != nil {
		return nil, err
	}

	s.store.Append(NewMessage(RoleUser, BuildContent(text, imageURL)))
	s.binder.Lock()
	s.dirty = true
	s.inFlight = true
	return s.store.Messages(), nil
}

// PrepareResolve turns the user's confirmation decision into the request
// payload. The pending confirmation is cleared synchronously before the
// continuation is returned, so it can never be resolved twice.
func (s *Session) PrepareResolve(approved bool) ([]Message, Continuation, error) {
	if s.inFlight {
		return nil, Continuation{}, ErrRequestInFlight
	}
	cont, err := s.gate.Resolve(approved)
	if err != nil {
		return nil, Continuation{}, err
	}
	s.inFlight = true
	return s.store.Messages(), cont, nil
}

// PrepareRegenerate truncates the history to the last user message and
// returns it for resending. Without a user message there is nothing to
// regenerate from.
func (s *Session) PrepareRegenerate() ([]Message, error) {
	if err := s.composable(); err != nil {
		return nil, err
	}
	idx, ok := s.store.LastUserIndex()
	if !ok {
		return nil, ErrNoUserMessage
	}

	msg, err := s.store.At(idx)
	if err != nil {
		return nil, err
	}
	if err := s.store.TruncateAndReplace(idx, msg.Content); err != nil {
		return nil, err
	}
	s.dirty = true
	s.inFlight = true
	return s.store.Messages(), nil
}

// StartEdit opens an edit session for the given message.
func (s *Session) StartEdit(id string) (string, error) {
	if err := s.composable(); err != nil {
		return "", err
	}
	return s.edit.StartEdit(id)
}

// SetEditDraft updates the draft of the open edit session.
func (s *Session) SetEditDraft(text string) {
	s.edit.SetDraft(text)
}

// CancelEdit abandons the open edit session.
func (s *Session) CancelEdit() {
	s.edit.Cancel()
}

// CommitEdit writes the draft back in place without contacting the
// backend.
func (s *Session) CommitEdit() error {
	if err := s.edit.CommitOnly(); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// PrepareEditResend commits the draft, discards the truncated tail and
// returns the history for the follow-up completion request. This is the
// only edit path that can itself arm a new confirmation.
func (s *Session) PrepareEditResend() ([]Message, error) {
	if s.inFlight {
		return nil, ErrRequestInFlight
	}
	if err := s.edit.CommitAndTruncate(); err != nil {
		return nil, err
	}
	s.dirty = true
	s.inFlight = true
	return s.store.Messages(), nil
}

// DeleteMessage removes the message with the given ID, cascading over a
// user turn's direct assistant reply. Returns how many messages went.
func (s *Session) DeleteMessage(id string) (int, error) {
	if err := s.composable(); err != nil {
		return 0, err
	}
	idx, ok := s.store.IndexOf(id)
	if !ok {
		return 0, ErrNotFound
	}
	removed, err := s.store.DeleteAt(idx)
	if err != nil {
		return 0, err
	}
	s.dirty = true
	return removed, nil
}

// ApplyResponse installs the backend-returned history wholesale and
// re-arms the confirmation gate when the response carries one.
func (s *Session) ApplyResponse(history []Message, confirmation *Confirmation) error {
	s.inFlight = false
	s.store.ReplaceAll(history)
	s.dirty = true
	if confirmation != nil {
		return s.gate.Arm(*confirmation)
	}
	return nil
}

// FailRequest records a failed request. The optimistic user append stays
// in place; the gates are cleared so the session remains continuable.
func (s *Session) FailRequest() {
	s.inFlight = false
	s.gate.Clear()
	s.edit.Cancel()
}

// LoadSaved installs a saved chat: its history replaces the session, the
// persona rebinds and locks, and the saved-chat link is set.
func (s *Session) LoadSaved(chatID int, history []Message, p Persona) {
	s.binder.Unlock()
	s.binder.active = p
	s.binder.Lock()
	s.store.ReplaceAll(history)
	s.gate.Clear()
	s.edit.Cancel()
	s.savedChatID = chatID
	s.saved = true
	s.dirty = false
	s.inFlight = false
}

// MarkSaved records that the current history was persisted under chatID.
func (s *Session) MarkSaved(chatID int) {
	s.savedChatID = chatID
	s.saved = true
	s.dirty = false
}

// Title derives a chat title from the first user message.
func (s *Session) Title() string {
	for _, m := range s.store.Messages() {
		if m.Role == RoleUser {
			return truncateTitle(m.Content.PlainText())
		}
	}
	return "New Chat"
}

func truncateTitle(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx != -1 {
		text = text[:idx]
	}
	if text == "" {
		return "New Chat"
	}
	if len(text) > 50 {
		text = text[:47] + "..."
	}
	return text
}
