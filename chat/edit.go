package chat

// EditController manages the single in-flight edit session. An edit
// targets a message by ID; the index is re-resolved against the backing
// history at commit time, so positions taken from the filtered display
// view can never corrupt the store.
type EditController struct {
	store *HistoryStore

	editing   bool
	messageID string
	draft     string
}

// NewEditController creates a controller bound to a history store.
func NewEditController(store *HistoryStore) *EditController {
	return &EditController{store: store}
}

// Editing reports whether an edit session is open.
func (e *EditController) Editing() bool {
	return e.editing
}

// Draft returns the current draft text.
func (e *EditController) Draft() string {
	return e.draft
}

// MessageID returns the ID of the message being edited.
func (e *EditController) MessageID() string {
	return e.messageID
}

// StartEdit opens an edit session for the given message, seeding the
// draft from its normalized text.
func (e *EditController) StartEdit(id string) (string, error) {
	if e.editing {
		return "", ErrEditPending
	}
	idx, ok := e.store.IndexOf(id)
	if !ok {
		return "", ErrNotFound
	}
	msg, err := e.store.At(idx)
	if err != nil {
		return "", err
	}

	e.editing = true
	e.messageID = id
	e.draft = msg.Content.PlainText()
	return e.draft, nil
}

// SetDraft updates the draft text.
func (e *EditController) SetDraft(text string) {
	e.draft = text
}

// CommitOnly writes the draft back into the edited message in place and
// closes the edit session. No request is issued.
func (e *EditController) CommitOnly() error {
	if !e.editing {
		return ErrNoEdit
	}
	idx, ok := e.store.IndexOf(e.messageID)
	if !ok {
		e.reset()
		return ErrNotFound
	}
	if err := e.store.ReplaceAt(idx, PlainText(e.draft)); err != nil {
		return err
	}
	e.reset()
	return nil
}

// CommitAndTruncate replaces the edited message with the draft and
// discards everything after it, leaving a history ready to resend. The
// caller issues the completion request with the result.
func (e *EditController) CommitAndTruncate() error {
	if !e.editing {
		return ErrNoEdit
	}
	idx, ok := e.store.IndexOf(e.messageID)
	if !ok {
		e.reset()
		return ErrNotFound
	}
	if err := e.store.TruncateAndReplace(idx, PlainText(e.draft)); err != nil {
		return err
	}
	e.reset()
	return nil
}

// Cancel abandons the edit session without touching the history.
func (e *EditController) Cancel() {
	e.reset()
}

func (e *EditController) reset() {
	e.editing = false
	e.messageID = ""
	e.draft = ""
}
