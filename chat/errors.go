package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a message cannot be located by ID.
	ErrNotFound = errors.New("message not found")

	// ErrRequestInFlight is returned when an operation is attempted while
	// a completion request is outstanding.
	ErrRequestInFlight = errors.New("a request is already in flight")

	// ErrConfirmationPending is returned when composing is attempted while
	// a confirmation is waiting for the user's decision.
	ErrConfirmationPending = errors.New("a confirmation is pending")

	// ErrNoConfirmation is returned when resolving an idle gate.
	ErrNoConfirmation = errors.New("no confirmation is pending")

	// ErrEditPending is returned when an operation conflicts with an
	// in-progress edit.
	ErrEditPending = errors.New("an edit is in progress")

	// ErrNoEdit is returned when committing without a started edit.
	ErrNoEdit = errors.New("no edit in progress")

	// ErrPersonaLocked is returned when switching personas after the
	// session has been locked.
	ErrPersonaLocked = errors.New("persona is locked for this session")

	// ErrNoUserMessage is returned by regenerate when the history contains
	// no user message to resend from.
	ErrNoUserMessage = errors.New("no user message to regenerate from")
)

// IndexError reports a history operation whose index precondition was
// violated. UI-driven calls resolve messages by ID first, so hitting this
// indicates a programming error rather than user input.
type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("history index %d out of range (length %d)", e.Index, e.Length)
}

// ContentError reports malformed message content. Content is validated at
// construction and never stored in a malformed state.
type ContentError struct {
	Reason string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("invalid message content: %s", e.Reason)
}
