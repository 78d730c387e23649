package chat

import (
	"errors"
	"testing"
)

func TestStartEditSeedsDraftFromNormalizedText(t *testing.T) {
	s := NewHistoryStore()
	s.Append(NewMessage(RoleSystem, PlainText("system prompt")))
	msg := NewMessage(RoleUser, BuildContent("caption", "data:image/png;base64,AA"))
	s.Append(msg)

	e := NewEditController(s)
	draft, err := e.StartEdit(msg.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft != "caption" {
		t.Fatalf("draft must come from the first text part, got %q", draft)
	}
	if !e.Editing() {
		t.Fatal("expected an open edit session")
	}
}

func TestStartEditUnknownMessage(t *testing.T) {
	e := NewEditController(NewHistoryStore())
	if _, err := e.StartEdit("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStartEditRejectsSecondSession(t *testing.T) {
	s := NewHistoryStore()
	msg := NewMessage(RoleUser, PlainText("hi"))
	s.Append(msg)

	e := NewEditController(s)
	if _, err := e.StartEdit(msg.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.StartEdit(msg.ID); !errors.Is(err, ErrEditPending) {
		t.Fatalf("expected ErrEditPending, got %v", err)
	}
}

func TestCommitOnlyReplacesInPlace(t *testing.T) {
	s := NewHistoryStore()
	s.Append(NewMessage(RoleSystem, PlainText("system prompt")))
	msg := NewMessage(RoleUser, PlainText("teh question"))
	s.Append(msg)
	s.Append(NewMessage(RoleAssistant, PlainText("reply")))

	e := NewEditController(s)
	if _, err := e.StartEdit(msg.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.SetDraft("the question")
	if err := e.CommitOnly(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Len() != 3 {
		t.Fatalf("commit-only must not truncate, length %d", s.Len())
	}
	got, _ := s.At(1)
	if got.Content.PlainText() != "the question" {
		t.Fatalf("unexpected content: %q", got.Content.PlainText())
	}
	if e.Editing() {
		t.Fatal("edit session must close after commit")
	}
}

func TestCommitAndTruncateDiscardsTail(t *testing.T) {
	s := NewHistoryStore()
	s.Append(NewMessage(RoleSystem, PlainText("system prompt")))
	s.Append(NewMessage(RoleAssistant, PlainText("greeting")))
	msg := NewMessage(RoleUser, PlainText("old"))
	s.Append(msg)
	s.Append(NewMessage(RoleAssistant, PlainText("stale reply")))
	s.Append(NewMessage(RoleUser, PlainText("downstream")))

	e := NewEditController(s)
	if _, err := e.StartEdit(msg.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.SetDraft("new")
	if err := e.CommitAndTruncate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Len() != 3 {
		t.Fatalf("expected length 3 after truncate, got %d", s.Len())
	}
	last, _ := s.At(2)
	if last.Content.PlainText() != "new" || last.Role != RoleUser {
		t.Fatalf("unexpected last message: %+v", last)
	}
}

func TestCommitWithoutEdit(t *testing.T) {
	e := NewEditController(NewHistoryStore())
	if err := e.CommitOnly(); !errors.Is(err, ErrNoEdit) {
		t.Fatalf("expected ErrNoEdit, got %v", err)
	}
	if err := e.CommitAndTruncate(); !errors.Is(err, ErrNoEdit) {
		t.Fatalf("expected ErrNoEdit, got %v", err)
	}
}

func TestCancelLeavesHistoryUntouched(t *testing.T) {
	s := NewHistoryStore()
	msg := NewMessage(RoleUser, PlainText("original"))
	s.Append(msg)

	e := NewEditController(s)
	if _, err := e.StartEdit(msg.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.SetDraft("changed")
	e.Cancel()

	got, _ := s.At(0)
	if got.Content.PlainText() != "original" {
		t.Fatal("cancel must not write the draft")
	}
	if e.Editing() {
		t.Fatal("expected closed edit session")
	}
}
