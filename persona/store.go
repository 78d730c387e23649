package persona

import (
	"context"
	"fmt"

	"github.com/kmelnyk/persona-chat-go/api"
	"github.com/kmelnyk/persona-chat-go/chat"
)

// Store is a read/write-through cache over the backend's persona list
// and profile record. Editing works on a draft copy that is only written
// through on commit; cancelling discards it.
type Store struct {
	client *api.Client

	personas []chat.Persona
	profile  *api.Profile
	draft    []chat.Persona
}

// NewStore creates a store backed by the given client.
func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// Refresh reloads the persona list from the backend.
func (s *Store) Refresh(ctx context.Context) error {
	personas, err := s.client.ListPersonas(ctx)
	if err != nil {
		return fmt.Errorf("failed to load personas: %w", err)
	}
	s.personas = personas
	return nil
}

// All returns the cached persona list.
func (s *Store) All() []chat.Persona {
	out := make([]chat.Persona, len(s.personas))
	copy(out, s.personas)
	return out
}

// Get resolves a persona by ID, falling back to the default persona and
// then to the first cached entry.
func (s *Store) Get(id string) (chat.Persona, bool) {
	for _, p := range s.personas {
		if p.ID == id {
			return p, true
		}
	}
	for _, p := range s.personas {
		if p.ID == chat.DefaultPersonaID {
			return p, false
		}
	}
	if len(s.personas) > 0 {
		return s.personas[0], false
	}
	return chat.Persona{}, false
}

// BeginDraft opens an editable copy of the persona list.
func (s *Store) BeginDraft() []chat.Persona {
	s.draft = make([]chat.Persona, len(s.personas))
	copy(s.draft, s.personas)
	return s.Draft()
}

// Draft returns a copy of the open draft, or nil when none is open.
func (s *Store) Draft() []chat.Persona {
	if s.draft == nil {
		return nil
	}
	out := make([]chat.Persona, len(s.draft))
	copy(out, s.draft)
	return out
}

// SetDraft replaces the open draft's contents.
func (s *Store) SetDraft(personas []chat.Persona) {
	s.draft = make([]chat.Persona, len(personas))
	copy(s.draft, personas)
}

// CommitDraft writes the draft through to the backend and updates the
// cache. The draft stays open on failure so the edit is not lost.
func (s *Store) CommitDraft(ctx context.Context) error {
	if s.draft == nil {
		return fmt.Errorf("no persona draft open")
	}
	if err := s.client.UpdatePersonas(ctx, s.draft); err != nil {
		return fmt.Errorf("failed to save personas: %w", err)
	}
	s.personas = s.draft
	s.draft = nil
	return nil
}

// DiscardDraft drops the draft without saving.
func (s *Store) DiscardDraft() {
	s.draft = nil
}

// Profile returns the cached profile, loading it on first use.
func (s *Store) Profile(ctx context.Context) (api.Profile, error) {
	if s.profile == nil {
		profile, err := s.client.GetProfile(ctx)
		if err != nil {
			return api.Profile{}, fmt.Errorf("failed to load profile: %w", err)
		}
		s.profile = profile
	}
	return *s.profile, nil
}

// SaveProfile writes the profile through to the backend.
func (s *Store) SaveProfile(ctx context.Context, profile api.Profile) error {
	if err := s.client.UpdateProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	copied := profile
	s.profile = &copied
	return nil
}
