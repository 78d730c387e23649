package chat

// PersonaBinder tracks the active persona and the session lock. While
// unlocked, switching personas is a "pick a starting point": the seed
// history is rebuilt and any in-progress conversation is discarded. The
// lock engages on the first user send or when a saved chat is loaded,
// and only an explicit new-chat reset releases it.
type PersonaBinder struct {
	active Persona
	locked bool
}

// NewPersonaBinder creates an unlocked binder for the given persona.
func NewPersonaBinder(p Persona) *PersonaBinder {
	return &PersonaBinder{active: p}
}

// Active returns the bound persona.
func (b *PersonaBinder) Active() Persona {
	return b.active
}

// Locked reports whether the persona can still be switched.
func (b *PersonaBinder) Locked() bool {
	return b.locked
}

// Set switches the active persona. Only allowed while unlocked.
func (b *PersonaBinder) Set(p Persona) error {
	if b.locked {
		return ErrPersonaLocked
	}
	b.active = p
	return nil
}

// Lock fixes the persona for the remainder of the session.
func (b *PersonaBinder) Lock() {
	b.locked = true
}

// Unlock releases the persona lock. Called only from a new-chat reset.
func (b *PersonaBinder) Unlock() {
	b.locked = false
}

// SeedHistory produces the starting history for the bound persona: the
// system message carrying its personality, then the greeting.
func (b *PersonaBinder) SeedHistory() []Message {
	return []Message{
		NewMessage(RoleSystem, PlainText(b.active.Personality)),
		NewMessage(RoleAssistant, PlainText(b.active.Greeting)),
	}
}
