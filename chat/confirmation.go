package chat

// ConfirmationKind discriminates the side effects the backend may ask
// the user to approve.
type ConfirmationKind string

const (
	ConfirmSearch ConfirmationKind = "search"
	ConfirmMemory ConfirmationKind = "memory"
)

// Confirmation is a backend-initiated request for user approval of a
// tool action: a web search (Query set) or a memory write (Summary set).
type Confirmation struct {
	Kind    ConfirmationKind
	Query   string
	Summary string
}

// Continuation encodes the user's decision for a pending confirmation.
// It is sent with the next completion request.
type Continuation struct {
	Action  string `json:"action"`
	Query   string `json:"query,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// Continuation actions understood by the backend.
const (
	ActionApprovedSearch = "approved_search"
	ActionDeniedSearch   = "denied_search"
	ActionSaveMemory     = "save_memory"
	ActionDontSaveMemory = "dont_save_memory"
)

// ConfirmationGate holds at most one pending confirmation. It only moves
// idle -> pending when a backend response carries a confirmation, and
// pending -> idle when the user decides. Composing is disabled while a
// confirmation is pending.
type ConfirmationGate struct {
	pending *Confirmation
}

// NewConfirmationGate creates an idle gate.
func NewConfirmationGate() *ConfirmationGate {
	return &ConfirmationGate{}
}

// Pending returns the waiting confirmation, if any.
func (g *ConfirmationGate) Pending() (Confirmation, bool) {
	if g.pending == nil {
		return Confirmation{}, false
	}
	return *g.pending, true
}

// Arm transitions the gate to pending. Arming while already pending is a
// protocol violation and is rejected, which keeps the single-slot
// invariant enforceable.
func (g *ConfirmationGate) Arm(c Confirmation) error {
	if g.pending != nil {
		return ErrConfirmationPending
	}
	copied := c
	g.pending = &copied
	return nil
}

// Clear drops any pending confirmation without producing a continuation.
// Used when a failed request must not leave the user stuck.
func (g *ConfirmationGate) Clear() {
	g.pending = nil
}

// Resolve turns the user's decision into exactly one continuation and
// returns the gate to idle. The pending slot is cleared before the
// continuation is handed out, so a stale confirmation can never be
// resolved twice or replayed against a new history.
func (g *ConfirmationGate) Resolve(approved bool) (Continuation, error) {
	if g.pending == nil {
		return Continuation{}, ErrNoConfirmation
	}
	c := *g.pending
	g.pending = nil

	switch c.Kind {
	case ConfirmSearch:
		action := ActionDeniedSearch
		if approved {
			action = ActionApprovedSearch
		}
		return Continuation{Action: action, Query: c.Query}, nil
	default:
		action := ActionDontSaveMemory
		if approved {
			action = ActionSaveMemory
		}
		return Continuation{Action: action, Summary: c.Summary}, nil
	}
}
