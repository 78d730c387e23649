package chat

import (
	"errors"
	"testing"
)

func TestGateArmAndResolveSearchApproved(t *testing.T) {
	g := NewConfirmationGate()
	if err := g.Arm(Confirmation{Kind: ConfirmSearch, Query: "go generics"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cont, err := g.Resolve(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cont.Action != ActionApprovedSearch {
		t.Fatalf("unexpected action: %q", cont.Action)
	}
	if cont.Query != "go generics" {
		t.Fatalf("unexpected query: %q", cont.Query)
	}
	if _, pending := g.Pending(); pending {
		t.Fatal("gate must return to idle after resolve")
	}
}

func TestGateResolveSearchDenied(t *testing.T) {
	g := NewConfirmationGate()
	if err := g.Arm(Confirmation{Kind: ConfirmSearch, Query: "q"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cont, err := g.Resolve(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cont.Action != ActionDeniedSearch {
		t.Fatalf("unexpected action: %q", cont.Action)
	}
}

func TestGateResolveMemory(t *testing.T) {
	g := NewConfirmationGate()
	if err := g.Arm(Confirmation{Kind: ConfirmMemory, Summary: "likes Go"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cont, err := g.Resolve(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cont.Action != ActionSaveMemory || cont.Summary != "likes Go" {
		t.Fatalf("unexpected continuation: %+v", cont)
	}

	if err := g.Arm(Confirmation{Kind: ConfirmMemory, Summary: "again"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cont, err = g.Resolve(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cont.Action != ActionDontSaveMemory {
		t.Fatalf("unexpected action: %q", cont.Action)
	}
}

func TestGateRejectsDoubleArm(t *testing.T) {
	g := NewConfirmationGate()
	if err := g.Arm(Confirmation{Kind: ConfirmSearch, Query: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := g.Arm(Confirmation{Kind: ConfirmMemory, Summary: "b"})
	if !errors.Is(err, ErrConfirmationPending) {
		t.Fatalf("expected ErrConfirmationPending, got %v", err)
	}
}

func TestGateRejectsDoubleResolve(t *testing.T) {
	g := NewConfirmationGate()
	if err := g.Arm(Confirmation{Kind: ConfirmSearch, Query: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.Resolve(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.Resolve(true); !errors.Is(err, ErrNoConfirmation) {
		t.Fatalf("expected ErrNoConfirmation on second resolve, got %v", err)
	}
}

func TestGateClear(t *testing.T) {
	g := NewConfirmationGate()
	if err := g.Arm(Confirmation{Kind: ConfirmMemory, Summary: "s"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.Clear()
	if _, pending := g.Pending(); pending {
		t.Fatal("expected idle gate after clear")
	}
}
