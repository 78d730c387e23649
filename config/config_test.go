package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsWhenNoFileExists(t *testing.T) {
	m, err := NewManagerAt(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := m.Settings()
	if !s.WebSearchEnabled {
		t.Fatal("web search must default to enabled")
	}
	if s.Provider != "brave" {
		t.Fatalf("unexpected default provider: %q", s.Provider)
	}
	if !s.IsAnimated {
		t.Fatal("animation must default to enabled")
	}
}

func TestUpdatePersistsAcrossManagers(t *testing.T) {
	dir := t.TempDir()

	m, err := NewManagerAt(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Update(Settings{IsAnimated: false, WebSearchEnabled: false, Provider: "ddgs"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := NewManagerAt(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := reloaded.Settings()
	if s.WebSearchEnabled || s.IsAnimated {
		t.Fatalf("settings did not round trip: %+v", s)
	}
	if s.Provider != "ddgs" {
		t.Fatalf("unexpected provider: %q", s.Provider)
	}
}

func TestCorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewManagerAt(dir); err == nil {
		t.Fatal("expected an error for a corrupt settings file")
	}
}
