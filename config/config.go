package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings are the chat preferences sent with every completion request.
// The JSON keys match the backend wire format, so the same struct backs
// both the request body and the local settings file.
type Settings struct {
	IsAnimated       bool   `json:"isAnimated"`
	WebSearchEnabled bool   `json:"webSearchEnabled"`
	Provider         string `json:"provider"`
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		IsAnimated:       true,
		WebSearchEnabled: true,
		Provider:         "brave",
	}
}

// Manager handles settings persistence: a single JSON blob under the
// user's config directory. Absence means defaults apply.
type Manager struct {
	settingsPath string
	settings     Settings
}

// NewManager creates a settings manager rooted at ~/.persona-chat.
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewManagerAt(filepath.Join(homeDir, ".persona-chat"))
}

// NewManagerAt creates a settings manager rooted at dir.
func NewManagerAt(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{
		settingsPath: filepath.Join(dir, "settings.json"),
		settings:     DefaultSettings(),
	}

	if err := m.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return m, nil
}

// Load reads the settings from disk.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.settingsPath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &m.settings); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}

	return nil
}

// Save writes the settings to disk.
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(m.settingsPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// Settings returns the current settings.
func (m *Manager) Settings() Settings {
	return m.settings
}

// Update replaces the settings and persists them.
func (m *Manager) Update(s Settings) error {
	m.settings = s
	return m.Save()
}
