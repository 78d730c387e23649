package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kmelnyk/persona-chat-go/chat"
	"github.com/kmelnyk/persona-chat-go/config"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 120 * time.Second
)

// StatusError is returned when the backend answers with a non-success
// status. It is surfaced to the user as a transient notification; local
// state is not rolled back.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend error: status %d, body: %s", e.StatusCode, e.Body)
}

// ClientOptions contains options for creating a backend client.
type ClientOptions struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// ClientOption is a functional option for configuring the client.
type ClientOption func(*ClientOptions)

// WithBaseURL sets the backend base URL.
func WithBaseURL(url string) ClientOption {
	return func(o *ClientOptions) {
		o.BaseURL = url
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *ClientOptions) {
		o.HTTPClient = c
	}
}

// Client talks to the assistant backend. It performs no automatic
// retries: the session dispatches at most one request at a time and
// every failure surfaces exactly one notification.
type Client struct {
	options    ClientOptions
	httpClient *http.Client
}

// NewClient creates a backend client.
func NewClient(opts ...ClientOption) *Client {
	options := ClientOptions{
		BaseURL: defaultBaseURL,
		Timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}

	return &Client{
		options:    options,
		httpClient: httpClient,
	}
}

// SendChat posts the history for completion. The continuation is set
// only when the request answers a pending confirmation.
func (c *Client) SendChat(ctx context.Context, history []chat.Message, settings config.Settings, personaID string, continuation *chat.Continuation) (*ChatResult, error) {
	body := ChatRequest{
		History:      toWire(history),
		Settings:     settings,
		PersonaID:    personaID,
		Continuation: continuation,
	}

	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", body, &resp); err != nil {
		return nil, err
	}

	return &ChatResult{
		History:      fromWire(resp.History),
		Confirmation: resp.Confirmation.toSession(),
	}, nil
}

// ListChats returns the saved chat summaries.
func (c *Client) ListChats(ctx context.Context) ([]ChatSummary, error) {
	var chats []ChatSummary
	if err := c.do(ctx, http.MethodGet, "/api/chats", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetChat loads one saved chat. A record without a persona falls back to
// the default persona ID.
func (c *Client) GetChat(ctx context.Context, id int) (*ChatRecord, error) {
	var resp struct {
		Messages  []Message `json:"messages"`
		PersonaID string    `json:"persona_id"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/chats/%d", id), nil, &resp); err != nil {
		return nil, err
	}

	personaID := resp.PersonaID
	if personaID == "" {
		personaID = chat.DefaultPersonaID
	}

	return &ChatRecord{
		Messages:  fromWire(resp.Messages),
		PersonaID: personaID,
	}, nil
}

// CreateChat saves a new chat and returns its summary.
func (c *Client) CreateChat(ctx context.Context, title string, history []chat.Message, personaID string) (*ChatSummary, error) {
	body := struct {
		Title     string    `json:"title"`
		Messages  []Message `json:"messages"`
		PersonaID string    `json:"persona_id"`
	}{
		Title:     title,
		Messages:  toWire(history),
		PersonaID: personaID,
	}

	var summary ChatSummary
	if err := c.do(ctx, http.MethodPost, "/api/chats", body, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// UpdateChat overwrites a saved chat's messages.
func (c *Client) UpdateChat(ctx context.Context, id int, history []chat.Message, personaID string) error {
	body := struct {
		Messages  []Message `json:"messages"`
		PersonaID string    `json:"persona_id"`
	}{
		Messages:  toWire(history),
		PersonaID: personaID,
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/chats/%d", id), body, nil)
}

// DeleteChat removes a saved chat.
func (c *Client) DeleteChat(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/chats/%d", id), nil, nil)
}

// ListPersonas returns the persona list.
func (c *Client) ListPersonas(ctx context.Context) ([]chat.Persona, error) {
	var personas []chat.Persona
	if err := c.do(ctx, http.MethodGet, "/api/personas", nil, &personas); err != nil {
		return nil, err
	}
	return personas, nil
}

// UpdatePersonas replaces the persona list.
func (c *Client) UpdatePersonas(ctx context.Context, personas []chat.Persona) error {
	return c.do(ctx, http.MethodPut, "/api/personas", personas, nil)
}

// GetProfile returns the user profile record.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile replaces the user profile record.
func (c *Client) UpdateProfile(ctx context.Context, profile Profile) error {
	return c.do(ctx, http.MethodPut, "/api/profile", profile, nil)
}

// do executes one JSON request against the backend.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.options.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
