// Package dify is a minimal client for the Dify conversational API in
// blocking response mode. It performs exactly one attempt per call; retry
// policy belongs to the caller, and the caller deliberately has none.
package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.dify.ai/v1"
	DefaultUser    = "solace-user"

	chatMessagesPath = "/chat-messages"

	defaultHTTPTimeout = 60 * time.Second
)

var (
	ErrMissingAPIKey = errors.New("dify API key is not configured")
	// ErrUnauthorized marks an authorization failure so callers can surface
	// it distinctly from generic API errors.
	ErrUnauthorized = errors.New("dify API rejected the credential")
)

// Config carries the resolved API settings. It is threaded explicitly into
// NewClient rather than read from shared mutable state.
type Config struct {
	APIKey  string
	BaseURL string
	User    string
}

type Client struct {
	httpClient *http.Client
	cfg        Config
}

// NewClient builds a client for the given configuration. A nil httpClient
// falls back to one with the default timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.User == "" {
		cfg.User = DefaultUser
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

type chatRequest struct {
	Inputs         map[string]string `json:"inputs"`
	Query          string            `json:"query"`
	ResponseMode   string            `json:"response_mode"`
	ConversationID string            `json:"conversation_id,omitempty"`
	User           string            `json:"user"`
}

type chatResponse struct {
	Answer         string `json:"answer"`
	ConversationID string `json:"conversation_id"`
	ID             string `json:"id"`
}

// Response is the successful result of a chat round trip.
type Response struct {
	Answer         string
	ConversationID string
	MessageID      string
	CreatedAt      int64
}

// SendMessage posts one user message and blocks until the answer arrives.
// conversationID acts as the server-side continuation token and may be
// empty for a fresh conversation; inputs carries auxiliary user context.
func (c *Client) SendMessage(ctx context.Context, query, conversationID string, inputs map[string]string) (*Response, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if inputs == nil {
		inputs = map[string]string{}
	}

	payload, err := json.Marshal(chatRequest{
		Inputs:         inputs,
		Query:          query,
		ResponseMode:   "blocking",
		ConversationID: conversationID,
		User:           c.cfg.User,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + chatMessagesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach conversational API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("conversational API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("malformed response from conversational API: %w", err)
	}

	return &Response{
		Answer:         decoded.Answer,
		ConversationID: decoded.ConversationID,
		MessageID:      decoded.ID,
		CreatedAt:      time.Now().UnixMilli(),
	}, nil
}
