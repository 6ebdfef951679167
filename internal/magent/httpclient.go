package magent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// HTTPClient implements the Client interface over HTTP/JSON.
type HTTPClient struct {
	http *http.Client
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// NewHTTPClient creates a new protocol HTTP client.
func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke posts the message to the agent's invoke endpoint and decodes the
// reply. Non-200 responses and structurally invalid replies are errors.
func (c *HTTPClient) Invoke(ctx context.Context, baseURL string, msg Message) (*Message, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("magent: marshal message: %w", err)
	}

	url := strings.TrimRight(baseURL, "/") + InvokePath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("magent: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("magent: invoke: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("magent: invoke: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var reply Message
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("magent: decode reply: %w", err)
	}
	if err := reply.Validate(); err != nil {
		return nil, fmt.Errorf("magent: invalid reply: %w", err)
	}
	return &reply, nil
}

// Discover fetches the agent card from the well-known endpoint.
func (c *HTTPClient) Discover(ctx context.Context, baseURL string) (*AgentCard, error) {
	url := strings.TrimRight(baseURL, "/") + WellKnownPath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("magent: create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("magent: discover agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("magent: discover agent: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var card AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("magent: decode agent card: %w", err)
	}
	if card.Name == "" {
		return nil, fmt.Errorf("magent: agent card from %s has no name", baseURL)
	}
	return &card, nil
}
