// Package office talks to the external office MCP bridges that expose
// Google and Microsoft 365 calendar, mail and contact tools over HTTP.
package office

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

const (
	executeTimeout = 30 * time.Second
	toolsTimeout   = 10 * time.Second
	healthTimeout  = 5 * time.Second
)

// Client calls a single office MCP bridge.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for the bridge at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// BaseURL returns the bridge endpoint this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Execute runs a tool on the bridge and returns its response envelope as-is.
// A non-200 answer becomes an error carrying the status and body text.
func (c *Client) Execute(ctx context.Context, tool string, params map[string]any, userID, requestID string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, executeTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"tool_name":  tool,
		"params":     params,
		"user_id":    userID,
		"request_id": requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("MCP returned %d: %s", resp.StatusCode, string(text))
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// Tools fetches the bridge's tool catalog.
func (c *Client) Tools(ctx context.Context) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, toolsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tools", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tools endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		Tools []map[string]any `json:"tools"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tools: %w", err)
	}
	return payload.Tools, nil
}

// Health probes the bridge's health endpoint. A transport error means the
// bridge is unreachable; otherwise the status code and decoded body are
// returned for the caller to judge.
func (c *Client) Health(ctx context.Context) (int, map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return 0, nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body, nil
}
