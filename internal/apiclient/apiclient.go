package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	internal_errors "github.com/parley-dev/parley/shared/errors"
)

// Client handles all communication with the backend API. It carries the
// caller's access token; everything else about a request is per-call.
type Client struct {
	BaseURL    string
	HttpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a new client for interacting with the backend.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HttpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the access token attached to subsequent requests.
// An empty token makes requests anonymous.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do is the single, unified helper for making API requests. A non-nil body
// is JSON-encoded.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	return resp, nil
}

// doJSON performs the request and decodes a JSON response of the expected
// status into out (which may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, want int, what string) error {
	resp, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		msg := fmt.Sprintf("%s failed", what)
		if raw, err := io.ReadAll(io.LimitReader(resp.Body, 2048)); err == nil && len(raw) > 0 {
			msg = fmt.Sprintf("%s: %s", msg, string(raw))
		}
		return &internal_errors.ErrorWithStatusCode{Message: msg, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cannot decode %s response: %w", what, err)
	}
	return nil
}
