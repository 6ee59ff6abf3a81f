// Package client provides a Go client for a remote ChainSign server.
//
// Usage:
//
//	c := client.New("https://sign.example.com",
//	    client.WithToken("ck_..."),
//	)
//
//	// Submit a document for approval.
//	doc, err := c.Submit(ctx, client.SubmitRequest{
//	    ContentRef: "sha256:...",
//	    Approvers:  []string{"bob", "carol"},
//	})
//
//	// Approve in turn and watch lifecycle events.
//	doc, err = c.Approve(ctx, doc.ID)
//	ch, err := c.Watch(ctx, client.WatchDocument(doc.ID))
//	for env := range ch {
//	    fmt.Printf("%s by %s\n", env.Kind, env.Actor)
//	}
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/backoff"
)

// Client talks to a remote ChainSign HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger

	// Retry policy for transient failures.
	retry      backoff.Strategy
	maxRetries int
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		retry:      backoff.DefaultStrategy(),
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one HTTP round trip with retries on transport errors and
// 5xx responses, decoding a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("chainsign/client: marshal request: %w", err)
		}
		payload = raw
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retry.Delay(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retryable, err := c.roundTrip(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || attempt >= c.maxRetries {
			return lastErr
		}
		c.logger.Debug("chainsign client retrying",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)
	}
}

// roundTrip performs a single request. The boolean reports whether the
// failure is worth retrying.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out any) (bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("chainsign/client: new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return true, fmt.Errorf("chainsign/client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := decodeError(resp)
		return resp.StatusCode >= 500, apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("chainsign/client: decode response: %w", err)
		}
	}
	return false, nil
}

// APIError is a non-2xx response from the server. It unwraps to the
// matching sentinel error where one exists, so callers can use
// errors.Is(err, chainsign.ErrDocumentNotFound) against remote errors
// the same way they do against a local engine.
type APIError struct {
	StatusCode int
	Message    string
	sentinel   error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("chainsign/client: server returned %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.sentinel }

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		apiErr.sentinel = chainsign.ErrDocumentNotFound
	case http.StatusForbidden:
		apiErr.sentinel = chainsign.ErrUnauthorizedApprover
	case http.StatusConflict:
		apiErr.sentinel = chainsign.ErrConflict
	}
	return apiErr
}
