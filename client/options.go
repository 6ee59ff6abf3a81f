package client

import (
	"log/slog"
	"net/http"

	"github.com/numboxia/chainsign/backoff"
)

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetry sets the backoff strategy and retry cap for transient
// failures. maxRetries 0 disables retries.
func WithRetry(strategy backoff.Strategy, maxRetries int) Option {
	return func(c *Client) {
		c.retry = strategy
		c.maxRetries = maxRetries
	}
}
