// Package auth resolves caller credentials to a chainsign.Identity.
// The engine itself never authenticates: the API layer runs one of the
// authenticators here and passes the resolved identity in.
package auth

import (
	"context"
	"errors"

	"github.com/numboxia/chainsign"
)

// ErrUnauthorized indicates authentication failure.
var ErrUnauthorized = errors.New("auth: unauthorized")

// Authenticator validates a credential and returns the identity it
// belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (chainsign.Identity, error)
}

// ── API key authenticator ───────────────────────────

// APIKeyEntry maps a token to an identity.
type APIKeyEntry struct {
	Token    string
	Identity chainsign.Identity
}

// APIKeyAuthenticator validates API keys against a static list.
type APIKeyAuthenticator struct {
	keys map[string]chainsign.Identity
}

// NewAPIKeyAuthenticator creates an API key authenticator.
func NewAPIKeyAuthenticator(entries ...APIKeyEntry) *APIKeyAuthenticator {
	keys := make(map[string]chainsign.Identity, len(entries))
	for _, e := range entries {
		keys[e.Token] = e.Identity
	}
	return &APIKeyAuthenticator{keys: keys}
}

func (a *APIKeyAuthenticator) Authenticate(_ context.Context, token string) (chainsign.Identity, error) {
	id, ok := a.keys[token]
	if !ok || id.IsZero() {
		return chainsign.Nobody, ErrUnauthorized
	}
	return id, nil
}

// ── Insecure authenticator ──────────────────────────

// InsecureAuthenticator treats the token itself as the identity.
// Use for development only.
type InsecureAuthenticator struct{}

func (a *InsecureAuthenticator) Authenticate(_ context.Context, token string) (chainsign.Identity, error) {
	if token == "" {
		return chainsign.Nobody, ErrUnauthorized
	}
	return chainsign.Identity(token), nil
}

// ── Composite authenticator ─────────────────────────

// CompositeAuthenticator tries multiple authenticators in order.
// The first successful authentication wins.
type CompositeAuthenticator struct {
	authenticators []Authenticator
}

// NewCompositeAuthenticator chains multiple authenticators.
func NewCompositeAuthenticator(auths ...Authenticator) *CompositeAuthenticator {
	return &CompositeAuthenticator{authenticators: auths}
}

func (c *CompositeAuthenticator) Authenticate(ctx context.Context, token string) (chainsign.Identity, error) {
	for _, auth := range c.authenticators {
		id, err := auth.Authenticate(ctx, token)
		if err == nil {
			return id, nil
		}
	}
	return chainsign.Nobody, ErrUnauthorized
}
