package auth

import (
	"context"

	"github.com/numboxia/chainsign"
)

type ctxKey struct{}

// WithIdentity attaches an authenticated identity to the context.
func WithIdentity(ctx context.Context, id chainsign.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom extracts the authenticated identity from the context.
// The boolean is false if no identity is attached.
func IdentityFrom(ctx context.Context) (chainsign.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(chainsign.Identity)
	if !ok || id.IsZero() {
		return chainsign.Nobody, false
	}
	return id, true
}
