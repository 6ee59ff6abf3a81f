// Package middleware provides composable middleware for engine
// operations. Middleware wraps operation calls synchronously and can
// modify execution (recover from panics, log, add tracing, rate-limit,
// etc.).
package middleware

import (
	"context"

	"github.com/numboxia/chainsign"
)

// Operation names used in Op.Name.
const (
	OpSubmit  = "submit"
	OpApprove = "approve"
	OpReject  = "reject"
)

// Op describes the engine operation a middleware chain is wrapping.
// DocumentID is zero for submit (the id is not allocated yet when the
// chain starts).
type Op struct {
	Name       string
	DocumentID uint64
	Caller     chainsign.Identity
}

// Handler is the terminal function that executes the operation logic.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the operation being executed, and
// the next handler to call. Middleware MUST call next to continue the
// chain (unless short-circuiting on error).
type Middleware func(ctx context.Context, op *Op, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, tracing) executes as:
//
//	logging → recover → tracing → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, op *Op, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, op, prev)
			}
		}
		return h(ctx)
	}
}
