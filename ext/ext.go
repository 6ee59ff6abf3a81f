// Package ext defines the extension system for ChainSign.
// Extensions are notified of document lifecycle events (submitted,
// approved, rejected, denied attempts) and can react to them —
// audit trails, metrics, live streams, webhooks.
//
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
package ext

import (
	"context"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/document"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// ──────────────────────────────────────────────────
// Document lifecycle hooks
// ──────────────────────────────────────────────────

// DocumentSubmitted is called after a document and its signing order
// are created.
type DocumentSubmitted interface {
	OnDocumentSubmitted(ctx context.Context, doc *document.Document) error
}

// DocumentApproved is called after every successful approval. final is
// true for the approval that completed the signing order.
type DocumentApproved interface {
	OnDocumentApproved(ctx context.Context, doc *document.Document, approvedBy chainsign.Identity, final bool) error
}

// DocumentRejected is called after an approver rejects a document.
type DocumentRejected interface {
	OnDocumentRejected(ctx context.Context, doc *document.Document, rejectedBy chainsign.Identity) error
}

// DecisionDenied is called when an approve or reject attempt fails:
// wrong identity, out of turn, an already-terminal document, or a
// document that does not exist. attemptErr carries the error returned
// to the caller.
type DecisionDenied interface {
	OnDecisionDenied(ctx context.Context, docID uint64, caller chainsign.Identity, attemptErr error) error
}

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
