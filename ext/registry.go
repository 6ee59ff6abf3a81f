package ext

import (
	"context"
	"log/slog"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/document"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type documentSubmittedEntry struct {
	name string
	hook DocumentSubmitted
}

type documentApprovedEntry struct {
	name string
	hook DocumentApproved
}

type documentRejectedEntry struct {
	name string
	hook DocumentRejected
}

type decisionDeniedEntry struct {
	name string
	hook DecisionDenied
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// iterate only over extensions that implement the relevant hook.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	// Type-cached slices for each lifecycle hook.
	documentSubmitted []documentSubmittedEntry
	documentApproved  []documentApprovedEntry
	documentRejected  []documentRejectedEntry
	decisionDenied    []decisionDeniedEntry
	shutdown          []shutdownEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(DocumentSubmitted); ok {
		r.documentSubmitted = append(r.documentSubmitted, documentSubmittedEntry{name, h})
	}
	if h, ok := e.(DocumentApproved); ok {
		r.documentApproved = append(r.documentApproved, documentApprovedEntry{name, h})
	}
	if h, ok := e.(DocumentRejected); ok {
		r.documentRejected = append(r.documentRejected, documentRejectedEntry{name, h})
	}
	if h, ok := e.(DecisionDenied); ok {
		r.decisionDenied = append(r.decisionDenied, decisionDeniedEntry{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// EmitDocumentSubmitted notifies all extensions that implement DocumentSubmitted.
func (r *Registry) EmitDocumentSubmitted(ctx context.Context, doc *document.Document) {
	for _, e := range r.documentSubmitted {
		if err := e.hook.OnDocumentSubmitted(ctx, doc); err != nil {
			r.logHookError("OnDocumentSubmitted", e.name, err)
		}
	}
}

// EmitDocumentApproved notifies all extensions that implement DocumentApproved.
func (r *Registry) EmitDocumentApproved(ctx context.Context, doc *document.Document, approvedBy chainsign.Identity, final bool) {
	for _, e := range r.documentApproved {
		if err := e.hook.OnDocumentApproved(ctx, doc, approvedBy, final); err != nil {
			r.logHookError("OnDocumentApproved", e.name, err)
		}
	}
}

// EmitDocumentRejected notifies all extensions that implement DocumentRejected.
func (r *Registry) EmitDocumentRejected(ctx context.Context, doc *document.Document, rejectedBy chainsign.Identity) {
	for _, e := range r.documentRejected {
		if err := e.hook.OnDocumentRejected(ctx, doc, rejectedBy); err != nil {
			r.logHookError("OnDocumentRejected", e.name, err)
		}
	}
}

// EmitDecisionDenied notifies all extensions that implement DecisionDenied.
func (r *Registry) EmitDecisionDenied(ctx context.Context, docID uint64, caller chainsign.Identity, attemptErr error) {
	for _, e := range r.decisionDenied {
		if err := e.hook.OnDecisionDenied(ctx, docID, caller, attemptErr); err != nil {
			r.logHookError("OnDecisionDenied", e.name, err)
		}
	}
}

// EmitShutdown notifies all extensions that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block the
// operation that triggered them.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
