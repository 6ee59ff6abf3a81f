package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/document"
	"github.com/numboxia/chainsign/ext"
	"github.com/numboxia/chainsign/id"
)

// Compile-time interface checks.
var (
	_ ext.Extension         = (*Extension)(nil)
	_ ext.DocumentSubmitted = (*Extension)(nil)
	_ ext.DocumentApproved  = (*Extension)(nil)
	_ ext.DocumentRejected  = (*Extension)(nil)
	_ ext.DecisionDenied    = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so this package does not import any particular
// audit store — callers inject the concrete backend at wiring time.
type Recorder interface {
	// Record persists a fully-formed audit event.
	Record(ctx context.Context, event *Event) error
}

// Event is the audit representation of one document transition or
// denied attempt.
type Event struct {
	ID id.AuditID `json:"id"`

	// What happened
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Category string `json:"category"`

	// Details
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *Event) error

func (f RecorderFunc) Record(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Severity constants.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Outcome constants.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Extension bridges document lifecycle events to an audit trail
// backend. Each lifecycle hook emits a structured audit event through
// the [Recorder].
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements ext.Extension.
func (e *Extension) Name() string { return "audit" }

// OnDocumentSubmitted implements ext.DocumentSubmitted.
func (e *Extension) OnDocumentSubmitted(ctx context.Context, doc *document.Document) error {
	return e.record(ctx, ActionDocumentSubmitted, SeverityInfo, OutcomeSuccess,
		ResourceDocument, docID(doc.ID), CategoryDocument, nil,
		"submitter", doc.Submitter.String(),
		"name", doc.Name,
		"category", doc.Category,
	)
}

// OnDocumentApproved implements ext.DocumentApproved. The approval that
// completes the signing order emits document.completed instead of
// document.approved.
func (e *Extension) OnDocumentApproved(ctx context.Context, doc *document.Document, approvedBy chainsign.Identity, final bool) error {
	action := ActionDocumentApproved
	if final {
		action = ActionDocumentCompleted
	}
	return e.record(ctx, action, SeverityInfo, OutcomeSuccess,
		ResourceDocument, docID(doc.ID), CategoryDocument, nil,
		"approver", approvedBy.String(),
		"position", doc.CurrentIndex-1,
	)
}

// OnDocumentRejected implements ext.DocumentRejected.
func (e *Extension) OnDocumentRejected(ctx context.Context, doc *document.Document, rejectedBy chainsign.Identity) error {
	return e.record(ctx, ActionDocumentRejected, SeverityInfo, OutcomeSuccess,
		ResourceDocument, docID(doc.ID), CategoryDocument, nil,
		"approver", rejectedBy.String(),
		"position", doc.CurrentIndex,
	)
}

// OnDecisionDenied implements ext.DecisionDenied.
func (e *Extension) OnDecisionDenied(ctx context.Context, documentID uint64, caller chainsign.Identity, attemptErr error) error {
	return e.record(ctx, ActionDecisionDenied, SeverityWarning, OutcomeFailure,
		ResourceDocument, docID(documentID), CategoryDecision, attemptErr,
		"caller", caller.String(),
	)
}

// record builds and sends an audit event if the action is enabled.
// The kvPairs argument is a list of key-value pairs added to Metadata.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &Event{
		ID:         id.NewAuditID(),
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}

func docID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
