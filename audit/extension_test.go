package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/audit"
	"github.com/numboxia/chainsign/document"
)

// memRecorder collects every recorded event.
type memRecorder struct {
	events []*audit.Event
	err    error
}

func (m *memRecorder) Record(_ context.Context, evt *audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, evt)
	return nil
}

func testDoc() *document.Document {
	return &document.Document{
		ID:           42,
		Submitter:    "submitter",
		Name:         "contract.pdf",
		Category:     "legal",
		CurrentIndex: 1,
		Status:       document.StatusPending,
		SubmittedAt:  time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestExtension_Name(t *testing.T) {
	e := audit.New(&memRecorder{})
	if e.Name() != "audit" {
		t.Errorf("Name() = %q, want %q", e.Name(), "audit")
	}
}

func TestExtension_DocumentSubmitted(t *testing.T) {
	rec := &memRecorder{}
	e := audit.New(rec)

	if err := e.OnDocumentSubmitted(context.Background(), testDoc()); err != nil {
		t.Fatalf("OnDocumentSubmitted: %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(rec.events))
	}

	evt := rec.events[0]
	if evt.Action != audit.ActionDocumentSubmitted {
		t.Errorf("Action = %q, want %q", evt.Action, audit.ActionDocumentSubmitted)
	}
	if evt.ResourceID != "42" {
		t.Errorf("ResourceID = %q, want %q", evt.ResourceID, "42")
	}
	if evt.Outcome != audit.OutcomeSuccess || evt.Severity != audit.SeverityInfo {
		t.Errorf("outcome/severity = %q/%q", evt.Outcome, evt.Severity)
	}
	if evt.Metadata["submitter"] != "submitter" || evt.Metadata["category"] != "legal" {
		t.Errorf("metadata = %v", evt.Metadata)
	}
	if evt.ID.IsNil() {
		t.Error("event ID not assigned")
	}
}

func TestExtension_DocumentApproved(t *testing.T) {
	rec := &memRecorder{}
	e := audit.New(rec)

	if err := e.OnDocumentApproved(context.Background(), testDoc(), "alice", false); err != nil {
		t.Fatalf("OnDocumentApproved: %v", err)
	}

	evt := rec.events[0]
	if evt.Action != audit.ActionDocumentApproved {
		t.Errorf("Action = %q, want %q", evt.Action, audit.ActionDocumentApproved)
	}
	if evt.Metadata["approver"] != "alice" {
		t.Errorf("metadata = %v", evt.Metadata)
	}
	// CurrentIndex has already advanced past the acted position.
	if evt.Metadata["position"] != 0 {
		t.Errorf("position = %v, want 0", evt.Metadata["position"])
	}
}

func TestExtension_FinalApprovalIsCompleted(t *testing.T) {
	rec := &memRecorder{}
	e := audit.New(rec)

	if err := e.OnDocumentApproved(context.Background(), testDoc(), "alice", true); err != nil {
		t.Fatalf("OnDocumentApproved: %v", err)
	}
	if rec.events[0].Action != audit.ActionDocumentCompleted {
		t.Errorf("Action = %q, want %q", rec.events[0].Action, audit.ActionDocumentCompleted)
	}
}

func TestExtension_DocumentRejected(t *testing.T) {
	rec := &memRecorder{}
	e := audit.New(rec)

	if err := e.OnDocumentRejected(context.Background(), testDoc(), "bob"); err != nil {
		t.Fatalf("OnDocumentRejected: %v", err)
	}

	evt := rec.events[0]
	if evt.Action != audit.ActionDocumentRejected {
		t.Errorf("Action = %q, want %q", evt.Action, audit.ActionDocumentRejected)
	}
	if evt.Metadata["approver"] != "bob" || evt.Metadata["position"] != 1 {
		t.Errorf("metadata = %v", evt.Metadata)
	}
}

func TestExtension_DecisionDenied(t *testing.T) {
	rec := &memRecorder{}
	e := audit.New(rec)

	err := e.OnDecisionDenied(context.Background(), 42, "mallory", chainsign.ErrUnauthorizedApprover)
	if err != nil {
		t.Fatalf("OnDecisionDenied: %v", err)
	}

	evt := rec.events[0]
	if evt.Action != audit.ActionDecisionDenied {
		t.Errorf("Action = %q, want %q", evt.Action, audit.ActionDecisionDenied)
	}
	if evt.Outcome != audit.OutcomeFailure || evt.Severity != audit.SeverityWarning {
		t.Errorf("outcome/severity = %q/%q", evt.Outcome, evt.Severity)
	}
	if evt.Reason == "" || evt.Metadata["error"] == nil {
		t.Errorf("missing error details: reason=%q metadata=%v", evt.Reason, evt.Metadata)
	}
}

func TestExtension_WithActionsFilters(t *testing.T) {
	rec := &memRecorder{}
	e := audit.New(rec, audit.WithActions(audit.ActionDecisionDenied))
	ctx := context.Background()

	if err := e.OnDocumentSubmitted(ctx, testDoc()); err != nil {
		t.Fatalf("OnDocumentSubmitted: %v", err)
	}
	if err := e.OnDecisionDenied(ctx, 42, "mallory", errors.New("denied")); err != nil {
		t.Fatalf("OnDecisionDenied: %v", err)
	}

	if len(rec.events) != 1 || rec.events[0].Action != audit.ActionDecisionDenied {
		t.Errorf("events = %+v, want only decision.denied", rec.events)
	}
}

func TestExtension_RecorderErrorSwallowed(t *testing.T) {
	rec := &memRecorder{err: errors.New("backend down")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := audit.New(rec, audit.WithLogger(logger))

	// Recorder failures are logged, never propagated to the engine.
	if err := e.OnDocumentSubmitted(context.Background(), testDoc()); err != nil {
		t.Errorf("OnDocumentSubmitted: %v, want nil", err)
	}
}

func TestAllActions(t *testing.T) {
	if got := len(audit.AllActions()); got != 5 {
		t.Errorf("len(AllActions()) = %d, want 5", got)
	}
}
