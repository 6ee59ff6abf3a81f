package ext_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/document"
	"github.com/numboxia/chainsign/ext"
)

// allHooksExt implements every lifecycle hook for testing.
type allHooksExt struct {
	calls []string
}

func (e *allHooksExt) Name() string { return "all-hooks" }

func (e *allHooksExt) OnDocumentSubmitted(_ context.Context, _ *document.Document) error {
	e.calls = append(e.calls, "OnDocumentSubmitted")
	return nil
}

func (e *allHooksExt) OnDocumentApproved(_ context.Context, _ *document.Document, _ chainsign.Identity, _ bool) error {
	e.calls = append(e.calls, "OnDocumentApproved")
	return nil
}

func (e *allHooksExt) OnDocumentRejected(_ context.Context, _ *document.Document, _ chainsign.Identity) error {
	e.calls = append(e.calls, "OnDocumentRejected")
	return nil
}

func (e *allHooksExt) OnDecisionDenied(_ context.Context, _ uint64, _ chainsign.Identity, _ error) error {
	e.calls = append(e.calls, "OnDecisionDenied")
	return nil
}

func (e *allHooksExt) OnShutdown(_ context.Context) error {
	e.calls = append(e.calls, "OnShutdown")
	return nil
}

// submittedOnlyExt implements a single hook.
type submittedOnlyExt struct {
	count int
}

func (e *submittedOnlyExt) Name() string { return "submitted-only" }

func (e *submittedOnlyExt) OnDocumentSubmitted(_ context.Context, _ *document.Document) error {
	e.count++
	return nil
}

// failingExt returns an error from every hook it implements.
type failingExt struct{}

func (e *failingExt) Name() string { return "failing" }

func (e *failingExt) OnDocumentSubmitted(_ context.Context, _ *document.Document) error {
	return errors.New("hook failure")
}

func testDoc() *document.Document {
	return &document.Document{
		ID:        1,
		Submitter: "alice",
		Name:      "test",
		Status:    document.StatusPending,
	}
}

func TestRegistryEmitsAllHooks(t *testing.T) {
	t.Parallel()
	r := ext.NewRegistry(slog.Default())
	e := &allHooksExt{}
	r.Register(e)

	ctx := context.Background()
	doc := testDoc()

	r.EmitDocumentSubmitted(ctx, doc)
	r.EmitDocumentApproved(ctx, doc, "bob", false)
	r.EmitDocumentRejected(ctx, doc, "bob")
	r.EmitDecisionDenied(ctx, doc.ID, "mallory", chainsign.ErrUnauthorizedApprover)
	r.EmitShutdown(ctx)

	want := []string{
		"OnDocumentSubmitted",
		"OnDocumentApproved",
		"OnDocumentRejected",
		"OnDecisionDenied",
		"OnShutdown",
	}
	if len(e.calls) != len(want) {
		t.Fatalf("got %d calls, want %d: %v", len(e.calls), len(want), e.calls)
	}
	for i, name := range want {
		if e.calls[i] != name {
			t.Errorf("call %d = %q, want %q", i, e.calls[i], name)
		}
	}
}

func TestRegistryPartialExtension(t *testing.T) {
	t.Parallel()
	r := ext.NewRegistry(slog.Default())
	e := &submittedOnlyExt{}
	r.Register(e)

	ctx := context.Background()
	doc := testDoc()

	// Only the submitted hook should fire; the others are no-ops for
	// an extension that doesn't implement them.
	r.EmitDocumentSubmitted(ctx, doc)
	r.EmitDocumentApproved(ctx, doc, "bob", true)
	r.EmitDocumentRejected(ctx, doc, "bob")
	r.EmitShutdown(ctx)

	if e.count != 1 {
		t.Errorf("submitted hook fired %d times, want 1", e.count)
	}
}

func TestRegistryHookErrorDoesNotPropagate(t *testing.T) {
	t.Parallel()
	r := ext.NewRegistry(slog.Default())
	fail := &failingExt{}
	after := &submittedOnlyExt{}
	r.Register(fail)
	r.Register(after)

	// A failing hook must not stop later extensions from being notified.
	r.EmitDocumentSubmitted(context.Background(), testDoc())

	if after.count != 1 {
		t.Errorf("extension after failure fired %d times, want 1", after.count)
	}
}

func TestRegistryExtensions(t *testing.T) {
	t.Parallel()
	r := ext.NewRegistry(slog.Default())
	r.Register(&allHooksExt{})
	r.Register(&submittedOnlyExt{})

	if got := len(r.Extensions()); got != 2 {
		t.Errorf("Extensions() = %d, want 2", got)
	}
}
