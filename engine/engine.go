package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/approver"
	"github.com/numboxia/chainsign/document"
	"github.com/numboxia/chainsign/event"
	"github.com/numboxia/chainsign/ext"
	mw "github.com/numboxia/chainsign/middleware"
	"github.com/numboxia/chainsign/store"
)

// Sink receives one call per document lifecycle transition. The default
// sink is an event.Bus over the engine's store; attach a forwarder to
// the bus to also feed live watchers.
type Sink interface {
	Publish(ctx context.Context, kind event.Kind, docID uint64, actor chainsign.Identity, at time.Time) (*event.Event, error)
}

// Engine executes the document approval workflow against a store.
// Create one with New.
type Engine struct {
	store      store.Store
	logger     *slog.Logger
	clock      func() time.Time
	cfg        chainsign.Config
	sink       Sink
	extensions *ext.Registry
	exts       []ext.Extension
	mws        []mw.Middleware
	chain      mw.Middleware
	locks      docLocks
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithConfig overrides the engine configuration.
func WithConfig(cfg chainsign.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithClock overrides the engine's time source. Used in tests to pin
// decision timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithSink replaces the default event sink. Pass an event.Bus built
// with event.WithForwarder to stream events to live subscribers.
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithExtension registers an extension with the engine.
func WithExtension(x ext.Extension) Option {
	return func(e *Engine) { e.exts = append(e.exts, x) }
}

// WithMiddleware appends middleware to the engine's chain, inside the
// default recover and logging middleware.
func WithMiddleware(m mw.Middleware) Option {
	return func(e *Engine) { e.mws = append(e.mws, m) }
}

// New creates an Engine over the given store.
func New(st store.Store, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, chainsign.ErrNoStore
	}

	e := &Engine{
		store:  st,
		logger: slog.Default(),
		clock:  func() time.Time { return time.Now().UTC() },
		cfg:    chainsign.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.extensions = ext.NewRegistry(e.logger)
	for _, x := range e.exts {
		e.extensions.Register(x)
	}

	if e.sink == nil {
		e.sink = event.NewBus(st)
	}

	// Default stack: recover → logging → user middleware.
	all := make([]mw.Middleware, 0, 2+len(e.mws))
	all = append(all, mw.Recover(e.logger), mw.Logging(e.logger))
	all = append(all, e.mws...)
	e.chain = mw.Chain(all...)

	return e, nil
}

// SubmitRequest carries the inputs for one document submission.
type SubmitRequest struct {
	// Submitter is the identity creating the document. Required.
	Submitter chainsign.Identity

	// ContentRef is an opaque content-addressed pointer to the document
	// body (e.g. a hash). The engine never dereferences it.
	ContentRef string

	Name     string
	Category string

	// Approvers is the signing order, first to act first. An identity
	// may appear more than once; it then must act once per position.
	// An empty list is accepted: the document stays pending forever.
	Approvers []chainsign.Identity
}

// Submit creates a document with its signing order and emits a
// document.submitted event. The document's cursor starts at position
// zero regardless of how many approvers are configured.
func (e *Engine) Submit(ctx context.Context, req SubmitRequest) (*document.Document, error) {
	if req.Submitter.IsZero() {
		return nil, chainsign.ErrEmptyIdentity
	}
	for _, a := range req.Approvers {
		if a.IsZero() {
			return nil, chainsign.ErrEmptyIdentity
		}
	}
	if e.cfg.MaxApprovers > 0 && len(req.Approvers) > e.cfg.MaxApprovers {
		return nil, fmt.Errorf("%w: %d > %d", chainsign.ErrTooManyApprovers, len(req.Approvers), e.cfg.MaxApprovers)
	}

	var doc *document.Document
	op := &mw.Op{Name: mw.OpSubmit, Caller: req.Submitter}
	err := e.run(ctx, op, func(ctx context.Context) error {
		docID, err := e.store.NextDocumentID(ctx)
		if err != nil {
			return fmt.Errorf("allocate document id: %w", err)
		}
		op.DocumentID = docID

		now := e.clock()
		doc = &document.Document{
			Entity:       entityAt(now),
			ID:           docID,
			Submitter:    req.Submitter,
			ContentRef:   req.ContentRef,
			Name:         req.Name,
			Category:     req.Category,
			CurrentIndex: 0,
			Status:       document.StatusPending,
			SubmittedAt:  now,
		}

		slots := make([]approver.Slot, len(req.Approvers))
		records := make([]*approver.Record, 0, len(req.Approvers))
		seen := make(map[chainsign.Identity]bool, len(req.Approvers))
		for i, a := range req.Approvers {
			slots[i] = approver.Slot{DocumentID: docID, Position: i, Approver: a}
			// One record per distinct identity, even when it holds
			// several positions.
			if !seen[a] {
				seen[a] = true
				records = append(records, &approver.Record{
					Entity:     entityAt(now),
					DocumentID: docID,
					Approver:   a,
					Decision:   approver.DecisionPending,
				})
			}
		}

		if err := e.store.CreateDocument(ctx, doc, slots, records); err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		e.publish(ctx, event.KindDocumentSubmitted, docID, req.Submitter, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.extensions.EmitDocumentSubmitted(ctx, doc)
	return doc, nil
}

// Approve records an approval by caller on the given document and
// advances the cursor. The caller must be the approver configured at
// the current cursor position; anything else — wrong identity, acting
// out of turn, or a document already decided — fails with
// chainsign.ErrUnauthorizedApprover. When the cursor moves past the
// last configured slot the document becomes approved.
func (e *Engine) Approve(ctx context.Context, docID uint64, caller chainsign.Identity) (*document.Document, error) {
	return e.decide(ctx, mw.OpApprove, docID, caller)
}

// Reject records a rejection by caller on the given document. The same
// turn check as Approve applies. Rejection is terminal at any position:
// the cursor stays where it is and the remaining approvers never act.
func (e *Engine) Reject(ctx context.Context, docID uint64, caller chainsign.Identity) (*document.Document, error) {
	return e.decide(ctx, mw.OpReject, docID, caller)
}

func (e *Engine) decide(ctx context.Context, opName string, docID uint64, caller chainsign.Identity) (*document.Document, error) {
	if caller.IsZero() {
		return nil, chainsign.ErrEmptyIdentity
	}

	e.locks.lock(docID)
	defer e.locks.unlock(docID)

	var (
		doc   *document.Document
		final bool
	)
	op := &mw.Op{Name: opName, DocumentID: docID, Caller: caller}
	err := e.run(ctx, op, func(ctx context.Context) error {
		var err error
		doc, err = e.store.GetDocument(ctx, docID)
		if err != nil {
			return err
		}

		if doc.Status.Terminal() {
			return chainsign.ErrUnauthorizedApprover
		}

		expected, ok, err := e.store.SlotAt(ctx, docID, doc.CurrentIndex)
		if err != nil {
			return fmt.Errorf("load slot %d: %w", doc.CurrentIndex, err)
		}
		// A pending document with no slot at the cursor has an empty
		// signing order; nobody can ever act on it.
		if !ok || expected != caller {
			return chainsign.ErrUnauthorizedApprover
		}

		rec, err := e.store.GetRecord(ctx, docID, caller)
		if err != nil {
			return fmt.Errorf("load approver record: %w", err)
		}

		now := e.clock()
		rec.ActedAt = &now
		rec.UpdatedAt = now
		doc.UpdatedAt = now

		switch opName {
		case mw.OpApprove:
			rec.Decision = approver.DecisionApproved
			doc.CurrentIndex++
			_, more, err := e.store.SlotAt(ctx, docID, doc.CurrentIndex)
			if err != nil {
				return fmt.Errorf("load slot %d: %w", doc.CurrentIndex, err)
			}
			if !more {
				final = true
				doc.Status = document.StatusApproved
				doc.DecidedAt = &now
			}
		case mw.OpReject:
			rec.Decision = approver.DecisionRejected
			doc.Status = document.StatusRejected
			doc.DecidedAt = &now
		default:
			return fmt.Errorf("chainsign: unknown decision op %q", opName)
		}

		if err := e.store.ApplyDecision(ctx, doc, rec); err != nil {
			return fmt.Errorf("apply decision: %w", err)
		}

		kind := event.KindDocumentApproved
		if opName == mw.OpReject {
			kind = event.KindDocumentRejected
		}
		e.publish(ctx, kind, docID, caller, now)
		return nil
	})
	if err != nil {
		if errors.Is(err, chainsign.ErrUnauthorizedApprover) || errors.Is(err, chainsign.ErrDocumentNotFound) {
			e.extensions.EmitDecisionDenied(ctx, docID, caller, err)
		}
		return nil, err
	}

	if opName == mw.OpApprove {
		e.extensions.EmitDocumentApproved(ctx, doc, caller, final)
	} else {
		e.extensions.EmitDocumentRejected(ctx, doc, caller)
	}
	return doc, nil
}

// Get retrieves a document by ID. Returns
// chainsign.ErrDocumentNotFound for IDs never allocated.
func (e *Engine) Get(ctx context.Context, docID uint64) (*document.Document, error) {
	return e.store.GetDocument(ctx, docID)
}

// List returns documents matching the given options, ordered by ID
// ascending.
func (e *Engine) List(ctx context.Context, opts document.ListOpts) ([]*document.Document, error) {
	return e.store.ListDocuments(ctx, opts)
}

// Count returns the number of documents with the given status. Empty
// status counts all documents.
func (e *Engine) Count(ctx context.Context, status document.Status) (int64, error) {
	return e.store.CountDocuments(ctx, status)
}

// SigningOrder returns a document's full signing order, ordered by
// position.
func (e *Engine) SigningOrder(ctx context.Context, docID uint64) ([]approver.Slot, error) {
	if _, err := e.store.GetDocument(ctx, docID); err != nil {
		return nil, err
	}
	return e.store.ListSlots(ctx, docID)
}

// Approvals returns the per-approver decision records for a document,
// ordered by first position in the signing order.
func (e *Engine) Approvals(ctx context.Context, docID uint64) ([]*approver.Record, error) {
	if _, err := e.store.GetDocument(ctx, docID); err != nil {
		return nil, err
	}
	return e.store.ListRecords(ctx, docID)
}

// History returns the document's lifecycle events, oldest first.
func (e *Engine) History(ctx context.Context, docID uint64) ([]*event.Event, error) {
	if _, err := e.store.GetDocument(ctx, docID); err != nil {
		return nil, err
	}
	return e.store.ListEventsByDocument(ctx, docID)
}

// Close notifies extensions of shutdown and closes the store.
func (e *Engine) Close(ctx context.Context) error {
	e.extensions.EmitShutdown(ctx)
	return e.store.Close()
}

// Store returns the engine's store.
func (e *Engine) Store() store.Store { return e.store }

// Extensions returns the extension registry.
func (e *Engine) Extensions() *ext.Registry { return e.extensions }

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// run executes fn through the middleware chain under the configured
// operation timeout.
func (e *Engine) run(ctx context.Context, op *mw.Op, fn mw.Handler) error {
	if e.cfg.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.OperationTimeout)
		defer cancel()
	}
	return e.chain(ctx, op, fn)
}

// publish sends a lifecycle event through the sink. A sink failure is
// logged and swallowed: the mutation it describes has already been
// committed and must not be unwound.
func (e *Engine) publish(ctx context.Context, kind event.Kind, docID uint64, actor chainsign.Identity, at time.Time) {
	if _, err := e.sink.Publish(ctx, kind, docID, actor, at); err != nil {
		e.logger.Warn("event publish failed",
			slog.String("kind", string(kind)),
			slog.Uint64("document_id", docID),
			slog.String("error", err.Error()),
		)
	}
}

func entityAt(now time.Time) chainsign.Entity {
	return chainsign.Entity{CreatedAt: now, UpdatedAt: now}
}
