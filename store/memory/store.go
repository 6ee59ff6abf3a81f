package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/approver"
	"github.com/numboxia/chainsign/document"
	"github.com/numboxia/chainsign/event"
)

// Ensure Store implements store.Store at compile time.
// We can't import store here (import cycle risk is not an issue for
// memory, but each subsystem check keeps the failure local).
var (
	_ document.Store = (*Store)(nil)
	_ approver.Store = (*Store)(nil)
	_ event.Store    = (*Store)(nil)
)

// slotKey keys the signing-order table by (document, position).
type slotKey struct {
	docID    uint64
	position int
}

// recordKey keys the approver-record table by (document, identity).
// One record per identity per document: a duplicated identity in the
// signing order shares a single record across its positions.
type recordKey struct {
	docID    uint64
	identity chainsign.Identity
}

// Store is a fully in-memory implementation of store.Store.
// Safe for concurrent access. Intended for unit testing and development.
type Store struct {
	mu sync.RWMutex

	seq       uint64
	documents map[uint64]*document.Document
	slots     map[slotKey]approver.Slot
	records   map[recordKey]*approver.Record
	events    map[uint64][]*event.Event // docID → events, append order
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		documents: make(map[uint64]*document.Document),
		slots:     make(map[slotKey]approver.Slot),
		records:   make(map[recordKey]*approver.Record),
		events:    make(map[uint64][]*event.Event),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle — Migrate / Ping / Close
// ──────────────────────────────────────────────────

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Document Store
// ──────────────────────────────────────────────────

// NextDocumentID atomically allocates the next sequential document ID.
func (m *Store) NextDocumentID(_ context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	return m.seq, nil
}

// CreateDocument persists a document, its signing order, and the
// pending approver records as one atomic write.
func (m *Store) CreateDocument(_ context.Context, doc *document.Document, slots []approver.Slot, records []*approver.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *doc
	m.documents[doc.ID] = &cp

	for _, s := range slots {
		m.slots[slotKey{s.DocumentID, s.Position}] = s
	}
	for _, r := range records {
		rc := *r
		// Last write wins for duplicated identities.
		m.records[recordKey{r.DocumentID, r.Approver}] = &rc
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (m *Store) GetDocument(_ context.Context, docID uint64) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents[docID]
	if !ok {
		return nil, chainsign.ErrDocumentNotFound
	}
	cp := *doc
	return &cp, nil
}

// ApplyDecision persists an approver's decision and the resulting
// document cursor/status as one atomic write.
func (m *Store) ApplyDecision(_ context.Context, doc *document.Document, rec *approver.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[doc.ID]; !ok {
		return chainsign.ErrDocumentNotFound
	}

	dc := *doc
	dc.UpdatedAt = time.Now().UTC()
	m.documents[doc.ID] = &dc

	rc := *rec
	rc.UpdatedAt = dc.UpdatedAt
	m.records[recordKey{rec.DocumentID, rec.Approver}] = &rc
	return nil
}

// ListDocuments returns documents matching the given options, ordered
// by ID ascending.
func (m *Store) ListDocuments(_ context.Context, opts document.ListOpts) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*document.Document, 0, len(m.documents))
	for _, doc := range m.documents {
		if opts.Status != "" && doc.Status != opts.Status {
			continue
		}
		if opts.Submitter != "" && doc.Submitter.String() != opts.Submitter {
			continue
		}
		cp := *doc
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].ID < result[k].ID
	})

	// Apply offset / limit.
	if opts.Offset > 0 {
		if opts.Offset >= len(result) {
			return nil, nil
		}
		result = result[opts.Offset:]
	}
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

// CountDocuments returns the number of documents with the given status.
func (m *Store) CountDocuments(_ context.Context, status document.Status) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, doc := range m.documents {
		if status == "" || doc.Status == status {
			n++
		}
	}
	return n, nil
}

// ──────────────────────────────────────────────────
// Approver Store
// ──────────────────────────────────────────────────

// SlotAt reports the identity at the given position of a document's
// signing order, and whether a slot is configured there.
func (m *Store) SlotAt(_ context.Context, docID uint64, position int) (chainsign.Identity, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.slots[slotKey{docID, position}]
	if !ok {
		return chainsign.Nobody, false, nil
	}
	return s.Approver, true, nil
}

// ListSlots returns a document's signing order, ordered by position.
func (m *Store) ListSlots(_ context.Context, docID uint64) ([]approver.Slot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []approver.Slot
	for k, s := range m.slots {
		if k.docID == docID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, k int) bool {
		return result[i].Position < result[k].Position
	})
	return result, nil
}

// GetRecord retrieves the record for one identity on one document.
func (m *Store) GetRecord(_ context.Context, docID uint64, identity chainsign.Identity) (*approver.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[recordKey{docID, identity}]
	if !ok {
		return nil, chainsign.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

// ListRecords returns all approver records for a document, ordered by
// first position in the signing order.
func (m *Store) ListRecords(_ context.Context, docID uint64) ([]*approver.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Order records by the identity's first appearance in the
	// signing order.
	type positioned struct {
		pos int
		rec *approver.Record
	}
	first := make(map[chainsign.Identity]int)
	for k, s := range m.slots {
		if k.docID != docID {
			continue
		}
		if p, ok := first[s.Approver]; !ok || k.position < p {
			first[s.Approver] = k.position
		}
	}

	result := make([]positioned, 0, len(first))
	for rk, r := range m.records {
		if rk.docID != docID {
			continue
		}
		cp := *r
		result = append(result, positioned{first[rk.identity], &cp})
	}
	sort.Slice(result, func(i, k int) bool {
		return result[i].pos < result[k].pos
	})

	out := make([]*approver.Record, len(result))
	for i, p := range result {
		out[i] = p.rec
	}
	return out, nil
}

// ──────────────────────────────────────────────────
// Event Store
// ──────────────────────────────────────────────────

// AppendEvent persists a new event.
func (m *Store) AppendEvent(_ context.Context, evt *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *evt
	m.events[evt.DocumentID] = append(m.events[evt.DocumentID], &cp)
	return nil
}

// ListEventsByDocument returns all events for a document, oldest first.
func (m *Store) ListEventsByDocument(_ context.Context, docID uint64) ([]*event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	evts := m.events[docID]
	result := make([]*event.Event, len(evts))
	for i, e := range evts {
		cp := *e
		result[i] = &cp
	}
	return result, nil
}
