package document

import (
	"context"

	"github.com/numboxia/chainsign/approver"
)

// ListOpts controls pagination and filtering for document list queries.
type ListOpts struct {
	// Limit is the maximum number of documents to return. Zero means no limit.
	Limit int
	// Offset is the number of documents to skip.
	Offset int
	// Status filters by document status. Empty means all statuses.
	Status Status
	// Submitter filters by submitting identity. Empty means all submitters.
	Submitter string
}

// Store defines the persistence contract for documents.
type Store interface {
	// NextDocumentID atomically allocates the next sequential document
	// ID. IDs start at 1, strictly increase, and are never reused —
	// two concurrent submissions can never receive the same ID.
	NextDocumentID(ctx context.Context) (uint64, error)

	// CreateDocument persists a new document together with its signing
	// order and the pending approver records, as one atomic write.
	// Records are keyed by identity: if the same identity appears at
	// several positions the later record overwrites the earlier one.
	CreateDocument(ctx context.Context, doc *Document, slots []approver.Slot, records []*approver.Record) error

	// GetDocument retrieves a document by ID. Returns
	// chainsign.ErrDocumentNotFound for IDs never allocated — it never
	// synthesizes a zero-valued document.
	GetDocument(ctx context.Context, docID uint64) (*Document, error)

	// ApplyDecision persists an approver's decision and the resulting
	// document cursor/status as one atomic write.
	ApplyDecision(ctx context.Context, doc *Document, rec *approver.Record) error

	// ListDocuments returns documents matching the given options,
	// ordered by ID ascending.
	ListDocuments(ctx context.Context, opts ListOpts) ([]*Document, error)

	// CountDocuments returns the number of documents with the given
	// status. Empty status counts all documents.
	CountDocuments(ctx context.Context, status Status) (int64, error)
}
