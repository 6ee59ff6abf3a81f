package event

import (
	"time"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/id"
)

// Kind names a document lifecycle transition.
type Kind string

const (
	// KindDocumentSubmitted is emitted once when a document is created.
	KindDocumentSubmitted Kind = "document.submitted"
	// KindDocumentApproved is emitted for every successful approval,
	// including the final one that completes the document.
	KindDocumentApproved Kind = "document.approved"
	// KindDocumentRejected is emitted when an approver rejects.
	KindDocumentRejected Kind = "document.rejected"
)

// Event records one document lifecycle transition. Exactly one event
// is emitted per transition, synchronously with the mutation that
// caused it.
type Event struct {
	ID         id.EventID         `json:"id"`
	Kind       Kind               `json:"kind"`
	DocumentID uint64             `json:"document_id"`
	Actor      chainsign.Identity `json:"actor"`
	OccurredAt time.Time          `json:"occurred_at"`
}
