// Package approver defines the signing order (slots) and per-approver
// decision records for a document.
//
// A Slot binds one position of a document's signing order to an
// identity; slots are immutable once written at submission. A Record
// tracks one identity's decision on one document.
//
// Records are keyed by (document, identity), not by position. If the
// same identity appears at several positions of the signing order it
// still owns a single record, and acting at a later position
// overwrites the decision recorded at the earlier one. The identity
// must nevertheless act once per position, in order. Callers that
// need per-position history should consult the document's event log
// instead of the record.
package approver

import (
	"time"

	"github.com/numboxia/chainsign"
)

// Decision represents an approver's recorded decision.
type Decision string

const (
	// DecisionPending means the approver has not acted yet.
	DecisionPending Decision = "pending"
	// DecisionApproved means the approver approved in their turn.
	DecisionApproved Decision = "approved"
	// DecisionRejected means the approver rejected in their turn.
	DecisionRejected Decision = "rejected"
)

// Slot is one position of a document's signing order.
type Slot struct {
	DocumentID uint64             `json:"document_id"`
	Position   int                `json:"position"`
	Approver   chainsign.Identity `json:"approver"`
}

// Record is one identity's decision on one document.
type Record struct {
	chainsign.Entity

	DocumentID uint64             `json:"document_id"`
	Approver   chainsign.Identity `json:"approver"`
	Decision   Decision           `json:"decision"`
	ActedAt    *time.Time         `json:"acted_at,omitempty"`
}
