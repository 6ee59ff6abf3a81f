// Package document defines the Document entity, its lifecycle status,
// and the document store interface.
package document

import (
	"time"

	"github.com/numboxia/chainsign"
)

// Status represents the lifecycle state of a document.
type Status string

const (
	// StatusPending means the document is waiting on its current approver.
	StatusPending Status = "pending"
	// StatusApproved means every approver in the signing order approved.
	StatusApproved Status = "approved"
	// StatusRejected means an approver rejected the document. Terminal
	// regardless of position: the remaining approvers never act.
	StatusRejected Status = "rejected"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Document is a submitted document moving through its signing order.
//
// ID, Submitter, ContentRef, Name, Category, and SubmittedAt are
// immutable after creation. Only CurrentIndex and Status change, and
// only through the engine's Approve and Reject operations:
// CurrentIndex advances monotonically from 0 while the document is
// pending, and Status leaves StatusPending exactly once.
type Document struct {
	chainsign.Entity

	// ID is a process-wide sequential identifier, strictly increasing
	// across submissions and never reused.
	ID uint64 `json:"id"`

	// Submitter is the identity that submitted the document.
	Submitter chainsign.Identity `json:"submitter"`

	// ContentRef is an opaque content-addressed pointer (e.g. a hash)
	// to the document body, which lives outside the system.
	ContentRef string `json:"content_ref"`

	Name     string `json:"name"`
	Category string `json:"category,omitempty"`

	// CurrentIndex is the cursor into the signing order: the position
	// whose approver must act next. After the final approval it points
	// one past the last configured slot.
	CurrentIndex int `json:"current_index"`

	Status Status `json:"status"`

	SubmittedAt time.Time  `json:"submitted_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}
