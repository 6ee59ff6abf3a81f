package approver

import (
	"context"

	"github.com/numboxia/chainsign"
)

// Store defines the persistence contract for signing orders and
// approver records.
type Store interface {
	// SlotAt reports the identity at the given position of a document's
	// signing order. The boolean is false when no slot is configured at
	// that position — one past the last slot, or any position of an
	// empty signing order. Callers branch on presence; no identity
	// value is reserved to mean "absent".
	SlotAt(ctx context.Context, docID uint64, position int) (chainsign.Identity, bool, error)

	// ListSlots returns a document's full signing order, ordered by
	// position ascending.
	ListSlots(ctx context.Context, docID uint64) ([]Slot, error)

	// GetRecord retrieves the record for one identity on one document.
	// Returns chainsign.ErrRecordNotFound if the identity is not in the
	// document's signing order.
	GetRecord(ctx context.Context, docID uint64, identity chainsign.Identity) (*Record, error)

	// ListRecords returns all approver records for a document, ordered
	// by first position in the signing order.
	ListRecords(ctx context.Context, docID uint64) ([]*Record, error)
}
