package chainsign

import "errors"

var (
	// Store errors.
	ErrNoStore     = errors.New("chainsign: no store configured")
	ErrStoreClosed = errors.New("chainsign: store closed")

	// Not found errors.
	ErrDocumentNotFound = errors.New("chainsign: document not found")
	ErrRecordNotFound   = errors.New("chainsign: approver record not found")
	ErrEventNotFound    = errors.New("chainsign: event not found")

	// Authorization errors.
	//
	// ErrUnauthorizedApprover covers every way a caller can fail the
	// turn check: wrong identity, acting out of turn, acting twice,
	// and acting on a document that is already terminal. All of them
	// reduce to "the caller is not the approver at the current cursor".
	ErrUnauthorizedApprover = errors.New("chainsign: caller is not the current expected approver")

	// Validation errors.
	ErrEmptyIdentity    = errors.New("chainsign: identity must not be empty")
	ErrTooManyApprovers = errors.New("chainsign: approver list exceeds configured cap")
	ErrConflict         = errors.New("chainsign: conflicting concurrent write")
)
