package event

import "context"

// Store defines the persistence contract for document events.
type Store interface {
	// AppendEvent persists a new event.
	AppendEvent(ctx context.Context, evt *Event) error

	// ListEventsByDocument returns all events for a document, oldest
	// first.
	ListEventsByDocument(ctx context.Context, docID uint64) ([]*Event, error)
}
