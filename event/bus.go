// Package event provides the notification side of the approval
// workflow: the Event record, its store contract, and the Bus the
// engine publishes through.
package event

import (
	"context"
	"time"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/id"
)

// Forwarder receives every published event after it has been
// persisted. The stream broker implements this to fan events out to
// live watchers; delivery beyond the synchronous persist is
// fire-and-forget.
type Forwarder interface {
	Forward(evt *Event)
}

// Bus persists document events through an event Store and optionally
// forwards them to live subscribers. It is the standard event sink
// wired into the engine.
type Bus struct {
	store     Store
	forwarder Forwarder
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithForwarder attaches a live-event forwarder (e.g. stream.Broker).
func WithForwarder(f Forwarder) BusOption {
	return func(b *Bus) { b.forwarder = f }
}

// NewBus creates an event bus backed by the given store.
func NewBus(store Store, opts ...BusOption) *Bus {
	b := &Bus{store: store}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish creates and persists a new event, then forwards it to live
// subscribers if a forwarder is attached. The persist is synchronous
// with the mutation that caused the event; the forward is
// fire-and-forget.
func (b *Bus) Publish(ctx context.Context, kind Kind, docID uint64, actor chainsign.Identity, at time.Time) (*Event, error) {
	evt := &Event{
		ID:         id.NewEventID(),
		Kind:       kind,
		DocumentID: docID,
		Actor:      actor,
		OccurredAt: at,
	}
	if err := b.store.AppendEvent(ctx, evt); err != nil {
		return nil, err
	}
	if b.forwarder != nil {
		b.forwarder.Forward(evt)
	}
	return evt, nil
}

// Store returns the underlying event store.
func (b *Bus) Store() Store { return b.store }
