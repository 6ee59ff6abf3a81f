package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/numboxia/chainsign/event"
)

// AppendEvent persists a new event at the tail of the document's event
// list. RPush keeps the list oldest first, so append order is read
// order.
func (s *Store) AppendEvent(ctx context.Context, evt *event.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("chainsign/redis: marshal event: %w", err)
	}
	if err := s.client.RPush(ctx, eventsKey(evt.DocumentID), payload).Err(); err != nil {
		return fmt.Errorf("chainsign/redis: append event: %w", err)
	}
	return nil
}

// ListEventsByDocument returns all events for a document, oldest first.
func (s *Store) ListEventsByDocument(ctx context.Context, docID uint64) ([]*event.Event, error) {
	raws, err := s.client.LRange(ctx, eventsKey(docID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("chainsign/redis: list events: %w", err)
	}

	events := make([]*event.Event, 0, len(raws))
	for _, raw := range raws {
		var evt event.Event
		if err := json.Unmarshal([]byte(raw), &evt); err != nil {
			return nil, fmt.Errorf("chainsign/redis: unmarshal event: %w", err)
		}
		events = append(events, &evt)
	}
	return events, nil
}
