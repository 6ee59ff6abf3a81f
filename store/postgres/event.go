package postgres

import (
	"context"
	"fmt"

	"github.com/numboxia/chainsign/event"
)

// AppendEvent persists a new event. The seq column orders events even
// when several share one timestamp.
func (s *Store) AppendEvent(ctx context.Context, evt *event.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chainsign_events (id, kind, document_id, actor, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		evt.ID.String(), string(evt.Kind), evt.DocumentID, evt.Actor.String(), evt.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("chainsign/postgres: append event: %w", err)
	}
	return nil
}

// ListEventsByDocument returns all events for a document, oldest first.
func (s *Store) ListEventsByDocument(ctx context.Context, docID uint64) ([]*event.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, document_id, actor, occurred_at
		FROM chainsign_events
		WHERE document_id = $1
		ORDER BY seq ASC`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("chainsign/postgres: list events: %w", err)
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		var evt event.Event
		if scanErr := rows.Scan(&evt.ID, &evt.Kind, &evt.DocumentID, &evt.Actor, &evt.OccurredAt); scanErr != nil {
			return nil, fmt.Errorf("chainsign/postgres: scan event: %w", scanErr)
		}
		events = append(events, &evt)
	}
	return events, rows.Err()
}
