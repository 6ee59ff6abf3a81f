package sqlite

import (
	"context"
	"fmt"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/event"
	"github.com/numboxia/chainsign/id"
)

// AppendEvent persists a new event.
func (s *Store) AppendEvent(ctx context.Context, evt *event.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chainsign_events (id, kind, document_id, actor, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		evt.ID.String(), string(evt.Kind), evt.DocumentID, evt.Actor.String(), evt.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("chainsign/sqlite: append event: %w", err)
	}
	return nil
}

// ListEventsByDocument returns all events for a document, oldest first.
// Insertion order (rowid) breaks timestamp ties.
func (s *Store) ListEventsByDocument(ctx context.Context, docID uint64) ([]*event.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, document_id, actor, occurred_at
		FROM chainsign_events
		WHERE document_id = ?
		ORDER BY rowid ASC`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("chainsign/sqlite: list events: %w", err)
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		var (
			evt   event.Event
			rawID string
			kind  string
			actor string
		)
		if scanErr := rows.Scan(&rawID, &kind, &evt.DocumentID, &actor, &evt.OccurredAt); scanErr != nil {
			return nil, fmt.Errorf("chainsign/sqlite: scan event: %w", scanErr)
		}
		eid, parseErr := id.Parse(rawID)
		if parseErr != nil {
			return nil, fmt.Errorf("chainsign/sqlite: parse event id %q: %w", rawID, parseErr)
		}
		evt.ID = eid
		evt.Kind = event.Kind(kind)
		evt.Actor = chainsign.Identity(actor)
		events = append(events, &evt)
	}
	return events, rows.Err()
}
