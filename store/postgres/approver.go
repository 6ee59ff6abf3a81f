package postgres

import (
	"context"
	"fmt"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/approver"
)

// SlotAt reports the identity at the given position of a document's
// signing order. The boolean is false when no slot is configured there.
func (s *Store) SlotAt(ctx context.Context, docID uint64, position int) (chainsign.Identity, bool, error) {
	var identity string
	err := s.pool.QueryRow(ctx, `
		SELECT approver FROM chainsign_slots
		WHERE document_id = $1 AND position = $2`,
		docID, position,
	).Scan(&identity)
	if err != nil {
		if isNoRows(err) {
			return chainsign.Nobody, false, nil
		}
		return chainsign.Nobody, false, fmt.Errorf("chainsign/postgres: slot at %d: %w", position, err)
	}
	return chainsign.Identity(identity), true, nil
}

// ListSlots returns a document's signing order, ordered by position.
func (s *Store) ListSlots(ctx context.Context, docID uint64) ([]approver.Slot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT document_id, position, approver FROM chainsign_slots
		WHERE document_id = $1
		ORDER BY position ASC`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("chainsign/postgres: list slots: %w", err)
	}
	defer rows.Close()

	var slots []approver.Slot
	for rows.Next() {
		var slot approver.Slot
		if scanErr := rows.Scan(&slot.DocumentID, &slot.Position, &slot.Approver); scanErr != nil {
			return nil, fmt.Errorf("chainsign/postgres: scan slot: %w", scanErr)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// GetRecord retrieves the record for one identity on one document.
func (s *Store) GetRecord(ctx context.Context, docID uint64, identity chainsign.Identity) (*approver.Record, error) {
	var rec approver.Record
	err := s.pool.QueryRow(ctx, `
		SELECT document_id, approver, decision, acted_at, created_at, updated_at
		FROM chainsign_records
		WHERE document_id = $1 AND approver = $2`,
		docID, identity.String(),
	).Scan(&rec.DocumentID, &rec.Approver, &rec.Decision, &rec.ActedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, chainsign.ErrRecordNotFound
		}
		return nil, fmt.Errorf("chainsign/postgres: get record: %w", err)
	}
	return &rec, nil
}

// ListRecords returns all approver records for a document, ordered by
// each identity's first position in the signing order.
func (s *Store) ListRecords(ctx context.Context, docID uint64) ([]*approver.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.document_id, r.approver, r.decision, r.acted_at, r.created_at, r.updated_at
		FROM chainsign_records r
		LEFT JOIN (
			SELECT document_id, approver, MIN(position) AS first_position
			FROM chainsign_slots
			GROUP BY document_id, approver
		) s ON s.document_id = r.document_id AND s.approver = r.approver
		WHERE r.document_id = $1
		ORDER BY s.first_position ASC`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("chainsign/postgres: list records: %w", err)
	}
	defer rows.Close()

	var recs []*approver.Record
	for rows.Next() {
		var rec approver.Record
		if scanErr := rows.Scan(&rec.DocumentID, &rec.Approver, &rec.Decision, &rec.ActedAt, &rec.CreatedAt, &rec.UpdatedAt); scanErr != nil {
			return nil, fmt.Errorf("chainsign/postgres: scan record: %w", scanErr)
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}
