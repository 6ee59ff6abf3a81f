package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/approver"
)

// SlotAt reports the identity at the given position of a document's
// signing order. The boolean is false when no slot is configured there.
func (s *Store) SlotAt(ctx context.Context, docID uint64, position int) (chainsign.Identity, bool, error) {
	var identity string
	err := s.db.QueryRowContext(ctx, `
		SELECT approver FROM chainsign_slots
		WHERE document_id = ? AND position = ?`,
		docID, position,
	).Scan(&identity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return chainsign.Nobody, false, nil
		}
		return chainsign.Nobody, false, fmt.Errorf("chainsign/sqlite: slot at %d: %w", position, err)
	}
	return chainsign.Identity(identity), true, nil
}

// ListSlots returns a document's signing order, ordered by position.
func (s *Store) ListSlots(ctx context.Context, docID uint64) ([]approver.Slot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, position, approver FROM chainsign_slots
		WHERE document_id = ?
		ORDER BY position ASC`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("chainsign/sqlite: list slots: %w", err)
	}
	defer rows.Close()

	var slots []approver.Slot
	for rows.Next() {
		var (
			slot     approver.Slot
			identity string
		)
		if scanErr := rows.Scan(&slot.DocumentID, &slot.Position, &identity); scanErr != nil {
			return nil, fmt.Errorf("chainsign/sqlite: scan slot: %w", scanErr)
		}
		slot.Approver = chainsign.Identity(identity)
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func scanRecord(row rowScanner) (*approver.Record, error) {
	var (
		rec      approver.Record
		identity string
		decision string
		actedAt  sql.NullTime
	)
	err := row.Scan(&rec.DocumentID, &identity, &decision, &actedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.Approver = chainsign.Identity(identity)
	rec.Decision = approver.Decision(decision)
	if actedAt.Valid {
		t := actedAt.Time
		rec.ActedAt = &t
	}
	return &rec, nil
}

// GetRecord retrieves the record for one identity on one document.
func (s *Store) GetRecord(ctx context.Context, docID uint64, identity chainsign.Identity) (*approver.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT document_id, approver, decision, acted_at, created_at, updated_at
		FROM chainsign_records
		WHERE document_id = ? AND approver = ?`,
		docID, identity.String(),
	)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, chainsign.ErrRecordNotFound
		}
		return nil, fmt.Errorf("chainsign/sqlite: get record: %w", err)
	}
	return rec, nil
}

// ListRecords returns all approver records for a document, ordered by
// each identity's first position in the signing order.
func (s *Store) ListRecords(ctx context.Context, docID uint64) ([]*approver.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.document_id, r.approver, r.decision, r.acted_at, r.created_at, r.updated_at
		FROM chainsign_records r
		LEFT JOIN (
			SELECT document_id, approver, MIN(position) AS first_position
			FROM chainsign_slots
			GROUP BY document_id, approver
		) s ON s.document_id = r.document_id AND s.approver = r.approver
		WHERE r.document_id = ?
		ORDER BY s.first_position ASC`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("chainsign/sqlite: list records: %w", err)
	}
	defer rows.Close()

	var recs []*approver.Record
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("chainsign/sqlite: scan record: %w", scanErr)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
