package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/approver"
)

// recordToMap flattens an approver record into Redis hash fields.
func recordToMap(rec *approver.Record) map[string]any {
	fields := map[string]any{
		"document_id": strconv.FormatUint(rec.DocumentID, 10),
		"approver":    rec.Approver.String(),
		"decision":    string(rec.Decision),
		"created_at":  rec.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  rec.UpdatedAt.Format(time.RFC3339Nano),
	}
	if rec.ActedAt != nil {
		fields["acted_at"] = rec.ActedAt.Format(time.RFC3339Nano)
	}
	return fields
}

// mapToRecord rebuilds an approver record from Redis hash fields.
func mapToRecord(fields map[string]string) (*approver.Record, error) {
	docID, err := strconv.ParseUint(fields["document_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse document_id: %w", err)
	}

	rec := &approver.Record{
		DocumentID: docID,
		Approver:   chainsign.Identity(fields["approver"]),
		Decision:   approver.Decision(fields["decision"]),
	}

	for name, dst := range map[string]*time.Time{
		"created_at": &rec.CreatedAt,
		"updated_at": &rec.UpdatedAt,
	} {
		t, parseErr := time.Parse(time.RFC3339Nano, fields[name])
		if parseErr != nil {
			return nil, fmt.Errorf("parse %s: %w", name, parseErr)
		}
		*dst = t
	}
	if raw, ok := fields["acted_at"]; ok && raw != "" {
		t, parseErr := time.Parse(time.RFC3339Nano, raw)
		if parseErr != nil {
			return nil, fmt.Errorf("parse acted_at: %w", parseErr)
		}
		rec.ActedAt = &t
	}
	return rec, nil
}

// SlotAt reports the identity at the given position of a document's
// signing order.
func (s *Store) SlotAt(ctx context.Context, docID uint64, position int) (chainsign.Identity, bool, error) {
	raw, err := s.client.HGet(ctx, slotsKey(docID), strconv.Itoa(position)).Result()
	if err == goredis.Nil {
		return chainsign.Nobody, false, nil
	}
	if err != nil {
		return chainsign.Nobody, false, fmt.Errorf("chainsign/redis: slot at %d: %w", position, err)
	}
	return chainsign.Identity(raw), true, nil
}

// ListSlots returns a document's full signing order, ordered by
// position ascending.
func (s *Store) ListSlots(ctx context.Context, docID uint64) ([]approver.Slot, error) {
	fields, err := s.client.HGetAll(ctx, slotsKey(docID)).Result()
	if err != nil {
		return nil, fmt.Errorf("chainsign/redis: list slots: %w", err)
	}

	slots := make([]approver.Slot, 0, len(fields))
	for rawPos, identity := range fields {
		pos, parseErr := strconv.Atoi(rawPos)
		if parseErr != nil {
			continue
		}
		slots = append(slots, approver.Slot{
			DocumentID: docID,
			Position:   pos,
			Approver:   chainsign.Identity(identity),
		})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Position < slots[j].Position })
	return slots, nil
}

// GetRecord retrieves the record for one identity on one document.
func (s *Store) GetRecord(ctx context.Context, docID uint64, identity chainsign.Identity) (*approver.Record, error) {
	fields, err := s.client.HGetAll(ctx, recordKey(docID, identity.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("chainsign/redis: get record: %w", err)
	}
	if len(fields) == 0 {
		return nil, chainsign.ErrRecordNotFound
	}
	rec, err := mapToRecord(fields)
	if err != nil {
		return nil, fmt.Errorf("chainsign/redis: get record: %w", err)
	}
	return rec, nil
}

// ListRecords returns all approver records for a document, ordered by
// first position in the signing order. The ordering comes from the
// slots hash rather than the record set, so duplicate identities sort
// by their earliest position.
func (s *Store) ListRecords(ctx context.Context, docID uint64) ([]*approver.Record, error) {
	slots, err := s.ListSlots(ctx, docID)
	if err != nil {
		return nil, err
	}

	firstPos := make(map[chainsign.Identity]int, len(slots))
	for _, slot := range slots {
		if _, seen := firstPos[slot.Approver]; !seen {
			firstPos[slot.Approver] = slot.Position
		}
	}

	identities, err := s.client.SMembers(ctx, recordIDsKey(docID)).Result()
	if err != nil {
		return nil, fmt.Errorf("chainsign/redis: list record ids: %w", err)
	}

	records := make([]*approver.Record, 0, len(identities))
	for _, identity := range identities {
		rec, getErr := s.GetRecord(ctx, docID, chainsign.Identity(identity))
		if getErr != nil {
			return nil, getErr
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return firstPos[records[i].Approver] < firstPos[records[j].Approver]
	})
	return records, nil
}
