package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/approver"
	"github.com/numboxia/chainsign/document"
)

// documentToMap flattens a document into Redis hash fields.
func documentToMap(doc *document.Document) map[string]any {
	fields := map[string]any{
		"id":            strconv.FormatUint(doc.ID, 10),
		"submitter":     doc.Submitter.String(),
		"content_ref":   doc.ContentRef,
		"name":          doc.Name,
		"category":      doc.Category,
		"current_index": strconv.Itoa(doc.CurrentIndex),
		"status":        string(doc.Status),
		"submitted_at":  doc.SubmittedAt.Format(time.RFC3339Nano),
		"created_at":    doc.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":    doc.UpdatedAt.Format(time.RFC3339Nano),
	}
	if doc.DecidedAt != nil {
		fields["decided_at"] = doc.DecidedAt.Format(time.RFC3339Nano)
	}
	return fields
}

// mapToDocument rebuilds a document from Redis hash fields.
func mapToDocument(fields map[string]string) (*document.Document, error) {
	id, err := strconv.ParseUint(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	currentIndex, err := strconv.Atoi(fields["current_index"])
	if err != nil {
		return nil, fmt.Errorf("parse current_index: %w", err)
	}

	doc := &document.Document{
		ID:           id,
		Submitter:    chainsign.Identity(fields["submitter"]),
		ContentRef:   fields["content_ref"],
		Name:         fields["name"],
		Category:     fields["category"],
		CurrentIndex: currentIndex,
		Status:       document.Status(fields["status"]),
	}

	for name, dst := range map[string]*time.Time{
		"submitted_at": &doc.SubmittedAt,
		"created_at":   &doc.CreatedAt,
		"updated_at":   &doc.UpdatedAt,
	} {
		t, parseErr := time.Parse(time.RFC3339Nano, fields[name])
		if parseErr != nil {
			return nil, fmt.Errorf("parse %s: %w", name, parseErr)
		}
		*dst = t
	}
	if raw, ok := fields["decided_at"]; ok && raw != "" {
		t, parseErr := time.Parse(time.RFC3339Nano, raw)
		if parseErr != nil {
			return nil, fmt.Errorf("parse decided_at: %w", parseErr)
		}
		doc.DecidedAt = &t
	}
	return doc, nil
}

// NextDocumentID allocates the next sequential document ID via INCR.
// INCR is atomic, so two concurrent submissions can never receive the
// same ID.
func (s *Store) NextDocumentID(ctx context.Context) (uint64, error) {
	n, err := s.client.Incr(ctx, documentSeqKey).Result()
	if err != nil {
		return 0, fmt.Errorf("chainsign/redis: next document id: %w", err)
	}
	return uint64(n), nil
}

// CreateDocument persists a document with its signing order and pending
// records in one transactional pipeline.
func (s *Store) CreateDocument(ctx context.Context, doc *document.Document, slots []approver.Slot, records []*approver.Record) error {
	key := documentKey(doc.ID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("chainsign/redis: create check exists: %w", err)
	}
	if exists > 0 {
		return chainsign.ErrConflict
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, documentToMap(doc))
	pipe.ZAdd(ctx, documentIDsKey, goredis.Z{Score: float64(doc.ID), Member: strconv.FormatUint(doc.ID, 10)})

	if len(slots) > 0 {
		slotFields := make(map[string]any, len(slots))
		for _, slot := range slots {
			slotFields[strconv.Itoa(slot.Position)] = slot.Approver.String()
		}
		pipe.HSet(ctx, slotsKey(doc.ID), slotFields)
	}

	for _, rec := range records {
		identity := rec.Approver.String()
		pipe.HSet(ctx, recordKey(doc.ID, identity), recordToMap(rec))
		pipe.SAdd(ctx, recordIDsKey(doc.ID), identity)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("chainsign/redis: create document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, docID uint64) (*document.Document, error) {
	fields, err := s.client.HGetAll(ctx, documentKey(docID)).Result()
	if err != nil {
		return nil, fmt.Errorf("chainsign/redis: get document: %w", err)
	}
	if len(fields) == 0 {
		return nil, chainsign.ErrDocumentNotFound
	}
	doc, err := mapToDocument(fields)
	if err != nil {
		return nil, fmt.Errorf("chainsign/redis: get document: %w", err)
	}
	return doc, nil
}

// ApplyDecision persists an approver's decision and the resulting
// document state in one transactional pipeline.
func (s *Store) ApplyDecision(ctx context.Context, doc *document.Document, rec *approver.Record) error {
	docKey := documentKey(doc.ID)

	exists, err := s.client.Exists(ctx, docKey).Result()
	if err != nil {
		return fmt.Errorf("chainsign/redis: apply decision exists: %w", err)
	}
	if exists == 0 {
		return chainsign.ErrDocumentNotFound
	}

	recKey := recordKey(rec.DocumentID, rec.Approver.String())
	exists, err = s.client.Exists(ctx, recKey).Result()
	if err != nil {
		return fmt.Errorf("chainsign/redis: apply decision record exists: %w", err)
	}
	if exists == 0 {
		return chainsign.ErrRecordNotFound
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, docKey, documentToMap(doc))
	pipe.HSet(ctx, recKey, recordToMap(rec))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("chainsign/redis: apply decision: %w", err)
	}
	return nil
}

// ListDocuments returns documents matching the given options, ordered
// by ID ascending. Filtering happens client-side after an ordered scan
// of the document index.
func (s *Store) ListDocuments(ctx context.Context, opts document.ListOpts) ([]*document.Document, error) {
	ids, err := s.client.ZRange(ctx, documentIDsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("chainsign/redis: list document ids: %w", err)
	}

	var (
		docs    []*document.Document
		skipped int
	)
	for _, rawID := range ids {
		docID, parseErr := strconv.ParseUint(rawID, 10, 64)
		if parseErr != nil {
			continue
		}
		doc, getErr := s.GetDocument(ctx, docID)
		if getErr != nil {
			return nil, getErr
		}

		if opts.Status != "" && doc.Status != opts.Status {
			continue
		}
		if opts.Submitter != "" && doc.Submitter.String() != opts.Submitter {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}

		docs = append(docs, doc)
		if opts.Limit > 0 && len(docs) >= opts.Limit {
			break
		}
	}
	return docs, nil
}

// CountDocuments returns the number of documents with the given status.
func (s *Store) CountDocuments(ctx context.Context, status document.Status) (int64, error) {
	if status == "" {
		n, err := s.client.ZCard(ctx, documentIDsKey).Result()
		if err != nil {
			return 0, fmt.Errorf("chainsign/redis: count documents: %w", err)
		}
		return n, nil
	}

	docs, err := s.ListDocuments(ctx, document.ListOpts{Status: status})
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}
