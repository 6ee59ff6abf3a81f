package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/approver"
	"github.com/numboxia/chainsign/document"
)

const documentColumns = `
	id, submitter, content_ref, name, category, current_index, status,
	submitted_at, decided_at, created_at, updated_at`

// scanDocument reads one document row.
func scanDocument(row pgx.Row) (*document.Document, error) {
	var doc document.Document
	err := row.Scan(
		&doc.ID, &doc.Submitter, &doc.ContentRef, &doc.Name, &doc.Category,
		&doc.CurrentIndex, &doc.Status,
		&doc.SubmittedAt, &doc.DecidedAt, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// NextDocumentID allocates the next sequential document ID from a
// database sequence. Sequence values are never reused, so two
// concurrent submissions can never receive the same ID.
func (s *Store) NextDocumentID(ctx context.Context) (uint64, error) {
	var id uint64
	err := s.pool.QueryRow(ctx,
		`SELECT nextval('chainsign_document_id_seq')`,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("chainsign/postgres: next document id: %w", err)
	}
	return id, nil
}

// CreateDocument persists a document with its signing order and pending
// records in one transaction.
func (s *Store) CreateDocument(ctx context.Context, doc *document.Document, slots []approver.Slot, records []*approver.Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("chainsign/postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx, `
		INSERT INTO chainsign_documents (
			id, submitter, content_ref, name, category, current_index, status,
			submitted_at, decided_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		doc.ID, doc.Submitter.String(), doc.ContentRef, doc.Name, doc.Category,
		doc.CurrentIndex, string(doc.Status),
		doc.SubmittedAt, doc.DecidedAt, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return chainsign.ErrConflict
		}
		return fmt.Errorf("chainsign/postgres: insert document: %w", err)
	}

	for _, slot := range slots {
		_, err = tx.Exec(ctx, `
			INSERT INTO chainsign_slots (document_id, position, approver)
			VALUES ($1, $2, $3)`,
			slot.DocumentID, slot.Position, slot.Approver.String(),
		)
		if err != nil {
			return fmt.Errorf("chainsign/postgres: insert slot %d: %w", slot.Position, err)
		}
	}

	for _, rec := range records {
		// Duplicate identities in the signing order share one record;
		// the later write wins.
		_, err = tx.Exec(ctx, `
			INSERT INTO chainsign_records (
				document_id, approver, decision, acted_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (document_id, approver) DO UPDATE SET
				decision = EXCLUDED.decision,
				acted_at = EXCLUDED.acted_at,
				updated_at = EXCLUDED.updated_at`,
			rec.DocumentID, rec.Approver.String(), string(rec.Decision),
			rec.ActedAt, rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("chainsign/postgres: insert record %q: %w", rec.Approver, err)
		}
	}

	return tx.Commit(ctx)
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, docID uint64) (*document.Document, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+documentColumns+` FROM chainsign_documents WHERE id = $1`,
		docID,
	)

	doc, err := scanDocument(row)
	if err != nil {
		if isNoRows(err) {
			return nil, chainsign.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("chainsign/postgres: get document: %w", err)
	}
	return doc, nil
}

// ApplyDecision persists an approver's decision and the resulting
// document state in one transaction.
func (s *Store) ApplyDecision(ctx context.Context, doc *document.Document, rec *approver.Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("chainsign/postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	tag, err := tx.Exec(ctx, `
		UPDATE chainsign_documents SET
			current_index = $2, status = $3, decided_at = $4, updated_at = $5
		WHERE id = $1`,
		doc.ID, doc.CurrentIndex, string(doc.Status), doc.DecidedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("chainsign/postgres: update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return chainsign.ErrDocumentNotFound
	}

	tag, err = tx.Exec(ctx, `
		UPDATE chainsign_records SET
			decision = $3, acted_at = $4, updated_at = $5
		WHERE document_id = $1 AND approver = $2`,
		rec.DocumentID, rec.Approver.String(),
		string(rec.Decision), rec.ActedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("chainsign/postgres: update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return chainsign.ErrRecordNotFound
	}

	return tx.Commit(ctx)
}

// ListDocuments returns documents matching the given options, ordered
// by ID ascending.
func (s *Store) ListDocuments(ctx context.Context, opts document.ListOpts) ([]*document.Document, error) {
	query := `SELECT` + documentColumns + ` FROM chainsign_documents WHERE 1=1`
	args := []any{}
	argIdx := 1

	if opts.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(opts.Status))
		argIdx++
	}
	if opts.Submitter != "" {
		query += fmt.Sprintf(" AND submitter = $%d", argIdx)
		args = append(args, opts.Submitter)
		argIdx++
	}

	query += " ORDER BY id ASC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("chainsign/postgres: list documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		doc, scanErr := scanDocument(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("chainsign/postgres: scan document: %w", scanErr)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// CountDocuments returns the number of documents with the given status.
func (s *Store) CountDocuments(ctx context.Context, status document.Status) (int64, error) {
	query := `SELECT COUNT(*) FROM chainsign_documents`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}

	var n int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("chainsign/postgres: count documents: %w", err)
	}
	return n, nil
}
