package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/approver"
	"github.com/numboxia/chainsign/document"
)

const documentColumns = `
	id, submitter, content_ref, name, category, current_index, status,
	submitted_at, decided_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*document.Document, error) {
	var (
		doc       document.Document
		submitter string
		status    string
		decidedAt sql.NullTime
	)
	err := row.Scan(
		&doc.ID, &submitter, &doc.ContentRef, &doc.Name, &doc.Category,
		&doc.CurrentIndex, &status,
		&doc.SubmittedAt, &decidedAt, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Submitter = chainsign.Identity(submitter)
	doc.Status = document.Status(status)
	if decidedAt.Valid {
		t := decidedAt.Time
		doc.DecidedAt = &t
	}
	return &doc, nil
}

// NextDocumentID allocates the next sequential document ID from the
// counter row. The upsert-and-return runs as one statement, so two
// concurrent submissions can never receive the same ID.
func (s *Store) NextDocumentID(ctx context.Context) (uint64, error) {
	var id uint64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chainsign_sequences (name, value) VALUES ('document', 1)
		ON CONFLICT(name) DO UPDATE SET value = value + 1
		RETURNING value`,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("chainsign/sqlite: next document id: %w", err)
	}
	return id, nil
}

// CreateDocument persists a document with its signing order and pending
// records in one transaction.
func (s *Store) CreateDocument(ctx context.Context, doc *document.Document, slots []approver.Slot, records []*approver.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("chainsign/sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chainsign_documents (
			id, submitter, content_ref, name, category, current_index, status,
			submitted_at, decided_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Submitter.String(), doc.ContentRef, doc.Name, doc.Category,
		doc.CurrentIndex, string(doc.Status),
		doc.SubmittedAt, doc.DecidedAt, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("chainsign/sqlite: insert document: %w", err)
	}

	for _, slot := range slots {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO chainsign_slots (document_id, position, approver)
			VALUES (?, ?, ?)`,
			slot.DocumentID, slot.Position, slot.Approver.String(),
		)
		if err != nil {
			return fmt.Errorf("chainsign/sqlite: insert slot %d: %w", slot.Position, err)
		}
	}

	for _, rec := range records {
		// Duplicate identities share one record; the later write wins.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO chainsign_records (
				document_id, approver, decision, acted_at, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(document_id, approver) DO UPDATE SET
				decision = excluded.decision,
				acted_at = excluded.acted_at,
				updated_at = excluded.updated_at`,
			rec.DocumentID, rec.Approver.String(), string(rec.Decision),
			rec.ActedAt, rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("chainsign/sqlite: insert record %q: %w", rec.Approver, err)
		}
	}

	return tx.Commit()
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, docID uint64) (*document.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+documentColumns+` FROM chainsign_documents WHERE id = ?`,
		docID,
	)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, chainsign.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("chainsign/sqlite: get document: %w", err)
	}
	return doc, nil
}

// ApplyDecision persists an approver's decision and the resulting
// document state in one transaction.
func (s *Store) ApplyDecision(ctx context.Context, doc *document.Document, rec *approver.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("chainsign/sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx, `
		UPDATE chainsign_documents SET
			current_index = ?, status = ?, decided_at = ?, updated_at = ?
		WHERE id = ?`,
		doc.CurrentIndex, string(doc.Status), doc.DecidedAt, doc.UpdatedAt, doc.ID,
	)
	if err != nil {
		return fmt.Errorf("chainsign/sqlite: update document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return chainsign.ErrDocumentNotFound
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE chainsign_records SET
			decision = ?, acted_at = ?, updated_at = ?
		WHERE document_id = ? AND approver = ?`,
		string(rec.Decision), rec.ActedAt, rec.UpdatedAt,
		rec.DocumentID, rec.Approver.String(),
	)
	if err != nil {
		return fmt.Errorf("chainsign/sqlite: update record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return chainsign.ErrRecordNotFound
	}

	return tx.Commit()
}

// ListDocuments returns documents matching the given options, ordered
// by ID ascending.
func (s *Store) ListDocuments(ctx context.Context, opts document.ListOpts) ([]*document.Document, error) {
	query := `SELECT` + documentColumns + ` FROM chainsign_documents WHERE 1=1`
	args := []any{}

	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	if opts.Submitter != "" {
		query += ` AND submitter = ?`
		args = append(args, opts.Submitter)
	}

	query += ` ORDER BY id ASC`

	// SQLite requires LIMIT when OFFSET is present.
	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			limit = -1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("chainsign/sqlite: list documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		doc, scanErr := scanDocument(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("chainsign/sqlite: scan document: %w", scanErr)
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
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("chainsign/sqlite: count documents: %w", err)
	}
	return n, nil
}
