package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implements the DocumentRepository port over PostgreSQL.
type DocumentRepo struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository builds the document persistence adapter.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

const docColumns = `id, owner_id, title, filename, content, clearance, status, fail_msg, created_at, updated_at`

// Create persists a new document.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (` + docColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, query,
		doc.ID, doc.OwnerID, doc.Title, doc.Filename, doc.Content,
		doc.Clearance, doc.Status, doc.FailMsg, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID fetches a document by ID, including content. Returns (nil, nil)
// when absent.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	var d entity.Document
	err := r.pool.QueryRow(ctx, `SELECT `+docColumns+` FROM documents WHERE id = $1`, id).Scan(
		&d.ID, &d.OwnerID, &d.Title, &d.Filename, &d.Content,
		&d.Clearance, &d.Status, &d.FailMsg, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

// ListByOwner lists a user's documents, newest first. Content is omitted to
// keep listings cheap.
func (r *DocumentRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Document, error) {
	query := `
		SELECT id, owner_id, title, filename, clearance, status, fail_msg, created_at, updated_at
		FROM documents WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		var d entity.Document
		if err := rows.Scan(
			&d.ID, &d.OwnerID, &d.Title, &d.Filename,
			&d.Clearance, &d.Status, &d.FailMsg, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// CountByOwner returns how many documents the user owns.
func (r *DocumentRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE owner_id = $1`, ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// UpdateStatus moves a document through the ingestion lifecycle.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id, status, failMsg string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE documents SET status = $2, fail_msg = $3, updated_at = now() WHERE id = $1`,
		id, status, failMsg,
	)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return nil
}

// Delete removes a document. Chunks go with it via ON DELETE CASCADE.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
