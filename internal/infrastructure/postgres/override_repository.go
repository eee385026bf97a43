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

var _ repository.OverrideRepository = (*OverrideRepo)(nil)

// OverrideRepo implements the OverrideRepository port over PostgreSQL.
type OverrideRepo struct {
	pool *pgxpool.Pool
}

// NewOverrideRepository builds the override request persistence adapter.
func NewOverrideRepository(pool *pgxpool.Pool) *OverrideRepo {
	return &OverrideRepo{pool: pool}
}

const overrideColumns = `id, user_id, document_id, reason, status, decided_by, decided_at, created_at`

// Create persists a new override request.
func (r *OverrideRepo) Create(ctx context.Context, req *entity.OverrideRequest) error {
	query := `INSERT INTO override_requests (` + overrideColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		req.ID, req.UserID, req.DocumentID, req.Reason, req.Status,
		nullIfEmpty(req.DecidedBy), req.DecidedAt, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert override request: %w", err)
	}
	return nil
}

// GetByID fetches an override request by ID. Returns (nil, nil) when absent.
func (r *OverrideRepo) GetByID(ctx context.Context, id string) (*entity.OverrideRequest, error) {
	var req entity.OverrideRequest
	var decidedBy *string
	err := r.pool.QueryRow(ctx, `SELECT `+overrideColumns+` FROM override_requests WHERE id = $1`, id).Scan(
		&req.ID, &req.UserID, &req.DocumentID, &req.Reason, &req.Status,
		&decidedBy, &req.DecidedAt, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get override request: %w", err)
	}
	if decidedBy != nil {
		req.DecidedBy = *decidedBy
	}
	return &req, nil
}

// ListByUser lists a user's own requests, newest first.
func (r *OverrideRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.OverrideRequest, error) {
	query := `SELECT ` + overrideColumns + ` FROM override_requests
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, userID, limit, offset)
}

// ListByStatus lists requests by status; empty status means all.
func (r *OverrideRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.OverrideRequest, error) {
	if status == "" {
		rows, err := r.pool.Query(ctx,
			`SELECT `+overrideColumns+` FROM override_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			limit, offset)
		if err != nil {
			return nil, fmt.Errorf("list override requests: %w", err)
		}
		defer rows.Close()
		return scanOverrides(rows)
	}
	query := `SELECT ` + overrideColumns + ` FROM override_requests
		WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, status, limit, offset)
}

func (r *OverrideRepo) list(ctx context.Context, query string, arg any, limit, offset int) ([]*entity.OverrideRequest, error) {
	rows, err := r.pool.Query(ctx, query, arg, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list override requests: %w", err)
	}
	defer rows.Close()
	return scanOverrides(rows)
}

func scanOverrides(rows pgx.Rows) ([]*entity.OverrideRequest, error) {
	var list []*entity.OverrideRequest
	for rows.Next() {
		var req entity.OverrideRequest
		var decidedBy *string
		if err := rows.Scan(
			&req.ID, &req.UserID, &req.DocumentID, &req.Reason, &req.Status,
			&decidedBy, &req.DecidedAt, &req.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan override request: %w", err)
		}
		if decidedBy != nil {
			req.DecidedBy = *decidedBy
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}

// Update persists a decision on a request.
func (r *OverrideRepo) Update(ctx context.Context, req *entity.OverrideRequest) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE override_requests SET status = $2, decided_by = $3, decided_at = $4 WHERE id = $1`,
		req.ID, req.Status, nullIfEmpty(req.DecidedBy), req.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("update override request: %w", err)
	}
	return nil
}

// HasApproved reports whether the user holds an approved override for the
// document.
func (r *OverrideRepo) HasApproved(ctx context.Context, userID, documentID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM override_requests
			WHERE user_id = $1 AND document_id = $2 AND status = 'approved')`,
		userID, documentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check approved override: %w", err)
	}
	return exists, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
