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

var _ repository.ErrorReportRepository = (*ErrorReportRepo)(nil)

// ErrorReportRepo implements the ErrorReportRepository port over PostgreSQL.
type ErrorReportRepo struct {
	pool *pgxpool.Pool
}

// NewErrorReportRepository builds the error report persistence adapter.
func NewErrorReportRepository(pool *pgxpool.Pool) *ErrorReportRepo {
	return &ErrorReportRepo{pool: pool}
}

const reportColumns = `id, reporter_id, message, context, status, created_at, updated_at`

// Create persists a new report.
func (r *ErrorReportRepo) Create(ctx context.Context, report *entity.ErrorReport) error {
	query := `INSERT INTO error_reports (` + reportColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		report.ID, report.ReporterID, report.Message, report.Context,
		report.Status, report.CreatedAt, report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert error report: %w", err)
	}
	return nil
}

// GetByID fetches a report by ID. Returns (nil, nil) when absent.
func (r *ErrorReportRepo) GetByID(ctx context.Context, id string) (*entity.ErrorReport, error) {
	var rep entity.ErrorReport
	err := r.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM error_reports WHERE id = $1`, id).Scan(
		&rep.ID, &rep.ReporterID, &rep.Message, &rep.Context,
		&rep.Status, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get error report: %w", err)
	}
	return &rep, nil
}

// ListByReporter lists a user's own reports, newest first.
func (r *ErrorReportRepo) ListByReporter(ctx context.Context, reporterID string, limit, offset int) ([]*entity.ErrorReport, error) {
	query := `SELECT ` + reportColumns + ` FROM error_reports
		WHERE reporter_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, reporterID, limit, offset)
}

// ListByStatus lists reports by triage status; empty status means all.
func (r *ErrorReportRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.ErrorReport, error) {
	if status == "" {
		query := `SELECT ` + reportColumns + ` FROM error_reports
			ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		rows, err := r.pool.Query(ctx, query, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("list error reports: %w", err)
		}
		defer rows.Close()
		return scanReports(rows)
	}
	query := `SELECT ` + reportColumns + ` FROM error_reports
		WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, status, limit, offset)
}

func (r *ErrorReportRepo) list(ctx context.Context, query string, arg any, limit, offset int) ([]*entity.ErrorReport, error) {
	rows, err := r.pool.Query(ctx, query, arg, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list error reports: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

func scanReports(rows pgx.Rows) ([]*entity.ErrorReport, error) {
	var list []*entity.ErrorReport
	for rows.Next() {
		var rep entity.ErrorReport
		if err := rows.Scan(
			&rep.ID, &rep.ReporterID, &rep.Message, &rep.Context,
			&rep.Status, &rep.CreatedAt, &rep.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error report: %w", err)
		}
		list = append(list, &rep)
	}
	return list, rows.Err()
}

// UpdateStatus moves a report through triage.
func (r *ErrorReportRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE error_reports SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update error report status: %w", err)
	}
	return nil
}
