package repository

import (
	"context"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
)

// ErrorReportRepository persistence port for error reports.
type ErrorReportRepository interface {
	Create(ctx context.Context, report *entity.ErrorReport) error
	GetByID(ctx context.Context, id string) (*entity.ErrorReport, error)
	ListByReporter(ctx context.Context, reporterID string, limit, offset int) ([]*entity.ErrorReport, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.ErrorReport, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
