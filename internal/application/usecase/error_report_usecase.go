package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
)

// ErrorReportUseCase user-filed problem reports and admin triage. Reports
// move forward only: open -> triaged -> resolved.
type ErrorReportUseCase struct {
	reports  repository.ErrorReportRepository
	recorder *ActivityRecorder
}

// NewErrorReportUseCase builds the use case.
func NewErrorReportUseCase(reports repository.ErrorReportRepository, recorder *ActivityRecorder) *ErrorReportUseCase {
	return &ErrorReportUseCase{reports: reports, recorder: recorder}
}

// Create files a report as open.
func (uc *ErrorReportUseCase) Create(ctx context.Context, reporterID string, in dto.CreateErrorReportRequest) (*dto.ErrorReportResponse, error) {
	if in.Message == "" {
		return nil, fmt.Errorf("message required: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	report := &entity.ErrorReport{
		ID:         uuid.New().String(),
		ReporterID: reporterID,
		Message:    in.Message,
		Context:    in.Context,
		Status:     entity.ReportOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	uc.recorder.Record(reporterID, entity.ActionReportFiled, "error_report", report.ID, nil)
	return toErrorReportResponse(report), nil
}

// ListMine returns the caller's own reports.
func (uc *ErrorReportUseCase) ListMine(ctx context.Context, reporterID string, page dto.PageRequest) (*dto.ErrorReportListResponse, error) {
	page.DefaultPage()
	reports, err := uc.reports.ListByReporter(ctx, reporterID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toErrorReportList(reports, page), nil
}

// ListByStatus admin view over all reports in one status.
func (uc *ErrorReportUseCase) ListByStatus(ctx context.Context, status string, page dto.PageRequest) (*dto.ErrorReportListResponse, error) {
	if status == "" {
		status = entity.ReportOpen
	}
	page.DefaultPage()
	reports, err := uc.reports.ListByStatus(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toErrorReportList(reports, page), nil
}

// UpdateStatus advances a report. Backward transitions are rejected with
// domain.ErrConflict.
func (uc *ErrorReportUseCase) UpdateStatus(ctx context.Context, actorID, id string, in dto.UpdateErrorReportRequest) (*dto.ErrorReportResponse, error) {
	report, err := uc.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, domain.ErrNotFound
	}
	if !report.CanTransition(in.Status) {
		return nil, fmt.Errorf("cannot move report from %s to %s: %w", report.Status, in.Status, domain.ErrConflict)
	}
	if err := uc.reports.UpdateStatus(ctx, id, in.Status); err != nil {
		return nil, err
	}
	report.Status = in.Status
	report.UpdatedAt = time.Now()
	uc.recorder.Record(actorID, entity.ActionReportTriaged, "error_report", id, map[string]string{
		"status": in.Status,
	})
	return toErrorReportResponse(report), nil
}

func toErrorReportResponse(r *entity.ErrorReport) *dto.ErrorReportResponse {
	return &dto.ErrorReportResponse{
		ID:         r.ID,
		ReporterID: r.ReporterID,
		Message:    r.Message,
		Context:    r.Context,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toErrorReportList(reports []*entity.ErrorReport, page dto.PageRequest) *dto.ErrorReportListResponse {
	out := make([]dto.ErrorReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, *toErrorReportResponse(r))
	}
	return &dto.ErrorReportListResponse{
		Reports: out,
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}
