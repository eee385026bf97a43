package dto

import "time"

// CreateErrorReportRequest input for POST /error-reports.
type CreateErrorReportRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
	Context string `json:"context" validate:"omitempty,max=4000"`
}

// UpdateErrorReportRequest admin input for triaging a report.
type UpdateErrorReportRequest struct {
	Status string `json:"status" validate:"required,oneof=triaged resolved"`
}

// ErrorReportResponse a single report.
type ErrorReportResponse struct {
	ID         string    `json:"id"`
	ReporterID string    `json:"reporter_id"`
	Message    string    `json:"message"`
	Context    string    `json:"context,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ErrorReportListResponse paginated report listing.
type ErrorReportListResponse struct {
	Reports []ErrorReportResponse `json:"reports"`
	Page    PageResponse          `json:"page"`
}
