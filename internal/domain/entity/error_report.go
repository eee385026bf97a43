package entity

import "time"

// Error report triage statuses.
const (
	ReportOpen     = "open"
	ReportTriaged  = "triaged"
	ReportResolved = "resolved"
)

// ErrorReport is a user-filed problem report, triaged by admins.
type ErrorReport struct {
	ID         string
	ReporterID string
	Message    string
	Context    string // free-form: page, query, document involved
	Status     string // open, triaged, resolved
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanTransition reports whether a status change is allowed. Reports only
// move forward: open -> triaged -> resolved.
func (r ErrorReport) CanTransition(next string) bool {
	switch r.Status {
	case ReportOpen:
		return next == ReportTriaged || next == ReportResolved
	case ReportTriaged:
		return next == ReportResolved
	}
	return false
}
