package entity

import "time"

// Well-known activity actions. Free-form strings are allowed; these cover
// the mutations the application records.
const (
	ActionUserCreated     = "user.created"
	ActionUserUpdated     = "user.updated"
	ActionUserDeleted     = "user.deleted"
	ActionLogin           = "auth.login"
	ActionLogout          = "auth.logout"
	ActionTokenRefreshed  = "auth.refreshed"
	ActionDocUploaded     = "document.uploaded"
	ActionDocIngested     = "document.ingested"
	ActionQueryAnswered   = "query.answered"
	ActionReportFiled     = "report.filed"
	ActionReportTriaged   = "report.triaged"
	ActionOverrideDecided = "override.decided"
)

// ActivityLog is an append-only audit record of who did what to which entity.
type ActivityLog struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]string
	CreatedAt  time.Time
}
