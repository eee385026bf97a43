package entity

import "time"

// Override request statuses.
const (
	OverridePending  = "pending"
	OverrideApproved = "approved"
	OverrideDenied   = "denied"
)

// OverrideRequest asks for access to a document above the requester's
// clearance. Only admins decide; an approved request grants that one user
// access to that one document.
type OverrideRequest struct {
	ID         string
	UserID     string
	DocumentID string
	Reason     string
	Status     string // pending, approved, denied
	DecidedBy  string // admin user ID, empty while pending
	DecidedAt  *time.Time
	CreatedAt  time.Time
}
