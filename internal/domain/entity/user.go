package entity

import "time"

// Valid roles for User.
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleViewer  = "viewer"
)

// Valid account statuses for User.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusSuspended  = "suspended"
	StatusUnverified = "unverified"
)

// Clearance bounds. Every user and department carries one security
// clearance level; documents above a user's level are not served.
const (
	ClearanceMin = 1
	ClearanceMax = 5
)

// User is an account in the system. Username and email are unique.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, never plaintext past the auth use case
	FullName     string
	Role         string // admin, analyst, viewer
	DepartmentID string
	Clearance    int    // 1..5, capped by the department's clearance
	Status       string // active, inactive, suspended, unverified
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole reports whether s is a known role.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleAnalyst || s == RoleViewer
}

// ValidStatus reports whether s is a known account status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusUnverified:
		return true
	}
	return false
}

// ValidClearance reports whether level is inside the allowed range.
func ValidClearance(level int) bool {
	return level >= ClearanceMin && level <= ClearanceMax
}
