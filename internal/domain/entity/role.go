package entity

import "time"

// Role is a named permission bundle referenced by User.Role.
// The built-in roles (admin, analyst, viewer) always exist.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
