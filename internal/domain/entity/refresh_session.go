package entity

import "time"

// RefreshSession tracks one refresh-token JTI. Refresh rotates the session:
// the old row is revoked and a new one created. Presenting an already
// revoked token is treated as replay and revokes the user's whole family.
type RefreshSession struct {
	ID        string // the token's JTI
	UserID    string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
