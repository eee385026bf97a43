package entity

import "time"

// Department groups users and caps their security clearance: a user's
// clearance can never exceed their department's.
type Department struct {
	ID        string
	Name      string
	Clearance int // 1..5
	CreatedAt time.Time
	UpdatedAt time.Time
}
