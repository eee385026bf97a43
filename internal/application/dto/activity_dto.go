package dto

import "time"

// ActivityResponse one audit trail entry.
type ActivityResponse struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actor_id"`
	Action     string            `json:"action"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ActivityListResponse paginated activity listing.
type ActivityListResponse struct {
	Entries []ActivityResponse `json:"entries"`
	Page    PageResponse       `json:"page"`
}
