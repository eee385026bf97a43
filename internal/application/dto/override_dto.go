package dto

import "time"

// CreateOverrideRequest input for POST /v1/overrides.
type CreateOverrideRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
	Reason     string `json:"reason" validate:"required,max=2000"`
}

// DecideOverrideRequest admin input for deciding a pending request.
type DecideOverrideRequest struct {
	Approve bool `json:"approve"`
}

// OverrideResponse a single override request.
type OverrideResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	DocumentID string     `json:"document_id"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	DecidedBy  string     `json:"decided_by,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// OverrideListResponse paginated override listing.
type OverrideListResponse struct {
	Requests []OverrideResponse `json:"requests"`
	Page     PageResponse       `json:"page"`
}
