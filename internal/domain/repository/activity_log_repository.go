package repository

import (
	"context"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
)

// ActivityFilter narrows activity listings. Zero values mean "any".
type ActivityFilter struct {
	ActorID    string
	EntityType string
	Action     string
}

// ActivityLogRepository append-only persistence port for the audit trail.
type ActivityLogRepository interface {
	Append(ctx context.Context, log *entity.ActivityLog) error
	List(ctx context.Context, filter ActivityFilter, limit, offset int) ([]*entity.ActivityLog, error)
}
