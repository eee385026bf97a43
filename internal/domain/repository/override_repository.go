package repository

import (
	"context"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
)

// OverrideRepository persistence port for clearance override requests.
type OverrideRepository interface {
	Create(ctx context.Context, req *entity.OverrideRequest) error
	GetByID(ctx context.Context, id string) (*entity.OverrideRequest, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.OverrideRequest, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.OverrideRequest, error)
	Update(ctx context.Context, req *entity.OverrideRequest) error

	// HasApproved reports whether the user holds an approved override for
	// the document.
	HasApproved(ctx context.Context, userID, documentID string) (bool, error)
}
