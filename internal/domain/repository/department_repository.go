package repository

import (
	"context"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
)

// DepartmentRepository persistence port for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, dep *entity.Department) error
	GetByID(ctx context.Context, id string) (*entity.Department, error)
	List(ctx context.Context) ([]*entity.Department, error)
	Update(ctx context.Context, dep *entity.Department) error
}
