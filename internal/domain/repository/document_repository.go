package repository

import (
	"context"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
)

// DocumentRepository persistence port for documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Document, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	UpdateStatus(ctx context.Context, id, status, failMsg string) error
	Delete(ctx context.Context, id string) error
}
