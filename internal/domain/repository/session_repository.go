package repository

import (
	"context"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
)

// SessionRepository persistence port for refresh sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.RefreshSession) error
	GetByID(ctx context.Context, jti string) (*entity.RefreshSession, error)
	Revoke(ctx context.Context, jti string) error

	// RevokeAllForUser revokes every live session of the user. Used on
	// logout-everywhere and on refresh-token replay detection.
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
