package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implements the SessionRepository port over PostgreSQL.
type SessionRepo struct {
	pool *pgxpool.Pool
}

// NewSessionRepository builds the refresh session persistence adapter.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// Create persists a new refresh session.
func (r *SessionRepo) Create(ctx context.Context, session *entity.RefreshSession) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_sessions (id, user_id, revoked, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.UserID, session.Revoked, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refresh session: %w", err)
	}
	return nil
}

// GetByID fetches a session by JTI. Returns (nil, nil) when absent.
func (r *SessionRepo) GetByID(ctx context.Context, jti string) (*entity.RefreshSession, error) {
	var s entity.RefreshSession
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, revoked, expires_at, created_at FROM refresh_sessions WHERE id = $1`, jti,
	).Scan(&s.ID, &s.UserID, &s.Revoked, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refresh session: %w", err)
	}
	return &s, nil
}

// Revoke marks one session revoked.
func (r *SessionRepo) Revoke(ctx context.Context, jti string) error {
	_, err := r.pool.Exec(ctx, `UPDATE refresh_sessions SET revoked = true WHERE id = $1`, jti)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

// RevokeAllForUser marks every live session of the user revoked.
func (r *SessionRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_sessions SET revoked = true WHERE user_id = $1 AND NOT revoked`, userID)
	if err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

// DeleteExpired prunes sessions past their expiry. Returns rows removed.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
