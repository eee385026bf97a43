package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo implements the ActivityLogRepository port over PostgreSQL.
// Metadata is stored as JSONB.
type ActivityLogRepo struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository builds the audit trail persistence adapter.
func NewActivityLogRepository(pool *pgxpool.Pool) *ActivityLogRepo {
	return &ActivityLogRepo{pool: pool}
}

// Append writes one audit entry.
func (r *ActivityLogRepo) Append(ctx context.Context, log *entity.ActivityLog) error {
	meta, err := json.Marshal(log.Metadata)
	if err != nil {
		return fmt.Errorf("marshal activity metadata: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO activity_logs (id, actor_id, action, entity_type, entity_id, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.ID, log.ActorID, log.Action, log.EntityType, log.EntityID, meta, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List returns audit entries matching the filter, newest first.
func (r *ActivityLogRepo) List(ctx context.Context, filter repository.ActivityFilter, limit, offset int) ([]*entity.ActivityLog, error) {
	query := `
		SELECT id, actor_id, action, entity_type, entity_id, metadata, created_at
		FROM activity_logs
		WHERE ($1 = '' OR actor_id = $1)
		  AND ($2 = '' OR entity_type = $2)
		  AND ($3 = '' OR action = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.pool.Query(ctx, query, filter.ActorID, filter.EntityType, filter.Action, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityLog
	for rows.Next() {
		var l entity.ActivityLog
		var meta []byte
		if err := rows.Scan(&l.ID, &l.ActorID, &l.Action, &l.EntityType, &l.EntityID, &meta, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &l.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal activity metadata: %w", err)
			}
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
