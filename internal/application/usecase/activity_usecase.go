package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/ports"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
	"github.com/nurudeen19/rag-fortress/pkg/logger"
)

const recordTimeout = 5 * time.Second

// ActivityRecorder appends audit entries off the request path. A failed
// append is logged and dropped; audit writes never fail user requests.
type ActivityRecorder struct {
	logs repository.ActivityLogRepository
	log  *logger.Logger
}

// NewActivityRecorder builds the recorder.
func NewActivityRecorder(logs repository.ActivityLogRepository, log *logger.Logger) *ActivityRecorder {
	return &ActivityRecorder{logs: logs, log: log}
}

var _ ports.AuditRecorder = (*ActivityRecorder)(nil)

// Record appends an entry asynchronously. It is detached from the request
// context so the write survives the response being sent.
func (r *ActivityRecorder) Record(actorID, action, entityType, entityID string, metadata map[string]string) {
	entry := &entity.ActivityLog{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := r.logs.Append(ctx, entry); err != nil {
			r.log.Error().Err(err).
				Str("action", action).
				Str("actor_id", actorID).
				Msg("activity append failed")
		}
	}()
}

// ActivityUseCase read side of the audit trail.
type ActivityUseCase struct {
	logs repository.ActivityLogRepository
}

// NewActivityUseCase builds the use case.
func NewActivityUseCase(logs repository.ActivityLogRepository) *ActivityUseCase {
	return &ActivityUseCase{logs: logs}
}

// List returns audit entries matching the filter, newest first.
func (uc *ActivityUseCase) List(ctx context.Context, filter repository.ActivityFilter, page dto.PageRequest) (*dto.ActivityListResponse, error) {
	page.DefaultPage()
	entries, err := uc.logs.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ActivityResponse{
			ID:         e.ID,
			ActorID:    e.ActorID,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Metadata:   e.Metadata,
			CreatedAt:  e.CreatedAt,
		})
	}
	return &dto.ActivityListResponse{
		Entries: out,
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
