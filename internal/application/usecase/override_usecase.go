package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
)

// OverrideUseCase clearance override requests: a user asks for access to a
// document above their clearance, an admin approves or denies.
type OverrideUseCase struct {
	overrides repository.OverrideRepository
	documents repository.DocumentRepository
	recorder  *ActivityRecorder
}

// NewOverrideUseCase builds the use case.
func NewOverrideUseCase(
	overrides repository.OverrideRepository,
	documents repository.DocumentRepository,
	recorder *ActivityRecorder,
) *OverrideUseCase {
	return &OverrideUseCase{overrides: overrides, documents: documents, recorder: recorder}
}

// Create files a pending request. The document must exist and be above the
// requester's clearance; asking for something already readable is a no-op
// rejected with ErrConflict.
func (uc *OverrideUseCase) Create(ctx context.Context, userID string, userClearance int, in dto.CreateOverrideRequest) (*dto.OverrideResponse, error) {
	if in.Reason == "" {
		return nil, fmt.Errorf("reason required: %w", domain.ErrInvalidInput)
	}
	doc, err := uc.documents.GetByID(ctx, in.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", in.DocumentID, domain.ErrNotFound)
	}
	if doc.Clearance <= userClearance {
		return nil, fmt.Errorf("document already within clearance: %w", domain.ErrConflict)
	}
	if approved, err := uc.overrides.HasApproved(ctx, userID, in.DocumentID); err != nil {
		return nil, err
	} else if approved {
		return nil, fmt.Errorf("override already granted: %w", domain.ErrConflict)
	}

	req := &entity.OverrideRequest{
		ID:         uuid.New().String(),
		UserID:     userID,
		DocumentID: in.DocumentID,
		Reason:     in.Reason,
		Status:     entity.OverridePending,
		CreatedAt:  time.Now(),
	}
	if err := uc.overrides.Create(ctx, req); err != nil {
		return nil, err
	}
	return toOverrideResponse(req), nil
}

// ListMine returns the caller's own requests.
func (uc *OverrideUseCase) ListMine(ctx context.Context, userID string, page dto.PageRequest) (*dto.OverrideListResponse, error) {
	page.DefaultPage()
	reqs, err := uc.overrides.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toOverrideList(reqs, page), nil
}

// ListByStatus admin view, defaulting to pending.
func (uc *OverrideUseCase) ListByStatus(ctx context.Context, status string, page dto.PageRequest) (*dto.OverrideListResponse, error) {
	if status == "" {
		status = entity.OverridePending
	}
	page.DefaultPage()
	reqs, err := uc.overrides.ListByStatus(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toOverrideList(reqs, page), nil
}

// Decide approves or denies a pending request. Decided requests are final.
func (uc *OverrideUseCase) Decide(ctx context.Context, adminID, id string, in dto.DecideOverrideRequest) (*dto.OverrideResponse, error) {
	req, err := uc.overrides.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.OverridePending {
		return nil, fmt.Errorf("request already %s: %w", req.Status, domain.ErrConflict)
	}

	now := time.Now()
	if in.Approve {
		req.Status = entity.OverrideApproved
	} else {
		req.Status = entity.OverrideDenied
	}
	req.DecidedBy = adminID
	req.DecidedAt = &now
	if err := uc.overrides.Update(ctx, req); err != nil {
		return nil, err
	}

	uc.recorder.Record(adminID, entity.ActionOverrideDecided, "override_request", req.ID, map[string]string{
		"status":      req.Status,
		"user_id":     req.UserID,
		"document_id": req.DocumentID,
	})
	return toOverrideResponse(req), nil
}

func toOverrideResponse(r *entity.OverrideRequest) *dto.OverrideResponse {
	return &dto.OverrideResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		DocumentID: r.DocumentID,
		Reason:     r.Reason,
		Status:     r.Status,
		DecidedBy:  r.DecidedBy,
		DecidedAt:  r.DecidedAt,
		CreatedAt:  r.CreatedAt,
	}
}

func toOverrideList(reqs []*entity.OverrideRequest, page dto.PageRequest) *dto.OverrideListResponse {
	out := make([]dto.OverrideResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, *toOverrideResponse(r))
	}
	return &dto.OverrideListResponse{
		Requests: out,
		Page:     dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}
