package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/ports"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
	"github.com/nurudeen19/rag-fortress/pkg/logger"
)

// DocumentUseCase upload and read access for documents. Reads are
// clearance-gated; an approved override opens a single document to a single
// user regardless of clearance.
type DocumentUseCase struct {
	documents repository.DocumentRepository
	overrides repository.OverrideRepository
	ingestor  ports.Ingestor
	recorder  *ActivityRecorder
	log       *logger.Logger
}

// NewDocumentUseCase builds the use case.
func NewDocumentUseCase(
	documents repository.DocumentRepository,
	overrides repository.OverrideRepository,
	ingestor ports.Ingestor,
	recorder *ActivityRecorder,
	log *logger.Logger,
) *DocumentUseCase {
	return &DocumentUseCase{
		documents: documents,
		overrides: overrides,
		ingestor:  ingestor,
		recorder:  recorder,
		log:       log,
	}
}

// Upload stores the document as pending and hands it to the background
// worker. A user cannot classify a document above their own clearance.
func (uc *DocumentUseCase) Upload(ctx context.Context, ownerID string, ownerClearance int, in dto.UploadDocumentRequest, filename string, content []byte) (*dto.DocumentResponse, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("title required: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidClearance(in.Clearance) {
		return nil, fmt.Errorf("clearance %d: %w", in.Clearance, domain.ErrInvalidInput)
	}
	if in.Clearance > ownerClearance {
		return nil, fmt.Errorf("clearance %d above uploader's %d: %w", in.Clearance, ownerClearance, domain.ErrClearanceTooLow)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("empty file: %w", domain.ErrInvalidInput)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("file is not valid UTF-8 text: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	doc := &entity.Document{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     in.Title,
		Filename:  filename,
		Content:   string(content),
		Clearance: in.Clearance,
		Status:    entity.DocPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	if err := uc.ingestor.Enqueue(doc.ID); err != nil {
		// Queue is saturated. The document stays pending; a retry sweep or
		// re-upload picks it up.
		uc.log.Warn().Err(err).Str("document_id", doc.ID).Msg("ingest enqueue failed")
	}

	uc.recorder.Record(ownerID, entity.ActionDocUploaded, "document", doc.ID, map[string]string{
		"title":     doc.Title,
		"clearance": strconv.Itoa(doc.Clearance),
	})
	return toDocumentResponse(doc), nil
}

// ListMine returns the caller's own uploads, newest first.
func (uc *DocumentUseCase) ListMine(ctx context.Context, ownerID string, page dto.PageRequest) (*dto.DocumentListResponse, error) {
	page.DefaultPage()
	docs, err := uc.documents.ListByOwner(ctx, ownerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.documents.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, *toDocumentResponse(d))
	}
	return &dto.DocumentListResponse{
		Documents: out,
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// GetByID returns a document with its content. Access requires ownership,
// sufficient clearance, or an approved override; otherwise
// domain.ErrClearanceTooLow so the caller can offer the override flow.
func (uc *DocumentUseCase) GetByID(ctx context.Context, viewerID string, viewerClearance int, id string) (*dto.DocumentDetailResponse, error) {
	doc, err := uc.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}

	if doc.OwnerID != viewerID && doc.Clearance > viewerClearance {
		approved, err := uc.overrides.HasApproved(ctx, viewerID, doc.ID)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, domain.ErrClearanceTooLow
		}
	}

	return &dto.DocumentDetailResponse{
		DocumentResponse: *toDocumentResponse(doc),
		Content:          doc.Content,
	}, nil
}

// Delete removes a document and its chunks. Only the owner or an admin may
// delete.
func (uc *DocumentUseCase) Delete(ctx context.Context, actorID, actorRole, id string) error {
	doc, err := uc.documents.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return domain.ErrNotFound
	}
	if doc.OwnerID != actorID && actorRole != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	return uc.documents.Delete(ctx, id)
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Title:     d.Title,
		Filename:  d.Filename,
		Clearance: d.Clearance,
		Status:    d.Status,
		FailMsg:   d.FailMsg,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
