package repository

import (
	"context"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
)

// ChunkRepository persistence and search port for document chunks. All
// searches are clearance-filtered: only chunks of ready documents whose
// clearance requirement is <= maxClearance are returned.
type ChunkRepository interface {
	InsertBatch(ctx context.Context, chunks []*entity.Chunk) error
	DeleteByDocument(ctx context.Context, documentID string) error

	// VectorSearch ranks chunks by cosine similarity against the query
	// embedding. Score is similarity in [0,1].
	VectorSearch(ctx context.Context, embedding []float32, maxClearance, topK int) ([]entity.RetrievedChunk, error)

	// FullTextSearch ranks chunks with websearch_to_tsquery/ts_rank.
	// Score is the ts_rank value.
	FullTextSearch(ctx context.Context, query string, maxClearance, topK int) ([]entity.RetrievedChunk, error)
}
