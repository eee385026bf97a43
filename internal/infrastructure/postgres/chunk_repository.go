package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
)

var _ repository.ChunkRepository = (*ChunkRepo)(nil)

// ChunkRepo implements the ChunkRepository port over PostgreSQL + pgvector.
type ChunkRepo struct {
	pool *pgxpool.Pool
}

// NewChunkRepository builds the chunk persistence and search adapter.
func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepo {
	return &ChunkRepo{pool: pool}
}

// InsertBatch inserts chunks in a single batch round trip.
func (r *ChunkRepo) InsertBatch(ctx context.Context, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(
			`INSERT INTO document_chunks (id, document_id, seq, text, embedding, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, c.DocumentID, c.Seq, c.Text, pgvector.NewVector(c.Embedding), c.CreatedAt,
		)
	}
	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range chunks {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert chunk batch: %w", err)
		}
	}
	return nil
}

// DeleteByDocument removes all chunks of a document (re-ingestion).
func (r *ChunkRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

// VectorSearch ranks chunks by cosine similarity. Only chunks of ready
// documents within the caller's clearance are considered.
func (r *ChunkRepo) VectorSearch(ctx context.Context, embedding []float32, maxClearance, topK int) ([]entity.RetrievedChunk, error) {
	query := `
		SELECT c.id, c.document_id, c.seq, c.text, d.title,
		       1 - (c.embedding <=> $1) AS similarity
		FROM document_chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.status = 'ready' AND d.clearance <= $2
		ORDER BY c.embedding <=> $1
		LIMIT $3`
	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(embedding), maxClearance, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()
	return scanRetrieved(rows)
}

// FullTextSearch ranks chunks with websearch_to_tsquery over the indexed
// tsvector column.
func (r *ChunkRepo) FullTextSearch(ctx context.Context, query string, maxClearance, topK int) ([]entity.RetrievedChunk, error) {
	sql := `
		SELECT c.id, c.document_id, c.seq, c.text, d.title,
		       ts_rank(c.text_tsv, websearch_to_tsquery('english', $1)) AS rank
		FROM document_chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.status = 'ready' AND d.clearance <= $2
		  AND c.text_tsv @@ websearch_to_tsquery('english', $1)
		ORDER BY rank DESC
		LIMIT $3`
	rows, err := r.pool.Query(ctx, sql, query, maxClearance, topK)
	if err != nil {
		return nil, fmt.Errorf("fulltext search: %w", err)
	}
	defer rows.Close()
	return scanRetrieved(rows)
}

func scanRetrieved(rows pgx.Rows) ([]entity.RetrievedChunk, error) {
	var out []entity.RetrievedChunk
	for rows.Next() {
		var rc entity.RetrievedChunk
		if err := rows.Scan(
			&rc.Chunk.ID, &rc.Chunk.DocumentID, &rc.Chunk.Seq, &rc.Chunk.Text,
			&rc.DocumentTitle, &rc.Score,
		); err != nil {
			return nil, fmt.Errorf("scan retrieved chunk: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
