package entity

import "time"

// Chunk is an ordered slice of a document's text with its embedding vector.
// Chunks inherit the parent document's clearance requirement.
type Chunk struct {
	ID         string
	DocumentID string
	Seq        int
	Text       string
	Embedding  []float32
	CreatedAt  time.Time
}

// RetrievedChunk is a chunk returned by a retrieval strategy along with its
// relevance score. Score semantics depend on the strategy (cosine similarity
// for vector, ts_rank for full-text, fused rank for hybrid).
type RetrievedChunk struct {
	Chunk         Chunk
	DocumentTitle string
	Score         float64
}
