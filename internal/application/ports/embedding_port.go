package ports

import "context"

// EmbeddingService is the outbound port for text embeddings.
type EmbeddingService interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name identifies the provider in logs and failover bookkeeping.
	Name() string
}
