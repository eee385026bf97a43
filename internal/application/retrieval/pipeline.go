package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/ports"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
	"github.com/nurudeen19/rag-fortress/pkg/config"
	"github.com/nurudeen19/rag-fortress/pkg/logger"
)

// Strategy names reported in QueryResponse.Strategy, in fallback order.
const (
	StrategyVector   = "vector"
	StrategyHybrid   = "hybrid"
	StrategyFullText = "fulltext"
	StrategyLLMOnly  = "llm_only"
)

// rrfK is the reciprocal rank fusion constant. 60 is the value from the
// original RRF paper and what search engines commonly use.
const rrfK = 60

const answerSystemPrompt = `You are the retrieval assistant of an enterprise document vault.
Answer the user's question using ONLY the provided context passages.
Cite nothing outside the context. If the context does not contain the answer, say so plainly.
Keep answers concise and factual.`

const ungroundedSystemPrompt = `You are the retrieval assistant of an enterprise document vault.
No internal documents matched the user's question, so answer from general knowledge.
State explicitly that the answer is not based on internal documents.`

// Pipeline is the adaptive retrieval core: a fallback chain of strategies
// (vector, hybrid, full-text, LLM-only) over clearance-filtered chunks, with
// a TTL+LRU result cache in front.
//
// Strategy selection:
//   - vector: query embedding succeeds and the top hit clears MinSimilarity.
//   - hybrid: vector hits exist but are weak; fuse them with full-text
//     rankings (reciprocal rank fusion).
//   - fulltext: embeddings unavailable (providers down) or vector found
//     nothing; Postgres websearch ranking alone.
//   - llm_only: nothing retrieved at all; answer ungrounded.
type Pipeline struct {
	chunks   repository.ChunkRepository
	embedder ports.EmbeddingService
	llm      ports.LLMService
	cache    *QueryCache
	cfg      config.RetrievalConfig
	log      *logger.Logger
}

// NewPipeline wires the retrieval core. embedder and llm are normally the
// failover chains.
func NewPipeline(
	chunks repository.ChunkRepository,
	embedder ports.EmbeddingService,
	llm ports.LLMService,
	cache *QueryCache,
	cfg config.RetrievalConfig,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		chunks:   chunks,
		embedder: embedder,
		llm:      llm,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

// Answer runs the fallback chain for one question on behalf of a user with
// the given clearance.
func (p *Pipeline) Answer(ctx context.Context, clearance int, req dto.QueryRequest) (*dto.QueryResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("question is required: %w", domain.ErrInvalidInput)
	}
	topK := req.TopK
	if topK <= 0 {
		topK = p.cfg.TopK
	}

	normalized := NormalizeQuery(req.Question)
	cacheKey := p.cache.Key(normalized, clearance, topK)
	if resp, ok := p.cache.Get(cacheKey); ok {
		return resp, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout())
	defer cancel()

	retrieved, strategy := p.retrieve(ctx, req.Question, normalized, clearance, topK)

	resp, err := p.synthesize(ctx, req.Question, retrieved, strategy)
	if err != nil {
		return nil, err
	}

	p.cache.Put(cacheKey, *resp)
	return resp, nil
}

// retrieve walks the strategy chain and returns the chunks plus the strategy
// that produced them. An empty result with StrategyLLMOnly means nothing
// matched anywhere.
func (p *Pipeline) retrieve(ctx context.Context, question, normalized string, clearance, topK int) ([]entity.RetrievedChunk, string) {
	embedding, embErr := p.embedQuery(ctx, question)
	if embErr != nil {
		p.log.Warn().Err(embErr).Msg("query embedding unavailable, degrading to full-text")
		return p.fullTextOnly(ctx, normalized, clearance, topK)
	}

	vectorHits, err := p.chunks.VectorSearch(ctx, embedding, clearance, topK)
	if err != nil {
		p.log.Warn().Err(err).Msg("vector search failed, degrading to full-text")
		return p.fullTextOnly(ctx, normalized, clearance, topK)
	}

	if len(vectorHits) > 0 && vectorHits[0].Score >= p.cfg.MinSimilarity {
		return vectorHits, StrategyVector
	}

	// Weak or empty vector results: bring in the lexical ranking.
	textHits, err := p.chunks.FullTextSearch(ctx, normalized, clearance, topK)
	if err != nil {
		p.log.Warn().Err(err).Msg("fulltext search failed during hybrid fusion")
		textHits = nil
	}

	switch {
	case len(vectorHits) > 0 && len(textHits) > 0:
		return fuseRRF(vectorHits, textHits, topK), StrategyHybrid
	case len(textHits) > 0:
		return textHits, StrategyFullText
	case len(vectorHits) > 0:
		// Below threshold but better than nothing.
		return vectorHits, StrategyVector
	}
	return nil, StrategyLLMOnly
}

func (p *Pipeline) fullTextOnly(ctx context.Context, normalized string, clearance, topK int) ([]entity.RetrievedChunk, string) {
	textHits, err := p.chunks.FullTextSearch(ctx, normalized, clearance, topK)
	if err != nil {
		p.log.Warn().Err(err).Msg("fulltext search failed")
		return nil, StrategyLLMOnly
	}
	if len(textHits) == 0 {
		return nil, StrategyLLMOnly
	}
	return textHits, StrategyFullText
}

func (p *Pipeline) embedQuery(ctx context.Context, question string) ([]float32, error) {
	vectors, err := p.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("empty query embedding")
	}
	return vectors[0], nil
}

// synthesize prompts the LLM chain with the retrieved context (or without
// one for llm_only) and assembles the response DTO.
func (p *Pipeline) synthesize(ctx context.Context, question string, retrieved []entity.RetrievedChunk, strategy string) (*dto.QueryResponse, error) {
	var answer string
	var err error
	if strategy == StrategyLLMOnly {
		answer, err = p.llm.Generate(ctx, ungroundedSystemPrompt, question)
	} else {
		answer, err = p.llm.Generate(ctx, answerSystemPrompt, buildPrompt(question, retrieved))
	}
	if err != nil {
		return nil, fmt.Errorf("answer synthesis: %w", err)
	}

	sources := make([]dto.SourceChunk, len(retrieved))
	for i, rc := range retrieved {
		sources[i] = dto.SourceChunk{
			DocumentID:    rc.Chunk.DocumentID,
			DocumentTitle: rc.DocumentTitle,
			Seq:           rc.Chunk.Seq,
			Text:          rc.Chunk.Text,
			Score:         rc.Score,
		}
	}
	return &dto.QueryResponse{
		Answer:   answer,
		Sources:  sources,
		Strategy: strategy,
		Grounded: strategy != StrategyLLMOnly,
	}, nil
}

func buildPrompt(question string, retrieved []entity.RetrievedChunk) string {
	var b strings.Builder
	b.WriteString("Context passages:\n")
	for i, rc := range retrieved {
		fmt.Fprintf(&b, "[%d] (%s)\n%s\n\n", i+1, rc.DocumentTitle, rc.Chunk.Text)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

// fuseRRF merges two rankings with reciprocal rank fusion. The fused score
// of a chunk is the sum over rankings of 1/(rrfK + rank).
func fuseRRF(a, b []entity.RetrievedChunk, topK int) []entity.RetrievedChunk {
	type fused struct {
		chunk entity.RetrievedChunk
		score float64
	}
	byID := make(map[string]*fused)
	accumulate := func(hits []entity.RetrievedChunk) {
		for rank, rc := range hits {
			f, ok := byID[rc.Chunk.ID]
			if !ok {
				f = &fused{chunk: rc}
				byID[rc.Chunk.ID] = f
			}
			f.score += 1.0 / float64(rrfK+rank+1)
		}
	}
	accumulate(a)
	accumulate(b)

	out := make([]entity.RetrievedChunk, 0, len(byID))
	for _, f := range byID {
		rc := f.chunk
		rc.Score = f.score
		out = append(out, rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}
