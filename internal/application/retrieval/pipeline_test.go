package retrieval_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/retrieval"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/pkg/config"
	"github.com/nurudeen19/rag-fortress/pkg/logger"
)

// fakeChunks is an in-memory ChunkRepository stub; only the search methods
// matter to the pipeline.
type fakeChunks struct {
	vectorHits []entity.RetrievedChunk
	vectorErr  error
	textHits   []entity.RetrievedChunk
	textErr    error

	vectorCalls int
	textCalls   int
}

func (f *fakeChunks) InsertBatch(ctx context.Context, chunks []*entity.Chunk) error { return nil }
func (f *fakeChunks) DeleteByDocument(ctx context.Context, documentID string) error { return nil }

func (f *fakeChunks) VectorSearch(ctx context.Context, embedding []float32, maxClearance, topK int) ([]entity.RetrievedChunk, error) {
	f.vectorCalls++
	return f.vectorHits, f.vectorErr
}

func (f *fakeChunks) FullTextSearch(ctx context.Context, query string, maxClearance, topK int) ([]entity.RetrievedChunk, error) {
	f.textCalls++
	return f.textHits, f.textErr
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Name() string { return "fake-embedder" }

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

type fakeLLM struct {
	answer string
	err    error
	calls  int
	system string
}

func (f *fakeLLM) Name() string { return "fake-llm" }

func (f *fakeLLM) Generate(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.system = system
	return f.answer, f.err
}

func hit(id string, score float64) entity.RetrievedChunk {
	return entity.RetrievedChunk{
		Chunk:         entity.Chunk{ID: id, DocumentID: "doc-" + id, Seq: 0, Text: "text " + id},
		DocumentTitle: "Title " + id,
		Score:         score,
	}
}

func newPipeline(chunks *fakeChunks, emb *fakeEmbedder, llm *fakeLLM) *retrieval.Pipeline {
	cfg := config.RetrievalConfig{TopK: 5, MinSimilarity: 0.5, TimeoutSeconds: 5}
	cache := retrieval.NewQueryCache(16, time.Minute)
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return retrieval.NewPipeline(chunks, emb, llm, cache, cfg, log)
}

func TestAnswer_VectorStrategy(t *testing.T) {
	chunks := &fakeChunks{vectorHits: []entity.RetrievedChunk{hit("a", 0.9), hit("b", 0.7)}}
	llm := &fakeLLM{answer: "grounded answer"}
	p := newPipeline(chunks, &fakeEmbedder{vec: []float32{0.1}}, llm)

	resp, err := p.Answer(context.Background(), 3, dto.QueryRequest{Question: "what is the policy?"})
	require.NoError(t, err)
	assert.Equal(t, retrieval.StrategyVector, resp.Strategy)
	assert.True(t, resp.Grounded)
	assert.False(t, resp.Cached)
	assert.Len(t, resp.Sources, 2)
	assert.Equal(t, 0, chunks.textCalls, "a confident vector hit must not trigger full-text search")
}

func TestAnswer_HybridWhenVectorWeak(t *testing.T) {
	chunks := &fakeChunks{
		vectorHits: []entity.RetrievedChunk{hit("a", 0.3)}, // below MinSimilarity 0.5
		textHits:   []entity.RetrievedChunk{hit("b", 0.8), hit("a", 0.2)},
	}
	llm := &fakeLLM{answer: "fused answer"}
	p := newPipeline(chunks, &fakeEmbedder{vec: []float32{0.1}}, llm)

	resp, err := p.Answer(context.Background(), 3, dto.QueryRequest{Question: "weak match"})
	require.NoError(t, err)
	assert.Equal(t, retrieval.StrategyHybrid, resp.Strategy)
	assert.True(t, resp.Grounded)
	// Chunk "a" appears in both rankings, so fusion must dedupe it.
	ids := map[string]int{}
	for _, s := range resp.Sources {
		ids[s.DocumentID]++
	}
	assert.Equal(t, 1, ids["doc-a"])
}

func TestAnswer_FullTextWhenEmbeddingDown(t *testing.T) {
	chunks := &fakeChunks{textHits: []entity.RetrievedChunk{hit("a", 0.4)}}
	llm := &fakeLLM{answer: "lexical answer"}
	p := newPipeline(chunks, &fakeEmbedder{err: errors.New("all providers down")}, llm)

	resp, err := p.Answer(context.Background(), 3, dto.QueryRequest{Question: "find this"})
	require.NoError(t, err)
	assert.Equal(t, retrieval.StrategyFullText, resp.Strategy)
	assert.True(t, resp.Grounded)
	assert.Equal(t, 0, chunks.vectorCalls, "vector search must be skipped without an embedding")
}

func TestAnswer_LLMOnlyWhenNothingMatches(t *testing.T) {
	chunks := &fakeChunks{} // no hits anywhere
	llm := &fakeLLM{answer: "ungrounded answer"}
	p := newPipeline(chunks, &fakeEmbedder{vec: []float32{0.1}}, llm)

	resp, err := p.Answer(context.Background(), 3, dto.QueryRequest{Question: "nothing indexed"})
	require.NoError(t, err)
	assert.Equal(t, retrieval.StrategyLLMOnly, resp.Strategy)
	assert.False(t, resp.Grounded)
	assert.Empty(t, resp.Sources)
}

func TestAnswer_CachesResult(t *testing.T) {
	chunks := &fakeChunks{vectorHits: []entity.RetrievedChunk{hit("a", 0.9)}}
	llm := &fakeLLM{answer: "cached me"}
	p := newPipeline(chunks, &fakeEmbedder{vec: []float32{0.1}}, llm)

	first, err := p.Answer(context.Background(), 3, dto.QueryRequest{Question: "Same Question"})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	// Different surface form, same normalized query: must hit the cache.
	second, err := p.Answer(context.Background(), 3, dto.QueryRequest{Question: "  same   question "})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, 1, llm.calls, "a cache hit must not invoke the LLM again")
}

func TestAnswer_CacheIsolatedByClearance(t *testing.T) {
	chunks := &fakeChunks{vectorHits: []entity.RetrievedChunk{hit("a", 0.9)}}
	llm := &fakeLLM{answer: "answer"}
	p := newPipeline(chunks, &fakeEmbedder{vec: []float32{0.1}}, llm)

	_, err := p.Answer(context.Background(), 5, dto.QueryRequest{Question: "secret question"})
	require.NoError(t, err)

	resp, err := p.Answer(context.Background(), 1, dto.QueryRequest{Question: "secret question"})
	require.NoError(t, err)
	assert.False(t, resp.Cached, "answers cached at one clearance must not serve another")
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	p := newPipeline(&fakeChunks{}, &fakeEmbedder{vec: []float32{0.1}}, &fakeLLM{answer: "x"})

	_, err := p.Answer(context.Background(), 1, dto.QueryRequest{Question: "   "})
	assert.Error(t, err)
}

func TestAnswer_SynthesisFailure(t *testing.T) {
	chunks := &fakeChunks{vectorHits: []entity.RetrievedChunk{hit("a", 0.9)}}
	llm := &fakeLLM{err: errors.New("all llm providers down")}
	p := newPipeline(chunks, &fakeEmbedder{vec: []float32{0.1}}, llm)

	_, err := p.Answer(context.Background(), 3, dto.QueryRequest{Question: "q"})
	assert.Error(t, err)
}
