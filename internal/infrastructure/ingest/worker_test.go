package ingest

import (
	"context"
	"errors"
	"sync"
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

type memDocRepo struct {
	mu   sync.Mutex
	docs map[string]*entity.Document
}

func (r *memDocRepo) Create(_ context.Context, d *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[d.ID] = d
	return nil
}
func (r *memDocRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}
func (r *memDocRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*entity.Document, error) {
	return nil, nil
}
func (r *memDocRepo) CountByOwner(_ context.Context, ownerID string) (int, error) { return 0, nil }
func (r *memDocRepo) UpdateStatus(_ context.Context, id, status, failMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok {
		d.Status = status
		d.FailMsg = failMsg
	}
	return nil
}
func (r *memDocRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *memDocRepo) status(id string) (string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.docs[id]
	return d.Status, d.FailMsg
}

type memChunkRepo struct {
	mu     sync.Mutex
	stored map[string][]*entity.Chunk
}

func (r *memChunkRepo) InsertBatch(_ context.Context, chunks []*entity.Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range chunks {
		r.stored[c.DocumentID] = append(r.stored[c.DocumentID], c)
	}
	return nil
}
func (r *memChunkRepo) DeleteByDocument(_ context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stored, documentID)
	return nil
}
func (r *memChunkRepo) VectorSearch(_ context.Context, embedding []float32, maxClearance, topK int) ([]entity.RetrievedChunk, error) {
	return nil, nil
}
func (r *memChunkRepo) FullTextSearch(_ context.Context, query string, maxClearance, topK int) ([]entity.RetrievedChunk, error) {
	return nil, nil
}

func (r *memChunkRepo) count(docID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stored[docID])
}

type stubEmbedder struct {
	err error
}

func (e *stubEmbedder) Name() string { return "stub" }
func (e *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 1}
	}
	return out, nil
}

func dtoStub() dto.QueryResponse { return dto.QueryResponse{Answer: "stale"} }

type memRecorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *memRecorder) Record(actorID, action, entityType, entityID string, metadata map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, action+":"+entityID)
}

func (r *memRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries...)
}

func newTestWorker(docs *memDocRepo, chunks *memChunkRepo, emb *stubEmbedder, cache *retrieval.QueryCache) *Worker {
	return NewWorker(docs, chunks, emb, cache, &memRecorder{}, config.IngestConfig{
		Workers: 1, QueueSize: 8, ChunkSize: 5, Overlap: 1,
	}, logger.New(logger.Config{Env: "test", Level: "error"}))
}

func waitForStatus(t *testing.T, docs *memDocRepo, id, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if s, _ := docs.status(id); s == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	s, msg := docs.status(id)
	t.Fatalf("document %s stuck in %q (fail_msg=%q), want %q", id, s, msg, want)
}

func TestWorker_IngestsDocumentToReady(t *testing.T) {
	docs := &memDocRepo{docs: map[string]*entity.Document{
		"d1": {ID: "d1", Content: "one two three four five six seven eight nine", Status: entity.DocPending},
	}}
	chunks := &memChunkRepo{stored: map[string][]*entity.Chunk{}}
	cache := retrieval.NewQueryCache(8, time.Minute)
	w := newTestWorker(docs, chunks, &stubEmbedder{}, cache)
	w.Start(1)
	defer w.Stop()

	require.NoError(t, w.Enqueue("d1"))
	waitForStatus(t, docs, "d1", entity.DocReady)
	assert.Greater(t, chunks.count("d1"), 1)
}

func TestWorker_EmbedFailureMarksFailed(t *testing.T) {
	docs := &memDocRepo{docs: map[string]*entity.Document{
		"d1": {ID: "d1", Content: "some text to chunk", Status: entity.DocPending},
	}}
	chunks := &memChunkRepo{stored: map[string][]*entity.Chunk{}}
	cache := retrieval.NewQueryCache(8, time.Minute)
	w := newTestWorker(docs, chunks, &stubEmbedder{err: errors.New("provider down")}, cache)
	w.Start(1)
	defer w.Stop()

	require.NoError(t, w.Enqueue("d1"))
	waitForStatus(t, docs, "d1", entity.DocFailed)
	_, msg := docs.status("d1")
	assert.Contains(t, msg, "provider down")
	assert.Zero(t, chunks.count("d1"))
}

func TestWorker_EmptyContentFails(t *testing.T) {
	docs := &memDocRepo{docs: map[string]*entity.Document{
		"d1": {ID: "d1", Content: "   ", Status: entity.DocPending},
	}}
	chunks := &memChunkRepo{stored: map[string][]*entity.Chunk{}}
	cache := retrieval.NewQueryCache(8, time.Minute)
	w := newTestWorker(docs, chunks, &stubEmbedder{}, cache)
	w.Start(1)
	defer w.Stop()

	require.NoError(t, w.Enqueue("d1"))
	waitForStatus(t, docs, "d1", entity.DocFailed)
}

func TestWorker_EnqueueFailsWhenQueueFull(t *testing.T) {
	docs := &memDocRepo{docs: map[string]*entity.Document{}}
	chunks := &memChunkRepo{stored: map[string][]*entity.Chunk{}}
	cache := retrieval.NewQueryCache(8, time.Minute)
	w := NewWorker(docs, chunks, &stubEmbedder{}, cache, &memRecorder{}, config.IngestConfig{
		QueueSize: 1, ChunkSize: 5, Overlap: 1,
	}, logger.New(logger.Config{Env: "test", Level: "error"}))
	// Not started: nothing drains the queue.

	require.NoError(t, w.Enqueue("a"))
	assert.Error(t, w.Enqueue("b"))
}

func TestWorker_EnqueueAfterStopReturnsError(t *testing.T) {
	docs := &memDocRepo{docs: map[string]*entity.Document{}}
	chunks := &memChunkRepo{stored: map[string][]*entity.Chunk{}}
	cache := retrieval.NewQueryCache(8, time.Minute)
	w := newTestWorker(docs, chunks, &stubEmbedder{}, cache)
	w.Start(1)
	w.Stop()

	var err error
	require.NotPanics(t, func() { err = w.Enqueue("late") })
	assert.Error(t, err)

	// Stop stays idempotent after the late enqueue.
	require.NotPanics(t, w.Stop)
}

func TestWorker_RecordsIngestedDocument(t *testing.T) {
	docs := &memDocRepo{docs: map[string]*entity.Document{
		"d1": {ID: "d1", OwnerID: "u1", Content: "one two three four five six", Status: entity.DocPending},
	}}
	chunks := &memChunkRepo{stored: map[string][]*entity.Chunk{}}
	cache := retrieval.NewQueryCache(8, time.Minute)
	recorder := &memRecorder{}
	w := NewWorker(docs, chunks, &stubEmbedder{}, cache, recorder, config.IngestConfig{
		Workers: 1, QueueSize: 8, ChunkSize: 5, Overlap: 1,
	}, logger.New(logger.Config{Env: "test", Level: "error"}))
	w.Start(1)
	defer w.Stop()

	require.NoError(t, w.Enqueue("d1"))
	waitForStatus(t, docs, "d1", entity.DocReady)
	assert.Contains(t, recorder.recorded(), entity.ActionDocIngested+":d1")
}

func TestWorker_SuccessfulIngestPurgesCache(t *testing.T) {
	docs := &memDocRepo{docs: map[string]*entity.Document{
		"d1": {ID: "d1", Content: "fresh knowledge arriving now", Status: entity.DocPending},
	}}
	chunks := &memChunkRepo{stored: map[string][]*entity.Chunk{}}
	cache := retrieval.NewQueryCache(8, time.Minute)
	key := cache.Key("old question", 3, 5)
	cache.Put(key, dtoStub())

	w := newTestWorker(docs, chunks, &stubEmbedder{}, cache)
	w.Start(1)
	defer w.Stop()

	require.NoError(t, w.Enqueue("d1"))
	waitForStatus(t, docs, "d1", entity.DocReady)

	_, ok := cache.Get(key)
	assert.False(t, ok)
}

func TestWorker_StopDrainsQueue(t *testing.T) {
	docs := &memDocRepo{docs: map[string]*entity.Document{
		"d1": {ID: "d1", Content: "alpha beta gamma", Status: entity.DocPending},
		"d2": {ID: "d2", Content: "delta epsilon zeta", Status: entity.DocPending},
	}}
	chunks := &memChunkRepo{stored: map[string][]*entity.Chunk{}}
	cache := retrieval.NewQueryCache(8, time.Minute)
	w := newTestWorker(docs, chunks, &stubEmbedder{}, cache)
	w.Start(2)

	require.NoError(t, w.Enqueue("d1"))
	require.NoError(t, w.Enqueue("d2"))
	w.Stop()

	s1, _ := docs.status("d1")
	s2, _ := docs.status("d2")
	assert.Equal(t, entity.DocReady, s1)
	assert.Equal(t, entity.DocReady, s2)
}
