package ingest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurudeen19/rag-fortress/internal/application/ports"
	"github.com/nurudeen19/rag-fortress/internal/application/retrieval"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
	"github.com/nurudeen19/rag-fortress/pkg/config"
	"github.com/nurudeen19/rag-fortress/pkg/logger"
)

const processTimeout = 5 * time.Minute

// Worker the background ingestion pool. Uploaded documents are enqueued by
// ID; workers chunk the text, embed the chunks and flip the document to
// ready. Any failure marks the document failed with the error message, and
// a successful ingest purges the query cache so stale answers drop out.
type Worker struct {
	documents repository.DocumentRepository
	chunks    repository.ChunkRepository
	embedder  ports.EmbeddingService
	cache     *retrieval.QueryCache
	recorder  ports.AuditRecorder
	chunker   *Chunker

	queue  chan string
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	log    *logger.Logger
}

// NewWorker builds the pool from config. Start must be called before
// Enqueue delivers anything.
func NewWorker(
	documents repository.DocumentRepository,
	chunks repository.ChunkRepository,
	embedder ports.EmbeddingService,
	cache *retrieval.QueryCache,
	recorder ports.AuditRecorder,
	cfg config.IngestConfig,
	log *logger.Logger,
) *Worker {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Worker{
		documents: documents,
		chunks:    chunks,
		embedder:  embedder,
		cache:     cache,
		recorder:  recorder,
		chunker:   NewChunker(cfg.ChunkSize, cfg.Overlap),
		queue:     make(chan string, queueSize),
		log:       log,
	}
}

var _ ports.Ingestor = (*Worker)(nil)

// Start launches n workers (minimum one). They run until Stop closes the
// queue and drain whatever is still buffered.
func (w *Worker) Start(n int) {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for docID := range w.queue {
				w.process(docID)
			}
		}()
	}
}

// Enqueue hands a document to the pool without blocking.
func (w *Worker) Enqueue(documentID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("ingest queue shutting down")
	}
	select {
	case w.queue <- documentID:
		return nil
	default:
		return fmt.Errorf("ingest queue full (%d pending)", len(w.queue))
	}
}

// Stop closes the queue and waits for in-flight and buffered documents to
// finish. Safe to call more than once; Enqueue after Stop returns an error.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *Worker) process(docID string) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	start := time.Now()
	if err := w.ingest(ctx, docID); err != nil {
		w.log.Error().Err(err).Str("document_id", docID).Msg("ingest failed")
		if err := w.documents.UpdateStatus(ctx, docID, entity.DocFailed, err.Error()); err != nil {
			w.log.Error().Err(err).Str("document_id", docID).Msg("could not mark document failed")
		}
		return
	}
	w.log.Info().
		Str("document_id", docID).
		Dur("took", time.Since(start)).
		Msg("document ingested")
}

func (w *Worker) ingest(ctx context.Context, docID string) error {
	doc, err := w.documents.GetByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return domain.ErrNotFound
	}

	if err := w.documents.UpdateStatus(ctx, docID, entity.DocProcessing, ""); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	texts := w.chunker.Split(doc.Content)
	if len(texts) == 0 {
		return fmt.Errorf("document has no extractable text: %w", domain.ErrInvalidInput)
	}

	embeddings, err := w.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d chunks: %w", len(texts), err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(texts))
	}

	// Re-ingestion replaces the old chunks wholesale.
	if err := w.chunks.DeleteByDocument(ctx, docID); err != nil {
		return fmt.Errorf("clear old chunks: %w", err)
	}

	now := time.Now()
	batch := make([]*entity.Chunk, len(texts))
	for i, text := range texts {
		batch[i] = &entity.Chunk{
			ID:         uuid.New().String(),
			DocumentID: docID,
			Seq:        i,
			Text:       text,
			Embedding:  embeddings[i],
			CreatedAt:  now,
		}
	}
	if err := w.chunks.InsertBatch(ctx, batch); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	if err := w.documents.UpdateStatus(ctx, docID, entity.DocReady, ""); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}

	// New searchable content invalidates cached answers.
	w.cache.Purge()
	w.recorder.Record(doc.OwnerID, entity.ActionDocIngested, "document", docID, map[string]string{
		"chunks": strconv.Itoa(len(batch)),
	})
	return nil
}
