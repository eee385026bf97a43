package ports

// Ingestor accepts documents for background processing. Enqueue returns an
// error when the queue is full or shutting down; the document then stays
// pending until re-enqueued.
type Ingestor interface {
	Enqueue(documentID string) error
}
