package entity

import "time"

// Document ingestion statuses. Upload creates the document as pending; the
// background worker moves it through processing to ready or failed.
const (
	DocPending    = "pending"
	DocProcessing = "processing"
	DocReady      = "ready"
	DocFailed     = "failed"
)

// Document is an uploaded file owned by a user. Content is the extracted
// plain text; retrieval works on the derived chunks, not on Content itself.
type Document struct {
	ID        string
	OwnerID   string
	Title     string
	Filename  string
	Content   string
	Clearance int    // minimum clearance required to read or retrieve from it
	Status    string // pending, processing, ready, failed
	FailMsg   string // populated when Status is failed
	CreatedAt time.Time
	UpdatedAt time.Time
}
