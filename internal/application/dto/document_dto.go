package dto

import "time"

// UploadDocumentRequest metadata fields accompanying a multipart upload.
type UploadDocumentRequest struct {
	Title     string `form:"title" validate:"required,max=300"`
	Clearance int    `form:"clearance" validate:"required,min=1,max=5"`
}

// DocumentResponse a document without its content body.
type DocumentResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	Clearance int       `json:"clearance"`
	Status    string    `json:"status"`
	FailMsg   string    `json:"fail_msg,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentDetailResponse a document including its extracted text.
type DocumentDetailResponse struct {
	DocumentResponse
	Content string `json:"content"`
}

// DocumentListResponse paginated document listing.
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Page      PageResponse       `json:"page"`
}
