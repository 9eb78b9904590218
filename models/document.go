package models

// Document review statuses
const (
	DocumentPending        = "pending"
	DocumentApproved       = "approved"
	DocumentRejected       = "rejected"
	DocumentRequiresAction = "requires_action"
)

// ReviewStatuses are the outcomes an administrator may record
var ReviewStatuses = []string{DocumentApproved, DocumentRejected, DocumentRequiresAction}

// Document is a file a beneficiary uploaded
type Document struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	DocumentType  string  `json:"document_type,omitempty"`
	Type          string  `json:"type,omitempty"`
	Status        string  `json:"status"`
	UploadedAt    string  `json:"uploaded_at"`
	ReviewedAt    *string `json:"reviewed_at,omitempty"`
	ReviewerNotes string  `json:"reviewer_notes,omitempty"`
	FileURL       *string `json:"file_url"`
	FileSize      int64   `json:"file_size,omitempty"`
}

// DocumentListResponse is the body of /documents/
type DocumentListResponse struct {
	Documents  []Document  `json:"documents"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// DocumentReview is the body of /admin/documents/{id}/review/
type DocumentReview struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}
