package services

import (
	"context"
	"fmt"
	"sponsorship_console/models"
	"strings"
)

// DocumentTypes are the kinds of document a beneficiary may upload
var DocumentTypes = []string{"fee_statement", "receipt", "report_card", "medical", "id_card", "birth_certificate", "other"}

// DocumentFilters are the filters of the portal documents table
var DocumentFilters = []FilterSpec{
	{Field: "status", Label: "Status", Allowed: []string{
		models.DocumentPending, models.DocumentApproved, models.DocumentRejected, models.DocumentRequiresAction,
	}},
}

// MaxDocumentBytes caps document uploads
const MaxDocumentBytes = 10 * 1024 * 1024

// DocumentSchema describes the portal upload form
var DocumentSchema = NewFormSchema("document",
	[]Field{
		{Name: "name", Label: "Document name", Modes: []FormMode{ModeCreate}, RequiredIn: []FormMode{ModeCreate}},
		{Name: "document_type", Label: "Document type", Kind: KindEnum, Modes: []FormMode{ModeCreate}, RequiredIn: []FormMode{ModeCreate}, Allowed: DocumentTypes},
		{Name: "description", Label: "Description", Modes: []FormMode{ModeCreate}},
	},
	[]FileRule{{
		Field:    "file",
		Label:    "File",
		MaxBytes: MaxDocumentBytes,
		ContentTypes: []string{
			"application/pdf", "image/jpeg", "image/png", "application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		Modes:       []FormMode{ModeCreate},
		RequiredIn:  []FormMode{ModeCreate},
		TypeMessage: "File must be PDF, JPG, PNG, DOC, or DOCX",
	}},
)

// DocumentService wraps the document endpoints
type DocumentService struct {
	api *APIClient
}

func NewDocumentService(api *APIClient) *DocumentService {
	return &DocumentService{api: api}
}

// List fetches one page of the signed-in beneficiary's documents
func (s *DocumentService) List(ctx context.Context, sess *SessionContext, q ListQuery) (models.DocumentListResponse, error) {
	var resp models.DocumentListResponse
	err := s.api.GetJSON(ctx, sess, "/documents/", q.Values(), &resp)
	return resp, err
}

func (s *DocumentService) Fetcher(sess *SessionContext) Fetcher[models.Document] {
	return func(ctx context.Context, q ListQuery) (models.Page[models.Document], error) {
		resp, err := s.List(ctx, sess, q)
		if err != nil {
			return models.Page[models.Document]{}, err
		}
		p := models.Pagination{CurrentPage: q.Page, TotalCount: len(resp.Documents)}
		if resp.Pagination != nil {
			p = *resp.Pagination
		}
		return models.NewPage(resp.Documents, p), nil
	}
}

// Types lists the document types with display labels
func (s *DocumentService) Types(ctx context.Context, sess *SessionContext) ([]models.Option, error) {
	var resp struct {
		DocumentTypes []models.Option `json:"document_types"`
	}
	err := s.api.GetJSON(ctx, sess, "/documents/types/", nil, &resp)
	return resp.DocumentTypes, err
}

// Upload validates and submits a document
func (s *DocumentService) Upload(ctx context.Context, sess *SessionContext, values map[string]string, files []FilePart) (models.Document, error) {
	var resp struct {
		Document models.Document `json:"document"`
	}
	if err := DocumentSchema.Validate(ModeCreate, values, files); err != nil {
		return resp.Document, err
	}
	form := DocumentSchema.Encode(ModeCreate, values, files)
	err := s.api.PostMultipart(ctx, sess, "/documents/upload/", form.Fields, form.Files, &resp)
	return resp.Document, err
}

// Delete removes one of the beneficiary's documents
func (s *DocumentService) Delete(ctx context.Context, sess *SessionContext, id int) error {
	return s.api.Delete(ctx, sess, fmt.Sprintf("/documents/%d/delete/", id), nil)
}

// Download fetches a document file
func (s *DocumentService) Download(ctx context.Context, sess *SessionContext, id int) (*Download, error) {
	return s.api.Download(ctx, sess, fmt.Sprintf("/documents/%d/download/", id))
}

// Review records an administrator's decision on a document
func (s *DocumentService) Review(ctx context.Context, sess *SessionContext, id int, review models.DocumentReview) error {
	review.Notes = strings.TrimSpace(review.Notes)
	if !containsString(models.ReviewStatuses, review.Status) {
		return &ValidationError{Problems: []string{
			"Status must be one of: " + strings.Join(models.ReviewStatuses, ", "),
		}}
	}
	return s.api.PostJSON(ctx, sess, fmt.Sprintf("/admin/documents/%d/review/", id), review, nil)
}
