package services

import (
	"context"
	"fmt"
	"net/url"
	"sponsorship_console/models"
	"strconv"
)

// BeneficiaryFilters are the filters of the beneficiaries table
var BeneficiaryFilters = []FilterSpec{
	{Field: "status", Label: "Status", Allowed: models.SponsorshipStatuses},
	{Field: "county", Label: "County"},
	{Field: "grade_class_id", Label: "Grade"},
	{Field: "sort_by", Label: "Sort", Allowed: []string{
		"full_name", "-full_name",
		"registration_date", "-registration_date",
		"academic_performance", "-academic_performance",
	}},
}

// BeneficiaryService wraps the /admin/beneficiaries/ endpoints
type BeneficiaryService struct {
	api *APIClient
}

func NewBeneficiaryService(api *APIClient) *BeneficiaryService {
	return &BeneficiaryService{api: api}
}

// List fetches one page of beneficiaries
func (s *BeneficiaryService) List(ctx context.Context, sess *SessionContext, q ListQuery) (models.BeneficiaryListResponse, error) {
	var resp models.BeneficiaryListResponse
	err := s.api.GetJSON(ctx, sess, "/admin/beneficiaries/", q.Values(), &resp)
	return resp, err
}

// Fetcher adapts List for a ListController bound to sess
func (s *BeneficiaryService) Fetcher(sess *SessionContext) Fetcher[models.Beneficiary] {
	return func(ctx context.Context, q ListQuery) (models.Page[models.Beneficiary], error) {
		resp, err := s.List(ctx, sess, q)
		if err != nil {
			return models.Page[models.Beneficiary]{}, err
		}
		return models.NewPage(resp.Beneficiaries, resp.Pagination), nil
	}
}

// Summary fetches the headline counts without loading a full page
func (s *BeneficiaryService) Summary(ctx context.Context, sess *SessionContext) (models.BeneficiarySummary, error) {
	var resp models.BeneficiaryListResponse
	err := s.api.GetJSON(ctx, sess, "/admin/beneficiaries/", url.Values{"limit": {"1"}}, &resp)
	return resp.Summary, err
}

// TopPerformers lists the best performing beneficiaries
func (s *BeneficiaryService) TopPerformers(ctx context.Context, sess *SessionContext, limit int) ([]models.Beneficiary, error) {
	var resp models.BeneficiaryListResponse
	query := url.Values{"limit": {strconv.Itoa(limit)}, "sort_by": {"-academic_performance"}}
	if err := s.api.GetJSON(ctx, sess, "/admin/beneficiaries/", query, &resp); err != nil {
		return nil, err
	}
	return resp.Beneficiaries, nil
}

// Detail fetches the full record of one beneficiary
func (s *BeneficiaryService) Detail(ctx context.Context, sess *SessionContext, id int) (models.BeneficiaryDetail, error) {
	var resp models.BeneficiaryDetail
	err := s.api.GetJSON(ctx, sess, fmt.Sprintf("/admin/beneficiaries/%d/", id), nil, &resp)
	return resp, err
}

// Create validates and submits the create form. The response carries the
// generated temporary password, which is shown once.
func (s *BeneficiaryService) Create(ctx context.Context, sess *SessionContext, values map[string]string, files []FilePart) (models.CreateBeneficiaryResponse, error) {
	var resp models.CreateBeneficiaryResponse
	if err := BeneficiarySchema.Validate(ModeCreate, values, files); err != nil {
		return resp, err
	}
	form := BeneficiarySchema.Encode(ModeCreate, values, files)
	err := s.api.PostMultipart(ctx, sess, "/admin/beneficiaries/create/", form.Fields, form.Files, &resp)
	return resp, err
}

// Update validates and submits the edit form
func (s *BeneficiaryService) Update(ctx context.Context, sess *SessionContext, id int, values map[string]string, files []FilePart) error {
	if err := BeneficiarySchema.Validate(ModeUpdate, values, files); err != nil {
		return err
	}
	form := BeneficiarySchema.Encode(ModeUpdate, values, files)
	return s.api.PostMultipart(ctx, sess, fmt.Sprintf("/admin/beneficiaries/%d/update/", id), form.Fields, form.Files, nil)
}

// SetStatus patches only the sponsorship status
func (s *BeneficiaryService) SetStatus(ctx context.Context, sess *SessionContext, id int, status string) error {
	values := map[string]string{"sponsorship_status": status}
	if err := BeneficiarySchema.Validate(ModeStatus, values, nil); err != nil {
		return err
	}
	form := BeneficiarySchema.Encode(ModeStatus, values, nil)
	return s.api.PostJSON(ctx, sess, fmt.Sprintf("/admin/beneficiaries/%d/update/", id), form.JSON, nil)
}

// SendWelcome asks the backend to email login details to a beneficiary
func (s *BeneficiaryService) SendWelcome(ctx context.Context, sess *SessionContext, id int) error {
	return s.api.PostJSON(ctx, sess, fmt.Sprintf("/admin/beneficiaries/%d/send-welcome/", id), map[string]any{}, nil)
}

// AssignLevel moves a beneficiary to an education level and optional grade
func (s *BeneficiaryService) AssignLevel(ctx context.Context, sess *SessionContext, id int, assignment models.LevelAssignment) error {
	if assignment.EducationLevelID <= 0 {
		return &ValidationError{Missing: []string{"Education level"}}
	}
	return s.api.PostJSON(ctx, sess, fmt.Sprintf("/admin/students/%d/assign-level/", id), assignment, nil)
}
