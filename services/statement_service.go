package services

import (
	"context"
	"fmt"
	"sponsorship_console/models"
	"strings"
)

// StatementStatuses are the statuses a fee statement may carry
var StatementStatuses = []string{
	models.StatementPending, models.StatementPartial, models.StatementPaid, models.StatementOverdue, "unpaid",
}

// StatementFilters are the filters of both statement tables
var StatementFilters = []FilterSpec{
	{Field: "status", Label: "Status", Allowed: StatementStatuses},
	{Field: "year", Label: "Year"},
}

// StatementUpdate is the admin edit of a statement
type StatementUpdate struct {
	Notes  string `json:"notes"`
	Status string `json:"status,omitempty"`
}

// StatementService wraps the fee statement endpoints. Administrators use
// the /admin/fee-statements/ family, beneficiaries /statements/.
type StatementService struct {
	api *APIClient
}

func NewStatementService(api *APIClient) *StatementService {
	return &StatementService{api: api}
}

func (s *StatementService) base(sess *SessionContext) string {
	if sess.IsAdmin() {
		return "/admin/fee-statements/"
	}
	return "/statements/"
}

// List fetches one page of statements
func (s *StatementService) List(ctx context.Context, sess *SessionContext, q ListQuery) (models.StatementListResponse, error) {
	var resp models.StatementListResponse
	err := s.api.GetJSON(ctx, sess, s.base(sess), q.Values(), &resp)
	return resp, err
}

func (s *StatementService) Fetcher(sess *SessionContext) Fetcher[models.FeeStatement] {
	return func(ctx context.Context, q ListQuery) (models.Page[models.FeeStatement], error) {
		resp, err := s.List(ctx, sess, q)
		if err != nil {
			return models.Page[models.FeeStatement]{}, err
		}
		return models.NewPage(resp.Statements, resp.Pagination), nil
	}
}

// Totals returns the program-wide fee totals (admin)
func (s *StatementService) Totals(ctx context.Context, sess *SessionContext) (models.StatementTotals, error) {
	var resp struct {
		SummaryStats models.StatementTotals `json:"summary_stats"`
	}
	err := s.api.GetJSON(ctx, sess, "/admin/fee-statements/summary/", nil, &resp)
	return resp.SummaryStats, err
}

// Summary returns the beneficiary's balance summary and outstanding statements
func (s *StatementService) Summary(ctx context.Context, sess *SessionContext) (models.StatementSummaryResponse, error) {
	var resp models.StatementSummaryResponse
	err := s.api.GetJSON(ctx, sess, "/statements/summary/", nil, &resp)
	return resp, err
}

// Years lists the years that have statements, newest first
func (s *StatementService) Years(ctx context.Context, sess *SessionContext) ([]int, error) {
	var resp struct {
		Years []int `json:"years"`
	}
	err := s.api.GetJSON(ctx, sess, s.base(sess)+"years/", nil, &resp)
	return resp.Years, err
}

// Update edits the notes and optionally the status of a statement
func (s *StatementService) Update(ctx context.Context, sess *SessionContext, id int, update StatementUpdate) error {
	update.Notes = strings.TrimSpace(update.Notes)
	if update.Status != "" && !containsString(StatementStatuses, update.Status) {
		return &ValidationError{Problems: []string{
			"Status must be one of: " + strings.Join(StatementStatuses, ", "),
		}}
	}
	return s.api.PostJSON(ctx, sess, fmt.Sprintf("/admin/fee-statements/%d/update/", id), update, nil)
}

// Download fetches the statement file
func (s *StatementService) Download(ctx context.Context, sess *SessionContext, id int) (*Download, error) {
	return s.api.Download(ctx, sess, fmt.Sprintf("%s%d/download/", s.base(sess), id))
}
