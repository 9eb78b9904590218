package services

import (
	"context"
	"sponsorship_console/models"
)

// FinancialAidFilters are the filters of the disbursements table
var FinancialAidFilters = []FilterSpec{
	{Field: "status", Label: "Status", Allowed: []string{models.AidCompleted, models.AidPending, models.AidProcessing}},
	{Field: "aid_type", Label: "Type", Allowed: models.AidTypes},
}

// FinancialAidService wraps /admin/financial-aid/
type FinancialAidService struct {
	api *APIClient
}

func NewFinancialAidService(api *APIClient) *FinancialAidService {
	return &FinancialAidService{api: api}
}

func (s *FinancialAidService) List(ctx context.Context, sess *SessionContext, q ListQuery) (models.FinancialAidListResponse, error) {
	var resp models.FinancialAidListResponse
	err := s.api.GetJSON(ctx, sess, "/admin/financial-aid/", q.Values(), &resp)
	return resp, err
}

func (s *FinancialAidService) Fetcher(sess *SessionContext) Fetcher[models.Disbursement] {
	return func(ctx context.Context, q ListQuery) (models.Page[models.Disbursement], error) {
		resp, err := s.List(ctx, sess, q)
		if err != nil {
			return models.Page[models.Disbursement]{}, err
		}
		return models.NewPage(resp.Disbursements, resp.Pagination), nil
	}
}
