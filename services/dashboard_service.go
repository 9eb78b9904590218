package services

import (
	"context"
	"sponsorship_console/models"
)

// DashboardService loads the two home pages
type DashboardService struct {
	api *APIClient
}

func NewDashboardService(api *APIClient) *DashboardService {
	return &DashboardService{api: api}
}

// Admin loads /admin/dashboard/
func (s *DashboardService) Admin(ctx context.Context, sess *SessionContext) (models.AdminDashboard, error) {
	var resp struct {
		Dashboard models.AdminDashboard `json:"dashboard"`
	}
	err := s.api.GetJSON(ctx, sess, "/admin/dashboard/", nil, &resp)
	return resp.Dashboard, err
}

// Portal loads the beneficiary's /dashboard/
func (s *DashboardService) Portal(ctx context.Context, sess *SessionContext) (models.PortalDashboard, error) {
	var resp struct {
		Dashboard models.PortalDashboard `json:"dashboard"`
	}
	err := s.api.GetJSON(ctx, sess, "/dashboard/", nil, &resp)
	return resp.Dashboard, err
}
