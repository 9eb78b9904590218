package services

import (
	"context"
	"sponsorship_console/models"
)

// AuditActionTypes are the action types the audit trail records
var AuditActionTypes = []string{"create", "update", "delete", "approve", "reject", "verify"}

// AuditLogFilters are the filters of the audit log table. Dates are YYYY-MM-DD.
var AuditLogFilters = []FilterSpec{
	{Field: "action_type", Label: "Action", Allowed: AuditActionTypes},
	{Field: "date_from", Label: "From"},
	{Field: "date_to", Label: "To"},
}

// DefaultAuditPageSize is the audit table page size
const DefaultAuditPageSize = 25

// AuditService reads the backend's audit trail
type AuditService struct {
	api *APIClient
}

func NewAuditService(api *APIClient) *AuditService {
	return &AuditService{api: api}
}

func (s *AuditService) List(ctx context.Context, sess *SessionContext, q ListQuery) (models.AuditLogListResponse, error) {
	var resp models.AuditLogListResponse
	err := s.api.GetJSON(ctx, sess, "/admin/audit-logs/", q.Values(), &resp)
	return resp, err
}

func (s *AuditService) Fetcher(sess *SessionContext) Fetcher[models.AuditLog] {
	return func(ctx context.Context, q ListQuery) (models.Page[models.AuditLog], error) {
		resp, err := s.List(ctx, sess, q)
		if err != nil {
			return models.Page[models.AuditLog]{}, err
		}
		return models.NewPage(resp.AuditLogs, resp.Pagination), nil
	}
}
