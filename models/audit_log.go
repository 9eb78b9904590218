package models

// AuditLog is one entry of the backend's audit trail
type AuditLog struct {
	ID           int        `json:"id"`
	User         AuditActor `json:"user"`
	ActionType   string     `json:"action_type"`
	ModelName    string     `json:"model_name"`
	ObjectID     string     `json:"object_id"`
	Description  string     `json:"description"`
	IPAddress    *string    `json:"ip_address"`
	CreatedAt    string     `json:"created_at"`
	RelativeTime string     `json:"relative_time,omitempty"`
}

// AuditActor is the user behind an audit entry; System when ID is nil
type AuditActor struct {
	ID    *int    `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// AuditLogListResponse is the body of /admin/audit-logs/
type AuditLogListResponse struct {
	AuditLogs  []AuditLog `json:"audit_logs"`
	Pagination Pagination `json:"pagination"`
}
