package models

// Fee statement statuses
const (
	StatementPending = "pending"
	StatementPartial = "partial"
	StatementPaid    = "paid"
	StatementOverdue = "overdue"
)

// FeeStatement is a per-term school fee statement
type FeeStatement struct {
	ID                int     `json:"id"`
	UserID            int     `json:"user_id,omitempty"`
	StudentName       string  `json:"student_name,omitempty"`
	StudentEmail      string  `json:"student_email,omitempty"`
	Term              string  `json:"term"`
	Year              int     `json:"year"`
	School            string  `json:"school"`
	TotalAmount       string  `json:"total_amount"`
	AmountPaid        string  `json:"amount_paid"`
	Balance           string  `json:"balance"`
	DueDate           string  `json:"due_date"`
	Status            string  `json:"status"`
	PaymentPercentage float64 `json:"payment_percentage"`
	StatementFile     *string `json:"statement_file,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

// StatementTotals aggregates the statements matching the current filters
type StatementTotals struct {
	TotalFees         string  `json:"total_fees"`
	TotalPaid         string  `json:"total_paid"`
	TotalBalance      string  `json:"total_balance"`
	PaymentPercentage float64 `json:"payment_percentage"`
	FeesChange        float64 `json:"fees_change"`
}

// StatementListResponse is the body of the statement list endpoints
type StatementListResponse struct {
	Statements   []FeeStatement  `json:"statements"`
	SummaryStats StatementTotals `json:"summary_stats"`
	Pagination   Pagination      `json:"pagination"`
}

// OutstandingStatement is a statement with a balance still due
type OutstandingStatement struct {
	ID          int    `json:"id"`
	Term        string `json:"term"`
	Year        int    `json:"year"`
	Balance     string `json:"balance"`
	DueDate     string `json:"due_date"`
	DaysOverdue int    `json:"days_overdue"`
}

// StatementSummary is the body of the statement summary endpoints
type StatementSummary struct {
	TotalFees         string  `json:"total_fees"`
	TotalPaid         string  `json:"total_paid"`
	TotalBalance      string  `json:"total_balance"`
	PaymentPercentage float64 `json:"payment_percentage"`
	OutstandingCount  int     `json:"outstanding_count"`
	NextDueDate       *string `json:"next_due_date"`
	DaysUntilDue      *int    `json:"days_until_due"`
}

// StatementSummaryResponse wraps the summary with the outstanding list
type StatementSummaryResponse struct {
	Summary               StatementSummary       `json:"summary"`
	OutstandingStatements []OutstandingStatement `json:"outstanding_statements"`
}
