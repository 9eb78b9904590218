package models

// Disbursement statuses
const (
	AidCompleted  = "completed"
	AidPending    = "pending"
	AidProcessing = "processing"
)

// AidTypes are the categories aid is disbursed under
var AidTypes = []string{"tuition", "books", "transport", "uniform", "other"}

// Disbursement is one financial aid payout to a beneficiary
type Disbursement struct {
	ID          int    `json:"id"`
	Beneficiary Ref    `json:"beneficiary"`
	AidType     string `json:"aid_type"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	Date        string `json:"date"`
	Reference   string `json:"reference,omitempty"`
}

// AidSummary aggregates disbursements
type AidSummary struct {
	TotalDisbursed     string `json:"total_disbursed"`
	PendingAmount      string `json:"pending_amount"`
	PendingCount       int    `json:"pending_count"`
	ActiveScholarships int    `json:"active_scholarships"`
	AveragePerStudent  string `json:"average_per_student"`
}

// FinancialAidListResponse is the body of /admin/financial-aid/
type FinancialAidListResponse struct {
	Disbursements []Disbursement `json:"disbursements"`
	Summary       AidSummary     `json:"summary"`
	Pagination    Pagination     `json:"pagination"`
}
