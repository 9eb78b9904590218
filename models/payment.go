package models

// Payment statuses. Only pending payments may be verified or rejected.
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

// Payment is an uploaded fee receipt
type Payment struct {
	ID                 int     `json:"id"`
	ReceiptNumber      string  `json:"receipt_number"`
	Amount             string  `json:"amount"`
	PaymentDate        string  `json:"payment_date"`
	PaymentMethod      string  `json:"payment_method"`
	PaymentMethodValue string  `json:"payment_method_value,omitempty"`
	Term               string  `json:"term,omitempty"`
	Year               int     `json:"year,omitempty"`
	Description        string  `json:"description,omitempty"`
	Status             string  `json:"status"`
	StatusDisplay      string  `json:"status_display,omitempty"`
	VerificationNotes  string  `json:"verification_notes,omitempty"`
	VerifiedAt         *string `json:"verified_at"`
	ReceiptFile        *string `json:"receipt_file,omitempty"`
	ReceiptFileURL     *string `json:"receipt_file_url,omitempty"`
	CreatedAt          string  `json:"created_at,omitempty"`
	Beneficiary        *Ref    `json:"beneficiary,omitempty"`
}

// CanTransitionTo reports whether an admin may move the payment to status
func (p Payment) CanTransitionTo(status string) bool {
	if p.Status != PaymentPending {
		return false
	}
	return status == PaymentVerified || status == PaymentRejected
}

// PaymentDistribution is one slice of the portal payment summary
type PaymentDistribution struct {
	Method        string `json:"method"`
	MethodDisplay string `json:"method_display"`
	Total         string `json:"total"`
	Count         int    `json:"count"`
}

// PaymentSummary is the body of /payments/summary/
type PaymentSummary struct {
	TotalPaid           string                `json:"total_paid"`
	CurrentYearTotal    string                `json:"current_year_total,omitempty"`
	VerifiedCount       int                   `json:"verified_count"`
	PendingCount        int                   `json:"pending_count"`
	PaymentDistribution []PaymentDistribution `json:"payment_distribution,omitempty"`
}

// PaymentListResponse covers both the admin and portal payment lists
type PaymentListResponse struct {
	Payments     []Payment      `json:"payments"`
	SummaryStats PaymentSummary `json:"summary_stats"`
	Pagination   Pagination     `json:"pagination"`
}

// PendingItem is a document or payment waiting for admin review
type PendingItem struct {
	ID             int     `json:"id"`
	Type           string  `json:"type"` // document or payment
	Name           string  `json:"name,omitempty"`
	DocumentType   string  `json:"document_type,omitempty"`
	ReceiptNumber  string  `json:"receipt_number,omitempty"`
	Amount         string  `json:"amount,omitempty"`
	PaymentMethod  string  `json:"payment_method,omitempty"`
	Beneficiary    Ref     `json:"beneficiary"`
	UploadedAt     string  `json:"uploaded_at,omitempty"`
	PaymentDate    string  `json:"payment_date,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
	FileURL        *string `json:"file_url,omitempty"`
	ReceiptFileURL *string `json:"receipt_file_url,omitempty"`
}

// PendingCounts splits the pending review queue by kind
type PendingCounts struct {
	Documents int `json:"documents"`
	Payments  int `json:"payments"`
	Total     int `json:"total"`
}

// PendingReviewResponse is the body of /admin/documents/pending/
type PendingReviewResponse struct {
	PendingItems []PendingItem `json:"pending_items"`
	Counts       PendingCounts `json:"counts"`
}
