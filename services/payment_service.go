package services

import (
	"context"
	"fmt"
	"net/url"
	"sponsorship_console/models"
	"strings"
)

// PaymentMethods are the methods a receipt may be recorded under
var PaymentMethods = []string{"mpesa", "bank_transfer", "cash", "cheque", "mobile_banking", "other"}

// PaymentStatuses are the receipt review states
var PaymentStatuses = []string{models.PaymentPending, models.PaymentVerified, models.PaymentRejected}

// PaymentFilters are the filters of both receipt tables
var PaymentFilters = []FilterSpec{
	{Field: "status", Label: "Status", Allowed: PaymentStatuses},
	{Field: "payment_method", Label: "Payment method", Allowed: PaymentMethods},
	{Field: "year", Label: "Year"},
}

// MaxReceiptBytes caps receipt uploads
const MaxReceiptBytes = 5 * 1024 * 1024

// ReceiptSchema describes the portal receipt upload form
var ReceiptSchema = NewFormSchema("receipt",
	[]Field{
		{Name: "amount", Label: "Amount", Kind: KindAmount, Modes: []FormMode{ModeCreate}, RequiredIn: []FormMode{ModeCreate}},
		{Name: "payment_date", Label: "Payment date", Kind: KindDate, Modes: []FormMode{ModeCreate}, RequiredIn: []FormMode{ModeCreate}},
		{Name: "payment_method", Label: "Payment method", Kind: KindEnum, Modes: []FormMode{ModeCreate}, RequiredIn: []FormMode{ModeCreate}, Allowed: PaymentMethods},
		{Name: "term", Label: "Term", Modes: []FormMode{ModeCreate}, RequiredIn: []FormMode{ModeCreate}},
		{Name: "year", Label: "Year", Kind: KindID, Modes: []FormMode{ModeCreate}, RequiredIn: []FormMode{ModeCreate}},
		{Name: "description", Label: "Description", Modes: []FormMode{ModeCreate}},
	},
	[]FileRule{{
		Field:        "receipt_file",
		Label:        "Receipt file",
		MaxBytes:     MaxReceiptBytes,
		ContentTypes: []string{"application/pdf", "image/jpeg", "image/png"},
		Modes:        []FormMode{ModeCreate},
		RequiredIn:   []FormMode{ModeCreate},
		TypeMessage:  "Receipt file must be PDF, JPG, or PNG",
	}},
)

// PaymentService wraps the payment and receipt endpoints
type PaymentService struct {
	api *APIClient
}

func NewPaymentService(api *APIClient) *PaymentService {
	return &PaymentService{api: api}
}

// List fetches one page of receipts. Administrators see every
// beneficiary's receipts; beneficiaries only their own.
func (s *PaymentService) List(ctx context.Context, sess *SessionContext, q ListQuery) (models.PaymentListResponse, error) {
	var resp models.PaymentListResponse
	err := s.api.GetJSON(ctx, sess, s.base(sess), q.Values(), &resp)
	return resp, err
}

func (s *PaymentService) base(sess *SessionContext) string {
	if sess.IsAdmin() {
		return "/admin/payments/"
	}
	return "/payments/"
}

func (s *PaymentService) Fetcher(sess *SessionContext) Fetcher[models.Payment] {
	return func(ctx context.Context, q ListQuery) (models.Page[models.Payment], error) {
		resp, err := s.List(ctx, sess, q)
		if err != nil {
			return models.Page[models.Payment]{}, err
		}
		return models.NewPage(resp.Payments, resp.Pagination), nil
	}
}

// Summary returns the receipt totals of the signed-in user
func (s *PaymentService) Summary(ctx context.Context, sess *SessionContext) (models.PaymentSummary, error) {
	if sess.IsAdmin() {
		var resp models.PaymentListResponse
		err := s.api.GetJSON(ctx, sess, "/admin/payments/", url.Values{"limit": {"1"}}, &resp)
		return resp.SummaryStats, err
	}
	var resp struct {
		Summary models.PaymentSummary `json:"summary"`
	}
	err := s.api.GetJSON(ctx, sess, "/payments/summary/", nil, &resp)
	return resp.Summary, err
}

// Methods lists the payment methods with display labels
func (s *PaymentService) Methods(ctx context.Context, sess *SessionContext) ([]models.Option, error) {
	var resp struct {
		PaymentMethods []models.Option `json:"payment_methods"`
	}
	err := s.api.GetJSON(ctx, sess, "/payments/methods/", nil, &resp)
	return resp.PaymentMethods, err
}

// PendingReviews lists documents and payments waiting for an administrator
func (s *PaymentService) PendingReviews(ctx context.Context, sess *SessionContext) (models.PendingReviewResponse, error) {
	var resp models.PendingReviewResponse
	err := s.api.GetJSON(ctx, sess, "/admin/documents/pending/", nil, &resp)
	return resp, err
}

// FindPending looks a payment up in the pending review queue
func (s *PaymentService) FindPending(ctx context.Context, sess *SessionContext, id int) (models.Payment, bool, error) {
	resp, err := s.PendingReviews(ctx, sess)
	if err != nil {
		return models.Payment{}, false, err
	}
	for _, item := range resp.PendingItems {
		if item.Type == "payment" && item.ID == id {
			ref := item.Beneficiary
			return models.Payment{
				ID:             item.ID,
				ReceiptNumber:  item.ReceiptNumber,
				Amount:         item.Amount,
				PaymentDate:    item.PaymentDate,
				PaymentMethod:  item.PaymentMethod,
				Status:         models.PaymentPending,
				ReceiptFileURL: item.ReceiptFileURL,
				Beneficiary:    &ref,
			}, true, nil
		}
	}
	return models.Payment{}, false, nil
}

// Review records an administrator's decision on a pending payment. Only
// pending -> verified|rejected is accepted; anything else is refused
// before a request is made.
func (s *PaymentService) Review(ctx context.Context, sess *SessionContext, p models.Payment, status, notes string) error {
	if !p.CanTransitionTo(status) {
		return fmt.Errorf("%w: payment %d is %s", ErrInvalidTransition, p.ID, p.Status)
	}
	body := map[string]string{"status": status, "notes": strings.TrimSpace(notes)}
	return s.api.PostJSON(ctx, sess, fmt.Sprintf("/admin/payments/%d/verify/", p.ID), body, nil)
}

// Upload validates and submits a receipt from the portal
func (s *PaymentService) Upload(ctx context.Context, sess *SessionContext, values map[string]string, files []FilePart) (models.Payment, error) {
	var resp struct {
		Payment models.Payment `json:"payment"`
	}
	if err := ReceiptSchema.Validate(ModeCreate, values, files); err != nil {
		return resp.Payment, err
	}
	form := ReceiptSchema.Encode(ModeCreate, values, files)
	err := s.api.PostMultipart(ctx, sess, "/payments/upload/", form.Fields, form.Files, &resp)
	return resp.Payment, err
}

// DownloadReceipt fetches the receipt file of a payment
func (s *PaymentService) DownloadReceipt(ctx context.Context, sess *SessionContext, id int) (*Download, error) {
	endpoint := fmt.Sprintf("/payments/%d/download/", id)
	if sess.IsAdmin() {
		endpoint = fmt.Sprintf("/admin/payments/%d/download/", id)
	}
	return s.api.Download(ctx, sess, endpoint)
}
