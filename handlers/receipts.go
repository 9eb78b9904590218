package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	noReceipts = "No receipts found"
	// receiptLinkTTL is how long a signed archive link stays valid
	receiptLinkTTL = 15 * time.Minute
)

func (h *Handler) receiptDesk(c echo.Context) *listDesk[models.Payment, models.PaymentSummary] {
	svc := h.backend.Payments
	return sessionDesk(h, c, "receipts",
		services.ListOptions{Filters: services.PaymentFilters},
		svc.Fetcher,
		svc.Summary)
}

// ReceiptsHandler returns one page of receipts. Administrators see every
// beneficiary's receipts, beneficiaries their own.
func (h *Handler) ReceiptsHandler(c echo.Context) error {
	return listPage(h, c, h.receiptDesk(c).list, noReceipts)
}

// ReceiptsLiveHandler feeds the search box
func (h *Handler) ReceiptsLiveHandler(c echo.Context) error {
	return liveSearch(h, c, h.receiptDesk(c).list, noReceipts)
}

// PaymentSummaryHandler returns the receipt totals
func (h *Handler) PaymentSummaryHandler(c echo.Context) error {
	desk := h.receiptDesk(c)
	summary, err := h.backend.Payments.Summary(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	desk.setSummary(summary)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "summary": summary})
}

// PaymentMethodsHandler lists the methods a receipt may be recorded under
func (h *Handler) PaymentMethodsHandler(c echo.Context) error {
	methods, err := h.backend.Payments.Methods(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "payment_methods": methods})
}

// VerifyReceiptHandler marks a pending receipt verified
func (h *Handler) VerifyReceiptHandler(c echo.Context) error {
	return h.reviewReceipt(c, models.PaymentVerified, "Payment verified successfully")
}

// RejectReceiptHandler marks a pending receipt rejected
func (h *Handler) RejectReceiptHandler(c echo.Context) error {
	return h.reviewReceipt(c, models.PaymentRejected, "Payment rejected")
}

func (h *Handler) reviewReceipt(c echo.Context, status, message string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	desk := h.receiptDesk(c)
	sess := h.session(c)

	payment, err := h.findReceipt(c.Request().Context(), sess, desk, id)
	if err != nil {
		return h.fail(c, err)
	}

	err = desk.submit.Submit(c.Request().Context(), func(ctx context.Context) error {
		return h.backend.Payments.Review(ctx, sess, payment, status, values["notes"])
	})
	return h.submitted(c, err, message, map[string]any{
		"summary": desk.Summary(),
	}, "receipts", "reviews")
}

// findReceipt looks id up in the rows on screen, then in the review queue
func (h *Handler) findReceipt(ctx context.Context, sess *services.SessionContext, desk *listDesk[models.Payment, models.PaymentSummary], id int) (models.Payment, error) {
	for _, p := range desk.list.Snapshot().Rows {
		if p.ID == id {
			return p, nil
		}
	}
	p, ok, err := h.backend.Payments.FindPending(ctx, sess, id)
	if err != nil {
		return models.Payment{}, err
	}
	if !ok {
		return models.Payment{}, fmt.Errorf("%w: payment %d is not awaiting review", services.ErrInvalidTransition, id)
	}
	return p, nil
}

// DownloadReceiptHandler serves a receipt file. With R2 configured the file
// is archived and the browser is sent to a signed link.
func (h *Handler) DownloadReceiptHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	ctx := c.Request().Context()

	d, err := h.backend.Payments.DownloadReceipt(ctx, h.session(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	fallback := fmt.Sprintf("receipt_%d", id)

	if h.storage == nil || h.storage.Name() != "r2" {
		return sendDownload(c, d, fallback)
	}

	name := d.FileName
	if name == "" {
		name = fallback
	}
	result, err := services.Archive(ctx, h.storage, fmt.Sprintf("receipt_%d_%s", id, name), d.ContentType, d.Body, h.now())
	if err != nil {
		h.logger.Warn("receipt archive failed, streaming instead", zap.Int("payment_id", id), zap.Error(err))
		return sendDownload(c, d, fallback)
	}
	link, err := h.storage.SignedURL(ctx, result.Key, receiptLinkTTL)
	if err != nil {
		h.logger.Warn("receipt link failed, streaming instead", zap.Int("payment_id", id), zap.Error(err))
		return sendDownload(c, d, fallback)
	}
	return c.Redirect(http.StatusFound, link)
}

// PendingReviewsHandler lists documents and receipts awaiting review
func (h *Handler) PendingReviewsHandler(c echo.Context) error {
	resp, err := h.backend.Payments.PendingReviews(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"pending_items": resp.PendingItems,
		"counts":        resp.Counts,
		"empty":         len(resp.PendingItems) == 0,
	})
}

// ReviewDocumentHandler records an administrator's decision on a document
func (h *Handler) ReviewDocumentHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}

	review := models.DocumentReview{Status: values["status"], Notes: values["notes"]}
	if err := h.backend.Documents.Review(c.Request().Context(), h.session(c), id, review); err != nil {
		return h.fail(c, err)
	}
	return h.done(c, "Document reviewed successfully", nil, "reviews")
}

// UploadReceiptHandler submits a receipt from the portal
func (h *Handler) UploadReceiptHandler(c echo.Context) error {
	values, files, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	desk := h.receiptDesk(c)
	sess := h.session(c)

	var payment models.Payment
	err = desk.submit.Submit(c.Request().Context(), func(ctx context.Context) error {
		var err error
		payment, err = h.backend.Payments.Upload(ctx, sess, values, files)
		return err
	})
	return h.submitted(c, err, "Receipt uploaded successfully", map[string]any{
		"payment": payment,
		"summary": desk.Summary(),
	}, "receipts")
}
