package handlers

import (
	"net/http"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"strconv"

	"github.com/labstack/echo/v4"
)

// NotificationsHandler lists the administrator's notifications. With
// mark_all_read=true they are marked read once listed.
func (h *Handler) NotificationsHandler(c echo.Context) error {
	markAll, _ := strconv.ParseBool(c.QueryParam("mark_all_read"))
	resp, err := h.backend.Communication.Notifications(c.Request().Context(), h.session(c), markAll)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// MarkNotificationReadHandler marks one notification read
func (h *Handler) MarkNotificationReadHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.backend.Communication.MarkNotificationRead(c.Request().Context(), h.session(c), id); err != nil {
		return h.fail(c, err)
	}
	return h.done(c, "", nil, "notifications")
}

// SendAdminMessageHandler sends a message to the beneficiary in recipient_id
func (h *Handler) SendAdminMessageHandler(c echo.Context) error {
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	recipient, _ := strconv.Atoi(values["recipient_id"])

	resp, err := h.backend.Communication.Send(c.Request().Context(), h.session(c), models.Compose{
		Subject:     values["subject"],
		Content:     values["content"],
		RecipientID: recipient,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return h.done(c, "Message sent successfully", map[string]any{"message_id": resp.MessageID})
}

const noAuditLogs = "No audit logs found"

// AuditLogsHandler returns one page of the audit trail
func (h *Handler) AuditLogsHandler(c echo.Context) error {
	list := sessionList(h, c, "audit-logs",
		services.ListOptions{Filters: services.AuditLogFilters, PageSize: services.DefaultAuditPageSize},
		h.backend.Audit.Fetcher)
	return listPage(h, c, list, noAuditLogs)
}

const noDisbursements = "No financial aid records found"

func (h *Handler) financialAid(c echo.Context) *services.ListController[models.Disbursement] {
	return sessionList(h, c, "financial-aid",
		services.ListOptions{Filters: services.FinancialAidFilters},
		h.backend.FinancialAid.Fetcher)
}

// FinancialAidHandler returns one page of disbursements
func (h *Handler) FinancialAidHandler(c echo.Context) error {
	return listPage(h, c, h.financialAid(c), noDisbursements)
}

// FinancialAidLiveHandler feeds the search box
func (h *Handler) FinancialAidLiveHandler(c echo.Context) error {
	return liveSearch(h, c, h.financialAid(c), noDisbursements)
}
