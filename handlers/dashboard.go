package handlers

import (
	"net/http"
	"sponsorship_console/templates/pages"

	"github.com/labstack/echo/v4"
)

// AdminDashboardHandler returns the admin overview
func (h *Handler) AdminDashboardHandler(c echo.Context) error {
	d, err := h.backend.Dashboards.Admin(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, pages.NewAdminDashboardView(d))
}

// PortalDashboardHandler returns the beneficiary's overview
func (h *Handler) PortalDashboardHandler(c echo.Context) error {
	d, err := h.backend.Dashboards.Portal(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, pages.NewPortalDashboardView(d))
}
