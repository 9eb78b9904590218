package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"strings"

	"github.com/labstack/echo/v4"
)

const noStatements = "No fee statements found"

func (h *Handler) statementDesk(c echo.Context) *listDesk[models.FeeStatement, struct{}] {
	return sessionDesk[models.FeeStatement, struct{}](h, c, "statements",
		services.ListOptions{Filters: services.StatementFilters},
		h.backend.Statements.Fetcher,
		nil)
}

// StatementsHandler returns one page of fee statements
func (h *Handler) StatementsHandler(c echo.Context) error {
	return listPage(h, c, h.statementDesk(c).list, noStatements)
}

// StatementsLiveHandler feeds the search box
func (h *Handler) StatementsLiveHandler(c echo.Context) error {
	return liveSearch(h, c, h.statementDesk(c).list, noStatements)
}

// StatementSummaryHandler returns the program-wide fee totals
func (h *Handler) StatementSummaryHandler(c echo.Context) error {
	totals, err := h.backend.Statements.Totals(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "summary_stats": totals})
}

// PortalStatementSummaryHandler returns the beneficiary's balance summary
func (h *Handler) PortalStatementSummaryHandler(c echo.Context) error {
	summary, err := h.backend.Statements.Summary(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// StatementYearsHandler lists the years that have statements
func (h *Handler) StatementYearsHandler(c echo.Context) error {
	years, err := h.backend.Statements.Years(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	if years == nil {
		years = []int{}
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "years": years})
}

// UpdateStatementHandler edits the notes and status of a statement
func (h *Handler) UpdateStatementHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	desk := h.statementDesk(c)
	sess := h.session(c)

	update := services.StatementUpdate{Notes: values["notes"], Status: strings.TrimSpace(values["status"])}
	err = desk.submit.Submit(c.Request().Context(), func(ctx context.Context) error {
		return h.backend.Statements.Update(ctx, sess, id, update)
	})
	return h.submitted(c, err, "Statement updated successfully", nil, "statements")
}

// DownloadStatementHandler serves a statement file
func (h *Handler) DownloadStatementHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	d, err := h.backend.Statements.Download(c.Request().Context(), h.session(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return sendDownload(c, d, fmt.Sprintf("statement_%d.pdf", id))
}

// ExportStatementsHandler downloads every statement matching the filters as
// CSV, XLSX or PDF
func (h *Handler) ExportStatementsHandler(c echo.Context) error {
	format := strings.ToLower(c.QueryParam("format"))
	if format == "" {
		format = services.FormatCSV
	}
	if format != services.FormatCSV && format != services.FormatXLSX && format != services.FormatPDF {
		return h.fail(c, &services.ValidationError{Problems: []string{"Format must be one of: csv, xlsx, pdf"}})
	}

	q, err := parseListQuery(c, services.StatementFilters)
	if err != nil {
		return h.fail(c, err)
	}
	ctx := c.Request().Context()

	rows, err := services.CollectAll(ctx, h.backend.Statements.Fetcher(h.session(c)), q, services.StatementFilters, nil)
	if err != nil {
		return h.fail(c, err)
	}
	table := services.StatementsTable(rows)
	now := h.now()

	var buf bytes.Buffer
	if format == services.FormatPDF {
		pdf, err := services.RenderStatementPDF(ctx, table, services.DescribeFilters(q, services.StatementFilters), now)
		if err != nil {
			return h.fail(c, err)
		}
		buf.Write(pdf)
	} else if err := table.Write(&buf, format); err != nil {
		return h.fail(c, err)
	}

	name := services.StatementsFileName(format, now)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, services.ContentType(format), buf.Bytes())
}
