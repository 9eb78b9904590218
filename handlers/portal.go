package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"strings"

	"github.com/labstack/echo/v4"
)

const noDocuments = "No documents uploaded yet"

// AcademicSummaryHandler returns the beneficiary's academic overview
func (h *Handler) AcademicSummaryHandler(c echo.Context) error {
	summary, err := h.backend.Portal.AcademicSummary(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GradeGuideHandler returns the grading bands
func (h *Handler) GradeGuideHandler(c echo.Context) error {
	bands, err := h.backend.Portal.GradeGuide(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "grade_guide": bands})
}

// SubjectHistoryHandler returns the marks of one subject across terms
func (h *Handler) SubjectHistoryHandler(c echo.Context) error {
	subject := strings.TrimSpace(c.Param("subject"))
	if subject == "" {
		return h.fail(c, &services.ValidationError{Missing: []string{"Subject"}})
	}
	history, err := h.backend.Portal.SubjectHistory(c.Request().Context(), h.session(c), subject)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

// DownloadReportCardHandler serves the report card of one term
func (h *Handler) DownloadReportCardHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	d, err := h.backend.Portal.DownloadReportCard(c.Request().Context(), h.session(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return sendDownload(c, d, fmt.Sprintf("report_card_%d.pdf", id))
}

func (h *Handler) documentDesk(c echo.Context) *listDesk[models.Document, struct{}] {
	return sessionDesk[models.Document, struct{}](h, c, "documents",
		services.ListOptions{Filters: services.DocumentFilters},
		h.backend.Documents.Fetcher,
		nil)
}

// DocumentsHandler returns one page of the beneficiary's documents
func (h *Handler) DocumentsHandler(c echo.Context) error {
	return listPage(h, c, h.documentDesk(c).list, noDocuments)
}

// DocumentTypesHandler lists the document types an upload may declare
func (h *Handler) DocumentTypesHandler(c echo.Context) error {
	types, err := h.backend.Documents.Types(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "document_types": types})
}

// UploadDocumentHandler submits a document from the portal
func (h *Handler) UploadDocumentHandler(c echo.Context) error {
	values, files, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	desk := h.documentDesk(c)
	sess := h.session(c)

	var doc models.Document
	err = desk.submit.Submit(c.Request().Context(), func(ctx context.Context) error {
		var err error
		doc, err = h.backend.Documents.Upload(ctx, sess, values, files)
		return err
	})
	return h.submitted(c, err, "Document uploaded successfully", map[string]any{"document": doc}, "documents")
}

// DeleteDocumentHandler removes a document
func (h *Handler) DeleteDocumentHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	desk := h.documentDesk(c)
	sess := h.session(c)

	err = desk.submit.Submit(c.Request().Context(), func(ctx context.Context) error {
		return h.backend.Documents.Delete(ctx, sess, id)
	})
	return h.submitted(c, err, "Document deleted", nil, "documents")
}

// DownloadDocumentHandler serves a document file
func (h *Handler) DownloadDocumentHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	d, err := h.backend.Documents.Download(c.Request().Context(), h.session(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return sendDownload(c, d, fmt.Sprintf("document_%d", id))
}

// ProfileHandler returns the beneficiary's own profile
func (h *Handler) ProfileHandler(c echo.Context) error {
	profile, err := h.backend.Portal.Profile(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "profile": profile})
}

// UpdateProfileHandler saves the profile fields present in the body
func (h *Handler) UpdateProfileHandler(c echo.Context) error {
	var update models.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return h.fail(c, &services.ValidationError{Problems: []string{"Invalid request body"}})
	}
	if err := h.backend.Portal.UpdateProfile(c.Request().Context(), h.session(c), update); err != nil {
		return h.fail(c, err)
	}
	return h.done(c, "Profile updated successfully", nil, "profile")
}
