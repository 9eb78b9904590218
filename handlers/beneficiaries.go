package handlers

import (
	"context"
	"net/http"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const noBeneficiaries = "No beneficiaries found"

func (h *Handler) beneficiaryDesk(c echo.Context) *listDesk[models.Beneficiary, models.BeneficiarySummary] {
	svc := h.backend.Beneficiaries
	return sessionDesk(h, c, "beneficiaries",
		services.ListOptions{Filters: services.BeneficiaryFilters},
		svc.Fetcher,
		func(ctx context.Context, sess *services.SessionContext) (models.BeneficiarySummary, error) {
			return svc.Summary(ctx, sess)
		})
}

// BeneficiariesHandler returns one page of beneficiaries
func (h *Handler) BeneficiariesHandler(c echo.Context) error {
	return listPage(h, c, h.beneficiaryDesk(c).list, noBeneficiaries)
}

// BeneficiariesLiveHandler feeds the search box
func (h *Handler) BeneficiariesLiveHandler(c echo.Context) error {
	return liveSearch(h, c, h.beneficiaryDesk(c).list, noBeneficiaries)
}

// BeneficiarySummaryHandler returns the headline counts above the table
func (h *Handler) BeneficiarySummaryHandler(c echo.Context) error {
	desk := h.beneficiaryDesk(c)
	summary, err := h.backend.Beneficiaries.Summary(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	desk.setSummary(summary)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "summary": summary})
}

// BeneficiaryDetailHandler returns the full record of one beneficiary
func (h *Handler) BeneficiaryDetailHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	detail, err := h.backend.Beneficiaries.Detail(c.Request().Context(), h.session(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// CreateBeneficiaryHandler submits the create form. The temporary password
// is shown once in the answer.
func (h *Handler) CreateBeneficiaryHandler(c echo.Context) error {
	values, files, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	desk := h.beneficiaryDesk(c)
	sess := h.session(c)

	var created models.CreateBeneficiaryResponse
	err = desk.submit.Submit(c.Request().Context(), func(ctx context.Context) error {
		var err error
		created, err = h.backend.Beneficiaries.Create(ctx, sess, values, files)
		return err
	})

	message := "Beneficiary created successfully"
	if pw := created.Beneficiary.TemporaryPassword; pw != "" {
		message += ". Temporary password: " + pw
	}
	return h.submitted(c, err, message, map[string]any{
		"beneficiary": created.Beneficiary,
		"summary":     desk.Summary(),
	}, "beneficiaries")
}

// UpdateBeneficiaryHandler submits the edit form. Empty fields are left unchanged.
func (h *Handler) UpdateBeneficiaryHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	values, files, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	desk := h.beneficiaryDesk(c)
	sess := h.session(c)

	err = desk.submit.Submit(c.Request().Context(), func(ctx context.Context) error {
		return h.backend.Beneficiaries.Update(ctx, sess, id, values, files)
	})
	return h.submitted(c, err, "Beneficiary updated successfully", map[string]any{
		"summary": desk.Summary(),
	}, "beneficiaries")
}

// BeneficiaryStatusHandler changes only the sponsorship status
func (h *Handler) BeneficiaryStatusHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	status := values["sponsorship_status"]
	if status == "" {
		status = values["status"]
	}
	desk := h.beneficiaryDesk(c)
	sess := h.session(c)

	err = desk.submit.Submit(c.Request().Context(), func(ctx context.Context) error {
		return h.backend.Beneficiaries.SetStatus(ctx, sess, id, strings.TrimSpace(status))
	})
	return h.submitted(c, err, "Status updated successfully", map[string]any{
		"summary": desk.Summary(),
	}, "beneficiaries")
}

// SendWelcomeHandler emails login details to a beneficiary
func (h *Handler) SendWelcomeHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.backend.Beneficiaries.SendWelcome(c.Request().Context(), h.session(c), id); err != nil {
		return h.fail(c, err)
	}
	return h.done(c, "Welcome email sent", nil)
}

// MessageBeneficiaryHandler sends a direct message to one beneficiary
func (h *Handler) MessageBeneficiaryHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}

	resp, err := h.backend.Communication.Send(c.Request().Context(), h.session(c), models.Compose{
		Subject:     values["subject"],
		Content:     values["content"],
		RecipientID: id,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return h.done(c, "Message sent successfully", map[string]any{"message_id": resp.MessageID})
}

// AssignLevelHandler moves a beneficiary to an education level and grade
func (h *Handler) AssignLevelHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}

	var assignment models.LevelAssignment
	assignment.EducationLevelID, _ = strconv.Atoi(values["education_level_id"])
	if g, err := strconv.Atoi(values["grade_class_id"]); err == nil && g > 0 {
		assignment.GradeClassID = &g
	}

	desk := h.beneficiaryDesk(c)
	sess := h.session(c)
	err = desk.submit.Submit(c.Request().Context(), func(ctx context.Context) error {
		return h.backend.Beneficiaries.AssignLevel(ctx, sess, id, assignment)
	})
	return h.submitted(c, err, "Education level assigned successfully", nil, "beneficiaries")
}
