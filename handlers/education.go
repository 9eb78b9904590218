package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const noGradeStudents = "No students in this grade"

// EducationLevelsHandler lists the levels with their grade classes
func (h *Handler) EducationLevelsHandler(c echo.Context) error {
	levels, err := h.backend.Education.Levels(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "education_levels": levels})
}

// EducationDashboardHandler returns the education overview
func (h *Handler) EducationDashboardHandler(c echo.Context) error {
	d, err := h.backend.Education.Dashboard(c.Request().Context(), h.session(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// LevelDetailHandler returns one level with statistics and recent activity
func (h *Handler) LevelDetailHandler(c echo.Context) error {
	detail, err := h.backend.Education.Detail(c.Request().Context(), h.session(c), c.Param("key"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateLevelHandler edits a level's presentation fields. Only fields
// present in the JSON body change.
func (h *Handler) UpdateLevelHandler(c echo.Context) error {
	var update models.LevelUpdate
	if err := c.Bind(&update); err != nil {
		return h.fail(c, &services.ValidationError{Problems: []string{"Invalid request body"}})
	}
	if err := h.backend.Education.UpdateLevel(c.Request().Context(), h.session(c), c.Param("key"), update); err != nil {
		return h.fail(c, err)
	}
	return h.done(c, "Education level updated successfully", nil, "education")
}

// GradesForLevelHandler returns the grade classes a level offers
func (h *Handler) GradesForLevelHandler(c echo.Context) error {
	levelID, err := paramID(c, "key")
	if err != nil {
		return h.fail(c, err)
	}
	grades, err := h.backend.Education.GradesFor(c.Request().Context(), h.session(c), levelID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "grades": grades})
}

// CreateGradeHandler adds a grade class to a level
func (h *Handler) CreateGradeHandler(c echo.Context) error {
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	levelID, _ := strconv.Atoi(values["education_level_id"])

	id, err := h.backend.Education.CreateGrade(c.Request().Context(), h.session(c), models.NewGrade{
		EducationLevelID: levelID,
		Name:             values["name"],
		ShortCode:        values["short_code"],
		Description:      strings.TrimSpace(values["description"]),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return h.done(c, "Grade created successfully", map[string]any{"grade_id": id}, "education")
}

func (h *Handler) gradeStudents(c echo.Context, gradeID int) *services.ListController[models.GradeStudent] {
	return sessionList(h, c, fmt.Sprintf("grade-students:%d", gradeID), services.ListOptions{},
		func(sess *services.SessionContext) services.Fetcher[models.GradeStudent] {
			return h.backend.Education.GradeStudentsFetcher(sess, gradeID)
		})
}

// GradeStudentsHandler returns one page of a grade class's students
func (h *Handler) GradeStudentsHandler(c echo.Context) error {
	gradeID, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	return listPage(h, c, h.gradeStudents(c, gradeID), noGradeStudents)
}

// GradeStudentsLiveHandler feeds the grade students search box
func (h *Handler) GradeStudentsLiveHandler(c echo.Context) error {
	gradeID, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	return liveSearch(h, c, h.gradeStudents(c, gradeID), noGradeStudents)
}

// ExportGradeStudentsHandler downloads every student of a grade as CSV,
// honouring the current search
func (h *Handler) ExportGradeStudentsHandler(c echo.Context) error {
	gradeID, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	resp, err := h.backend.Education.AllGradeStudents(c.Request().Context(), h.session(c), gradeID, c.QueryParam("search"))
	if err != nil {
		return h.fail(c, err)
	}

	var buf bytes.Buffer
	if err := services.GradeStudentsTable(resp).WriteCSV(&buf); err != nil {
		return h.fail(c, err)
	}

	name := services.GradeStudentsFileName(gradeID, h.now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, services.ContentType(services.FormatCSV), buf.Bytes())
}
