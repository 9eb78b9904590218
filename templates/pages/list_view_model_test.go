package pages

import (
	"sponsorship_console/models"
	"sponsorship_console/services"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewListViewKeepsRowsOnError(t *testing.T) {
	snap := services.ListSnapshot[string]{
		Query:      services.ListQuery{Search: "jane", Filters: map[string]string{"status": "active"}},
		Rows:       []string{"a", "b"},
		TotalCount: 12,
		Page:       2,
		PageSize:   10,
		TotalPages: 2,
		Pages:      []int{1, 2},
		Showing:    "Showing 11 to 12 of 12",
		Loaded:     true,
		Err:        &services.NetworkError{Op: "GET /admin/beneficiaries/"},
	}

	view := NewListView(snap, "No beneficiaries found")

	assert.False(t, view.Success)
	assert.Equal(t, []string{"a", "b"}, view.Rows)
	assert.NotEmpty(t, view.Error)
	assert.False(t, view.Empty)
	assert.Empty(t, view.EmptyMessage)
	assert.Equal(t, 2, view.Pagination.CurrentPage)
	assert.Equal(t, 10, view.Pagination.ItemsPerPage)
	assert.True(t, view.Pagination.HasPrevious)
	assert.False(t, view.Pagination.HasNext)
	assert.Equal(t, "jane", view.Search)
}

func TestNewListViewEmpty(t *testing.T) {
	view := NewListView(services.ListSnapshot[int]{Empty: true, Loaded: true, Page: 1, PageSize: 10}, "No receipts found")

	assert.True(t, view.Success)
	assert.True(t, view.Empty)
	assert.Equal(t, "No receipts found", view.EmptyMessage)
	assert.NotNil(t, view.Rows)
	assert.NotNil(t, view.Pagination.Pages)
	assert.Empty(t, view.Error)
}

func TestNewAdminDashboardView(t *testing.T) {
	d := models.AdminDashboard{
		Stats:          models.DashboardStats{TotalAidDisbursed: "1250000.00", UnreadNotifications: 3},
		PendingReviews: models.PendingReviewCounts{Documents: 2, Payments: 5},
		Timestamp:      "2026-03-09T10:30:00Z",
	}

	view := NewAdminDashboardView(d)
	assert.Equal(t, "KES 1,250,000", view.TotalAidDisbursed)
	assert.Equal(t, services.PlaceholderNA, view.MonthAidDisbursed)
	assert.Equal(t, 7, view.PendingReviews)
	assert.Equal(t, 3, view.UnreadCount)
	assert.Equal(t, "Mar 9, 2026 10:30", view.LastUpdated)
}

func TestNewPortalDashboardView(t *testing.T) {
	gpa := "B+"
	att := "92.5"
	d := models.PortalDashboard{
		User:                models.User{FullName: "Jane Muthoni"},
		AcademicPerformance: models.PortalAcademic{GPA: &gpa, AttendancePercentage: &att},
	}

	view := NewPortalDashboardView(d)
	assert.Equal(t, "Jane Muthoni", view.DisplayName)
	assert.Equal(t, "B+", view.GPA)
	assert.Equal(t, "92.5%", view.Attendance)
}
