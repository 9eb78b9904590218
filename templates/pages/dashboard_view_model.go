package pages

import (
	"sponsorship_console/models"
	"sponsorship_console/services"
)

// AdminDashboardView holds the data for the admin dashboard
type AdminDashboardView struct {
	Dashboard         models.AdminDashboard `json:"dashboard"`
	TotalAidDisbursed string                `json:"total_aid_disbursed"`
	MonthAidDisbursed string                `json:"month_aid_disbursed"`
	PendingReviews    int                   `json:"pending_reviews"`
	UnreadCount       int                   `json:"unread_count"`
	LastUpdated       string                `json:"last_updated"`
}

func NewAdminDashboardView(d models.AdminDashboard) AdminDashboardView {
	return AdminDashboardView{
		Dashboard:         d,
		TotalAidDisbursed: services.FormatKES(d.Stats.TotalAidDisbursed),
		MonthAidDisbursed: services.FormatKES(d.Stats.MonthAidDisbursed),
		PendingReviews:    d.PendingReviews.Documents + d.PendingReviews.Payments,
		UnreadCount:       d.Stats.UnreadNotifications,
		LastUpdated:       timestampLabel(d.Timestamp),
	}
}

// PortalDashboardView holds the data for the beneficiary home page
type PortalDashboardView struct {
	Dashboard   models.PortalDashboard `json:"dashboard"`
	DisplayName string                 `json:"display_name"`
	GPA         string                 `json:"gpa"`
	Attendance  string                 `json:"attendance"`
	UnreadCount int                    `json:"unread_count"`
}

func NewPortalDashboardView(d models.PortalDashboard) PortalDashboardView {
	view := PortalDashboardView{
		Dashboard:   d,
		DisplayName: d.User.DisplayName(),
		GPA:         services.PlaceholderNA,
		Attendance:  services.PlaceholderNA,
		UnreadCount: d.Stats.UnreadMessages,
	}
	if gpa := d.AcademicPerformance.GPA; gpa != nil {
		view.GPA = services.OrNA(*gpa)
	}
	if att := d.AcademicPerformance.AttendancePercentage; att != nil && *att != "" {
		view.Attendance = *att + "%"
	}
	return view
}

func timestampLabel(raw string) string {
	t, ok := services.ParseTimestamp(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2, 2006 15:04")
}
