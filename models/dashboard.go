package models

// DashboardStats are the headline counters of the admin dashboard
type DashboardStats struct {
	TotalBeneficiaries  int    `json:"total_beneficiaries"`
	ActiveBeneficiaries int    `json:"active_beneficiaries"`
	PendingVerification int    `json:"pending_verification"`
	NewThisMonth        int    `json:"new_this_month"`
	TotalAidDisbursed   string `json:"total_aid_disbursed"`
	MonthAidDisbursed   string `json:"month_aid_disbursed"`
	PendingDocuments    int    `json:"pending_documents"`
	ApprovedDocuments   int    `json:"approved_documents"`
	RejectedDocuments   int    `json:"rejected_documents"`
	PendingPayments     int    `json:"pending_payments"`
	VerifiedPayments    int    `json:"verified_payments"`
	UnreadNotifications int    `json:"unread_notifications"`
}

// LevelDistribution is one bar of the students-per-level chart
type LevelDistribution struct {
	Level         string `json:"level"`
	Key           string `json:"key"`
	TotalStudents int    `json:"total_students"`
	ColorGradient string `json:"color_gradient,omitempty"`
	Icon          string `json:"icon,omitempty"`
}

// PendingReviewCounts are the review counts on the admin dashboard
type PendingReviewCounts struct {
	Documents int `json:"documents"`
	Payments  int `json:"payments"`
	Total     int `json:"total"`
}

// DueDate is an upcoming fee deadline
type DueDate struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
	Amount  string `json:"amount"`
	Status  string `json:"status"`
}

// CountyCount is one row of the geographical distribution
type CountyCount struct {
	County   string `json:"county"`
	Students int    `json:"students"`
}

// AdminDashboard is the dashboard object of /admin/dashboard/
type AdminDashboard struct {
	Stats                      DashboardStats      `json:"stats"`
	EducationLevelDistribution []LevelDistribution `json:"education_level_distribution"`
	PendingReviews             PendingReviewCounts `json:"pending_reviews"`
	RecentActivities           []Activity          `json:"recent_activities"`
	UpcomingDueDates           []DueDate           `json:"upcoming_due_dates"`
	GeographicalDistribution   []CountyCount       `json:"geographical_distribution"`
	User                       *User               `json:"user,omitempty"`
	Timestamp                  string              `json:"timestamp"`
}

// PortalStats are the document and message counters of the portal home
type PortalStats struct {
	DocumentsSubmitted int `json:"documents_submitted"`
	PendingApproval    int `json:"pending_approval"`
	Approved           int `json:"approved"`
	ActionRequired     int `json:"action_required"`
	UnreadMessages     int `json:"unread_messages"`
}

// Deadline is an upcoming portal deadline
type Deadline struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date"`
	DaysLeft    int    `json:"days_left"`
}

// PortalAcademic is the latest academic record shown on the portal home
type PortalAcademic struct {
	GPA                  *string `json:"gpa"`
	ClassRank            *int    `json:"class_rank"`
	TotalStudents        *int    `json:"total_students"`
	AttendancePercentage *string `json:"attendance_percentage"`
	Term                 *string `json:"term"`
	Year                 *int    `json:"year"`
}

// PortalDashboard is the dashboard object of /dashboard/
type PortalDashboard struct {
	User                User           `json:"user"`
	Stats               PortalStats    `json:"stats"`
	RecentDocuments     []Document     `json:"recent_documents"`
	UpcomingDeadlines   []Deadline     `json:"upcoming_deadlines"`
	AcademicPerformance PortalAcademic `json:"academic_performance"`
	FinancialAidStatus  string         `json:"financial_aid_status"`
}
