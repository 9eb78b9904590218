package models

// LevelStats are the aggregate numbers for one education level
type LevelStats struct {
	TotalStudents      int     `json:"total_students"`
	ActiveStudents     int     `json:"active_students"`
	AveragePerformance float64 `json:"average_performance"`
	PassingRate        float64 `json:"passing_rate"`
}

// GradeClass is a class within an education level
type GradeClass struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ShortCode   string `json:"short_code"`
	Description string `json:"description,omitempty"`
}

// EducationLevel is one of the program's levels (primary, secondary, ...)
type EducationLevel struct {
	ID            int          `json:"id"`
	Key           string       `json:"key"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	IconName      string       `json:"icon_name,omitempty"`
	ColorGradient string       `json:"color_gradient,omitempty"`
	Order         int          `json:"order"`
	IsActive      bool         `json:"is_active"`
	Stats         LevelStats   `json:"stats"`
	Grades        []GradeClass `json:"grades"`
}

// LevelStatistics is the detailed statistics block of a level detail
type LevelStatistics struct {
	TotalStudents       int     `json:"total_students"`
	ActiveStudents      int     `json:"active_students"`
	PendingVerification int     `json:"pending_verification"`
	NewThisMonth        int     `json:"new_this_month"`
	AveragePerformance  float64 `json:"average_performance"`
	PassingRate         float64 `json:"passing_rate"`
	TotalFees           float64 `json:"total_fees"`
	TotalPaid           float64 `json:"total_paid"`
	TotalAidDisbursed   float64 `json:"total_aid_disbursed"`
	PendingDocuments    int     `json:"pending_documents"`
	ApprovedDocuments   int     `json:"approved_documents"`
}

// GradeStat summarises one grade class in a level detail
type GradeStat struct {
	Grade              GradeClass `json:"grade"`
	StudentCount       int        `json:"student_count"`
	AveragePerformance float64    `json:"average_performance"`
	AverageAttendance  float64    `json:"average_attendance"`
	MaleStudents       int        `json:"male_students"`
	FemaleStudents     int        `json:"female_students"`
}

// Activity is an entry of a recent activity feed
type Activity struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	User   string `json:"user"`
	Grade  string `json:"grade,omitempty"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// LevelDetail is the body of /admin/education-levels/{key}/
type LevelDetail struct {
	EducationLevel     EducationLevel   `json:"education_level"`
	Statistics         LevelStatistics  `json:"statistics"`
	Grades             []GradeStat      `json:"grades"`
	RecentActivities   []Activity       `json:"recent_activities"`
	PerformanceTrends  []map[string]any `json:"performance_trends"`
	CountyDistribution []map[string]any `json:"county_distribution"`
}

// GradeStudent is one row of the grade students table
type GradeStudent struct {
	ID                  int      `json:"id"`
	FullName            string   `json:"full_name"`
	Email               string   `json:"email"`
	PhoneNumber         string   `json:"phone_number"`
	School              string   `json:"school"`
	AdmissionNumber     string   `json:"admission_number,omitempty"`
	Gender              string   `json:"gender,omitempty"`
	County              string   `json:"county,omitempty"`
	SponsorshipStatus   string   `json:"sponsorship_status"`
	IsVerified          bool     `json:"is_verified"`
	RegistrationDate    string   `json:"registration_date,omitempty"`
	AcademicPerformance *float64 `json:"academic_performance"`
	Attendance          *float64 `json:"attendance"`
	TotalFees           string   `json:"total_fees"`
	TotalPaid           string   `json:"total_paid"`
	Balance             string   `json:"balance"`
	ProfileImageURL     *string  `json:"profile_image_url"`
}

// GradeStatistics summarises a grade class
type GradeStatistics struct {
	TotalStudents      int     `json:"total_students"`
	MaleStudents       int     `json:"male_students"`
	FemaleStudents     int     `json:"female_students"`
	AveragePerformance float64 `json:"average_performance"`
	AverageAttendance  float64 `json:"average_attendance"`
}

// GradeInfo names the grade and its level in the students response
type GradeInfo struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	ShortCode      string   `json:"short_code"`
	Description    string   `json:"description,omitempty"`
	EducationLevel LevelRef `json:"education_level"`
}

// GradeStudentsResponse is the body of /admin/grades/{id}/students/
type GradeStudentsResponse struct {
	Grade      GradeInfo       `json:"grade"`
	Statistics GradeStatistics `json:"statistics"`
	Students   []GradeStudent  `json:"students"`
	Pagination Pagination      `json:"pagination"`
}

// LevelUpdate is the editable subset of an education level
type LevelUpdate struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	IconName      *string `json:"icon_name,omitempty"`
	ColorGradient *string `json:"color_gradient,omitempty"`
	Order         *int    `json:"order,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// NewGrade is the body of /admin/grades/create/
type NewGrade struct {
	EducationLevelID int    `json:"education_level_id"`
	Name             string `json:"name"`
	ShortCode        string `json:"short_code"`
	Description      string `json:"description,omitempty"`
}

// LevelAssignment moves a student to a level and optional grade class
type LevelAssignment struct {
	EducationLevelID int  `json:"education_level_id"`
	GradeClassID     *int `json:"grade_class_id,omitempty"`
}

// EducationDashboard is the body of /admin/education-dashboard/
type EducationDashboard struct {
	OverallStats struct {
		TotalStudents             int     `json:"total_students"`
		ActiveStudents            int     `json:"active_students"`
		OverallAveragePerformance float64 `json:"overall_average_performance"`
	} `json:"overall_stats"`
	EducationLevels     []map[string]any `json:"education_levels"`
	TopPerformingGrades []map[string]any `json:"top_performing_grades"`
	RecentEnrollments   []map[string]any `json:"recent_enrollments"`
	Timestamp           string           `json:"timestamp"`
}
