package models

// TermSummary is a per-term academic result
type TermSummary struct {
	ID                   int     `json:"id,omitempty"`
	Term                 string  `json:"term"`
	Year                 int     `json:"year"`
	AverageScore         float64 `json:"average_score"`
	AverageGrade         string  `json:"average_grade"`
	MeanGrade            string  `json:"mean_grade"`
	ClassRank            int     `json:"class_rank"`
	TotalStudents        int     `json:"total_students"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	GradePoints          float64 `json:"grade_points,omitempty"`
	IsCurrent            bool    `json:"is_current,omitempty"`
	Remarks              *string `json:"remarks"`
	CreatedAt            string  `json:"created_at,omitempty"`
}

// SubjectGrade is one subject mark in the current term
type SubjectGrade struct {
	ID           int     `json:"id"`
	Subject      string  `json:"subject"`
	SubjectValue string  `json:"subject_value"`
	Marks        float64 `json:"marks"`
	Grade        string  `json:"grade"`
	GradeDisplay string  `json:"grade_display,omitempty"`
	Points       float64 `json:"points"`
	Teacher      string  `json:"teacher,omitempty"`
	Remarks      string  `json:"remarks,omitempty"`
}

// BestSubject names the strongest subject of the term
type BestSubject struct {
	Subject string  `json:"subject"`
	Marks   float64 `json:"marks"`
	Grade   string  `json:"grade"`
}

// PerformanceStats summarises the current grades
type PerformanceStats struct {
	OverallAverage    float64        `json:"overall_average"`
	BestSubject       *BestSubject   `json:"best_subject"`
	TotalSubjects     int            `json:"total_subjects"`
	GradeDistribution map[string]int `json:"grade_distribution"`
}

// AcademicSummary is the body of /academics/summary/
type AcademicSummary struct {
	CurrentSummary   TermSummary      `json:"current_summary"`
	CurrentGrades    []SubjectGrade   `json:"current_grades"`
	AcademicHistory  []TermSummary    `json:"academic_history"`
	PerformanceStats PerformanceStats `json:"performance_stats"`
}

// GradeBand is one row of the grading guide
type GradeBand struct {
	Grade       string `json:"grade"`
	Range       string `json:"range"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// SubjectRecord is one term's mark for a subject
type SubjectRecord struct {
	Term         string  `json:"term"`
	Year         int     `json:"year"`
	Marks        float64 `json:"marks"`
	Grade        string  `json:"grade"`
	GradeDisplay string  `json:"grade_display,omitempty"`
	Teacher      string  `json:"teacher,omitempty"`
}

// SubjectHistory is the body of /academics/subject/{subject}/history/
type SubjectHistory struct {
	Subject       string          `json:"subject"`
	SubjectValue  string          `json:"subject_value"`
	AverageMarks  float64         `json:"average_marks"`
	HighestMarks  float64         `json:"highest_marks"`
	LowestMarks   float64         `json:"lowest_marks"`
	TotalTerms    int             `json:"total_terms"`
	GradeTrend    []SubjectRecord `json:"grade_trend"`
	CurrentRecord *SubjectRecord  `json:"current_record"`
}
