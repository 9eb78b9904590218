package models

// Sponsorship statuses
const (
	SponsorshipActive    = "active"
	SponsorshipPending   = "pending"
	SponsorshipSuspended = "suspended"
	SponsorshipCompleted = "completed"
)

// SponsorshipStatuses lists every status an administrator may set
var SponsorshipStatuses = []string{
	SponsorshipActive,
	SponsorshipPending,
	SponsorshipSuspended,
	SponsorshipCompleted,
}

// LevelRef identifies an education level inside a beneficiary record
type LevelRef struct {
	ID    *int   `json:"id"`
	Title string `json:"title,omitempty"`
	Key   string `json:"key,omitempty"`
}

// GradeRef identifies a grade class inside a beneficiary record
type GradeRef struct {
	ID   *int   `json:"id"`
	Name string `json:"name,omitempty"`
}

// Beneficiary is one row of the admin beneficiaries list
type Beneficiary struct {
	ID                  int      `json:"id"`
	FullName            string   `json:"full_name"`
	Email               string   `json:"email"`
	PhoneNumber         string   `json:"phone_number"`
	School              string   `json:"school"`
	Grade               string   `json:"grade,omitempty"`
	County              string   `json:"county,omitempty"`
	SponsorshipStatus   string   `json:"sponsorship_status"`
	IsVerified          bool     `json:"is_verified"`
	RegistrationDate    string   `json:"registration_date,omitempty"`
	YearsInProgram      int      `json:"years_in_program,omitempty"`
	AcademicPerformance *float64 `json:"academic_performance"`
	AcademicRank        *int     `json:"academic_rank"`
	TotalFees           string   `json:"total_fees"`
	TotalPaid           string   `json:"total_paid"`
	Balance             string   `json:"balance"`
	ProfileImageURL     *string  `json:"profile_image_url"`
	EducationLevel      LevelRef `json:"education_level"`
	GradeClass          GradeRef `json:"grade_class"`
}

// BeneficiarySummary counts shown above the beneficiaries table
type BeneficiarySummary struct {
	Total               int `json:"total"`
	Active              int `json:"active"`
	PendingVerification int `json:"pending_verification"`
}

// BeneficiaryListResponse is the body of GET /admin/beneficiaries/
type BeneficiaryListResponse struct {
	Beneficiaries []Beneficiary      `json:"beneficiaries"`
	Pagination    Pagination         `json:"pagination"`
	Summary       BeneficiarySummary `json:"summary"`
}

// BeneficiaryProfile is the full record returned by the detail endpoint
type BeneficiaryProfile struct {
	ID                    int      `json:"id"`
	FullName              string   `json:"full_name"`
	Email                 string   `json:"email"`
	PhoneNumber           string   `json:"phone_number"`
	DateOfBirth           *string  `json:"date_of_birth"`
	Gender                string   `json:"gender,omitempty"`
	NationalID            string   `json:"national_id,omitempty"`
	Address               string   `json:"address,omitempty"`
	County                string   `json:"county,omitempty"`
	Constituency          string   `json:"constituency,omitempty"`
	School                string   `json:"school"`
	Grade                 string   `json:"grade,omitempty"`
	EducationLevel        LevelRef `json:"education_level"`
	AdmissionNumber       string   `json:"admission_number,omitempty"`
	SchoolType            string   `json:"school_type,omitempty"`
	GuardianName          string   `json:"guardian_name,omitempty"`
	GuardianPhone         string   `json:"guardian_phone,omitempty"`
	GuardianEmail         string   `json:"guardian_email,omitempty"`
	GuardianRelationship  string   `json:"guardian_relationship,omitempty"`
	EmergencyContactName  string   `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string   `json:"emergency_contact_phone,omitempty"`
	SponsorshipStatus     string   `json:"sponsorship_status"`
	SponsorshipStartDate  *string  `json:"sponsorship_start_date"`
	SponsorshipEndDate    *string  `json:"sponsorship_end_date"`
	IsVerified            bool     `json:"is_verified"`
	VerificationLevel     int      `json:"verification_level"`
	RegistrationDate      string   `json:"registration_date,omitempty"`
	ProfileImageURL       *string  `json:"profile_image_url"`
	YearsInProgram        int      `json:"years_in_program,omitempty"`
	IsCurrentlySponsored  bool     `json:"is_currently_sponsored"`
}

// BeneficiaryStatistics aggregates money and documents for one beneficiary
type BeneficiaryStatistics struct {
	TotalFees         string   `json:"total_fees"`
	TotalPaid         string   `json:"total_paid"`
	TotalBalance      string   `json:"total_balance"`
	PaymentPercentage float64  `json:"payment_percentage"`
	DocumentsCount    int      `json:"documents_count"`
	PendingDocuments  int      `json:"pending_documents"`
	AcademicAverage   *float64 `json:"academic_average"`
	AcademicRank      *int     `json:"academic_rank"`
}

// BeneficiaryDetail is the body of GET /admin/beneficiaries/{id}/
type BeneficiaryDetail struct {
	Beneficiary     BeneficiaryProfile    `json:"beneficiary"`
	Statistics      BeneficiaryStatistics `json:"statistics"`
	AcademicHistory []TermSummary         `json:"academic_history"`
	FeeHistory      []FeeStatement        `json:"fee_history"`
	PaymentHistory  []Payment             `json:"payment_history"`
	Documents       []Document            `json:"documents"`
	Messages        []Message             `json:"messages"`
}

// CreatedBeneficiary is returned once, with the generated password
type CreatedBeneficiary struct {
	ID                int      `json:"id"`
	FullName          string   `json:"full_name"`
	Email             string   `json:"email"`
	Username          string   `json:"username"`
	TemporaryPassword string   `json:"temporary_password"`
	EducationLevel    LevelRef `json:"education_level"`
	GradeClass        GradeRef `json:"grade_class"`
}

// CreateBeneficiaryResponse is the body of a successful create
type CreateBeneficiaryResponse struct {
	Message     string             `json:"message"`
	Beneficiary CreatedBeneficiary `json:"beneficiary"`
}
