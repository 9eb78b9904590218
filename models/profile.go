package models

// Profile is the beneficiary's own profile as shown in the portal
type Profile struct {
	UserID                int     `json:"user_id"`
	Email                 string  `json:"email"`
	Username              string  `json:"username,omitempty"`
	FirstName             string  `json:"first_name,omitempty"`
	LastName              string  `json:"last_name,omitempty"`
	FullName              string  `json:"full_name,omitempty"`
	PhoneNumber           string  `json:"phone_number,omitempty"`
	DateOfBirth           *string `json:"date_of_birth,omitempty"`
	Gender                string  `json:"gender,omitempty"`
	Address               string  `json:"address,omitempty"`
	County                string  `json:"county,omitempty"`
	School                string  `json:"school,omitempty"`
	Grade                 string  `json:"grade,omitempty"`
	GuardianName          string  `json:"guardian_name,omitempty"`
	GuardianPhone         string  `json:"guardian_phone,omitempty"`
	EmergencyContactName  string  `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string  `json:"emergency_contact_phone,omitempty"`
	SponsorshipStatus     string  `json:"sponsorship_status,omitempty"`
	IsVerified            bool    `json:"is_verified"`
	YearsInProgram        int     `json:"years_in_program,omitempty"`
	ProfileImageURL       *string `json:"profile_image_url,omitempty"`
	RegistrationDate      string  `json:"registration_date,omitempty"`
}

// ProfileUpdate carries the fields a beneficiary may change themselves.
// Nil fields are left untouched by the backend.
type ProfileUpdate struct {
	FullName              *string `json:"full_name,omitempty"`
	PhoneNumber           *string `json:"phone_number,omitempty"`
	DateOfBirth           *string `json:"date_of_birth,omitempty"`
	Gender                *string `json:"gender,omitempty"`
	Address               *string `json:"address,omitempty"`
	County                *string `json:"county,omitempty"`
	School                *string `json:"school,omitempty"`
	GuardianName          *string `json:"guardian_name,omitempty"`
	GuardianPhone         *string `json:"guardian_phone,omitempty"`
	GuardianEmail         *string `json:"guardian_email,omitempty"`
	EmergencyContactName  *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty"`
}
