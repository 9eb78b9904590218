package models

// Roles understood by the backend
const (
	RoleAdmin       = "admin"
	RoleBeneficiary = "beneficiary"
)

// User is the identity the backend returns from /auth/login and /auth/validate.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

// HasAdminRights reports whether the backend granted administrator access
func (u User) HasAdminRights() bool {
	return u.IsAdmin || u.Role == RoleAdmin
}

// DisplayName falls back to the username and then the email
func (u User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// LoginResponse is the body of a successful /auth/login or /auth/signup
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ChangePasswordResponse may carry a rotated token
type ChangePasswordResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}
