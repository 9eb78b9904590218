package services

import (
	"context"
	"net/http"
	"sponsorship_console/models"
	"strings"
)

// Credentials are what a user types on the sign-in form
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup is the body of /auth/signup/
type Signup struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// PasswordChange is the body of /auth/change-password/
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthService talks to the backend's /auth/ endpoints. Sign-in and sign-up
// run without a session, so a 401 there is a plain wrong-password error.
type AuthService struct {
	api *APIClient
}

func NewAuthService(api *APIClient) *AuthService {
	return &AuthService{api: api}
}

// Login exchanges credentials for a bearer token. With adminOnly set, a
// user without administrator rights is refused even though the backend
// accepted the password.
func (s *AuthService) Login(ctx context.Context, creds Credentials, adminOnly bool) (models.LoginResponse, error) {
	var resp models.LoginResponse

	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	valErr := &ValidationError{}
	if creds.Email == "" {
		valErr.Missing = append(valErr.Missing, "Email")
	}
	if creds.Password == "" {
		valErr.Missing = append(valErr.Missing, "Password")
	}
	if valErr.HasProblems() {
		return resp, valErr
	}

	if err := s.api.PostJSON(ctx, nil, "/auth/login/", creds, &resp); err != nil {
		return resp, err
	}
	if adminOnly && !resp.User.HasAdminRights() {
		return models.LoginResponse{}, ErrAdminRequired
	}
	return resp, nil
}

// Signup registers a beneficiary account and signs it in
func (s *AuthService) Signup(ctx context.Context, form Signup) (models.LoginResponse, error) {
	var resp models.LoginResponse

	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	valErr := &ValidationError{}
	if form.FullName == "" {
		valErr.Missing = append(valErr.Missing, "Full name")
	}
	if form.Email == "" {
		valErr.Missing = append(valErr.Missing, "Email")
	}
	if form.Password == "" {
		valErr.Missing = append(valErr.Missing, "Password")
	}
	if valErr.HasProblems() {
		return resp, valErr
	}
	if form.Password != form.ConfirmPassword {
		return resp, &ValidationError{Problems: []string{"Passwords do not match"}}
	}
	if err := ValidatePassword(form.Password); err != nil {
		return resp, err
	}

	err := s.api.PostJSON(ctx, nil, "/auth/signup/", form, &resp)
	return resp, err
}

// Logout tells the backend the token is being dropped and signs the
// session out. The session ends even when the backend call fails.
func (s *AuthService) Logout(ctx context.Context, sess *SessionContext) error {
	_, err := s.api.Do(ctx, sess, Request{Method: http.MethodPost, Endpoint: "/auth/logout/", KeepSession: true})
	sess.SignOut()
	return err
}

// Validate asks the backend who the session's token belongs to
func (s *AuthService) Validate(ctx context.Context, sess *SessionContext) (models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if !sess.Authenticated() {
		return resp.User, ErrNotAuthenticated
	}
	err := s.api.GetJSON(ctx, sess, "/auth/validate/", nil, &resp)
	return resp.User, err
}

// ValidateToken checks a bearer token that is not yet bound to a session,
// as handed back by the OAuth provider
func (s *AuthService) ValidateToken(ctx context.Context, token string) (models.User, error) {
	candidate := NewSessionContext()
	candidate.SignIn(models.User{}, token)
	return s.Validate(ctx, candidate)
}

// ChangePassword changes the password and adopts the rotated token, if the
// backend issued one
func (s *AuthService) ChangePassword(ctx context.Context, sess *SessionContext, change PasswordChange) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}
	if change.CurrentPassword == "" || change.NewPassword == "" || change.ConfirmPassword == "" {
		return &ValidationError{Problems: []string{"All fields are required"}}
	}
	if change.NewPassword != change.ConfirmPassword {
		return &ValidationError{Problems: []string{"New passwords do not match"}}
	}
	if err := ValidatePassword(change.NewPassword); err != nil {
		return err
	}

	resp, err := s.api.Do(ctx, sess, Request{
		Method:      http.MethodPost,
		Endpoint:    "/auth/change-password/",
		Body:        change,
		KeepSession: true,
	})
	if err != nil {
		return err
	}

	var out models.ChangePasswordResponse
	if err := resp.Decode(&out); err != nil {
		return err
	}
	if out.Token != "" {
		return sess.Refresh(out.Token)
	}
	return nil
}
