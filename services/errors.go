package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionExpired is returned when the backend rejects the bearer token
	ErrSessionExpired = errors.New("Session expired. Please login again.")
	// ErrNotAuthenticated is returned when an operation needs a signed-in session
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSignedOut is the invalidation reason for a voluntary sign-out
	ErrSignedOut = errors.New("signed out")
	// ErrSessionNotFound is returned when a session cookie matches no stored session
	ErrSessionNotFound = errors.New("session not found")
	// ErrAdminRequired is returned when a non-admin signs in to the admin console
	ErrAdminRequired = errors.New("Admin privileges required. Please use admin credentials.")
	// ErrSubmissionInProgress is returned when a form is submitted twice concurrently
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	// ErrInvalidTransition is returned for status changes the workflow forbids
	ErrInvalidTransition = errors.New("invalid status transition")
)

// APIError is a failed backend response that carried a readable message
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError wraps a transport failure talking to the backend
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return "Network error. Please check your connection."
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError lists what a form is missing before anything is sent
type ValidationError struct {
	Missing  []string // labels of required fields left empty, in form order
	Problems []string // format problems, e.g. "Email must be a valid email address"
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		labels := make([]string, len(e.Missing))
		for i, label := range e.Missing {
			labels[i] = strings.ToLower(label)
		}
		parts = append(parts, "Please fill in: "+strings.Join(labels, ", "))
	}
	parts = append(parts, e.Problems...)
	return strings.Join(parts, ". ")
}

// HasProblems reports whether anything was recorded
func (e *ValidationError) HasProblems() bool {
	return len(e.Missing) > 0 || len(e.Problems) > 0
}

func (e *ValidationError) addProblem(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// IsAuthError reports whether err should end the session
func IsAuthError(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotAuthenticated)
}

// UserMessage converts any service error into the text shown in a toast
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	var netErr *NetworkError
	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		return valErr.Error()
	case errors.As(err, &netErr):
		return netErr.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrSessionExpired):
		return ErrSessionExpired.Error()
	default:
		return err.Error()
	}
}
