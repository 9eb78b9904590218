package services

import (
	"unicode"
)

// MinPasswordLength is the shortest password the backend accepts
const MinPasswordLength = 8

// ValidatePassword applies the backend's password rules before a signup or
// password change is sent, so the user sees the problem without a round trip:
// - At least 8 characters
// - At least one uppercase letter
// - At least one lowercase letter
// - At least one number
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{Problems: []string{"Password must be at least 8 characters long"}}
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return &ValidationError{Problems: []string{"Password must contain at least one uppercase letter"}}
	}
	if !hasLower {
		return &ValidationError{Problems: []string{"Password must contain at least one lowercase letter"}}
	}
	if !hasNumber {
		return &ValidationError{Problems: []string{"Password must contain at least one number"}}
	}

	return nil
}
