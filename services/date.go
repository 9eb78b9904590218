package services

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is how the backend and the forms write calendar dates
const DateLayout = "2006-01-02"

// ParseDate reads a calendar date (YYYY-MM-DD)
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}
