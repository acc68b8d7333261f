// Package validation provides input validation helpers for applicant data.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ().\-]{5,18}[0-9]$`)
	// Reddit usernames are 3-20 word characters or hyphens.
	redditUsernameRegex = regexp.MustCompile(`^[A-Za-z0-9_\-]{3,20}$`)
)

// ValidateEmail validates email address format.
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must be at most 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email format is invalid")
	}
	return nil
}

// ValidatePhone validates phone number format. Accepts international prefixes
// and common separators.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("phone number format is invalid")
	}
	return nil
}

// ValidateRedditUsername validates the claimed reddit handle format before any
// network verification is attempted.
func ValidateRedditUsername(username string) error {
	// Tolerate pasted "u/name" and "/u/name" forms.
	username = strings.TrimPrefix(strings.TrimPrefix(username, "/"), "u/")
	if !redditUsernameRegex.MatchString(username) {
		return fmt.Errorf("reddit username must be 3-20 characters of letters, numbers, underscores, or hyphens")
	}
	return nil
}

// NormalizeRedditUsername strips "u/" prefixes and surrounding whitespace.
func NormalizeRedditUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "/")
	return strings.TrimPrefix(username, "u/")
}
