package auth

import (
	"regexp"
	"strings"

	"github.com/dmitrymomot/cmdkit/core/command"
)

const minPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// normalizeEmail lowercases and trims an email address so lookups and
// uniqueness checks are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(field, email string) []command.Issue {
	email = normalizeEmail(email)
	if email == "" {
		return []command.Issue{{Field: field, Message: "is required"}}
	}
	if !emailRegex.MatchString(email) {
		return []command.Issue{{Field: field, Message: "is not a valid email address"}}
	}
	return nil
}

func validatePassword(field, password string) []command.Issue {
	if password == "" {
		return []command.Issue{{Field: field, Message: "is required"}}
	}
	if len(password) < minPasswordLength {
		return []command.Issue{{Field: field, Message: "must be at least 8 characters"}}
	}
	return nil
}
