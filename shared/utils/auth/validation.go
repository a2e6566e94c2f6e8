package utils

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var (
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	codeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{2,50}$`)
)

// ValidateEmail checks the email is present and parseable
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidateSlug checks lowercase dash-separated identifiers (tenant and
// organization slugs)
func ValidateSlug(slug string) error {
	if strings.TrimSpace(slug) == "" {
		return errors.New("slug is required")
	}
	if !slugRegex.MatchString(slug) {
		return errors.New("slug must be lowercase letters, digits and dashes")
	}
	return nil
}

// ValidateCode checks department codes
func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errors.New("code is required")
	}
	if !codeRegex.MatchString(code) {
		return errors.New("code must be 2-50 letters, digits, dashes or underscores")
	}
	return nil
}

// ValidateRequired checks a field is non-blank
func ValidateRequired(field, fieldName string) error {
	if strings.TrimSpace(field) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateLength checks a field's trimmed length bounds
func ValidateLength(field, fieldName string, min, max int) error {
	length := len(strings.TrimSpace(field))
	if length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}
