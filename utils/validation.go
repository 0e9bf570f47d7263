// utils/validation.go
package utils

import (
	"html"
	"regexp"
	"strings"
	"time"
)

// VINs are 17 characters, alphanumeric excluding I, O and Q.
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s'.-]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9\s().-]+$`)
)

// ValidateVIN checks format only; uniqueness is a business rule checked
// against storage.
func ValidateVIN(vin string) bool {
	return vinPattern.MatchString(strings.ToUpper(strings.TrimSpace(vin)))
}

// ValidateYear bounds a model year to [1900, current year + 1].
func ValidateYear(year int) bool {
	return year >= 1900 && year <= time.Now().Year()+1
}

func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && namePattern.MatchString(name)
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailPattern.MatchString(email)
}

// ValidatePhone accepts empty input: phone is optional everywhere it appears.
func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// Sanitize trims and HTML-escapes free text before it is stored.
func Sanitize(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}
	return html.EscapeString(trimmed)
}

// ContainsUnsafeContent reports whether escaping would alter the input,
// meaning it carries markup-significant characters.
func ContainsUnsafeContent(input string) bool {
	if input == "" {
		return false
	}
	return Sanitize(input) != strings.TrimSpace(input)
}
