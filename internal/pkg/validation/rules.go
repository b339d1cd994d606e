package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// HexColorPattern matches certificate theme colors (#rrggbb)
	HexColorPattern = `^#[0-9a-fA-F]{6}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 255
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	HexColor *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	HexColor: regexp.MustCompile(HexColorPattern),
}

// IsValidEmail checks an email address against the email pattern
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// IsValidHexColor checks a certificate theme color string
func IsValidHexColor(color string) bool {
	return CompiledPatterns.HexColor.MatchString(color)
}

// IsValidPassword checks password minimum requirements
func IsValidPassword(password string) bool {
	return len(password) >= PasswordMinLength
}
