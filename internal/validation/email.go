package validation

import (
	"net/mail"
	"strings"
)

// ValidateEmail checks length and RFC 5322 syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return Invalid("email", "email address is required")
	}

	// RFC 5321: 254 characters including the @
	if len(email) > 254 {
		return Invalid("email", "email address is too long (max 254 characters)")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return Invalid("email", "invalid email address format")
	}

	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
