package validation

import (
	"strings"
)

var commonPatterns = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
}

// ValidatePassword enforces a 12 character minimum and blocks common patterns.
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return Invalid("password", "password must be at least 12 characters")
	}

	// bcrypt silently truncates after 72 bytes
	if len(password) > 72 {
		return Invalid("password", "password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return Invalid("password", "password is too common, please choose a stronger one")
		}
	}

	return nil
}
