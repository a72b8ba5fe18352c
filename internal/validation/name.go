package validation

import (
	"strings"
)

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return Invalid("name", "name is required")
	}

	if len(trimmed) > 100 {
		return Invalid("name", "name is too long (max 100 characters)")
	}

	return nil
}
