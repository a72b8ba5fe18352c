package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
	MaxNotesLen       = 1000
	MaxRecordDescLen  = 200
	MaxTags           = 10
	MaxTagLen         = 50
)

// FieldError reports a rejected input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsFieldError unwraps err into a FieldError if it carries one.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// ValidateAmount accepts 0 < amount <= 999,999.99 with at most two decimals.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return Invalid(field, "must be greater than 0")
	}
	if amount.GreaterThan(model.MaxGoalAmount) {
		return Invalid(field, "must not exceed %s", model.MaxGoalAmount.StringFixed(2))
	}
	if !amount.Equal(amount.Round(2)) {
		return Invalid(field, "must have at most two decimal places")
	}
	return nil
}

func ValidateText(field, value string, maxLen int, required bool) error {
	trimmed := strings.TrimSpace(value)
	if required && trimmed == "" {
		return Invalid(field, "is required")
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return Invalid(field, "is too long (max %d characters)", maxLen)
	}
	return nil
}

// NormalizeTags trims tags, drops empty ones and duplicates, and enforces
// count and length limits.
func NormalizeTags(tags []string) (model.Tags, error) {
	out := model.Tags{}
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		if utf8.RuneCountInString(t) > MaxTagLen {
			return nil, Invalid("tags", "each tag must be at most %d characters", MaxTagLen)
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) > MaxTags {
		return nil, Invalid("tags", "at most %d tags are allowed", MaxTags)
	}
	return out, nil
}
