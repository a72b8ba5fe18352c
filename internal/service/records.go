package service

import (
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/validation"
	"github.com/shopspring/decimal"
)

// RecordInput is the editable part of an expense or income.
type RecordInput struct {
	Amount        decimal.Decimal
	Description   string
	Category      string
	PaymentMethod model.PaymentMethod // expenses only
	Source        string              // incomes only
	Date          time.Time
	Recurring     bool
	Tags          []string
}

func (in RecordInput) validate() (model.Tags, error) {
	err := validation.ValidateAmount("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateText("description", in.Description, validation.MaxRecordDescLen, true)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, validation.Invalid("date", "is required")
	}
	return validation.NormalizeTags(in.Tags)
}

// Page is one page of a listing plus the total number of matches.
type Page[T any] struct {
	Items  []T
	Total  int
	Limit  int
	Offset int
}

func validateFilter(f model.RecordFilter) error {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return validation.Invalid("to", "must not be before from")
	}
	if f.MinAmount.Valid && f.MaxAmount.Valid && f.MaxAmount.Decimal.LessThan(f.MinAmount.Decimal) {
		return validation.Invalid("maxAmount", "must not be below minAmount")
	}
	if f.Limit < 0 || f.Offset < 0 {
		return validation.Invalid("limit", "limit and offset must not be negative")
	}
	return nil
}

func pageLimit(limit int) int {
	if limit <= 0 {
		return repository.DefaultPageSize
	}
	return min(limit, repository.MaxPageSize)
}

// summaryRange defaults an open range to the current calendar month.
func summaryRange(from, to, now time.Time) (time.Time, time.Time, error) {
	if from.IsZero() && to.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, 0)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, validation.Invalid("to", "must not be before from")
	}
	return from, to, nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
