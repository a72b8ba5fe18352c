package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/validation"
	"github.com/google/uuid"
)

type ExpenseService struct {
	repo repository.ExpenseRepository
	now  func() time.Time
}

func NewExpenseService(repo repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{repo: repo, now: time.Now}
}

func (s *ExpenseService) Create(ctx context.Context, userID string, in RecordInput) (*model.Expense, error) {
	expense, err := s.build(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expense.ID = uuid.New().String()
	expense.UserID = userID
	expense.Status = model.RecordStatusActive
	expense.CreatedAt = now
	expense.UpdatedAt = now

	err = s.repo.Create(ctx, expense)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return expense, nil
}

func (s *ExpenseService) build(in RecordInput) (*model.Expense, error) {
	tags, err := in.validate()
	if err != nil {
		return nil, err
	}

	category := model.ExpenseCategory(in.Category)
	if !category.Valid() {
		return nil, validation.Invalid("category", "unknown category %q", in.Category)
	}

	method := in.PaymentMethod
	if method == "" {
		method = model.PaymentOther
	}
	if !method.Valid() {
		return nil, validation.Invalid("paymentMethod", "unknown payment method %q", in.PaymentMethod)
	}

	return &model.Expense{
		Amount:        in.Amount,
		Description:   trimmed(in.Description),
		Category:      category,
		PaymentMethod: method,
		Date:          in.Date.UTC(),
		Recurring:     in.Recurring,
		Tags:          tags,
	}, nil
}

func (s *ExpenseService) ByID(ctx context.Context, userID, expenseID string) (*model.Expense, error) {
	return s.repo.ByID(ctx, userID, expenseID)
}

func (s *ExpenseService) Expenses(ctx context.Context, userID string, filter model.RecordFilter) (*Page[*model.Expense], error) {
	err := validateFilter(filter)
	if err != nil {
		return nil, err
	}
	if filter.Category != "" && !model.ExpenseCategory(filter.Category).Valid() {
		return nil, validation.Invalid("category", "unknown category %q", filter.Category)
	}

	expenses, total, err := s.repo.Expenses(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return &Page[*model.Expense]{Items: expenses, Total: total, Limit: pageLimit(filter.Limit), Offset: filter.Offset}, nil
}

func (s *ExpenseService) Update(ctx context.Context, userID, expenseID string, in RecordInput) (*model.Expense, error) {
	expense, err := s.repo.ByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	updated, err := s.build(in)
	if err != nil {
		return nil, err
	}
	updated.ID = expense.ID
	updated.UserID = expense.UserID
	updated.Status = expense.Status
	updated.CreatedAt = expense.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	err = s.repo.Update(ctx, updated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID string) error {
	return s.repo.Delete(ctx, userID, expenseID)
}

func (s *ExpenseService) Summary(ctx context.Context, userID string, from, to time.Time) (*model.Summary, error) {
	from, to, err := summaryRange(from, to, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, userID, from, to)
}
