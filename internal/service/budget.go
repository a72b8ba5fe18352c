package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetInput struct {
	Name           string
	Category       model.ExpenseCategory
	Amount         decimal.Decimal
	Period         model.BudgetPeriod
	StartDate      time.Time
	EndDate        *time.Time
	AlertThreshold int
}

// BudgetStatus is a budget together with its spending in the current period.
type BudgetStatus struct {
	Budget *model.Budget
	Usage  model.BudgetUsage
}

type BudgetService struct {
	repo     repository.BudgetRepository
	expenses repository.ExpenseRepository
	now      func() time.Time
}

func NewBudgetService(repo repository.BudgetRepository, expenses repository.ExpenseRepository) *BudgetService {
	return &BudgetService{repo: repo, expenses: expenses, now: time.Now}
}

func (s *BudgetService) Create(ctx context.Context, userID string, in BudgetInput) (*BudgetStatus, error) {
	now := s.now().UTC()
	budget := &model.Budget{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    model.RecordStatusActive,
		CreatedAt: now,
	}

	err := applyBudgetInput(budget, in, now)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(ctx, budget)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return s.status(ctx, budget, now)
}

func applyBudgetInput(b *model.Budget, in BudgetInput, now time.Time) error {
	err := validation.ValidateText("name", in.Name, validation.MaxTitleLen, true)
	if err != nil {
		return err
	}
	if !in.Category.Valid() {
		return validation.Invalid("category", "unknown category %q", in.Category)
	}
	err = validation.ValidateAmount("amount", in.Amount)
	if err != nil {
		return err
	}

	if in.Period == "" {
		in.Period = model.BudgetMonthly
	}
	if !in.Period.Valid() {
		return validation.Invalid("period", "unknown period %q", in.Period)
	}

	if in.AlertThreshold == 0 {
		in.AlertThreshold = model.DefaultAlertThreshold
	}
	if in.AlertThreshold < 1 || in.AlertThreshold > 100 {
		return validation.Invalid("alertThreshold", "must be between 1 and 100")
	}

	start := in.StartDate.UTC()
	if in.StartDate.IsZero() {
		start = b.StartDate
		if start.IsZero() {
			start = now
		}
	}

	var end *time.Time
	if in.EndDate != nil {
		e := in.EndDate.UTC()
		if !e.After(start) {
			return validation.Invalid("endDate", "must be after the start date")
		}
		end = &e
	}

	b.Name = trimmed(in.Name)
	b.Category = in.Category
	b.Amount = in.Amount
	b.Period = in.Period
	b.StartDate = start
	b.EndDate = end
	b.AlertThreshold = in.AlertThreshold
	b.UpdatedAt = now
	return nil
}

func (s *BudgetService) ByID(ctx context.Context, userID, budgetID string) (*BudgetStatus, error) {
	budget, err := s.repo.ByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	return s.status(ctx, budget, s.now().UTC())
}

func (s *BudgetService) Budgets(ctx context.Context, userID string) ([]*BudgetStatus, error) {
	budgets, err := s.repo.Budgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	now := s.now().UTC()
	statuses := make([]*BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		st, err := s.status(ctx, b, now)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}

	return statuses, nil
}

func (s *BudgetService) Update(ctx context.Context, userID, budgetID string, in BudgetInput) (*BudgetStatus, error) {
	budget, err := s.repo.ByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	err = applyBudgetInput(budget, in, now)
	if err != nil {
		return nil, err
	}

	err = s.repo.Update(ctx, budget)
	if err != nil {
		return nil, err
	}

	return s.status(ctx, budget, now)
}

func (s *BudgetService) Delete(ctx context.Context, userID, budgetID string) error {
	return s.repo.Delete(ctx, userID, budgetID)
}

// status sums the budget category's expenses inside the current period
// window. A budget that has not started or has ended has spent nothing.
func (s *BudgetService) status(ctx context.Context, b *model.Budget, now time.Time) (*BudgetStatus, error) {
	spent := decimal.Zero

	from, to, ok := b.Window(now)
	if ok {
		var err error
		spent, err = s.expenses.SpentInCategory(ctx, b.UserID, b.Category, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to sum budget spending: %w", err)
		}
	}

	return &BudgetStatus{Budget: b, Usage: b.Usage(spent, now)}, nil
}
