package service

import (
	"context"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardGoals    = 5
	dashboardExpenses = 5
)

type Dashboard struct {
	GeneratedAt    time.Time
	PeriodStart    time.Time
	PeriodEnd      time.Time
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
	NetBalance     decimal.Decimal
	SavingsRate    float64
	Budgets        []*BudgetStatus
	Goals          []*model.Goal
	GoalStats      *repository.GoalStats
	RecentExpenses []*model.Expense
}

type DashboardService struct {
	incomes  repository.IncomeRepository
	expenses repository.ExpenseRepository
	goals    repository.GoalRepository
	budgets  *BudgetService
	now      func() time.Time
}

func NewDashboardService(
	incomes repository.IncomeRepository,
	expenses repository.ExpenseRepository,
	goals repository.GoalRepository,
	budgets *BudgetService,
) *DashboardService {
	return &DashboardService{
		incomes:  incomes,
		expenses: expenses,
		goals:    goals,
		budgets:  budgets,
		now:      time.Now,
	}
}

// Overview gathers the current month's totals, budgets, leading goals and
// recent expenses. The queries run concurrently and the first failure
// cancels the rest.
func (s *DashboardService) Overview(ctx context.Context, userID string) (*Dashboard, error) {
	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	d := &Dashboard{GeneratedAt: now, PeriodStart: from, PeriodEnd: to}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.incomes.Total(ctx, userID, from, to)
		d.TotalIncome = total
		return err
	})
	g.Go(func() error {
		total, err := s.expenses.Total(ctx, userID, from, to)
		d.TotalExpenses = total
		return err
	})
	g.Go(func() error {
		budgets, err := s.budgets.Budgets(ctx, userID)
		d.Budgets = budgets
		return err
	})
	g.Go(func() error {
		goals, err := s.goals.Goals(ctx, userID, repository.GoalFilter{
			Status: model.GoalStatusActive,
			Sort:   repository.GoalSortProgress,
		})
		if len(goals) > dashboardGoals {
			goals = goals[:dashboardGoals]
		}
		d.Goals = goals
		return err
	})
	g.Go(func() error {
		stats, err := s.goals.Stats(ctx, userID)
		d.GoalStats = stats
		return err
	})
	g.Go(func() error {
		expenses, _, err := s.expenses.Expenses(ctx, userID, model.RecordFilter{Limit: dashboardExpenses})
		d.RecentExpenses = expenses
		return err
	})

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	d.NetBalance = d.TotalIncome.Sub(d.TotalExpenses)
	d.SavingsRate = SavingsRate(d.TotalIncome, d.TotalExpenses)
	return d, nil
}

// SavingsRate is the share of income not spent, in percent. It is zero when
// there is no income and negative when spending exceeds income.
func SavingsRate(income, expenses decimal.Decimal) float64 {
	if !income.IsPositive() {
		return 0
	}
	return income.Sub(expenses).Div(income).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}
