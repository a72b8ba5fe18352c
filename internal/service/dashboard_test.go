package service

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/model"
)

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		income, expenses string
		want             float64
	}{
		{"1000", "750", 25},
		{"1000", "0", 100},
		{"0", "100", 0},
		{"1000", "1500", -50},
		{"3000", "1000", 66.67},
	}

	for _, tt := range tests {
		got := SavingsRate(dec(tt.income), dec(tt.expenses))
		if got != tt.want {
			t.Errorf("SavingsRate(%s, %s) = %v, want %v", tt.income, tt.expenses, got, tt.want)
		}
	}
}

func TestDashboardOverview(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return testNow }

	incomes := &fakeIncomeRepo{}
	expenses := &fakeExpenseRepo{}
	goals := newFakeGoalRepo()
	budgets := NewBudgetService(newFakeBudgetRepo(), expenses)
	budgets.now = clock

	_ = incomes.Create(ctx, &model.Income{ID: "i1", UserID: "user-1", Amount: dec("4000"), Date: testNow.AddDate(0, 0, -10)})
	_ = incomes.Create(ctx, &model.Income{ID: "i2", UserID: "user-1", Amount: dec("999"), Date: testNow.AddDate(0, -2, 0)})
	for i := 0; i < 7; i++ {
		_ = expenses.Create(ctx, &model.Expense{
			ID: string(rune('a' + i)), UserID: "user-1", Amount: dec("100"), Category: model.ExpenseFood,
			Date: testNow.AddDate(0, 0, -i), Status: model.RecordStatusActive,
		})
	}

	goalService := NewGoalService(goals, nil, 3)
	goalService.now = clock
	for i := 0; i < 6; i++ {
		_, err := goalService.Create(ctx, "user-1", GoalInput{
			Title: "goal", TargetAmount: dec("100"), Category: model.GoalCategoryOther, TargetDate: testNow.AddDate(1, 0, 0),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	_, err := budgets.Create(ctx, "user-1", BudgetInput{
		Name:      "Food",
		Category:  model.ExpenseFood,
		Amount:    dec("1000"),
		StartDate: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	s := NewDashboardService(incomes, expenses, goals, budgets)
	s.now = clock

	d, err := s.Overview(ctx, "user-1")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	if !d.TotalIncome.Equal(dec("4000")) || !d.TotalExpenses.Equal(dec("700")) {
		t.Errorf("income = %s expenses = %s, want 4000 and 700", d.TotalIncome, d.TotalExpenses)
	}
	if !d.NetBalance.Equal(dec("3300")) || d.SavingsRate != 82.5 {
		t.Errorf("net = %s savingsRate = %v", d.NetBalance, d.SavingsRate)
	}
	if len(d.Goals) != 5 || d.GoalStats.Active != 6 {
		t.Errorf("goals = %d active = %d, want 5 and 6", len(d.Goals), d.GoalStats.Active)
	}
	if len(d.RecentExpenses) != 5 {
		t.Errorf("recent expenses = %d, want 5", len(d.RecentExpenses))
	}
	if len(d.Budgets) != 1 || !d.Budgets[0].Usage.Spent.Equal(dec("700")) {
		t.Errorf("budgets = %+v", d.Budgets)
	}
	if !d.GeneratedAt.Equal(testNow) || d.PeriodStart.Day() != 1 {
		t.Errorf("generatedAt = %s periodStart = %s", d.GeneratedAt, d.PeriodStart)
	}
}
