package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BudgetPeriod string

const (
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetWeekly, BudgetMonthly, BudgetYearly:
		return true
	}
	return false
}

const DefaultAlertThreshold = 80

type Budget struct {
	ID             string          `db:"id"`
	UserID         string          `db:"user_id"`
	Name           string          `db:"name"`
	Category       ExpenseCategory `db:"category"`
	Amount         decimal.Decimal `db:"amount"`
	Period         BudgetPeriod    `db:"period"`
	StartDate      time.Time       `db:"start_date"`
	EndDate        *time.Time      `db:"end_date"`
	AlertThreshold int             `db:"alert_threshold"`
	Status         RecordStatus    `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// Window returns the current period [from, to) containing now, clipped to
// the budget's start and end dates. ok is false when now lies outside the
// budget's lifetime.
func (b *Budget) Window(now time.Time) (from, to time.Time, ok bool) {
	now = now.UTC()
	switch b.Period {
	case BudgetWeekly:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday-based
		from = day.AddDate(0, 0, -offset)
		to = from.AddDate(0, 0, 7)
	case BudgetYearly:
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(1, 0, 0)
	default:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, 0)
	}

	start := b.StartDate.UTC()
	if start.After(from) {
		from = start
	}
	if b.EndDate != nil && b.EndDate.UTC().Before(to) {
		to = b.EndDate.UTC()
	}

	if now.Before(start) || (b.EndDate != nil && !now.Before(b.EndDate.UTC())) {
		return from, to, false
	}
	return from, to, from.Before(to)
}

// BudgetUsage holds the spending figures derived for a budget's current period.
type BudgetUsage struct {
	Spent          decimal.Decimal
	Remaining      decimal.Decimal
	PercentageUsed float64
	IsOverBudget   bool
	ShouldAlert    bool
	DaysRemaining  int
	PeriodStart    time.Time
	PeriodEnd      time.Time
}

// Usage derives the budget's standing from the amount spent in the window.
// PercentageUsed is not capped so over-spending stays visible.
func (b *Budget) Usage(spent decimal.Decimal, now time.Time) BudgetUsage {
	from, to, _ := b.Window(now)
	u := BudgetUsage{
		Spent:         spent.Round(2),
		Remaining:     b.Amount.Sub(spent),
		DaysRemaining: daysBetween(now, to),
		PeriodStart:   from,
		PeriodEnd:     to,
	}
	if u.Remaining.IsNegative() {
		u.Remaining = decimal.Zero
	}
	if b.Amount.IsPositive() {
		u.PercentageUsed = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	u.IsOverBudget = spent.GreaterThan(b.Amount)
	// spent/amount >= threshold/100, compared exactly
	u.ShouldAlert = b.Amount.IsPositive() &&
		spent.Mul(decimal.NewFromInt(100)).GreaterThanOrEqual(b.Amount.Mul(decimal.NewFromInt(int64(b.AlertThreshold))))
	return u
}
