package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/shopspring/decimal"
)

func inRange(t, from, to time.Time) bool {
	return (from.IsZero() || !t.Before(from)) && (to.IsZero() || t.Before(to))
}

type fakeExpenseRepo struct {
	mu       sync.Mutex
	expenses []*model.Expense
}

func (r *fakeExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *e
	r.expenses = append(r.expenses, &c)
	return nil
}

func (r *fakeExpenseRepo) find(userID, id string) (*model.Expense, bool) {
	for _, e := range r.expenses {
		if e.ID == id && e.UserID == userID && e.Status == model.RecordStatusActive {
			return e, true
		}
	}
	return nil, false
}

func (r *fakeExpenseRepo) ByID(_ context.Context, userID, id string) (*model.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.find(userID, id)
	if !ok {
		return nil, repository.ErrExpenseNotFound
	}
	c := *e
	return &c, nil
}

func (r *fakeExpenseRepo) active(userID string, f model.RecordFilter) []*model.Expense {
	var out []*model.Expense
	for _, e := range r.expenses {
		if e.UserID != userID || e.Status != model.RecordStatusActive || !inRange(e.Date, f.From, f.To) {
			continue
		}
		if f.Category != "" && string(e.Category) != f.Category {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r *fakeExpenseRepo) Expenses(_ context.Context, userID string, f model.RecordFilter) ([]*model.Expense, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.active(userID, f)
	total := len(all)
	if f.Offset < len(all) {
		all = all[f.Offset:]
	} else {
		all = nil
	}
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *fakeExpenseRepo) Update(_ context.Context, e *model.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.find(e.UserID, e.ID)
	if !ok {
		return repository.ErrExpenseNotFound
	}
	*stored = *e
	return nil
}

func (r *fakeExpenseRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.find(userID, id)
	if !ok {
		return repository.ErrExpenseNotFound
	}
	stored.Status = model.RecordStatusDeleted
	return nil
}

func (r *fakeExpenseRepo) Summary(_ context.Context, userID string, from, to time.Time) (*model.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byCategory := map[string]*model.CategoryTotal{}
	var amounts []model.AmountAt
	for _, e := range r.active(userID, model.RecordFilter{From: from, To: to}) {
		c, ok := byCategory[string(e.Category)]
		if !ok {
			c = &model.CategoryTotal{Category: string(e.Category), Total: decimal.Zero}
			byCategory[string(e.Category)] = c
		}
		c.Total = c.Total.Add(e.Amount)
		c.Count++
		amounts = append(amounts, model.AmountAt{Date: e.Date, Amount: e.Amount})
	}
	var categories []model.CategoryTotal
	for _, c := range byCategory {
		categories = append(categories, *c)
	}
	return model.NewSummary(from, to, categories, amounts), nil
}

func (r *fakeExpenseRepo) Total(_ context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, e := range r.active(userID, model.RecordFilter{From: from, To: to}) {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

func (r *fakeExpenseRepo) SpentInCategory(_ context.Context, userID string, category model.ExpenseCategory, from, to time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, e := range r.active(userID, model.RecordFilter{From: from, To: to, Category: string(category)}) {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

// fakeIncomeRepo only keeps what the dashboard reads.
type fakeIncomeRepo struct {
	incomes []*model.Income
}

func (r *fakeIncomeRepo) Create(_ context.Context, i *model.Income) error {
	c := *i
	r.incomes = append(r.incomes, &c)
	return nil
}

func (r *fakeIncomeRepo) ByID(_ context.Context, userID, id string) (*model.Income, error) {
	for _, i := range r.incomes {
		if i.ID == id && i.UserID == userID {
			c := *i
			return &c, nil
		}
	}
	return nil, repository.ErrIncomeNotFound
}

func (r *fakeIncomeRepo) Incomes(_ context.Context, userID string, _ model.RecordFilter) ([]*model.Income, int, error) {
	var out []*model.Income
	for _, i := range r.incomes {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, len(out), nil
}

func (r *fakeIncomeRepo) Update(context.Context, *model.Income) error { return nil }

func (r *fakeIncomeRepo) Delete(context.Context, string, string) error { return nil }

func (r *fakeIncomeRepo) Summary(_ context.Context, _ string, from, to time.Time) (*model.Summary, error) {
	return model.NewSummary(from, to, nil, nil), nil
}

func (r *fakeIncomeRepo) Total(_ context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, i := range r.incomes {
		if i.UserID == userID && inRange(i.Date, from, to) {
			sum = sum.Add(i.Amount)
		}
	}
	return sum, nil
}

type fakeBudgetRepo struct {
	mu      sync.Mutex
	budgets map[string]*model.Budget
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{budgets: map[string]*model.Budget{}}
}

func (r *fakeBudgetRepo) Create(_ context.Context, b *model.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *b
	r.budgets[b.ID] = &c
	return nil
}

func (r *fakeBudgetRepo) ByID(_ context.Context, userID, id string) (*model.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.budgets[id]
	if !ok || b.UserID != userID || b.Status != model.RecordStatusActive {
		return nil, repository.ErrBudgetNotFound
	}
	c := *b
	return &c, nil
}

func (r *fakeBudgetRepo) Budgets(_ context.Context, userID string) ([]*model.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Budget
	for _, b := range r.budgets {
		if b.UserID == userID && b.Status == model.RecordStatusActive {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeBudgetRepo) Update(_ context.Context, b *model.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *b
	r.budgets[b.ID] = &c
	return nil
}

func (r *fakeBudgetRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.budgets[id]
	if !ok || b.UserID != userID {
		return repository.ErrBudgetNotFound
	}
	b.Status = model.RecordStatusDeleted
	return nil
}
