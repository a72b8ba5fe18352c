package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	ByID(ctx context.Context, userID, expenseID string) (*model.Expense, error)
	Expenses(ctx context.Context, userID string, filter model.RecordFilter) ([]*model.Expense, int, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, userID, expenseID string) error
	Summary(ctx context.Context, userID string, from, to time.Time) (*model.Summary, error)
	Total(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error)
	SpentInCategory(ctx context.Context, userID string, category model.ExpenseCategory, from, to time.Time) (decimal.Decimal, error)
}

type expenseRepository struct {
	db *sqlx.DB
}

func NewExpenseRepository(db *sqlx.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, e *model.Expense) error {
	query := `INSERT INTO expenses (id, user_id, amount, description, category, payment_method, date, recurring, tags, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.Amount,
		e.Description,
		e.Category,
		e.PaymentMethod,
		e.Date,
		e.Recurring,
		e.Tags,
		e.Status,
		e.CreatedAt,
		e.UpdatedAt,
	)

	return err
}

func (r *expenseRepository) ByID(ctx context.Context, userID, expenseID string) (*model.Expense, error) {
	expense := &model.Expense{}
	query := `SELECT * FROM expenses WHERE id = $1 AND user_id = $2 AND status = $3`

	err := r.db.GetContext(ctx, expense, query, expenseID, userID, model.RecordStatusActive)
	if err == sql.ErrNoRows {
		return nil, ErrExpenseNotFound
	}
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// Expenses returns one page of matching expenses, newest first, and the
// total number of matches.
func (r *expenseRepository) Expenses(ctx context.Context, userID string, filter model.RecordFilter) ([]*model.Expense, int, error) {
	where, args := recordWhere(userID, filter)

	var total int
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM expenses`+where), args...)
	if err != nil {
		return nil, 0, err
	}

	var expenses []*model.Expense
	query := `SELECT * FROM expenses` + where + ` ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize(filter.Limit), max(filter.Offset, 0))

	err = r.db.SelectContext(ctx, &expenses, r.db.Rebind(query), args...)
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) Update(ctx context.Context, e *model.Expense) error {
	query := `UPDATE expenses
	          SET amount = $1, description = $2, category = $3, payment_method = $4, date = $5, recurring = $6, tags = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10 AND status = $11`

	result, err := r.db.ExecContext(ctx, query,
		e.Amount,
		e.Description,
		e.Category,
		e.PaymentMethod,
		e.Date,
		e.Recurring,
		e.Tags,
		e.UpdatedAt,
		e.ID,
		e.UserID,
		model.RecordStatusActive,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrExpenseNotFound)
}

// Delete soft-deletes an expense by flipping its status.
func (r *expenseRepository) Delete(ctx context.Context, userID, expenseID string) error {
	query := `UPDATE expenses SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4 AND status = $5`

	result, err := r.db.ExecContext(ctx, query, model.RecordStatusDeleted, time.Now().UTC(), expenseID, userID, model.RecordStatusActive)
	if err != nil {
		return err
	}

	return expectRow(result, ErrExpenseNotFound)
}

func (r *expenseRepository) Summary(ctx context.Context, userID string, from, to time.Time) (*model.Summary, error) {
	return summarize(ctx, r.db, "expenses", userID, from, to)
}

func (r *expenseRepository) Total(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	where, args := recordWhere(userID, model.RecordFilter{From: from, To: to})

	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COALESCE(SUM(amount), 0) FROM expenses`+where), args...)
	if err != nil {
		return decimal.Zero, err
	}

	return total.Round(2), nil
}

func (r *expenseRepository) SpentInCategory(ctx context.Context, userID string, category model.ExpenseCategory, from, to time.Time) (decimal.Decimal, error) {
	where, args := recordWhere(userID, model.RecordFilter{From: from, To: to, Category: string(category)})

	var spent decimal.Decimal
	err := r.db.GetContext(ctx, &spent, r.db.Rebind(`SELECT COALESCE(SUM(amount), 0) FROM expenses`+where), args...)
	if err != nil {
		return decimal.Zero, err
	}

	return spent.Round(2), nil
}

func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
