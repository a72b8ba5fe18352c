package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrBudgetNotFound = errors.New("budget not found")
)

type BudgetRepository interface {
	Create(ctx context.Context, budget *model.Budget) error
	ByID(ctx context.Context, userID, budgetID string) (*model.Budget, error)
	Budgets(ctx context.Context, userID string) ([]*model.Budget, error)
	Update(ctx context.Context, budget *model.Budget) error
	Delete(ctx context.Context, userID, budgetID string) error
}

type budgetRepository struct {
	db *sqlx.DB
}

func NewBudgetRepository(db *sqlx.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, b *model.Budget) error {
	query := `INSERT INTO budgets (id, user_id, name, category, amount, period, start_date, end_date, alert_threshold, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.UserID,
		b.Name,
		b.Category,
		b.Amount,
		b.Period,
		b.StartDate,
		b.EndDate,
		b.AlertThreshold,
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
	)

	return err
}

func (r *budgetRepository) ByID(ctx context.Context, userID, budgetID string) (*model.Budget, error) {
	budget := &model.Budget{}
	query := `SELECT * FROM budgets WHERE id = $1 AND user_id = $2 AND status = $3`

	err := r.db.GetContext(ctx, budget, query, budgetID, userID, model.RecordStatusActive)
	if err == sql.ErrNoRows {
		return nil, ErrBudgetNotFound
	}
	if err != nil {
		return nil, err
	}

	return budget, nil
}

func (r *budgetRepository) Budgets(ctx context.Context, userID string) ([]*model.Budget, error) {
	var budgets []*model.Budget
	query := `SELECT * FROM budgets WHERE user_id = $1 AND status = $2 ORDER BY name ASC`

	err := r.db.SelectContext(ctx, &budgets, query, userID, model.RecordStatusActive)
	if err != nil {
		return nil, err
	}

	return budgets, nil
}

func (r *budgetRepository) Update(ctx context.Context, b *model.Budget) error {
	query := `UPDATE budgets
	          SET name = $1, category = $2, amount = $3, period = $4, start_date = $5, end_date = $6, alert_threshold = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10 AND status = $11`

	result, err := r.db.ExecContext(ctx, query,
		b.Name,
		b.Category,
		b.Amount,
		b.Period,
		b.StartDate,
		b.EndDate,
		b.AlertThreshold,
		b.UpdatedAt,
		b.ID,
		b.UserID,
		model.RecordStatusActive,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrBudgetNotFound)
}

func (r *budgetRepository) Delete(ctx context.Context, userID, budgetID string) error {
	query := `UPDATE budgets SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4 AND status = $5`

	result, err := r.db.ExecContext(ctx, query, model.RecordStatusDeleted, time.Now().UTC(), budgetID, userID, model.RecordStatusActive)
	if err != nil {
		return err
	}

	return expectRow(result, ErrBudgetNotFound)
}
