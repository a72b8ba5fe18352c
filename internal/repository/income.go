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
	ErrIncomeNotFound = errors.New("income not found")
)

type IncomeRepository interface {
	Create(ctx context.Context, income *model.Income) error
	ByID(ctx context.Context, userID, incomeID string) (*model.Income, error)
	Incomes(ctx context.Context, userID string, filter model.RecordFilter) ([]*model.Income, int, error)
	Update(ctx context.Context, income *model.Income) error
	Delete(ctx context.Context, userID, incomeID string) error
	Summary(ctx context.Context, userID string, from, to time.Time) (*model.Summary, error)
	Total(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error)
}

type incomeRepository struct {
	db *sqlx.DB
}

func NewIncomeRepository(db *sqlx.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Create(ctx context.Context, i *model.Income) error {
	query := `INSERT INTO incomes (id, user_id, amount, description, category, source, date, recurring, tags, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.UserID,
		i.Amount,
		i.Description,
		i.Category,
		i.Source,
		i.Date,
		i.Recurring,
		i.Tags,
		i.Status,
		i.CreatedAt,
		i.UpdatedAt,
	)

	return err
}

func (r *incomeRepository) ByID(ctx context.Context, userID, incomeID string) (*model.Income, error) {
	income := &model.Income{}
	query := `SELECT * FROM incomes WHERE id = $1 AND user_id = $2 AND status = $3`

	err := r.db.GetContext(ctx, income, query, incomeID, userID, model.RecordStatusActive)
	if err == sql.ErrNoRows {
		return nil, ErrIncomeNotFound
	}
	if err != nil {
		return nil, err
	}

	return income, nil
}

func (r *incomeRepository) Incomes(ctx context.Context, userID string, filter model.RecordFilter) ([]*model.Income, int, error) {
	where, args := recordWhere(userID, filter)

	var total int
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM incomes`+where), args...)
	if err != nil {
		return nil, 0, err
	}

	var incomes []*model.Income
	query := `SELECT * FROM incomes` + where + ` ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize(filter.Limit), max(filter.Offset, 0))

	err = r.db.SelectContext(ctx, &incomes, r.db.Rebind(query), args...)
	if err != nil {
		return nil, 0, err
	}

	return incomes, total, nil
}

func (r *incomeRepository) Update(ctx context.Context, i *model.Income) error {
	query := `UPDATE incomes
	          SET amount = $1, description = $2, category = $3, source = $4, date = $5, recurring = $6, tags = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10 AND status = $11`

	result, err := r.db.ExecContext(ctx, query,
		i.Amount,
		i.Description,
		i.Category,
		i.Source,
		i.Date,
		i.Recurring,
		i.Tags,
		i.UpdatedAt,
		i.ID,
		i.UserID,
		model.RecordStatusActive,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrIncomeNotFound)
}

func (r *incomeRepository) Delete(ctx context.Context, userID, incomeID string) error {
	query := `UPDATE incomes SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4 AND status = $5`

	result, err := r.db.ExecContext(ctx, query, model.RecordStatusDeleted, time.Now().UTC(), incomeID, userID, model.RecordStatusActive)
	if err != nil {
		return err
	}

	return expectRow(result, ErrIncomeNotFound)
}

func (r *incomeRepository) Summary(ctx context.Context, userID string, from, to time.Time) (*model.Summary, error) {
	return summarize(ctx, r.db, "incomes", userID, from, to)
}

func (r *incomeRepository) Total(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	where, args := recordWhere(userID, model.RecordFilter{From: from, To: to})

	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COALESCE(SUM(amount), 0) FROM incomes`+where), args...)
	if err != nil {
		return decimal.Zero, err
	}

	return total.Round(2), nil
}
