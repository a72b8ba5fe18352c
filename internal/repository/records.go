package repository

import (
	"context"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// recordWhere builds the shared WHERE clause for expense and income listings.
// Placeholders are "?" and must be passed through Rebind.
func recordWhere(userID string, f model.RecordFilter) (string, []any) {
	clauses := []string{"user_id = ?", "status = ?"}
	args := []any{userID, model.RecordStatusActive}

	if !f.From.IsZero() {
		clauses = append(clauses, "date >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		clauses = append(clauses, "date < ?")
		args = append(args, f.To.UTC())
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.MinAmount.Valid {
		clauses = append(clauses, "amount >= ?")
		args = append(args, f.MinAmount.Decimal)
	}
	if f.MaxAmount.Valid {
		clauses = append(clauses, "amount <= ?")
		args = append(args, f.MaxAmount.Decimal)
	}
	if f.Search != "" {
		clauses = append(clauses, "LOWER(description) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func pageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// summarize runs the per-category and dated-amount queries behind
// model.NewSummary for the given table.
func summarize(ctx context.Context, db *sqlx.DB, table, userID string, from, to time.Time) (*model.Summary, error) {
	where, args := recordWhere(userID, model.RecordFilter{From: from, To: to})

	var categories []model.CategoryTotal
	query := `SELECT category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count FROM ` + table +
		where + ` GROUP BY category ORDER BY total DESC`
	err := db.SelectContext(ctx, &categories, db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	var amounts []model.AmountAt
	query = `SELECT date, amount FROM ` + table + where + ` ORDER BY date ASC`
	err = db.SelectContext(ctx, &amounts, db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return model.NewSummary(from, to, categories, amounts), nil
}
