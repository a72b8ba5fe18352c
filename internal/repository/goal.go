package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	GoalSortRecent   = "recent"
	GoalSortProgress = "progress"
	GoalSortTitle    = "title"
	GoalSortDeadline = "deadline"
)

var (
	ErrGoalNotFound    = errors.New("goal not found")
	ErrVersionConflict = errors.New("goal was modified concurrently")
)

type GoalFilter struct {
	Status   model.GoalStatus
	Category model.GoalCategory
	Priority model.GoalPriority
	Sort     string
}

type GoalStats struct {
	Active      int             `db:"active"`
	Completed   int             `db:"completed"`
	Paused      int             `db:"paused"`
	Cancelled   int             `db:"cancelled"`
	TotalSaved  decimal.Decimal `db:"total_saved"`
	TotalTarget decimal.Decimal `db:"total_target"`
}

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID string, filter GoalFilter) ([]*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal, replaceMilestones bool) error
	SaveContribution(ctx context.Context, goal *model.Goal, result *model.ContributionResult) error
	Contributions(ctx context.Context, userID, goalID string) ([]*model.Contribution, error)
	Stats(ctx context.Context, userID string) (*GoalStats, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO goals (id, user_id, title, description, target_amount, current_amount, category, priority,
	          status, target_date, start_date, completed_at, tags, notes, version, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = tx.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Category,
		goal.Priority,
		goal.Status,
		goal.TargetDate,
		goal.StartDate,
		goal.CompletedAt,
		goal.Tags,
		goal.Notes,
		goal.Version,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return err
	}

	err = insertMilestones(ctx, tx, goal.Milestones)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func insertMilestones(ctx context.Context, tx *sqlx.Tx, milestones []*model.Milestone) error {
	query := `INSERT INTO goal_milestones (id, goal_id, position, amount, description, achieved, achieved_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, m := range milestones {
		_, err := tx.ExecContext(ctx, query, m.ID, m.GoalID, m.Position, m.Amount, m.Description, m.Achieved, m.AchievedAt)
		if err != nil {
			return fmt.Errorf("failed to insert milestone %d: %w", m.Position, err)
		}
	}
	return nil
}

// ByID loads a goal owned by userID together with its milestones and the
// full contribution log. A goal owned by someone else is reported as missing.
func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &goal.Milestones,
		`SELECT * FROM goal_milestones WHERE goal_id = $1 ORDER BY position ASC`, goalID)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &goal.Contributions,
		`SELECT * FROM goal_contributions WHERE goal_id = $1 ORDER BY date ASC, id ASC`, goalID)
	if err != nil {
		return nil, err
	}
	goal.ContributionCount = len(goal.Contributions)

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID string, filter GoalFilter) ([]*model.Goal, error) {
	var goals []*model.Goal

	query := `SELECT goals.*,
	          (SELECT COUNT(*) FROM goal_contributions c WHERE c.goal_id = goals.id) AS contribution_count
	          FROM goals WHERE user_id = ?`
	args := []any{userID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, filter.Priority)
	}

	switch filter.Sort {
	case GoalSortProgress:
		query += ` ORDER BY (current_amount * 1.0 / CASE WHEN target_amount = 0 THEN 1 ELSE target_amount END) DESC, updated_at DESC`
	case GoalSortTitle:
		query += ` ORDER BY LOWER(title) ASC`
	case GoalSortDeadline:
		query += ` ORDER BY target_date ASC`
	default: // GoalSortRecent or empty
		query += ` ORDER BY updated_at DESC`
	}

	err := r.db.SelectContext(ctx, &goals, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	if len(goals) == 0 {
		return goals, nil
	}

	ids := make([]string, len(goals))
	byID := make(map[string]*model.Goal, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
		byID[g.ID] = g
	}

	milestoneQuery, milestoneArgs, err := sqlx.In(
		`SELECT * FROM goal_milestones WHERE goal_id IN (?) ORDER BY goal_id, position ASC`, ids)
	if err != nil {
		return nil, err
	}

	var milestones []*model.Milestone
	err = r.db.SelectContext(ctx, &milestones, r.db.Rebind(milestoneQuery), milestoneArgs...)
	if err != nil {
		return nil, err
	}
	for _, m := range milestones {
		g := byID[m.GoalID]
		g.Milestones = append(g.Milestones, m)
	}

	return goals, nil
}

// Update writes the editable goal fields guarded by the version the goal was
// loaded with. On success goal.Version is advanced.
func (r *goalRepository) Update(ctx context.Context, goal *model.Goal, replaceMilestones bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE goals
	          SET title = $1, description = $2, target_amount = $3, category = $4, priority = $5, status = $6,
	              target_date = $7, completed_at = $8, tags = $9, notes = $10, updated_at = $11, version = version + 1
	          WHERE id = $12 AND user_id = $13 AND version = $14`

	result, err := tx.ExecContext(ctx, query,
		goal.Title,
		goal.Description,
		goal.TargetAmount,
		goal.Category,
		goal.Priority,
		goal.Status,
		goal.TargetDate,
		goal.CompletedAt,
		goal.Tags,
		goal.Notes,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
		goal.Version,
	)
	if err != nil {
		return err
	}

	err = checkVersion(result)
	if err != nil {
		return err
	}

	if replaceMilestones {
		_, err = tx.ExecContext(ctx, `DELETE FROM goal_milestones WHERE goal_id = $1`, goal.ID)
		if err != nil {
			return err
		}
		err = insertMilestones(ctx, tx, goal.Milestones)
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	goal.Version++
	return nil
}

// SaveContribution persists one applied contribution as a single unit: the
// log append, newly achieved milestones and the goal's running total and
// status. A concurrent write since the goal was loaded yields
// ErrVersionConflict and nothing is written.
func (r *goalRepository) SaveContribution(ctx context.Context, goal *model.Goal, res *model.ContributionResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE goals
	          SET current_amount = $1, status = $2, completed_at = $3, updated_at = $4, version = version + 1
	          WHERE id = $5 AND user_id = $6 AND version = $7`

	result, err := tx.ExecContext(ctx, query,
		goal.CurrentAmount,
		goal.Status,
		goal.CompletedAt,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
		goal.Version,
	)
	if err != nil {
		return err
	}

	err = checkVersion(result)
	if err != nil {
		return err
	}

	c := res.Contribution
	_, err = tx.ExecContext(ctx,
		`INSERT INTO goal_contributions (id, goal_id, amount, description, date) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.GoalID, c.Amount, c.Description, c.Date)
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}

	for _, m := range res.Achieved {
		_, err = tx.ExecContext(ctx,
			`UPDATE goal_milestones SET achieved = $1, achieved_at = $2 WHERE id = $3 AND achieved = $4`,
			true, m.AchievedAt, m.ID, false)
		if err != nil {
			return fmt.Errorf("failed to mark milestone achieved: %w", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	goal.Version++
	return nil
}

func checkVersion(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *goalRepository) Contributions(ctx context.Context, userID, goalID string) ([]*model.Contribution, error) {
	var contributions []*model.Contribution
	query := `SELECT c.* FROM goal_contributions c
	          JOIN goals g ON g.id = c.goal_id
	          WHERE c.goal_id = $1 AND g.user_id = $2
	          ORDER BY c.date DESC, c.id DESC`

	err := r.db.SelectContext(ctx, &contributions, query, goalID, userID)
	if err != nil {
		return nil, err
	}

	return contributions, nil
}

func (r *goalRepository) Stats(ctx context.Context, userID string) (*GoalStats, error) {
	stats := &GoalStats{}
	query := `SELECT
	              COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active,
	              COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
	              COALESCE(SUM(CASE WHEN status = 'paused' THEN 1 ELSE 0 END), 0) AS paused,
	              COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0) AS cancelled,
	              COALESCE(SUM(CASE WHEN status <> 'cancelled' THEN current_amount ELSE 0 END), 0) AS total_saved,
	              COALESCE(SUM(CASE WHEN status <> 'cancelled' THEN target_amount ELSE 0 END), 0) AS total_target
	          FROM goals WHERE user_id = $1`

	err := r.db.GetContext(ctx, stats, query, userID)
	if err != nil {
		return nil, err
	}

	stats.TotalSaved = stats.TotalSaved.Round(2)
	stats.TotalTarget = stats.TotalTarget.Round(2)
	return stats, nil
}
