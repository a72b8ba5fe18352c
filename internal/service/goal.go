package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/validation"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
)

const (
	DefaultContributionRetries = 3
	MaxMilestones              = 20

	retryBase = 10 * time.Millisecond
	retryCap  = 250 * time.Millisecond
)

type MilestoneInput struct {
	Amount      decimal.Decimal
	Description string
}

type GoalInput struct {
	Title        string
	Description  string
	TargetAmount decimal.Decimal
	Category     model.GoalCategory
	Priority     model.GoalPriority
	TargetDate   time.Time
	StartDate    *time.Time
	Tags         []string
	Notes        string
	Milestones   []MilestoneInput
}

// GoalUpdate is a partial edit; nil fields are left unchanged.
type GoalUpdate struct {
	Title        *string
	Description  *string
	TargetAmount *decimal.Decimal
	Category     *model.GoalCategory
	Priority     *model.GoalPriority
	TargetDate   *time.Time
	Tags         *[]string
	Notes        *string
	Milestones   *[]MilestoneInput
	Status       *model.GoalStatus
}

type GoalService struct {
	repo       repository.GoalRepository
	notifier   Notifier
	now        func() time.Time
	maxRetries int
}

func NewGoalService(repo repository.GoalRepository, notifier Notifier, maxRetries int) *GoalService {
	if maxRetries < 0 {
		maxRetries = DefaultContributionRetries
	}
	return &GoalService{
		repo:       repo,
		notifier:   notifier,
		now:        time.Now,
		maxRetries: maxRetries,
	}
}

// Now is the clock the service evaluates goals against.
func (s *GoalService) Now() time.Time {
	return s.now().UTC()
}

func (s *GoalService) Create(ctx context.Context, userID string, in GoalInput) (*model.Goal, error) {
	now := s.Now()

	startDate := now
	if in.StartDate != nil {
		startDate = in.StartDate.UTC()
	}
	if in.Priority == "" {
		in.Priority = model.GoalPriorityMedium
	}

	tags, err := validation.NormalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		ID:            uuid.New().String(),
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Category:      in.Category,
		Priority:      in.Priority,
		Status:        model.GoalStatusActive,
		TargetDate:    in.TargetDate.UTC(),
		StartDate:     startDate,
		Tags:          tags,
		Notes:         in.Notes,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = validateGoal(goal)
	if err != nil {
		return nil, err
	}

	milestones, err := buildMilestones(in.Milestones, goal.TargetAmount, goal.CurrentAmount)
	if err != nil {
		return nil, err
	}
	err = goal.ReplaceMilestones(milestones)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Info("goal created", "goal_id", goal.ID, "user_id", userID)
	return goal, nil
}

// ByID loads an owned goal with its milestones and contribution log.
func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	drift := goal.Reconcile()
	if !drift.IsZero() {
		slog.Warn("goal amount drifted from contribution log",
			"goal_id", goal.ID,
			"user_id", userID,
			"current_amount", goal.CurrentAmount.String(),
			"drift", drift.String())
	}

	return goal, nil
}

func (s *GoalService) Goals(ctx context.Context, userID string, filter repository.GoalFilter) ([]*model.Goal, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validation.Invalid("status", "unknown status %q", filter.Status)
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, validation.Invalid("category", "unknown category %q", filter.Category)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, validation.Invalid("priority", "unknown priority %q", filter.Priority)
	}

	return s.repo.Goals(ctx, userID, filter)
}

// Update applies a partial edit under the goal's version. A concurrent write
// makes the edit re-apply on a fresh copy.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, upd GoalUpdate) (*model.Goal, error) {
	var goal *model.Goal

	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		goal, err = s.repo.ByID(ctx, userID, goalID)
		if err != nil {
			return err
		}

		replace, err := applyUpdate(goal, upd, s.Now())
		if err != nil {
			return err
		}

		return s.repo.Update(ctx, goal, replace)
	})
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func applyUpdate(goal *model.Goal, upd GoalUpdate, now time.Time) (bool, error) {
	if upd.Title != nil {
		goal.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		goal.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.TargetAmount != nil {
		goal.TargetAmount = *upd.TargetAmount
	}
	if upd.Category != nil {
		goal.Category = *upd.Category
	}
	if upd.Priority != nil {
		goal.Priority = *upd.Priority
	}
	if upd.TargetDate != nil {
		goal.TargetDate = upd.TargetDate.UTC()
	}
	if upd.Notes != nil {
		goal.Notes = *upd.Notes
	}
	if upd.Tags != nil {
		tags, err := validation.NormalizeTags(*upd.Tags)
		if err != nil {
			return false, err
		}
		goal.Tags = tags
	}

	err := validateGoal(goal)
	if err != nil {
		return false, err
	}

	replace := false
	if upd.Milestones != nil {
		milestones, err := buildMilestones(*upd.Milestones, goal.TargetAmount, goal.CurrentAmount)
		if err != nil {
			return false, err
		}
		err = goal.ReplaceMilestones(milestones)
		if err != nil {
			return false, err
		}
		replace = true
	}

	if upd.Status != nil {
		err = goal.TransitionTo(*upd.Status, now)
		if err != nil {
			return false, err
		}
	}

	goal.UpdatedAt = now
	return replace, nil
}

// Contribute applies a contribution and persists it as one unit guarded by
// the goal's version, retrying from a fresh read on conflict. Notifiers run
// after the commit and cannot fail the contribution.
func (s *GoalService) Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal, description string) (*model.Goal, *model.ContributionResult, error) {
	if !amount.IsPositive() {
		return nil, nil, model.ErrInvalidAmount
	}
	err := validation.ValidateAmount("amount", amount)
	if err != nil {
		return nil, nil, err
	}

	var (
		goal   *model.Goal
		result *model.ContributionResult
		now    time.Time
	)

	err = s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		goal, err = s.repo.ByID(ctx, userID, goalID)
		if err != nil {
			return err
		}

		now = s.Now()
		result, err = goal.ApplyContribution(amount, description, now)
		if err != nil {
			return err
		}

		return s.repo.SaveContribution(ctx, goal, result)
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("contribution applied",
		"goal_id", goal.ID,
		"user_id", userID,
		"amount", amount.String(),
		"milestones_achieved", len(result.Achieved),
		"completed", result.Completed)

	s.notify(ctx, model.GoalEvents(goal, result, now))
	return goal, result, nil
}

func (s *GoalService) notify(ctx context.Context, events []model.GoalEvent) {
	if s.notifier == nil || len(events) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	for _, event := range events {
		err := s.notifier.Notify(ctx, event)
		if err != nil {
			slog.Error("failed to deliver goal event",
				"error", err,
				"type", event.Type,
				"goal_id", event.GoalID,
				"user_id", event.UserID)
		}
	}
}

func (s *GoalService) Contributions(ctx context.Context, userID, goalID string) ([]*model.Contribution, error) {
	// Resolve ownership first so a foreign goal reads as missing rather than empty.
	_, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	return s.repo.Contributions(ctx, userID, goalID)
}

// Cancel is the goal's delete: the record is kept with status cancelled.
func (s *GoalService) Cancel(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	status := model.GoalStatusCancelled
	return s.Update(ctx, userID, goalID, GoalUpdate{Status: &status})
}

func (s *GoalService) Stats(ctx context.Context, userID string) (*repository.GoalStats, error) {
	return s.repo.Stats(ctx, userID)
}

func (s *GoalService) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.NewExponential(retryBase)
	b = retry.WithJitterPercent(20, b)
	b = retry.WithCappedDuration(retryCap, b)
	b = retry.WithMaxRetries(uint64(s.maxRetries), b)

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, repository.ErrVersionConflict) {
			slog.Debug("goal version conflict, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, repository.ErrVersionConflict) {
		slog.Warn("goal write gave up after version conflicts", "retries", s.maxRetries)
	}
	return err
}

func validateGoal(g *model.Goal) error {
	err := validation.ValidateText("title", g.Title, validation.MaxTitleLen, true)
	if err != nil {
		return err
	}
	err = validation.ValidateText("description", g.Description, validation.MaxDescriptionLen, false)
	if err != nil {
		return err
	}
	err = validation.ValidateText("notes", g.Notes, validation.MaxNotesLen, false)
	if err != nil {
		return err
	}
	err = validation.ValidateAmount("targetAmount", g.TargetAmount)
	if err != nil {
		return err
	}
	if !g.Category.Valid() {
		return validation.Invalid("category", "unknown category %q", g.Category)
	}
	if !g.Priority.Valid() {
		return validation.Invalid("priority", "unknown priority %q", g.Priority)
	}
	if g.TargetDate.IsZero() {
		return validation.Invalid("targetDate", "is required")
	}
	if !g.TargetDate.After(g.StartDate) {
		return validation.Invalid("targetDate", "must be after the start date")
	}
	return nil
}

// buildMilestones validates a milestone list. Every amount must lie above
// current and at or below target.
func buildMilestones(in []MilestoneInput, target, current decimal.Decimal) ([]*model.Milestone, error) {
	if len(in) > MaxMilestones {
		return nil, validation.Invalid("milestones", "at most %d milestones are allowed", MaxMilestones)
	}

	milestones := make([]*model.Milestone, 0, len(in))
	for i, m := range in {
		field := fmt.Sprintf("milestones[%d].amount", i)
		err := validation.ValidateAmount(field, m.Amount)
		if err != nil {
			return nil, err
		}
		if m.Amount.GreaterThan(target) {
			return nil, validation.Invalid(field, "must not exceed the target amount")
		}
		if m.Amount.LessThanOrEqual(current) {
			return nil, validation.Invalid(field, "must be above the %s already saved", current.StringFixed(2))
		}
		err = validation.ValidateText(fmt.Sprintf("milestones[%d].description", i), m.Description, model.MaxContributionDescLen, false)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, &model.Milestone{
			Amount:      m.Amount,
			Description: strings.TrimSpace(m.Description),
		})
	}
	return milestones, nil
}
