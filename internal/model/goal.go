package model

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCancelled GoalStatus = "cancelled"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused, GoalStatusCancelled:
		return true
	}
	return false
}

type GoalCategory string

const (
	GoalCategoryEmergency  GoalCategory = "emergency"
	GoalCategoryVacation   GoalCategory = "vacation"
	GoalCategoryHouse      GoalCategory = "house"
	GoalCategoryCar        GoalCategory = "car"
	GoalCategoryEducation  GoalCategory = "education"
	GoalCategoryRetirement GoalCategory = "retirement"
	GoalCategoryInvestment GoalCategory = "investment"
	GoalCategoryDebt       GoalCategory = "debt"
	GoalCategoryOther      GoalCategory = "other"
)

var GoalCategories = []GoalCategory{
	GoalCategoryEmergency,
	GoalCategoryVacation,
	GoalCategoryHouse,
	GoalCategoryCar,
	GoalCategoryEducation,
	GoalCategoryRetirement,
	GoalCategoryInvestment,
	GoalCategoryDebt,
	GoalCategoryOther,
}

func (c GoalCategory) Valid() bool {
	for _, v := range GoalCategories {
		if c == v {
			return true
		}
	}
	return false
}

type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
	GoalPriorityUrgent GoalPriority = "urgent"
)

func (p GoalPriority) Valid() bool {
	switch p {
	case GoalPriorityLow, GoalPriorityMedium, GoalPriorityHigh, GoalPriorityUrgent:
		return true
	}
	return false
}

type ProgressStatus string

const (
	ProgressCompleted      ProgressStatus = "completed"
	ProgressOverdue        ProgressStatus = "overdue"
	ProgressOnTrack        ProgressStatus = "on-track"
	ProgressGood           ProgressStatus = "good-progress"
	ProgressModerate       ProgressStatus = "moderate-progress"
	ProgressNeedsAttention ProgressStatus = "needs-attention"
)

const (
	MaxContributionDescLen = 200
	MaxGoalAmountCents     = 99999999
)

// MaxGoalAmount is the largest target or record amount accepted on input.
var MaxGoalAmount = decimal.New(MaxGoalAmountCents, -2)

var (
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrGoalNotActive      = errors.New("goal is not active")
	ErrInvalidStatus      = errors.New("invalid goal status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrDescriptionTooLong = errors.New("contribution description is too long (max 200 characters)")
	ErrMilestonesLocked   = errors.New("milestones cannot be replaced once one has been achieved")
)

type Goal struct {
	ID            string          `db:"id"`
	UserID        string          `db:"user_id"`
	Title         string          `db:"title"`
	Description   string          `db:"description"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	Category      GoalCategory    `db:"category"`
	Priority      GoalPriority    `db:"priority"`
	Status        GoalStatus      `db:"status"`
	TargetDate    time.Time       `db:"target_date"`
	StartDate     time.Time       `db:"start_date"`
	CompletedAt   *time.Time      `db:"completed_at"`
	Tags          Tags            `db:"tags"`
	Notes         string          `db:"notes"`
	Version       int64           `db:"version"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`

	// Counted by list queries; ByID derives it from Contributions.
	ContributionCount int `db:"contribution_count"`

	// Loaded separately
	Milestones    []*Milestone    `db:"-"`
	Contributions []*Contribution `db:"-"`
}

type Milestone struct {
	ID          string          `db:"id"`
	GoalID      string          `db:"goal_id"`
	Position    int             `db:"position"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	Achieved    bool            `db:"achieved"`
	AchievedAt  *time.Time      `db:"achieved_at"`
}

type Contribution struct {
	ID          string          `db:"id"`
	GoalID      string          `db:"goal_id"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	Date        time.Time       `db:"date"`
}

// ContributionResult describes what a single contribution changed.
type ContributionResult struct {
	Contribution *Contribution
	Achieved     []*Milestone
	Completed    bool
}

// ApplyContribution records a contribution and updates the running total,
// milestone achievement and completion status. Inputs are validated before
// anything is touched, so a rejected contribution leaves the goal unchanged.
func (g *Goal) ApplyContribution(amount decimal.Decimal, description string, now time.Time) (*ContributionResult, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if g.Status != GoalStatusActive {
		return nil, ErrGoalNotActive
	}
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > MaxContributionDescLen {
		return nil, ErrDescriptionTooLong
	}

	contribution := &Contribution{
		ID:          uuid.New().String(),
		GoalID:      g.ID,
		Amount:      amount,
		Description: description,
		Date:        now,
	}
	g.Contributions = append(g.Contributions, contribution)
	g.ContributionCount++
	g.CurrentAmount = g.CurrentAmount.Add(amount)

	result := &ContributionResult{Contribution: contribution}
	for _, m := range g.Milestones {
		if m.Achieved || g.CurrentAmount.LessThan(m.Amount) {
			continue
		}
		achievedAt := now
		m.Achieved = true
		m.AchievedAt = &achievedAt
		result.Achieved = append(result.Achieved, m)
	}

	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) && g.Status == GoalStatusActive {
		completedAt := now
		g.Status = GoalStatusCompleted
		g.CompletedAt = &completedAt
		result.Completed = true
	}

	g.UpdatedAt = now
	return result, nil
}

// goalTransitions lists manual status edits. active -> completed also happens
// automatically in ApplyContribution.
var goalTransitions = map[GoalStatus][]GoalStatus{
	GoalStatusActive:    {GoalStatusPaused, GoalStatusCompleted, GoalStatusCancelled},
	GoalStatusPaused:    {GoalStatusActive, GoalStatusCancelled},
	GoalStatusCompleted: {GoalStatusActive, GoalStatusCancelled},
	GoalStatusCancelled: {},
}

func CanTransition(from, to GoalStatus) bool {
	for _, s := range goalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionTo applies a user-driven status change. Reopening a completed
// goal is only allowed when the target is no longer reached.
func (g *Goal) TransitionTo(to GoalStatus, now time.Time) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if g.Status == to {
		return nil
	}
	if !CanTransition(g.Status, to) {
		return ErrInvalidTransition
	}
	if g.Status == GoalStatusCompleted && to == GoalStatusActive &&
		g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		return ErrInvalidTransition
	}

	switch to {
	case GoalStatusCompleted:
		completedAt := now
		g.CompletedAt = &completedAt
	case GoalStatusActive:
		g.CompletedAt = nil
	}

	g.Status = to
	g.UpdatedAt = now
	return nil
}

// ReplaceMilestones swaps the milestone list, which is only possible while
// none of the current milestones has been achieved.
func (g *Goal) ReplaceMilestones(milestones []*Milestone) error {
	for _, m := range g.Milestones {
		if m.Achieved {
			return ErrMilestonesLocked
		}
	}
	for i, m := range milestones {
		m.GoalID = g.ID
		m.Position = i
		m.ID = uuid.New().String()
		m.Achieved = false
		m.AchievedAt = nil
	}
	g.Milestones = milestones
	return nil
}

// Reconcile returns the difference between CurrentAmount and the sum of the
// loaded contribution log. Zero means the cached total agrees with the log.
func (g *Goal) Reconcile() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range g.Contributions {
		sum = sum.Add(c.Amount)
	}
	return g.CurrentAmount.Sub(sum)
}

// GoalProgress holds the fields derived from a goal at a point in time.
type GoalProgress struct {
	RemainingAmount         decimal.Decimal
	ProgressPercentage      float64
	DaysRemaining           int
	DaysElapsed             int
	TotalDays               int
	DailyContributionNeeded decimal.Decimal
	ProgressStatus          ProgressStatus
}

func (g *Goal) RemainingAmount() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

var hundred = decimal.NewFromInt(100)

// progressRatio is the exact percentage current/target*100, floored at zero
// and capped at 100 only once the target is reached.
func (g *Goal) progressRatio() decimal.Decimal {
	if g.TargetAmount.IsZero() {
		return decimal.Zero
	}
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		return hundred
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred)
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct
}

// ProgressPercentage truncates to two decimals so an unfinished goal never
// displays 100.
func (g *Goal) ProgressPercentage() float64 {
	return g.progressRatio().Truncate(2).InexactFloat64()
}

// Progress computes every derived field relative to now.
func (g *Goal) Progress(now time.Time) GoalProgress {
	p := GoalProgress{
		RemainingAmount:         g.RemainingAmount(),
		ProgressPercentage:      g.ProgressPercentage(),
		DaysRemaining:           daysBetween(now, g.TargetDate),
		DaysElapsed:             daysBetween(g.StartDate, now),
		TotalDays:               daysBetween(g.StartDate, g.TargetDate),
		DailyContributionNeeded: decimal.Zero,
	}

	if p.DaysRemaining > 0 {
		p.DailyContributionNeeded = p.RemainingAmount.Div(decimal.NewFromInt(int64(p.DaysRemaining))).Round(2)
	}

	p.ProgressStatus = progressStatus(g.progressRatio(), p.DaysRemaining)
	return p
}

// progressStatus is an ordered cascade on the exact percentage, first match
// wins.
func progressStatus(pct decimal.Decimal, daysRemaining int) ProgressStatus {
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return ProgressCompleted
	case daysRemaining <= 0:
		return ProgressOverdue
	case pct.GreaterThanOrEqual(decimal.NewFromInt(75)):
		return ProgressOnTrack
	case pct.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return ProgressGood
	case pct.GreaterThanOrEqual(decimal.NewFromInt(25)):
		return ProgressModerate
	default:
		return ProgressNeedsAttention
	}
}

// daysBetween returns ceil((to - from) / 24h), floored at zero.
func daysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(24*time.Hour)))
}
