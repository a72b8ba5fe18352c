package handler

import (
	"time"

	"github.com/fintrack/fintrack/internal/markdown"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/money"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/service"
	"github.com/shopspring/decimal"
)

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Currency: u.Currency, CreatedAt: u.CreatedAt}
}

type milestoneResponse struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	FormattedAmount string          `json:"formattedAmount"`
	Description     string          `json:"description"`
	Achieved        bool            `json:"achieved"`
	AchievedAt      *time.Time      `json:"achievedAt"`
}

type contributionResponse struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	FormattedAmount string          `json:"formattedAmount"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
}

type goalResponse struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	TargetAmount  decimal.Decimal     `json:"targetAmount"`
	CurrentAmount decimal.Decimal     `json:"currentAmount"`
	Category      model.GoalCategory  `json:"category"`
	Priority      model.GoalPriority  `json:"priority"`
	Status        model.GoalStatus    `json:"status"`
	TargetDate    time.Time           `json:"targetDate"`
	StartDate     time.Time           `json:"startDate"`
	CompletedAt   *time.Time          `json:"completedAt"`
	Tags          []string            `json:"tags"`
	Notes         string              `json:"notes"`
	NotesHTML     string              `json:"notesHtml"`
	Version       int64               `json:"version"`
	Milestones    []milestoneResponse `json:"milestones"`

	RemainingAmount         decimal.Decimal      `json:"remainingAmount"`
	ProgressPercentage      float64              `json:"progressPercentage"`
	DaysRemaining           int                  `json:"daysRemaining"`
	DaysElapsed             int                  `json:"daysElapsed"`
	TotalDays               int                  `json:"totalDays"`
	DailyContributionNeeded decimal.Decimal      `json:"dailyContributionNeeded"`
	ProgressStatus          model.ProgressStatus `json:"progressStatus"`

	FormattedTargetAmount            string `json:"formattedTargetAmount"`
	FormattedCurrentAmount           string `json:"formattedCurrentAmount"`
	FormattedRemainingAmount         string `json:"formattedRemainingAmount"`
	FormattedDailyContributionNeeded string `json:"formattedDailyContributionNeeded"`

	ContributionCount int       `json:"contributionCount"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// goalView renders goals with their derived fields in one currency.
type goalView struct {
	md       *markdown.Parser
	currency string
	now      time.Time
}

func (v goalView) goal(g *model.Goal) goalResponse {
	p := g.Progress(v.now)

	milestones := make([]milestoneResponse, 0, len(g.Milestones))
	for _, m := range g.Milestones {
		milestones = append(milestones, milestoneResponse{
			ID:              m.ID,
			Amount:          m.Amount,
			FormattedAmount: money.Format(m.Amount, v.currency),
			Description:     m.Description,
			Achieved:        m.Achieved,
			AchievedAt:      m.AchievedAt,
		})
	}

	tags := []string(g.Tags)
	if tags == nil {
		tags = []string{}
	}

	return goalResponse{
		ID:            g.ID,
		Title:         g.Title,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Category:      g.Category,
		Priority:      g.Priority,
		Status:        g.Status,
		TargetDate:    g.TargetDate,
		StartDate:     g.StartDate,
		CompletedAt:   g.CompletedAt,
		Tags:          tags,
		Notes:         g.Notes,
		NotesHTML:     v.md.RenderNotes(g.Notes),
		Version:       g.Version,
		Milestones:    milestones,

		RemainingAmount:         p.RemainingAmount,
		ProgressPercentage:      p.ProgressPercentage,
		DaysRemaining:           p.DaysRemaining,
		DaysElapsed:             p.DaysElapsed,
		TotalDays:               p.TotalDays,
		DailyContributionNeeded: p.DailyContributionNeeded,
		ProgressStatus:          p.ProgressStatus,

		FormattedTargetAmount:            money.Format(g.TargetAmount, v.currency),
		FormattedCurrentAmount:           money.Format(g.CurrentAmount, v.currency),
		FormattedRemainingAmount:         money.Format(p.RemainingAmount, v.currency),
		FormattedDailyContributionNeeded: money.Format(p.DailyContributionNeeded, v.currency),

		ContributionCount: g.ContributionCount,
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.UpdatedAt,
	}
}

func (v goalView) goals(goals []*model.Goal) []goalResponse {
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, v.goal(g))
	}
	return out
}

func (v goalView) contributions(cs []*model.Contribution) []contributionResponse {
	out := make([]contributionResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, contributionResponse{
			ID:              c.ID,
			Amount:          c.Amount,
			FormattedAmount: money.Format(c.Amount, v.currency),
			Description:     c.Description,
			Date:            c.Date,
		})
	}
	return out
}

type goalStatsResponse struct {
	Active      int             `json:"active"`
	Completed   int             `json:"completed"`
	Paused      int             `json:"paused"`
	Cancelled   int             `json:"cancelled"`
	TotalSaved  decimal.Decimal `json:"totalSaved"`
	TotalTarget decimal.Decimal `json:"totalTarget"`
}

func newGoalStatsResponse(s *repository.GoalStats) goalStatsResponse {
	return goalStatsResponse{
		Active:      s.Active,
		Completed:   s.Completed,
		Paused:      s.Paused,
		Cancelled:   s.Cancelled,
		TotalSaved:  s.TotalSaved,
		TotalTarget: s.TotalTarget,
	}
}

type expenseResponse struct {
	ID              string                `json:"id"`
	Amount          decimal.Decimal       `json:"amount"`
	FormattedAmount string                `json:"formattedAmount"`
	Description     string                `json:"description"`
	Category        model.ExpenseCategory `json:"category"`
	PaymentMethod   model.PaymentMethod   `json:"paymentMethod"`
	Date            time.Time             `json:"date"`
	Recurring       bool                  `json:"recurring"`
	Tags            []string              `json:"tags"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

func newExpenseResponse(e *model.Expense, currency string) expenseResponse {
	return expenseResponse{
		ID:              e.ID,
		Amount:          e.Amount,
		FormattedAmount: money.Format(e.Amount, currency),
		Description:     e.Description,
		Category:        e.Category,
		PaymentMethod:   e.PaymentMethod,
		Date:            e.Date,
		Recurring:       e.Recurring,
		Tags:            nonNil(e.Tags),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func newExpenseResponses(es []*model.Expense, currency string) []expenseResponse {
	out := make([]expenseResponse, 0, len(es))
	for _, e := range es {
		out = append(out, newExpenseResponse(e, currency))
	}
	return out
}

type incomeResponse struct {
	ID              string               `json:"id"`
	Amount          decimal.Decimal      `json:"amount"`
	FormattedAmount string               `json:"formattedAmount"`
	Description     string               `json:"description"`
	Category        model.IncomeCategory `json:"category"`
	Source          string               `json:"source"`
	Date            time.Time            `json:"date"`
	Recurring       bool                 `json:"recurring"`
	Tags            []string             `json:"tags"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func newIncomeResponse(i *model.Income, currency string) incomeResponse {
	return incomeResponse{
		ID:              i.ID,
		Amount:          i.Amount,
		FormattedAmount: money.Format(i.Amount, currency),
		Description:     i.Description,
		Category:        i.Category,
		Source:          i.Source,
		Date:            i.Date,
		Recurring:       i.Recurring,
		Tags:            nonNil(i.Tags),
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

type pageResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type categoryTotalResponse struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

type monthlyTotalResponse struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type summaryResponse struct {
	From           time.Time               `json:"from"`
	To             time.Time               `json:"to"`
	Total          decimal.Decimal         `json:"total"`
	FormattedTotal string                  `json:"formattedTotal"`
	Count          int                     `json:"count"`
	Average        decimal.Decimal         `json:"average"`
	ByCategory     []categoryTotalResponse `json:"byCategory"`
	ByMonth        []monthlyTotalResponse  `json:"byMonth"`
}

func newSummaryResponse(s *model.Summary, currency string) summaryResponse {
	resp := summaryResponse{
		From:           s.From,
		To:             s.To,
		Total:          s.Total,
		FormattedTotal: money.Format(s.Total, currency),
		Count:          s.Count,
		Average:        s.Average,
		ByCategory:     make([]categoryTotalResponse, 0, len(s.ByCategory)),
		ByMonth:        make([]monthlyTotalResponse, 0, len(s.ByMonth)),
	}
	for _, c := range s.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryTotalResponse(c))
	}
	for _, m := range s.ByMonth {
		resp.ByMonth = append(resp.ByMonth, monthlyTotalResponse(m))
	}
	return resp
}

type budgetResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Category       model.ExpenseCategory `json:"category"`
	Amount         decimal.Decimal       `json:"amount"`
	Period         model.BudgetPeriod    `json:"period"`
	StartDate      time.Time             `json:"startDate"`
	EndDate        *time.Time            `json:"endDate"`
	AlertThreshold int                   `json:"alertThreshold"`

	Spent           decimal.Decimal `json:"spent"`
	Remaining       decimal.Decimal `json:"remaining"`
	PercentageUsed  float64         `json:"percentageUsed"`
	IsOverBudget    bool            `json:"isOverBudget"`
	ShouldAlert     bool            `json:"shouldAlert"`
	DaysRemaining   int             `json:"daysRemaining"`
	PeriodStart     time.Time       `json:"periodStart"`
	PeriodEnd       time.Time       `json:"periodEnd"`
	FormattedAmount string          `json:"formattedAmount"`
	FormattedSpent  string          `json:"formattedSpent"`
}

func newBudgetResponse(s *service.BudgetStatus, currency string) budgetResponse {
	b, u := s.Budget, s.Usage
	return budgetResponse{
		ID:             b.ID,
		Name:           b.Name,
		Category:       b.Category,
		Amount:         b.Amount,
		Period:         b.Period,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		AlertThreshold: b.AlertThreshold,

		Spent:           u.Spent,
		Remaining:       u.Remaining,
		PercentageUsed:  u.PercentageUsed,
		IsOverBudget:    u.IsOverBudget,
		ShouldAlert:     u.ShouldAlert,
		DaysRemaining:   u.DaysRemaining,
		PeriodStart:     u.PeriodStart,
		PeriodEnd:       u.PeriodEnd,
		FormattedAmount: money.Format(b.Amount, currency),
		FormattedSpent:  money.Format(u.Spent, currency),
	}
}

func newBudgetResponses(ss []*service.BudgetStatus, currency string) []budgetResponse {
	out := make([]budgetResponse, 0, len(ss))
	for _, s := range ss {
		out = append(out, newBudgetResponse(s, currency))
	}
	return out
}

type receiptResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newReceiptResponse(f *model.File) receiptResponse {
	return receiptResponse{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		URL:          f.URL,
		CreatedAt:    f.CreatedAt,
	}
}

func nonNil(tags model.Tags) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func currencyOf(u *model.User) string {
	if u == nil || u.Currency == "" {
		return money.DefaultCurrency
	}
	return u.Currency
}
