package handler

import (
	"net/http"
	"time"

	"github.com/fintrack/fintrack/internal/ctxkeys"
	"github.com/fintrack/fintrack/internal/markdown"
	"github.com/fintrack/fintrack/internal/money"
	"github.com/fintrack/fintrack/internal/render"
	"github.com/fintrack/fintrack/internal/service"
	"github.com/shopspring/decimal"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	markdown         *markdown.Parser
}

func NewDashboardHandler(dashboardService *service.DashboardService, markdownParser *markdown.Parser) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		markdown:         markdownParser,
	}
}

type dashboardResponse struct {
	PeriodStart            time.Time         `json:"periodStart"`
	PeriodEnd              time.Time         `json:"periodEnd"`
	TotalIncome            decimal.Decimal   `json:"totalIncome"`
	TotalExpenses          decimal.Decimal   `json:"totalExpenses"`
	NetBalance             decimal.Decimal   `json:"netBalance"`
	SavingsRate            float64           `json:"savingsRate"`
	FormattedTotalIncome   string            `json:"formattedTotalIncome"`
	FormattedTotalExpenses string            `json:"formattedTotalExpenses"`
	FormattedNetBalance    string            `json:"formattedNetBalance"`
	Budgets                []budgetResponse  `json:"budgets"`
	Goals                  []goalResponse    `json:"goals"`
	GoalStats              goalStatsResponse `json:"goalStats"`
	RecentExpenses         []expenseResponse `json:"recentExpenses"`
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	d, err := h.dashboardService.Overview(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	currency := currencyOf(user)
	view := goalView{md: h.markdown, currency: currency, now: d.GeneratedAt}

	render.JSON(w, http.StatusOK, dashboardResponse{
		PeriodStart:            d.PeriodStart,
		PeriodEnd:              d.PeriodEnd,
		TotalIncome:            d.TotalIncome,
		TotalExpenses:          d.TotalExpenses,
		NetBalance:             d.NetBalance,
		SavingsRate:            d.SavingsRate,
		FormattedTotalIncome:   money.Format(d.TotalIncome, currency),
		FormattedTotalExpenses: money.Format(d.TotalExpenses, currency),
		FormattedNetBalance:    money.Format(d.NetBalance, currency),
		Budgets:                newBudgetResponses(d.Budgets, currency),
		Goals:                  view.goals(d.Goals),
		GoalStats:              newGoalStatsResponse(d.GoalStats),
		RecentExpenses:         newExpenseResponses(d.RecentExpenses, currency),
	})
}
