package routes

import (
	"net/http"

	"github.com/fintrack/fintrack/internal/app"
	"github.com/fintrack/fintrack/internal/handler"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/render"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	account := handler.NewAccountHandler(app.UserService)
	goal := handler.NewGoalHandler(app.GoalService, app.Markdown)
	expense := handler.NewExpenseHandler(app.ExpenseService)
	income := handler.NewIncomeHandler(app.IncomeService)
	budget := handler.NewBudgetHandler(app.BudgetService)
	receipt := handler.NewReceiptHandler(app.FileService)
	dashboard := handler.NewDashboardHandler(app.DashboardService, app.Markdown)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// Auth (rate limited per client IP)
	rateLimit := app.AuthRateLimiter.Middleware
	mux.HandleFunc("POST /api/auth/register", rateLimit(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimit(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Account
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(account.Me))
	mux.HandleFunc("PUT /api/me", middleware.RequireAuth(account.UpdateProfile))
	mux.HandleFunc("PUT /api/me/password", middleware.RequireAuth(account.UpdatePassword))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", middleware.RequireAuth(dashboard.Overview))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/stats", middleware.RequireAuth(goal.Stats))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))
	mux.HandleFunc("PATCH /api/goals/{id}/status", middleware.RequireAuth(goal.UpdateStatus))
	mux.HandleFunc("POST /api/goals/{id}/contributions", middleware.RequireAuth(goal.Contribute))
	mux.HandleFunc("GET /api/goals/{id}/contributions", middleware.RequireAuth(goal.Contributions))

	// Expenses
	mux.HandleFunc("GET /api/expenses", middleware.RequireAuth(expense.List))
	mux.HandleFunc("POST /api/expenses", middleware.RequireAuth(expense.Create))
	mux.HandleFunc("GET /api/expenses/summary", middleware.RequireAuth(expense.Summary))
	mux.HandleFunc("GET /api/expenses/{id}", middleware.RequireAuth(expense.Get))
	mux.HandleFunc("PUT /api/expenses/{id}", middleware.RequireAuth(expense.Update))
	mux.HandleFunc("DELETE /api/expenses/{id}", middleware.RequireAuth(expense.Delete))

	// Receipts
	mux.HandleFunc("GET /api/expenses/{id}/receipts", middleware.RequireAuth(receipt.List))
	mux.HandleFunc("POST /api/expenses/{id}/receipts", middleware.RequireAuth(receipt.Upload))
	mux.HandleFunc("DELETE /api/expenses/{id}/receipts/{fileID}", middleware.RequireAuth(receipt.Delete))

	// Incomes
	mux.HandleFunc("GET /api/incomes", middleware.RequireAuth(income.List))
	mux.HandleFunc("POST /api/incomes", middleware.RequireAuth(income.Create))
	mux.HandleFunc("GET /api/incomes/summary", middleware.RequireAuth(income.Summary))
	mux.HandleFunc("GET /api/incomes/{id}", middleware.RequireAuth(income.Get))
	mux.HandleFunc("PUT /api/incomes/{id}", middleware.RequireAuth(income.Update))
	mux.HandleFunc("DELETE /api/incomes/{id}", middleware.RequireAuth(income.Delete))

	// Budgets
	mux.HandleFunc("GET /api/budgets", middleware.RequireAuth(budget.List))
	mux.HandleFunc("POST /api/budgets", middleware.RequireAuth(budget.Create))
	mux.HandleFunc("GET /api/budgets/{id}", middleware.RequireAuth(budget.Get))
	mux.HandleFunc("PUT /api/budgets/{id}", middleware.RequireAuth(budget.Update))
	mux.HandleFunc("DELETE /api/budgets/{id}", middleware.RequireAuth(budget.Delete))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, http.StatusNotFound, "not_found", "route not found")
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)

	return handler
}
