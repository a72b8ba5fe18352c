package handler

import (
	"net/http"

	"github.com/fintrack/fintrack/internal/ctxkeys"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/render"
	"github.com/fintrack/fintrack/internal/service"
	"github.com/shopspring/decimal"
)

type BudgetHandler struct {
	budgetService *service.BudgetService
}

func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

type budgetRequest struct {
	Name           string                `json:"name"`
	Category       model.ExpenseCategory `json:"category"`
	Amount         decimal.Decimal       `json:"amount"`
	Period         model.BudgetPeriod    `json:"period"`
	StartDate      *Date                 `json:"startDate"`
	EndDate        *Date                 `json:"endDate"`
	AlertThreshold int                   `json:"alertThreshold"`
}

func (req budgetRequest) input() service.BudgetInput {
	return service.BudgetInput{
		Name:           req.Name,
		Category:       req.Category,
		Amount:         req.Amount,
		Period:         req.Period,
		StartDate:      req.StartDate.value(),
		EndDate:        req.EndDate.ptr(),
		AlertThreshold: req.AlertThreshold,
	}
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	budgets, err := h.budgetService.Budgets(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newBudgetResponses(budgets, currencyOf(user)))
}

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req budgetRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	budget, err := h.budgetService.Create(r.Context(), user.ID, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, newBudgetResponse(budget, currencyOf(user)))
}

func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	budget, err := h.budgetService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newBudgetResponse(budget, currencyOf(user)))
}

func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req budgetRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	budget, err := h.budgetService.Update(r.Context(), user.ID, r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newBudgetResponse(budget, currencyOf(user)))
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.budgetService.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.NoContent(w)
}
