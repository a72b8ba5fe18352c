package handler

import (
	"net/http"

	"github.com/fintrack/fintrack/internal/ctxkeys"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/render"
	"github.com/fintrack/fintrack/internal/service"
	"github.com/shopspring/decimal"
)

type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

type expenseRequest struct {
	Amount        decimal.Decimal     `json:"amount"`
	Description   string              `json:"description"`
	Category      string              `json:"category"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	Date          Date                `json:"date"`
	Recurring     bool                `json:"recurring"`
	Tags          []string            `json:"tags"`
}

func (req expenseRequest) input() service.RecordInput {
	return service.RecordInput{
		Amount:        req.Amount,
		Description:   req.Description,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Date:          req.Date.Time,
		Recurring:     req.Recurring,
		Tags:          req.Tags,
	}
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	filter, err := recordFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.expenseService.Expenses(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, pageResponse[expenseResponse]{
		Items:  newExpenseResponses(page.Items, currencyOf(user)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req expenseRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	expense, err := h.expenseService.Create(r.Context(), user.ID, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, newExpenseResponse(expense, currencyOf(user)))
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	expense, err := h.expenseService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newExpenseResponse(expense, currencyOf(user)))
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req expenseRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	expense, err := h.expenseService.Update(r.Context(), user.ID, r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newExpenseResponse(expense, currencyOf(user)))
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.expenseService.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.NoContent(w)
}

func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	from, to, err := dateRange(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.expenseService.Summary(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newSummaryResponse(summary, currencyOf(user)))
}
