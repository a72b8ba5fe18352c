package handler

import (
	"net/http"

	"github.com/fintrack/fintrack/internal/ctxkeys"
	"github.com/fintrack/fintrack/internal/render"
	"github.com/fintrack/fintrack/internal/service"
	"github.com/shopspring/decimal"
)

type IncomeHandler struct {
	incomeService *service.IncomeService
}

func NewIncomeHandler(incomeService *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{
		incomeService: incomeService,
	}
}

type incomeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Source      string          `json:"source"`
	Date        Date            `json:"date"`
	Recurring   bool            `json:"recurring"`
	Tags        []string        `json:"tags"`
}

func (req incomeRequest) input() service.RecordInput {
	return service.RecordInput{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Source:      req.Source,
		Date:        req.Date.Time,
		Recurring:   req.Recurring,
		Tags:        req.Tags,
	}
}

func (h *IncomeHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	filter, err := recordFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.incomeService.Incomes(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	currency := currencyOf(user)
	items := make([]incomeResponse, 0, len(page.Items))
	for _, i := range page.Items {
		items = append(items, newIncomeResponse(i, currency))
	}

	render.JSON(w, http.StatusOK, pageResponse[incomeResponse]{
		Items:  items,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

func (h *IncomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req incomeRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	income, err := h.incomeService.Create(r.Context(), user.ID, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, newIncomeResponse(income, currencyOf(user)))
}

func (h *IncomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	income, err := h.incomeService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newIncomeResponse(income, currencyOf(user)))
}

func (h *IncomeHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req incomeRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	income, err := h.incomeService.Update(r.Context(), user.ID, r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newIncomeResponse(income, currencyOf(user)))
}

func (h *IncomeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.incomeService.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.NoContent(w)
}

func (h *IncomeHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	from, to, err := dateRange(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.incomeService.Summary(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newSummaryResponse(summary, currencyOf(user)))
}
