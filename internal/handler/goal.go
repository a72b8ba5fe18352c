package handler

import (
	"net/http"

	"github.com/fintrack/fintrack/internal/ctxkeys"
	"github.com/fintrack/fintrack/internal/markdown"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/render"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/service"
	"github.com/shopspring/decimal"
)

type GoalHandler struct {
	goalService *service.GoalService
	markdown    *markdown.Parser
}

func NewGoalHandler(goalService *service.GoalService, markdownParser *markdown.Parser) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		markdown:    markdownParser,
	}
}

func (h *GoalHandler) view(r *http.Request) goalView {
	return goalView{
		md:       h.markdown,
		currency: currencyOf(ctxkeys.User(r.Context())),
		now:      h.goalService.Now(),
	}
}

type milestoneRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func milestoneInputs(in []milestoneRequest) []service.MilestoneInput {
	out := make([]service.MilestoneInput, len(in))
	for i, m := range in {
		out[i] = service.MilestoneInput{Amount: m.Amount, Description: m.Description}
	}
	return out
}

type createGoalRequest struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	TargetAmount decimal.Decimal    `json:"targetAmount"`
	Category     model.GoalCategory `json:"category"`
	Priority     model.GoalPriority `json:"priority"`
	TargetDate   Date               `json:"targetDate"`
	StartDate    *Date              `json:"startDate"`
	Tags         []string           `json:"tags"`
	Notes        string             `json:"notes"`
	Milestones   []milestoneRequest `json:"milestones"`
}

// updateGoalRequest is a partial edit; absent fields keep their value.
type updateGoalRequest struct {
	Title        *string             `json:"title"`
	Description  *string             `json:"description"`
	TargetAmount *decimal.Decimal    `json:"targetAmount"`
	Category     *model.GoalCategory `json:"category"`
	Priority     *model.GoalPriority `json:"priority"`
	TargetDate   *Date               `json:"targetDate"`
	Tags         *[]string           `json:"tags"`
	Notes        *string             `json:"notes"`
	Milestones   *[]milestoneRequest `json:"milestones"`
	Status       *model.GoalStatus   `json:"status"`
}

type statusRequest struct {
	Status model.GoalStatus `json:"status"`
}

type contributionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type contributionResultResponse struct {
	Goal               goalResponse         `json:"goal"`
	Contribution       contributionResponse `json:"contribution"`
	AchievedMilestones []milestoneResponse  `json:"achievedMilestones"`
	Completed          bool                 `json:"completed"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	q := r.URL.Query()

	filter := repository.GoalFilter{
		Status:   model.GoalStatus(q.Get("status")),
		Category: model.GoalCategory(q.Get("category")),
		Priority: model.GoalPriority(q.Get("priority")),
		Sort:     q.Get("sort"),
	}

	goals, err := h.goalService.Goals(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.view(r).goals(goals))
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createGoalRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), user.ID, service.GoalInput{
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
		Category:     req.Category,
		Priority:     req.Priority,
		TargetDate:   req.TargetDate.Time,
		StartDate:    req.StartDate.ptr(),
		Tags:         req.Tags,
		Notes:        req.Notes,
		Milestones:   milestoneInputs(req.Milestones),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, h.view(r).goal(goal))
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.view(r).goal(goal))
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateGoalRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	upd := service.GoalUpdate{
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
		Category:     req.Category,
		Priority:     req.Priority,
		TargetDate:   req.TargetDate.ptr(),
		Tags:         req.Tags,
		Notes:        req.Notes,
		Status:       req.Status,
	}
	if req.Milestones != nil {
		milestones := milestoneInputs(*req.Milestones)
		upd.Milestones = &milestones
	}

	goal, err := h.goalService.Update(r.Context(), user.ID, r.PathValue("id"), upd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.view(r).goal(goal))
}

func (h *GoalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req statusRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	goal, err := h.goalService.Update(r.Context(), user.ID, r.PathValue("id"), service.GoalUpdate{Status: &req.Status})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.view(r).goal(goal))
}

// Delete cancels the goal; its contribution history is kept.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.Cancel(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.view(r).goal(goal))
}

func (h *GoalHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req contributionRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	goal, result, err := h.goalService.Contribute(r.Context(), user.ID, r.PathValue("id"), req.Amount, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view := h.view(r)
	resp := contributionResultResponse{
		Goal:               view.goal(goal),
		Contribution:       view.contributions([]*model.Contribution{result.Contribution})[0],
		AchievedMilestones: make([]milestoneResponse, 0, len(result.Achieved)),
		Completed:          result.Completed,
	}
	for _, m := range result.Achieved {
		for _, mr := range resp.Goal.Milestones {
			if mr.ID == m.ID {
				resp.AchievedMilestones = append(resp.AchievedMilestones, mr)
			}
		}
	}

	render.JSON(w, http.StatusCreated, resp)
}

func (h *GoalHandler) Contributions(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	contributions, err := h.goalService.Contributions(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.view(r).contributions(contributions))
}

func (h *GoalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	stats, err := h.goalService.Stats(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newGoalStatsResponse(stats))
}
