package handler

import (
	"net/http"

	"github.com/fintrack/fintrack/internal/ctxkeys"
	"github.com/fintrack/fintrack/internal/render"
	"github.com/fintrack/fintrack/internal/service"
)

type AccountHandler struct {
	userService *service.UserService
}

func NewAccountHandler(userService *service.UserService) *AccountHandler {
	return &AccountHandler{
		userService: userService,
	}
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	render.JSON(w, http.StatusOK, newUserResponse(user))
}

type profileRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req profileRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, req.Name, req.Currency)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, newUserResponse(updated))
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req passwordRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	err = h.userService.UpdatePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.NoContent(w)
}
