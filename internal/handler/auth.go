package handler

import (
	"net/http"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/render"
	"github.com/fintrack/fintrack/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.startSession(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.startSession(w, r, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	render.NoContent(w)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, expiresAt, err := h.authService.GenerateJWT(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.authService.SetJWTCookie(w, token, expiresAt)
	render.JSON(w, status, sessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      newUserResponse(user),
	})
}
