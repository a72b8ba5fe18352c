package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fintrack/fintrack/internal/ctxkeys"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/render"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/service"
	"github.com/fintrack/fintrack/internal/validation"
)

var notFoundErrors = []error{
	repository.ErrGoalNotFound,
	repository.ErrExpenseNotFound,
	repository.ErrIncomeNotFound,
	repository.ErrBudgetNotFound,
	repository.ErrFileNotFound,
	repository.ErrUserNotFound,
}

// writeError maps domain, validation and repository errors onto the JSON
// error body. Anything unrecognised is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if fe, ok := validation.AsFieldError(err); ok {
		render.FieldError(w, fe.Field, fe.Message)
		return
	}

	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			render.Error(w, http.StatusNotFound, "not_found", nf.Error())
			return
		}
	}

	switch {
	case errors.Is(err, model.ErrInvalidAmount):
		render.FieldError(w, "amount", err.Error())
	case errors.Is(err, model.ErrDescriptionTooLong):
		render.FieldError(w, "description", err.Error())
	case errors.Is(err, model.ErrInvalidStatus):
		render.FieldError(w, "status", err.Error())
	case errors.Is(err, service.ErrInvalidCurrentPassword):
		render.FieldError(w, "currentPassword", err.Error())
	case errors.Is(err, model.ErrGoalNotActive):
		render.Error(w, http.StatusConflict, "goal_not_active", err.Error())
	case errors.Is(err, model.ErrMilestonesLocked):
		render.Error(w, http.StatusConflict, "milestones_locked", err.Error())
	case errors.Is(err, model.ErrInvalidTransition):
		render.Error(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case errors.Is(err, repository.ErrVersionConflict):
		render.Error(w, http.StatusConflict, "conflict", "the goal was changed by another request, please retry")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		render.Error(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		render.Error(w, http.StatusUnauthorized, "invalid_credentials", service.ErrInvalidCredentials.Error())
	case service.IsStorageDisabled(err):
		render.Error(w, http.StatusServiceUnavailable, "receipts_disabled", "receipt storage is not configured")
	case errors.Is(err, context.Canceled):
		slog.Debug("request cancelled", "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context()))
	default:
		attrs := []any{"error", err, "method", r.Method, "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context())}
		if user := ctxkeys.User(r.Context()); user != nil {
			attrs = append(attrs, "user_id", user.ID)
		}
		slog.Error("request failed", attrs...)
		render.Error(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func badRequest(w http.ResponseWriter, err error) {
	render.Error(w, http.StatusBadRequest, "bad_request", err.Error())
}
