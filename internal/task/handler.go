package task

import (
	"context"
	"net/http"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	"github.com/frahmantamala/mibu/internal/transport"
)

type ServiceAPI interface {
	ListByDate(ctx context.Context, userID int64, date time.Time) (*DailyTasks, error)
	ListToday(ctx context.Context, userID int64) (*DailyTasks, error)
	CreateTask(ctx context.Context, userID int64, dto CreateTaskDTO) (*Task, error)
	ToggleTask(ctx context.Context, userID, id int64) (*Task, error)
	DeleteTask(ctx context.Context, userID, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListTasks handles GET /tasks?date=YYYY-MM-DD, defaulting to today.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var (
		daily *DailyTasks
		err   error
	)
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, perr := clock.ParseDate(raw)
		if perr != nil {
			h.HandleServiceError(w, errors.NewValidationFieldError("date", "date must be YYYY-MM-DD", errors.ErrCodeInvalidDate))
			return
		}
		daily, err = h.Service.ListByDate(r.Context(), userID, date)
	} else {
		daily, err = h.Service.ListToday(r.Context(), userID)
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, daily)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto CreateTaskDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	task, err := h.Service.CreateTask(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, task)
}

func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	task, err := h.Service.ToggleTask(r.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteTask(r.Context(), userID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
