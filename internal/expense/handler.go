package expense

import (
	"context"
	"net/http"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	"github.com/frahmantamala/mibu/internal/transport"
)

type ServiceAPI interface {
	RecordExpense(ctx context.Context, userID int64, dto RecordExpenseDTO) (*Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
	ListByDate(ctx context.Context, userID int64, date time.Time) (*DailyExpenses, error)
	ListToday(ctx context.Context, userID int64) (*DailyExpenses, error)
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

// ListExpenses handles GET /expenses?date=YYYY-MM-DD, defaulting to today.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var (
		daily *DailyExpenses
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

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto RecordExpenseDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if appErr := dto.ValidateManual(); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	expense, err := h.Service.RecordExpense(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), userID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
