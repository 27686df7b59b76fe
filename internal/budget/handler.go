package budget

import (
	"context"
	"net/http"

	"github.com/frahmantamala/mibu/internal/transport"
)

type ServiceAPI interface {
	GetSettings(ctx context.Context, userID int64) (*Settings, error)
	SaveSettings(ctx context.Context, userID int64, dto SaveSettingsDTO) (*Settings, error)
	SaveSalary(ctx context.Context, userID int64, dto SaveAmountDTO) (*Settings, error)
	SaveFixedExpenses(ctx context.Context, userID int64, dto SaveAmountDTO) (*Settings, error)
	Summary(ctx context.Context, userID int64) (*Summary, error)
	ListFixedExpenses(ctx context.Context, userID int64) (*FixedExpenseList, error)
	AddFixedExpense(ctx context.Context, userID int64, dto AddFixedExpenseDTO) (*FixedExpense, error)
	DeleteFixedExpense(ctx context.Context, userID, id int64) error
	SaveFixedTotal(ctx context.Context, userID int64) (*Settings, error)
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

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	settings, err := h.Service.GetSettings(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto SaveSettingsDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	settings, err := h.Service.SaveSettings(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) SaveSalary(w http.ResponseWriter, r *http.Request) {
	h.saveAmount(w, r, h.Service.SaveSalary)
}

func (h *Handler) SaveFixedExpenses(w http.ResponseWriter, r *http.Request) {
	h.saveAmount(w, r, h.Service.SaveFixedExpenses)
}

func (h *Handler) saveAmount(w http.ResponseWriter, r *http.Request, save func(context.Context, int64, SaveAmountDTO) (*Settings, error)) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto SaveAmountDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	settings, err := save(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.Summary(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) ListFixedExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	list, err := h.Service.ListFixedExpenses(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) AddFixedExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto AddFixedExpenseDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	item, err := h.Service.AddFixedExpense(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) DeleteFixedExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteFixedExpense(r.Context(), userID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SaveFixedTotal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	settings, err := h.Service.SaveFixedTotal(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, settings)
}
