package schedule

import (
	"context"
	"net/http"
	"strconv"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/transport"
)

type ServiceAPI interface {
	ListUpcoming(ctx context.Context, userID int64, limit int) ([]*Event, error)
	CreateEvent(ctx context.Context, userID int64, dto CreateEventDTO) (*Event, error)
	DeleteEvent(ctx context.Context, userID, id int64) error
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

// ListEvents handles GET /events?limit=N. Without a limit every upcoming event is returned.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.HandleServiceError(w, errors.NewValidationFieldError("limit", "limit must be a positive number", errors.ErrCodeValidationFailed))
			return
		}
		limit = n
	}

	list, err := h.Service.ListUpcoming(r.Context(), userID, limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": list})
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto CreateEventDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	event, err := h.Service.CreateEvent(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteEvent(r.Context(), userID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
