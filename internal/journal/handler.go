package journal

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/mibu/internal/transport"
)

type ServiceAPI interface {
	ListEntries(ctx context.Context, userID int64, limit int) ([]*Entry, error)
	CreateEntry(ctx context.Context, userID int64, dto EntryDTO) (*Entry, error)
	UpdateEntry(ctx context.Context, userID, id int64, dto EntryDTO) (*Entry, error)
	DeleteEntry(ctx context.Context, userID, id int64) error
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

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	// out of range values fall back to the default page size
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.Service.ListEntries(r.Context(), userID, limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto EntryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	entry, err := h.Service.CreateEntry(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	var dto EntryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	entry, err := h.Service.UpdateEntry(r.Context(), userID, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteEntry(r.Context(), userID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
