package shopping

import (
	"context"
	"net/http"

	"github.com/frahmantamala/mibu/internal/transport"
)

type ServiceAPI interface {
	ListItems(ctx context.Context, userID int64) ([]Item, error)
	AddItem(ctx context.Context, userID int64, dto CreateItemDTO) (*Item, error)
	UpdateItem(ctx context.Context, userID, id int64, dto UpdateItemDTO) (*Item, error)
	DeleteItem(ctx context.Context, userID, id int64) error
	Toggle(ctx context.Context, userID, id int64) (*Item, error)
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

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	items, err := h.Service.ListItems(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewItemsResponse(items))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto CreateItemDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	item, err := h.Service.AddItem(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	var dto UpdateItemDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	item, err := h.Service.UpdateItem(r.Context(), userID, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteItem(r.Context(), userID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleItem handles POST /shopping-items/{id}/toggle
func (h *Handler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	item, err := h.Service.Toggle(r.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}
