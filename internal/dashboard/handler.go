package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/mibu/internal/realtime"
	"github.com/frahmantamala/mibu/internal/transport"
	"github.com/frahmantamala/mibu/pkg/logger"
)

const keepAliveInterval = 25 * time.Second

type ServiceAPI interface {
	Snapshot(ctx context.Context, userID int64) (*Snapshot, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Feed    realtime.Subscriber
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, feed realtime.Subscriber) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Feed:        feed,
	}
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	snap, err := h.Service.Snapshot(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, snap)
}

type streamPayload struct {
	Data      *Snapshot `json:"data"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stream handles GET /dashboard/stream as server-sent events. A snapshot is
// sent after the initial load and after every change that affects it. The
// subscription ends with the request.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// carries request_id and user_id from the middleware chain
	log := logger.From(r.Context())
	hook := realtime.NewHook[*Snapshot](r.Context(), h.Feed, userID, h.Service.Snapshot, Tables, realtime.WithLogger(log))
	defer hook.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case snap, ok := <-hook.Changes():
			if !ok {
				return
			}
			payload := streamPayload{Data: snap.Data, UpdatedAt: snap.UpdatedAt}
			if snap.Err != nil {
				payload.Error = snap.Err.Error()
			}
			body, err := json.Marshal(payload)
			if err != nil {
				log.Error("failed to encode dashboard snapshot", "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", body); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
