package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mibu/internal/transport"
)

// LogHandler forwards every record to next and keeps a copy of error level
// records in the ErrorLog.
type LogHandler struct {
	next  slog.Handler
	log   *ErrorLog
	attrs []slog.Attr
	group string
}

func NewLogHandler(next slog.Handler, log *ErrorLog) *LogHandler {
	return &LogHandler{next: next, log: log}
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelError || h.next.Enabled(ctx, level)
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		attrs := make(map[string]string, len(h.attrs)+r.NumAttrs())
		for _, a := range h.attrs {
			attrs[a.Key] = a.Value.String()
		}
		r.Attrs(func(a slog.Attr) bool {
			attrs[h.key(a.Key)] = a.Value.String()
			return true
		})
		h.log.Add(Entry{
			Time:    r.Time,
			Level:   r.Level.String(),
			Message: r.Message,
			Attrs:   attrs,
		})
	}
	if !h.next.Enabled(ctx, r.Level) {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.next = h.next.WithAttrs(attrs)
	cp.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		cp.attrs = append(cp.attrs, slog.Attr{Key: h.key(a.Key), Value: a.Value})
	}
	return &cp
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	cp := *h
	cp.next = h.next.WithGroup(name)
	cp.group = h.key(name)
	return &cp
}

func (h *LogHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return fmt.Sprintf("%s.%s", h.group, k)
}

type Handler struct {
	*transport.BaseHandler
	Log *ErrorLog
}

func NewHandler(baseHandler *transport.BaseHandler, log *ErrorLog) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Log:         log,
	}
}

// ListErrors handles GET /diagnostics/errors. Callers only see errors logged
// while serving their own requests.
func (h *Handler) ListErrors(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	entries := h.Log.EntriesForUser(userID)
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"capacity": h.Log.Capacity(),
		"count":    len(entries),
		"entries":  entries,
	})
}
