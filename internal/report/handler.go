package report

import (
	"context"
	"net/http"
	"strconv"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	"github.com/frahmantamala/mibu/internal/transport"
)

type ServiceAPI interface {
	Monthly(ctx context.Context, userID int64, year int, month time.Month) (*MonthlyReport, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	clock   *clock.Clock
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, clk *clock.Clock) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		clock:       clk,
	}
}

// Monthly handles GET /reports/monthly?year=&month=, defaulting to the current month.
func (h *Handler) Monthly(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	now := h.clock.Now()
	year, month := now.Year(), int(now.Month())
	q := r.URL.Query()
	if raw := q.Get("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.HandleServiceError(w, errors.NewValidationFieldError("year", "year must be a number", errors.ErrCodeInvalidDate))
			return
		}
		year = n
	}
	if raw := q.Get("month"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.HandleServiceError(w, errors.NewValidationFieldError("month", "month must be a number", errors.ErrCodeInvalidDate))
			return
		}
		month = n
	}

	report, err := h.Service.Monthly(r.Context(), userID, year, time.Month(month))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}
