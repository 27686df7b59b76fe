// Package schedule keeps dated one-off events. There is no recurrence.
package schedule

import (
	"time"

	scheduleDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/schedule"
)

type Event struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	EventTime   *string   `json:"event_time,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToDataModel(e *Event) *scheduleDatamodel.Event {
	return &scheduleDatamodel.Event{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		EventTime:   e.EventTime,
		CreatedAt:   e.CreatedAt,
	}
}

func FromDataModel(e *scheduleDatamodel.Event) *Event {
	return &Event{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		EventTime:   e.EventTime,
		CreatedAt:   e.CreatedAt,
	}
}

func FromDataModelSlice(rows []*scheduleDatamodel.Event) []*Event {
	result := make([]*Event, len(rows))
	for i, e := range rows {
		result[i] = FromDataModel(e)
	}
	return result
}
