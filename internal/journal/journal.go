package journal

import (
	"time"

	journalDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/journal"
)

type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood,omitempty"`
	EntryDate time.Time `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToDataModel(e *Entry) *journalDatamodel.JournalEntry {
	return &journalDatamodel.JournalEntry{
		ID:        e.ID,
		UserID:    e.UserID,
		Title:     e.Title,
		Content:   e.Content,
		Mood:      e.Mood,
		EntryDate: e.EntryDate,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModel(e *journalDatamodel.JournalEntry) *Entry {
	return &Entry{
		ID:        e.ID,
		UserID:    e.UserID,
		Title:     e.Title,
		Content:   e.Content,
		Mood:      e.Mood,
		EntryDate: e.EntryDate,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*journalDatamodel.JournalEntry) []*Entry {
	result := make([]*Entry, len(rows))
	for i, e := range rows {
		result[i] = FromDataModel(e)
	}
	return result
}
