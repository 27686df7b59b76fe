package postgres

import (
	"context"

	journalDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/journal"
	"github.com/frahmantamala/mibu/internal/journal"
	"gorm.io/gorm"
)

type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) journal.Repository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) List(ctx context.Context, userID int64, limit int) ([]*journalDatamodel.JournalEntry, error) {
	var rows []*journalDatamodel.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_date DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *JournalRepository) Create(ctx context.Context, e *journalDatamodel.JournalEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *JournalRepository) Update(ctx context.Context, e *journalDatamodel.JournalEntry) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&journalDatamodel.JournalEntry{}).
		Where("id = ? AND user_id = ?", e.ID, e.UserID).
		Updates(map[string]interface{}{
			"title":      e.Title,
			"content":    e.Content,
			"mood":       e.Mood,
			"entry_date": e.EntryDate,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *JournalRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&journalDatamodel.JournalEntry{})
	return result.RowsAffected > 0, result.Error
}
