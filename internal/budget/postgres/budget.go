package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/mibu/internal/budget"
	budgetDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/budget"
	"gorm.io/gorm"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) budget.Repository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) GetSettings(ctx context.Context, userID int64) (*budgetDatamodel.BudgetSettings, error) {
	var row budgetDatamodel.BudgetSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// UpsertSettings creates the user's row on first save and applies values to it.
func (r *BudgetRepository) UpsertSettings(ctx context.Context, userID int64, values map[string]interface{}) (*budgetDatamodel.BudgetSettings, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row budgetDatamodel.BudgetSettings
		err := tx.Where("user_id = ?", userID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = budgetDatamodel.BudgetSettings{UserID: userID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		return tx.Model(&row).Updates(values).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetSettings(ctx, userID)
}

func (r *BudgetRepository) ListFixedExpenses(ctx context.Context, userID int64) ([]*budgetDatamodel.FixedExpense, error) {
	var items []*budgetDatamodel.FixedExpense
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *BudgetRepository) CreateFixedExpense(ctx context.Context, item *budgetDatamodel.FixedExpense) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *BudgetRepository) DeleteFixedExpense(ctx context.Context, userID, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&budgetDatamodel.FixedExpense{})
	return result.RowsAffected > 0, result.Error
}

func (r *BudgetRepository) SumFixedExpenses(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&budgetDatamodel.FixedExpense{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount_idr), 0)").
		Scan(&total).Error
	return total, err
}
