package postgres

import (
	"context"
	"time"

	expenseDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/expense"
	"github.com/frahmantamala/mibu/internal/expense"
	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExpenseRepository) ListByDate(ctx context.Context, userID int64, date time.Time) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expense_date = ?", userID, date).
		Order("id DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) DeleteByID(ctx context.Context, userID, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&expenseDatamodel.Expense{})
	return result.RowsAffected > 0, result.Error
}

func (r *ExpenseRepository) DeleteByShoppingItem(ctx context.Context, userID, itemID int64, date time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND shopping_item_id = ? AND expense_date = ?", userID, itemID, date).
		Delete(&expenseDatamodel.Expense{})
	return result.RowsAffected, result.Error
}

func (r *ExpenseRepository) DeleteNewestMatch(ctx context.Context, userID int64, category, description string, amountIDR int64, date time.Time) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		err := tx.Model(&expenseDatamodel.Expense{}).
			Where("user_id = ? AND category = ? AND description = ? AND amount_idr = ? AND expense_date = ?", userID, category, description, amountIDR, date).
			Order("id DESC").
			Limit(1).
			Pluck("id", &ids).Error
		if err != nil || len(ids) == 0 {
			return err
		}

		result := tx.Where("id = ?", ids[0]).Delete(&expenseDatamodel.Expense{})
		removed = result.RowsAffected
		return result.Error
	})
	return removed, err
}

func (r *ExpenseRepository) SumByCategory(ctx context.Context, userID int64, category string, date time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Where("user_id = ? AND category = ? AND expense_date = ?", userID, category, date).
		Select("COALESCE(SUM(amount_idr), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ExpenseRepository) ShoppingItemIDs(ctx context.Context, userID int64, date time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Where("user_id = ? AND expense_date = ? AND shopping_item_id IS NOT NULL", userID, date).
		Distinct().
		Pluck("shopping_item_id", &ids).Error
	return ids, err
}
