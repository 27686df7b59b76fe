package postgres

import (
	"context"
	"errors"

	shoppingDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/shopping"
	"github.com/frahmantamala/mibu/internal/shopping"
	"gorm.io/gorm"
)

type ShoppingRepository struct {
	db *gorm.DB
}

func NewShoppingRepository(db *gorm.DB) shopping.Repository {
	return &ShoppingRepository{db: db}
}

func (r *ShoppingRepository) List(ctx context.Context, userID int64) ([]*shoppingDatamodel.ShoppingItem, error) {
	var items []*shoppingDatamodel.ShoppingItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *ShoppingRepository) GetByID(ctx context.Context, userID, id int64) (*shoppingDatamodel.ShoppingItem, error) {
	var item shoppingDatamodel.ShoppingItem
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *ShoppingRepository) Create(ctx context.Context, item *shoppingDatamodel.ShoppingItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ShoppingRepository) Update(ctx context.Context, item *shoppingDatamodel.ShoppingItem) error {
	return r.db.WithContext(ctx).
		Model(&shoppingDatamodel.ShoppingItem{}).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Updates(map[string]interface{}{
			"name":           item.Name,
			"unit_price_idr": item.UnitPriceIDR,
			"quantity":       item.Quantity,
		}).Error
}

func (r *ShoppingRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&shoppingDatamodel.ShoppingItem{})
	return result.RowsAffected > 0, result.Error
}
