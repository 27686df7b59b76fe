package shopping

import (
	"time"

	shoppingDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/shopping"
)

// Item is a shopping list entry. Purchased is never stored: it is true when
// an expense linked to the item exists for today.
type Item struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	UnitPriceIDR int64     `json:"unit_price_idr"`
	Quantity     int       `json:"quantity"`
	Purchased    bool      `json:"purchased"`
	CreatedAt    time.Time `json:"created_at"`
}

// TotalIDR is what buying the item costs.
func (i Item) TotalIDR() int64 {
	return i.UnitPriceIDR * int64(i.Quantity)
}

// Phase is where an item is in its purchase toggle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseCommitted
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseCommitted:
		return "committed"
	case PhaseRolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func ToDataModel(i *Item) *shoppingDatamodel.ShoppingItem {
	return &shoppingDatamodel.ShoppingItem{
		ID:           i.ID,
		UserID:       i.UserID,
		Name:         i.Name,
		UnitPriceIDR: i.UnitPriceIDR,
		Quantity:     i.Quantity,
		CreatedAt:    i.CreatedAt,
	}
}

func FromDataModel(i *shoppingDatamodel.ShoppingItem, purchased bool) Item {
	return Item{
		ID:           i.ID,
		UserID:       i.UserID,
		Name:         i.Name,
		UnitPriceIDR: i.UnitPriceIDR,
		Quantity:     i.Quantity,
		Purchased:    purchased,
		CreatedAt:    i.CreatedAt,
	}
}

func (i Item) withPurchased(purchased bool) Item {
	i.Purchased = purchased
	return i
}
