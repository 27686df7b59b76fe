package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/expense"
)

// CategoryShopping is the category of purchase-driven expenses; only these
// count toward today's spending.
const CategoryShopping = "belanja"

type Expense struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	AmountIDR      int64     `json:"amount_idr"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	ExpenseDate    time.Time `json:"expense_date"`
	ShoppingItemID *int64    `json:"shopping_item_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (e *Expense) IsShopping() bool {
	return e.Category == CategoryShopping
}

func NewExpense(userID int64, date time.Time, dto RecordExpenseDTO) *Expense {
	category := dto.Category
	if category == "" {
		category = CategoryShopping
	}
	return &Expense{
		UserID:         userID,
		AmountIDR:      dto.AmountIDR,
		Description:    dto.Name,
		Category:       category,
		ExpenseDate:    date,
		ShoppingItemID: dto.ShoppingItemID,
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:             e.ID,
		UserID:         e.UserID,
		AmountIDR:      e.AmountIDR,
		Description:    e.Description,
		Category:       e.Category,
		ExpenseDate:    e.ExpenseDate,
		ShoppingItemID: e.ShoppingItemID,
		CreatedAt:      e.CreatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:             e.ID,
		UserID:         e.UserID,
		AmountIDR:      e.AmountIDR,
		Description:    e.Description,
		Category:       e.Category,
		ExpenseDate:    e.ExpenseDate,
		ShoppingItemID: e.ShoppingItemID,
		CreatedAt:      e.CreatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
