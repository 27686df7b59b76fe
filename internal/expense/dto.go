package expense

import (
	"encoding/json"
	"strings"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/common/validation"
	"github.com/frahmantamala/mibu/pkg/rupiah"
)

const maxDescriptionLength = 500

// RecordExpenseDTO is the payload for recording an expense dated today.
type RecordExpenseDTO struct {
	Name           string `json:"name"`
	AmountIDR      int64  `json:"amount_idr"`
	Category       string `json:"category,omitempty" validate:"omitempty,max=50"`
	ShoppingItemID *int64 `json:"shopping_item_id,omitempty" validate:"omitempty,gt=0"`
}

// UnmarshalJSON also accepts amount_idr as a formatted string like "Rp 25.000".
func (dto *RecordExpenseDTO) UnmarshalJSON(data []byte) error {
	type plain RecordExpenseDTO
	var raw struct {
		plain
		AmountIDR rupiah.Amount `json:"amount_idr"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*dto = RecordExpenseDTO(raw.plain)
	dto.AmountIDR = int64(raw.AmountIDR)
	return nil
}

func (dto *RecordExpenseDTO) Normalize() {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Category = strings.ToLower(strings.TrimSpace(dto.Category))
}

func (dto RecordExpenseDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(maxDescriptionLength)
	v.Field("amount_idr", dto.AmountIDR).MinInt(1, errors.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return err
	}
	return validation.Struct(dto)
}

// ValidateManual rejects a shopping item link on an expense entered by hand.
// Only the shopping list links expenses to its items.
func (dto RecordExpenseDTO) ValidateManual() *errors.AppError {
	if dto.ShoppingItemID != nil {
		return errors.NewValidationFieldError("shopping_item_id", "shopping_item_id is set by the shopping list only", errors.ErrCodeValidationFailed)
	}
	return nil
}

// RemoveExpenseDTO identifies today's expense to undo. With a shopping item id
// the removal is scoped to that item, otherwise name and amount are matched
// among today's shopping expenses.
type RemoveExpenseDTO struct {
	Name           string `json:"name"`
	AmountIDR      int64  `json:"amount_idr"`
	ShoppingItemID *int64 `json:"shopping_item_id,omitempty"`
}

func (dto *RemoveExpenseDTO) Normalize() {
	dto.Name = strings.TrimSpace(dto.Name)
}

func (dto RemoveExpenseDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(maxDescriptionLength)
	v.Field("amount_idr", dto.AmountIDR).MinInt(1, errors.ErrCodeInvalidAmount)
	return v.Validate()
}

type DailyExpenses struct {
	Date        time.Time  `json:"date"`
	Expenses    []*Expense `json:"expenses"`
	TotalIDR    int64      `json:"total_idr"`
	ShoppingIDR int64      `json:"shopping_idr"`
}
