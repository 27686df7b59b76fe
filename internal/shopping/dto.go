package shopping

import (
	"strings"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/common/validation"
)

const (
	maxNameLength = 200
	// bounds keep unit price times quantity well inside int64
	maxUnitPriceIDR = 1_000_000_000
	maxQuantity     = 10_000
)

type CreateItemDTO struct {
	Name         string `json:"name"`
	UnitPriceIDR int64  `json:"unit_price_idr"`
	Quantity     int    `json:"quantity"`
}

// Normalize trims the name and treats a missing quantity as one.
func (dto *CreateItemDTO) Normalize() {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Quantity == 0 {
		dto.Quantity = 1
	}
}

func (dto CreateItemDTO) Validate() *errors.AppError {
	return validateItem(dto.Name, dto.UnitPriceIDR, dto.Quantity)
}

// UpdateItemDTO carries only the fields to change.
type UpdateItemDTO struct {
	Name         *string `json:"name,omitempty"`
	UnitPriceIDR *int64  `json:"unit_price_idr,omitempty"`
	Quantity     *int    `json:"quantity,omitempty"`
}

func (dto UpdateItemDTO) Apply(item *Item) {
	if dto.Name != nil {
		item.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.UnitPriceIDR != nil {
		item.UnitPriceIDR = *dto.UnitPriceIDR
	}
	if dto.Quantity != nil {
		item.Quantity = *dto.Quantity
	}
}

func validateItem(name string, unitPrice int64, quantity int) *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", name).Required().MaxLength(maxNameLength)
	v.Field("unit_price_idr", unitPrice).
		MinInt(1, errors.ErrCodeInvalidAmount).
		MaxInt(maxUnitPriceIDR, errors.ErrCodeInvalidAmount)
	v.Field("quantity", int64(quantity)).
		MinInt(1, errors.ErrCodeInvalidQuantity).
		MaxInt(maxQuantity, errors.ErrCodeInvalidQuantity)
	return v.Validate()
}

// ItemsResponse also carries the purchased total, which matches the part of
// today's spending that came from the list.
type ItemsResponse struct {
	Items        []Item `json:"items"`
	TotalIDR     int64  `json:"total_idr"`
	PurchasedIDR int64  `json:"purchased_idr"`
}

func NewItemsResponse(items []Item) ItemsResponse {
	resp := ItemsResponse{Items: items}
	for i := range items {
		total := items[i].TotalIDR()
		resp.TotalIDR += total
		if items[i].Purchased {
			resp.PurchasedIDR += total
		}
	}
	return resp
}
