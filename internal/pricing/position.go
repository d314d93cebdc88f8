package pricing

import (
	"github.com/shopspring/decimal"

	"shutter-pricing-service/internal/domain"
)

// NewPosition snapshots a calculation as an offer line item. The unit price is
// rounded to cents; Total is that unit price times quantity.
func NewPosition(productID, typeID, optionID string, quantity int, state domain.State, result domain.CalculationResult) domain.Position {
	if quantity < 1 {
		quantity = 1
	}
	unit := result.TotalPrice.Round(2)
	return domain.Position{
		ProductID:        productID,
		TypeID:           typeID,
		OptionID:         optionID,
		Unit:             "adet",
		Quantity:         quantity,
		UnitPrice:        unit,
		Total:            unit.Mul(decimal.NewFromInt(int64(quantity))),
		Details:          state.Clone(),
		SelectedProducts: result.SelectedProducts,
	}
}
