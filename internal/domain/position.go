package domain

import "github.com/shopspring/decimal"

// Position is the persisted snapshot of one priced line item of an offer.
// The offer aggregate that owns it lives outside this service.
type Position struct {
	ProductID        string          `json:"productId"`
	ProductName      string          `json:"productName,omitempty"`
	TypeID           string          `json:"typeId,omitempty"`
	OptionID         string          `json:"optionId,omitempty"`
	Unit             string          `json:"unit"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Total            decimal.Decimal `json:"total"`
	Details          State           `json:"productDetails"`
	SelectedProducts SelectedItems   `json:"selectedProducts"`
}
