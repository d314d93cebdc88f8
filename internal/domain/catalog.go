package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// CatalogKind separates the two catalogs a product is priced from.
type CatalogKind string

const (
	KindPrice     CatalogKind = "price"     // main profiles, boxes, automation
	KindAccessory CatalogKind = "accessory" // hardware, gaskets, screen parts
)

// CatalogItem is one priced entry of a product catalog.
// The json tags follow the price list export format so files can be loaded as-is.
type CatalogItem struct {
	ID               int64            `json:"id,omitempty"`
	ProductID        string           `json:"product_id,omitempty"`
	Kind             CatalogKind      `json:"kind,omitempty"`
	Description      string           `json:"description"` // lookup key text
	StockCode        string           `json:"stock_code"`
	ManufacturerCode string           `json:"uretici_kodu,omitempty"`
	Type             string           `json:"type"` // category, e.g. "kutu_profilleri"
	Color            string           `json:"color"`
	Unit             string           `json:"unit"`
	Price            string           `json:"price"` // decimal string, dot or Turkish notation
	PricePerPiece    *decimal.Decimal `json:"pricePerPiece,omitempty"`
	Measurement      *float64         `json:"measurement,omitempty"`
	Quantity         float64          `json:"quantity,omitempty"`
	CreatedAt        *time.Time       `json:"created_at,omitempty"`
	UpdatedAt        *time.Time       `json:"updated_at,omitempty"`
}

// UnitPrice parses Price. Malformed or negative prices read as zero.
func (c CatalogItem) UnitPrice() decimal.Decimal {
	return ParsePrice(c.Price)
}

// EffectivePrice is PricePerPiece when a selector computed one, else the unit price.
func (c CatalogItem) EffectivePrice() decimal.Decimal {
	if c.PricePerPiece != nil {
		return *c.PricePerPiece
	}
	return c.UnitPrice()
}

// LineTotal is EffectivePrice times Quantity; an unset quantity counts as one.
func (c CatalogItem) LineTotal() decimal.Decimal {
	q := c.Quantity
	if q == 0 {
		q = 1
	}
	return c.EffectivePrice().Mul(decimal.NewFromFloat(q))
}

// WithQuantity returns a copy carrying the given quantity.
func (c CatalogItem) WithQuantity(q float64) CatalogItem {
	c.Quantity = q
	return c
}

// WithMeasurement returns a copy carrying a measurement and the price derived from it.
func (c CatalogItem) WithMeasurement(measurement float64, pricePerPiece decimal.Decimal) CatalogItem {
	c.Measurement = &measurement
	c.PricePerPiece = &pricePerPiece
	return c
}

// SelectedProduct is a main bill-of-materials line.
type SelectedProduct struct {
	CatalogItem
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Size       string          `json:"size"`             // measured dimension label, "-" when not sized
	Pieces     int             `json:"pieces,omitempty"` // physical piece count when Quantity is a length
}

// NewSelectedProduct prices item at quantity so that TotalPrice == EffectivePrice × quantity.
func NewSelectedProduct(item CatalogItem, quantity float64, size string) SelectedProduct {
	item.Quantity = quantity
	if size == "" {
		size = "-"
	}
	return SelectedProduct{
		CatalogItem: item,
		TotalPrice:  item.EffectivePrice().Mul(decimal.NewFromFloat(quantity)),
		Size:        size,
	}
}

// SelectedItems groups the priced lines of one calculation.
type SelectedItems struct {
	Products    []SelectedProduct `json:"products"`
	Accessories []CatalogItem     `json:"accessories"`
}

// CalculationResult is the ephemeral output of one pricing pass.
type CalculationResult struct {
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	SelectedProducts SelectedItems   `json:"selectedProducts"`
	Errors           []string        `json:"errors"`
}

// CalculationInput carries everything a pricing pass reads.
type CalculationInput struct {
	State        State
	Prices       []CatalogItem
	Accessories  []CatalogItem
	SectionCount int
	Fields       []FieldDefinition
}

// ParsePrice reads "1234.56", "1.234,56", "12,5 TL" and similar forms.
func ParsePrice(raw string) decimal.Decimal {
	clean := strings.Map(func(r rune) rune {
		if r == 'T' || r == 'L' || r == '₺' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if clean == "" {
		return decimal.Zero
	}
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
