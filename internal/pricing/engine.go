package pricing

import (
	"fmt"

	"shutter-pricing-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Engine is the calculation entry point. It holds no per-call state.
type Engine struct {
	registry *Registry
}

func NewEngine(r *Registry) *Engine {
	if r == nil {
		r = NewDefaultRegistry()
	}
	return &Engine{registry: r}
}

// Supports reports whether a strategy is registered for productID.
func (e *Engine) Supports(productID string) bool {
	_, ok := e.registry.Lookup(productID)
	return ok
}

// Calculate prices the configuration in.State. Unknown products produce a zero
// total with a descriptive entry in Errors. The same input always yields the
// same result.
func (e *Engine) Calculate(productID string, in domain.CalculationInput) domain.CalculationResult {
	result := domain.CalculationResult{
		TotalPrice:       decimal.Zero,
		SelectedProducts: domain.SelectedItems{Products: []domain.SelectedProduct{}, Accessories: []domain.CatalogItem{}},
		Errors:           []string{},
	}

	strategy, ok := e.registry.Lookup(productID)
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("calculation for product %q is not implemented", productID))
		return result
	}
	if in.State == nil {
		in.State = domain.State{}
	}
	if in.SectionCount <= 0 {
		in.SectionCount = 1
	}

	if products := strategy.Products(in); products != nil {
		result.SelectedProducts.Products = products
	}
	if accessories := strategy.Accessories(in); accessories != nil {
		result.SelectedProducts.Accessories = accessories
	}
	result.TotalPrice = Total(result.SelectedProducts)
	return result
}

// Total sums product line totals and accessory line totals.
func Total(items domain.SelectedItems) decimal.Decimal {
	total := decimal.Zero
	for _, p := range items.Products {
		total = total.Add(p.TotalPrice)
	}
	for _, a := range items.Accessories {
		total = total.Add(a.LineTotal())
	}
	return total
}
