// Package pricing turns a settled configuration into a priced bill of
// materials by dispatching to the strategy registered for the product.
package pricing

import (
	"sort"
	"sync"

	"shutter-pricing-service/internal/domain"
	"shutter-pricing-service/internal/pricing/panjur"
	"shutter-pricing-service/internal/pricing/sineklik"
)

// Strategy prices one product family.
type Strategy interface {
	Products(in domain.CalculationInput) []domain.SelectedProduct
	Accessories(in domain.CalculationInput) []domain.CatalogItem
}

// Registry maps product ids to strategies. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// NewDefaultRegistry registers roller shutters and insect screens.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(panjur.ProductID, panjur.Calculator{})
	r.Register(sineklik.ProductID, sineklik.Calculator{})
	return r
}

// Register adds or replaces the strategy for productID.
func (r *Registry) Register(productID string, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[productID] = s
}

func (r *Registry) Lookup(productID string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[productID]
	return s, ok
}

// ProductIDs lists the registered products, sorted.
func (r *Registry) ProductIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.strategies))
	for id := range r.strategies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
