// Package catalog indexes an immutable snapshot of priced items and answers
// the description, category and stock-code lookups the selectors need.
package catalog

import (
	"strings"

	"shutter-pricing-service/internal/domain"
)

// DefaultColor is substituted when a colour-specific entry is missing.
const DefaultColor = "Beyaz"

// Catalog is read-only after New; it is safe for concurrent use.
type Catalog struct {
	items   []domain.CatalogItem
	byType  map[string][]int
	byStock map[string]int
}

// New indexes items, keeping their order for first-match semantics.
func New(items []domain.CatalogItem) *Catalog {
	c := &Catalog{
		items:   make([]domain.CatalogItem, len(items)),
		byType:  make(map[string][]int),
		byStock: make(map[string]int),
	}
	copy(c.items, items)
	for i, item := range c.items {
		t := strings.ToLower(item.Type)
		c.byType[t] = append(c.byType[t], i)
		if item.StockCode != "" {
			if _, dup := c.byStock[item.StockCode]; !dup {
				c.byStock[item.StockCode] = i
			}
		}
	}
	return c
}

// Len is the number of indexed items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Exact finds the first item of the category whose description equals description.
func (c *Catalog) Exact(category, description string) (domain.CatalogItem, bool) {
	for _, i := range c.byType[strings.ToLower(category)] {
		if c.items[i].Description == description {
			return c.items[i], true
		}
	}
	return domain.CatalogItem{}, false
}

// ExactAny finds the first item in any category whose description equals description.
func (c *Catalog) ExactAny(description string) (domain.CatalogItem, bool) {
	for _, item := range c.items {
		if item.Description == description {
			return item, true
		}
	}
	return domain.CatalogItem{}, false
}

// Containing finds the first item in any category whose lower-cased description
// contains the lower-cased fragment.
func (c *Catalog) Containing(fragment string) (domain.CatalogItem, bool) {
	needle := strings.ToLower(fragment)
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.Description), needle) {
			return item, true
		}
	}
	return domain.CatalogItem{}, false
}

// ContainingIn is Containing restricted to one category. Matching is case-sensitive
// unless fold is set.
func (c *Catalog) ContainingIn(category, fragment string, fold bool) (domain.CatalogItem, bool) {
	needle := fragment
	if fold {
		needle = strings.ToLower(fragment)
	}
	for _, i := range c.byType[strings.ToLower(category)] {
		desc := c.items[i].Description
		if fold {
			desc = strings.ToLower(desc)
		}
		if strings.Contains(desc, needle) {
			return c.items[i], true
		}
	}
	return domain.CatalogItem{}, false
}

// ByStockCode finds the first item carrying code.
func (c *Catalog) ByStockCode(code string) (domain.CatalogItem, bool) {
	i, ok := c.byStock[code]
	if !ok {
		return domain.CatalogItem{}, false
	}
	return c.items[i], true
}

// ProfileWithColor finds the first item whose description contains fragment
// and whose raw colour equals color.
func (c *Catalog) ProfileWithColor(fragment, color string) (domain.CatalogItem, bool) {
	for _, item := range c.items {
		if item.Color == color && strings.Contains(item.Description, fragment) {
			return item, true
		}
	}
	return domain.CatalogItem{}, false
}

// Find returns the first item matching pred.
func (c *Catalog) Find(pred func(domain.CatalogItem) bool) (domain.CatalogItem, bool) {
	for _, item := range c.items {
		if pred(item) {
			return item, true
		}
	}
	return domain.CatalogItem{}, false
}

// exactWithFallback tries color first, then DefaultColor.
func (c *Catalog) exactWithFallback(category string, color string, template func(color string) string) (domain.CatalogItem, bool) {
	normalized := NormalizeColor(color)
	if item, ok := c.Exact(category, template(normalized)); ok {
		return item, true
	}
	if normalized == DefaultColor {
		return domain.CatalogItem{}, false
	}
	return c.Exact(category, template(DefaultColor))
}
