package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"shutter-pricing-service/internal/domain"
)

var ErrCatalogFileInvalid = errors.New("store: catalog file is malformed")

// pricesFile and accessoriesFile mirror the price list exports.
type pricesFile struct {
	ProductPrices map[string][]domain.CatalogItem `json:"product_prices"`
}

type accessoriesFile struct {
	Accessories map[string][]domain.CatalogItem `json:"accessories"`
}

// FileCatalog serves catalog items from two JSON exports loaded once at
// startup. It is read-only and safe for concurrent use.
type FileCatalog struct {
	prices      map[string][]domain.CatalogItem
	accessories map[string][]domain.CatalogItem
}

// NewFileCatalog reads the price and accessory exports.
func NewFileCatalog(pricesPath, accessoriesPath string) (*FileCatalog, error) {
	var pf pricesFile
	if err := readJSON(pricesPath, &pf); err != nil {
		return nil, err
	}
	var af accessoriesFile
	if err := readJSON(accessoriesPath, &af); err != nil {
		return nil, err
	}
	return &FileCatalog{
		prices:      stamp(pf.ProductPrices, domain.KindPrice),
		accessories: stamp(af.Accessories, domain.KindAccessory),
	}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("store: failed to read catalog file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCatalogFileInvalid, path, err)
	}
	return nil
}

// stamp records the owning product and kind on every item.
func stamp(byProduct map[string][]domain.CatalogItem, kind domain.CatalogKind) map[string][]domain.CatalogItem {
	out := make(map[string][]domain.CatalogItem, len(byProduct))
	for productID, items := range byProduct {
		stamped := make([]domain.CatalogItem, len(items))
		for i, item := range items {
			item.ProductID = productID
			item.Kind = kind
			stamped[i] = item
		}
		out[productID] = stamped
	}
	return out
}

// ProductPrices returns a copy of the product's price list; unknown products have none.
func (f *FileCatalog) ProductPrices(_ context.Context, productID string) ([]domain.CatalogItem, error) {
	return clone(f.prices[productID]), nil
}

func (f *FileCatalog) Accessories(_ context.Context, productID string) ([]domain.CatalogItem, error) {
	return clone(f.accessories[productID]), nil
}

func clone(items []domain.CatalogItem) []domain.CatalogItem {
	out := make([]domain.CatalogItem, len(items))
	copy(out, items)
	return out
}
