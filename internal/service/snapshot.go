// Package service hosts configuration sessions: it loads the catalog snapshot
// of the selected product, serialises edits per session and prices every
// settled state.
package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"shutter-pricing-service/internal/domain"
	"shutter-pricing-service/internal/store"
)

// SchemaSource provides the field schema of a product.
type SchemaSource interface {
	ProductSchema(ctx context.Context, productID string) (domain.ProductSchema, error)
}

// Snapshot is the immutable data one session prices against.
type Snapshot struct {
	Schema      domain.ProductSchema
	Prices      []domain.CatalogItem
	Accessories []domain.CatalogItem
}

// loadSnapshot fetches schema, prices and accessories concurrently. The first
// failure cancels the other fetches.
func loadSnapshot(ctx context.Context, schemas SchemaSource, catalog store.CatalogSource, productID string) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := schemas.ProductSchema(gctx, productID)
		if err != nil {
			return fmt.Errorf("load schema: %w", err)
		}
		snap.Schema = s
		return nil
	})
	g.Go(func() error {
		items, err := catalog.ProductPrices(gctx, productID)
		if err != nil {
			return fmt.Errorf("load product prices: %w", err)
		}
		snap.Prices = items
		return nil
	})
	g.Go(func() error {
		items, err := catalog.Accessories(gctx, productID)
		if err != nil {
			return fmt.Errorf("load accessories: %w", err)
		}
		snap.Accessories = items
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
