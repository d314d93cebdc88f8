package store

import (
	"context"

	"shutter-pricing-service/internal/domain"
)

// ListCatalogParams holds parameters for listing catalog items (pagination and filters).
type ListCatalogParams struct {
	Limit       int
	Offset      int
	ProductID   *string
	Kind        *domain.CatalogKind
	Type        *string // catalog category, e.g. "kutu_profilleri"
	SearchQuery *string // matched against description and stock code
}

// CatalogStorer defines the maintenance operations on the price catalog.
type CatalogStorer interface {
	CreateCatalogItem(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error)
	GetCatalogItemByID(ctx context.Context, id int64) (*domain.CatalogItem, error)
	ListCatalogItems(ctx context.Context, params ListCatalogParams) ([]domain.CatalogItem, int, error) // Returns items and total count
	UpdateCatalogItem(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error)
	DeleteCatalogItem(ctx context.Context, id int64) error
}

// CatalogSource is the read side used by pricing: every item of one product
// and kind, in catalog order.
type CatalogSource interface {
	ProductPrices(ctx context.Context, productID string) ([]domain.CatalogItem, error)
	Accessories(ctx context.Context, productID string) ([]domain.CatalogItem, error)
}
