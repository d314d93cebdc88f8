package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"shutter-pricing-service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDBAndStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")
	return db, mock, NewPostgresStore(db)
}

func PtrTo[T any](v T) *T {
	return &v
}

var catalogRowColumns = []string{"id", "product_id", "kind", "description", "stock_code", "manufacturer_code", "type", "color", "unit", "price", "created_at", "updated_at"}

func TestPostgresStore_CreateCatalogItem(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	item := &domain.CatalogItem{
		ProductID:   "panjur",
		Kind:        domain.KindAccessory,
		Description: "rulman 12x28",
		StockCode:   "R1228",
		Type:        "panjur_aksesuarlari",
		Unit:        "Adet",
		Price:       "1.234,50",
	}

	query := regexp.QuoteMeta(`INSERT INTO pricing.catalog_items (product_id, kind, description, stock_code, manufacturer_code, type, color, unit, price)`)
	rows := sqlmock.NewRows(catalogRowColumns).
		AddRow(int64(7), "panjur", "accessory", item.Description, item.StockCode, "", item.Type, "", item.Unit, "1234.5000", now, now)
	mock.ExpectQuery(query).
		WithArgs("panjur", "accessory", item.Description, item.StockCode, "", item.Type, "", item.Unit, "1234.5").
		WillReturnRows(rows)

	created, err := store.CreateCatalogItem(context.Background(), item)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, domain.KindAccessory, created.Kind)
	assert.Equal(t, "1234.5", created.UnitPrice().String())
	require.NotNil(t, created.CreatedAt)
	assert.WithinDuration(t, now, *created.CreatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateCatalogItem_StockCodeExists(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	pqErr := &pq.Error{Code: "23505", Constraint: "catalog_items_stock_code_key"}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO pricing.catalog_items`)).WillReturnError(pqErr)

	created, err := store.CreateCatalogItem(context.Background(), &domain.CatalogItem{ProductID: "panjur", Kind: domain.KindPrice, Description: "x", StockCode: "S1", Price: "10"})

	assert.True(t, errors.Is(err, ErrStockCodeExists), "Error should be ErrStockCodeExists")
	assert.Nil(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateCatalogItem_InvalidPrice(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	for _, price := range []string{"", "abc", "-5"} {
		_, err := store.CreateCatalogItem(context.Background(), &domain.CatalogItem{Description: "x", Price: price})
		assert.ErrorIs(t, err, ErrInvalidPrice, price)
	}
	require.NoError(t, mock.ExpectationsWereMet(), "no query is sent for an invalid price")
}

func TestPostgresStore_GetCatalogItemByID(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`FROM pricing.catalog_items WHERE id = $1;`)
	rows := sqlmock.NewRows(catalogRowColumns).
		AddRow(int64(3), "sineklik", "price", "Plise Kasa Profili", "", "", "sineklik_profilleri", "beyaz", "Metre", "112.0000", nil, nil)
	mock.ExpectQuery(query).WithArgs(int64(3)).WillReturnRows(rows)

	item, err := store.GetCatalogItemByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "Plise Kasa Profili", item.Description)
	assert.Equal(t, domain.KindPrice, item.Kind)
	assert.Nil(t, item.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCatalogItemByID_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1;`)).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	item, err := store.GetCatalogItemByID(context.Background(), 99)

	assert.True(t, errors.Is(err, ErrCatalogItemNotFound))
	assert.Nil(t, item)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCatalogItems_Filters(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	params := ListCatalogParams{
		Limit:       10,
		Offset:      0,
		ProductID:   PtrTo("panjur"),
		Kind:        PtrTo(domain.KindPrice),
		SearchQuery: PtrTo("lamel"),
	}

	countQuery := regexp.QuoteMeta(`SELECT COUNT(*) FROM pricing.catalog_items WHERE product_id = $1 AND kind = $2 AND (description ILIKE $3 OR stock_code ILIKE $4)`)
	mock.ExpectQuery(countQuery).
		WithArgs("panjur", "price", "%lamel%", "%lamel%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	listQuery := regexp.QuoteMeta(`ORDER BY id ASC LIMIT $5 OFFSET $6`)
	rows := sqlmock.NewRows(catalogRowColumns).
		AddRow(int64(1), "panjur", "price", "39 mm Alüminyum Poliüretanlı Lamel Beyaz", "", "", "panjur_lamel_profilleri", "Beyaz", "Metre", "118.4000", nil, nil)
	mock.ExpectQuery(listQuery).
		WithArgs("panjur", "price", "%lamel%", "%lamel%", 10, 0).
		WillReturnRows(rows)

	items, total, err := store.ListCatalogItems(context.Background(), params)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "panjur_lamel_profilleri", items[0].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCatalogItems_Empty(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM pricing.catalog_items`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	items, total, err := store.ListCatalogItems(context.Background(), ListCatalogParams{Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateCatalogItem_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE pricing.catalog_items`)).WillReturnError(sql.ErrNoRows)

	updated, err := store.UpdateCatalogItem(context.Background(), &domain.CatalogItem{ID: 5, Description: "x", Price: "1"})

	assert.True(t, errors.Is(err, ErrCatalogItemNotFound))
	assert.Nil(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteCatalogItem(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`DELETE FROM pricing.catalog_items WHERE id = $1;`)
	mock.ExpectExec(query).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.DeleteCatalogItem(context.Background(), 1))
	assert.True(t, errors.Is(store.DeleteCatalogItem(context.Background(), 2), ErrCatalogItemNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ProductPricesAndAccessories(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`WHERE product_id = $1 AND kind = $2 ORDER BY id ASC;`)
	mock.ExpectQuery(query).WithArgs("panjur", "price").
		WillReturnRows(sqlmock.NewRows(catalogRowColumns).
			AddRow(int64(1), "panjur", "price", "Mini Dikme 53 mm Beyaz", "", "", "panjur_dikme_profilleri", "Beyaz", "Metre", "104.2", nil, nil).
			AddRow(int64(2), "panjur", "price", "Midi Dikme 60 mm Beyaz", "", "", "panjur_dikme_profilleri", "Beyaz", "Metre", "131.6", nil, nil))
	mock.ExpectQuery(query).WithArgs("panjur", "accessory").
		WillReturnRows(sqlmock.NewRows(catalogRowColumns))

	prices, err := store.ProductPrices(context.Background(), "panjur")
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "Mini Dikme 53 mm Beyaz", prices[0].Description)

	accessories, err := store.Accessories(context.Background(), "panjur")
	require.NoError(t, err)
	assert.NotNil(t, accessories)
	assert.Empty(t, accessories)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ProductPrices_QueryError(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM pricing.catalog_items WHERE product_id`)).WillReturnError(errors.New("connection reset"))

	_, err := store.ProductPrices(context.Background(), "panjur")
	assert.ErrorContains(t, err, "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}
