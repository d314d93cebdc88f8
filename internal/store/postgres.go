package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"shutter-pricing-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrCatalogItemNotFound = errors.New("store: catalog item not found")
	ErrStockCodeExists     = errors.New("store: stock code already exists for this product")
	ErrInvalidPrice        = errors.New("store: price is not a valid amount")
)

const catalogColumns = `id, product_id, kind, description, stock_code, manufacturer_code, type, color, unit, price, created_at, updated_at`

// PostgresStore implements CatalogStorer and CatalogSource using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCatalogItem(row rowScanner) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	var kind string
	err := row.Scan(
		&item.ID,
		&item.ProductID,
		&kind,
		&item.Description,
		&item.StockCode,
		&item.ManufacturerCode,
		&item.Type,
		&item.Color,
		&item.Unit,
		&item.Price,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Kind = domain.CatalogKind(kind)
	return &item, nil
}

// normalizedPrice turns "1.234,56" style input into the dot notation NUMERIC accepts.
func normalizedPrice(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInvalidPrice
	}
	p := domain.ParsePrice(raw)
	if p.IsZero() && strings.Trim(raw, "0.,TL ₺") != "" {
		return "", ErrInvalidPrice
	}
	return p.String(), nil
}

func isStockCodeViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // Unique violation
		return strings.Contains(pqErr.Constraint, "catalog_items_stock_code_key") || strings.Contains(pqErr.Detail, "stock_code")
	}
	return false
}

func (s *PostgresStore) CreateCatalogItem(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error) {
	price, err := normalizedPrice(item.Price)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO pricing.catalog_items (product_id, kind, description, stock_code, manufacturer_code, type, color, unit, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + catalogColumns + `;
	`
	row := s.db.QueryRowContext(ctx, query,
		item.ProductID, string(item.Kind), item.Description, item.StockCode, item.ManufacturerCode,
		item.Type, item.Color, item.Unit, price,
	)
	created, err := scanCatalogItem(row)
	if err != nil {
		if isStockCodeViolation(err) {
			return nil, ErrStockCodeExists
		}
		return nil, fmt.Errorf("store: CreateCatalogItem failed to scan row: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) GetCatalogItemByID(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM pricing.catalog_items WHERE id = $1;`
	item, err := scanCatalogItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, fmt.Errorf("store: GetCatalogItemByID failed to scan row: %w", err)
	}
	return item, nil
}

// ListCatalogItems retrieves a filtered, paginated list ordered by id.
func (s *PostgresStore) ListCatalogItems(ctx context.Context, params ListCatalogParams) ([]domain.CatalogItem, int, error) {
	var queryArgs []any
	var whereClauses []string
	argID := 1

	if params.ProductID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("product_id = $%d", argID))
		queryArgs = append(queryArgs, *params.ProductID)
		argID++
	}
	if params.Kind != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("kind = $%d", argID))
		queryArgs = append(queryArgs, string(*params.Kind))
		argID++
	}
	if params.Type != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("type = $%d", argID))
		queryArgs = append(queryArgs, *params.Type)
		argID++
	}
	if params.SearchQuery != nil && *params.SearchQuery != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(description ILIKE $%d OR stock_code ILIKE $%d)", argID, argID+1))
		searchTerm := "%" + *params.SearchQuery + "%"
		queryArgs = append(queryArgs, searchTerm, searchTerm)
		argID += 2
	}

	whereCondition := ""
	if len(whereClauses) > 0 {
		whereCondition = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM pricing.catalog_items" + whereCondition
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery, queryArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListCatalogItems failed to count items: %w", err)
	}
	if totalCount == 0 {
		return []domain.CatalogItem{}, 0, nil
	}

	dataQuery := fmt.Sprintf("SELECT %s FROM pricing.catalog_items%s ORDER BY id ASC LIMIT $%d OFFSET $%d",
		catalogColumns, whereCondition, argID, argID+1)
	rows, err := s.db.QueryContext(ctx, dataQuery, append(queryArgs, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListCatalogItems failed to query items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CatalogItem, 0, params.Limit)
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("store: ListCatalogItems failed to scan row: %w", err)
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListCatalogItems iteration error: %w", err)
	}
	return items, totalCount, nil
}

func (s *PostgresStore) UpdateCatalogItem(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error) {
	price, err := normalizedPrice(item.Price)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE pricing.catalog_items
		SET description = $1, stock_code = $2, manufacturer_code = $3, type = $4, color = $5, unit = $6, price = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
		RETURNING ` + catalogColumns + `;
	`
	row := s.db.QueryRowContext(ctx, query,
		item.Description, item.StockCode, item.ManufacturerCode, item.Type, item.Color, item.Unit, price, item.ID,
	)
	updated, err := scanCatalogItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCatalogItemNotFound
		}
		if isStockCodeViolation(err) {
			return nil, ErrStockCodeExists
		}
		return nil, fmt.Errorf("store: UpdateCatalogItem failed to scan row: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) DeleteCatalogItem(ctx context.Context, id int64) error {
	query := `DELETE FROM pricing.catalog_items WHERE id = $1;`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("store: DeleteCatalogItem failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteCatalogItem failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCatalogItemNotFound
	}
	return nil
}

// --- CatalogSource Implementation ---

func (s *PostgresStore) ProductPrices(ctx context.Context, productID string) ([]domain.CatalogItem, error) {
	return s.itemsOfKind(ctx, productID, domain.KindPrice)
}

func (s *PostgresStore) Accessories(ctx context.Context, productID string) ([]domain.CatalogItem, error) {
	return s.itemsOfKind(ctx, productID, domain.KindAccessory)
}

func (s *PostgresStore) itemsOfKind(ctx context.Context, productID string, kind domain.CatalogKind) ([]domain.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM pricing.catalog_items WHERE product_id = $1 AND kind = $2 ORDER BY id ASC;`
	rows, err := s.db.QueryContext(ctx, query, productID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("store: failed to query %s items of %s: %w", kind, productID, err)
	}
	defer rows.Close()

	items := []domain.CatalogItem{}
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("store: failed to scan %s item: %w", kind, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %s items iteration error: %w", kind, err)
	}
	return items, nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
