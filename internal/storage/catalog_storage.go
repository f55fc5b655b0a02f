package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrItemNotFound = errors.New("catalog item not found")

// CatalogStorage определяет интерфейс для работы с каталогом.
type CatalogStorage interface {
	Create(ctx context.Context, item *models.CatalogItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
	ListByKind(ctx context.Context, kind models.ItemKind, activeOnly bool) ([]*models.CatalogItem, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// PostgresCatalogStorage реализует CatalogStorage для PostgreSQL.
type PostgresCatalogStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresCatalogStorage(pool *pgxpool.Pool) *PostgresCatalogStorage {
	return &PostgresCatalogStorage{pool: pool}
}

const catalogColumns = `id, kind, name, category, product_type, description, brand, color, material,
	price, price_per_day, deposit, buy_price, sizes, box_items, image_url, is_active, created_at, updated_at`

// Create добавляет позицию в каталог.
func (s *PostgresCatalogStorage) Create(ctx context.Context, item *models.CatalogItem) error {
	query := `
		INSERT INTO catalog_items (id, kind, name, category, product_type, description, brand, color, material,
			price, price_per_day, deposit, buy_price, sizes, box_items, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, TRUE, NOW(), NOW())
		RETURNING is_active, created_at, updated_at
	`

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Sizes == nil {
		item.Sizes = []string{}
	}
	if item.BoxItems == nil {
		item.BoxItems = []string{}
	}

	err := s.pool.QueryRow(ctx, query,
		item.ID,
		item.Kind,
		item.Name,
		item.Category,
		item.ProductType,
		item.Description,
		item.Brand,
		item.Color,
		item.Material,
		item.Price,
		item.PricePerDay,
		item.Deposit,
		item.BuyPrice,
		item.Sizes,
		item.BoxItems,
		item.ImageURL,
	).Scan(&item.IsActive, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create catalog item: %w", err)
	}

	return nil
}

// GetByID возвращает позицию каталога вне зависимости от активности.
func (s *PostgresCatalogStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE id = $1`
	return scanCatalogItem(s.pool.QueryRow(ctx, query, id))
}

// ListByKind возвращает позиции раздела каталога.
func (s *PostgresCatalogStorage) ListByKind(ctx context.Context, kind models.ItemKind, activeOnly bool) ([]*models.CatalogItem, error) {
	query := `
		SELECT ` + catalogColumns + `
		FROM catalog_items
		WHERE kind = $1 AND (is_active OR NOT $2)
		ORDER BY name ASC
	`

	rows, err := s.pool.Query(ctx, query, kind, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var items []*models.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return items, nil
}

// Deactivate снимает позицию с витрины. Существующие заказы продолжают на неё ссылаться.
func (s *PostgresCatalogStorage) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `UPDATE catalog_items SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate catalog item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

func scanCatalogItem(row pgx.Row) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := row.Scan(
		&item.ID,
		&item.Kind,
		&item.Name,
		&item.Category,
		&item.ProductType,
		&item.Description,
		&item.Brand,
		&item.Color,
		&item.Material,
		&item.Price,
		&item.PricePerDay,
		&item.Deposit,
		&item.BuyPrice,
		&item.Sizes,
		&item.BoxItems,
		&item.ImageURL,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to scan catalog item: %w", err)
	}
	return &item, nil
}
