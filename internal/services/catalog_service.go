package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownKind     = errors.New("unknown catalog kind")
	ErrInvalidItem     = errors.New("invalid catalog item")
	ErrItemKindMissing = errors.New("catalog item not found in this section")
)

// CatalogService определяет операции каталога.
type CatalogService interface {
	List(ctx context.Context, kind string) ([]*models.CatalogItem, error)
	Get(ctx context.Context, kind string, id uuid.UUID) (*models.CatalogItem, error)
	Create(ctx context.Context, kind string, item *models.CatalogItem) (*models.CatalogItem, error)
	Deactivate(ctx context.Context, kind string, id uuid.UUID) error
}

// CatalogServiceImpl реализует CatalogService.
type CatalogServiceImpl struct {
	catalogStorage storage.CatalogStorage
}

func NewCatalogService(catalogStorage storage.CatalogStorage) *CatalogServiceImpl {
	return &CatalogServiceImpl{catalogStorage: catalogStorage}
}

// List возвращает активные позиции раздела.
func (s *CatalogServiceImpl) List(ctx context.Context, kind string) ([]*models.CatalogItem, error) {
	k, ok := models.ParseItemKind(kind)
	if !ok {
		return nil, ErrUnknownKind
	}

	items, err := s.catalogStorage.ListByKind(ctx, k, true)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.CatalogItem{}
	}
	return items, nil
}

// Get возвращает активную позицию раздела.
func (s *CatalogServiceImpl) Get(ctx context.Context, kind string, id uuid.UUID) (*models.CatalogItem, error) {
	k, ok := models.ParseItemKind(kind)
	if !ok {
		return nil, ErrUnknownKind
	}

	item, err := s.catalogStorage.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Kind != k || !item.IsActive {
		return nil, storage.ErrItemNotFound
	}
	return item, nil
}

// Create добавляет позицию в раздел каталога.
func (s *CatalogServiceImpl) Create(ctx context.Context, kind string, item *models.CatalogItem) (*models.CatalogItem, error) {
	k, ok := models.ParseItemKind(kind)
	if !ok {
		return nil, ErrUnknownKind
	}

	item.ID = uuid.Nil
	item.Kind = k
	item.Name = strings.TrimSpace(item.Name)
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.catalogStorage.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Deactivate снимает позицию с витрины.
func (s *CatalogServiceImpl) Deactivate(ctx context.Context, kind string, id uuid.UUID) error {
	k, ok := models.ParseItemKind(kind)
	if !ok {
		return ErrUnknownKind
	}

	item, err := s.catalogStorage.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.Kind != k {
		return storage.ErrItemNotFound
	}

	return s.catalogStorage.Deactivate(ctx, id)
}

func validateItem(item *models.CatalogItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	for _, amount := range []decimal.Decimal{item.Price, item.PricePerDay, item.Deposit} {
		if amount.IsNegative() {
			return fmt.Errorf("%w: amounts must not be negative", ErrInvalidItem)
		}
	}

	switch item.Kind {
	case models.KindRental:
		if !item.PricePerDay.IsPositive() {
			return fmt.Errorf("%w: price_per_day is required for rentals", ErrInvalidItem)
		}
		if item.BuyPrice.Valid && item.BuyPrice.Decimal.IsNegative() {
			return fmt.Errorf("%w: buy_price must not be negative", ErrInvalidItem)
		}
	case models.KindProduct:
		if item.ProductType != "" && item.ProductType != models.ProductTypeCustom && item.ProductType != models.ProductTypeReadyMade {
			return fmt.Errorf("%w: unknown product type %q", ErrInvalidItem, item.ProductType)
		}
		fallthrough
	default:
		if !item.Price.IsPositive() {
			return fmt.Errorf("%w: price is required", ErrInvalidItem)
		}
	}
	return nil
}
