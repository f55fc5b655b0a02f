package storage

import (
	"context"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/google/uuid"
)

// MockCatalogStorage - мок CatalogStorage.
type MockCatalogStorage struct {
	CreateFunc     func(ctx context.Context, item *models.CatalogItem) error
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
	ListByKindFunc func(ctx context.Context, kind models.ItemKind, activeOnly bool) ([]*models.CatalogItem, error)
	DeactivateFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *MockCatalogStorage) Create(ctx context.Context, item *models.CatalogItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	return nil
}

func (m *MockCatalogStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrItemNotFound
}

func (m *MockCatalogStorage) ListByKind(ctx context.Context, kind models.ItemKind, activeOnly bool) ([]*models.CatalogItem, error) {
	if m.ListByKindFunc != nil {
		return m.ListByKindFunc(ctx, kind, activeOnly)
	}
	return nil, nil
}

func (m *MockCatalogStorage) Deactivate(ctx context.Context, id uuid.UUID) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id)
	}
	return nil
}
