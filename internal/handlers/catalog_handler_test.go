package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/services"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHandler_List(t *testing.T) {
	svc := &mockCatalogService{
		ListFunc: func(_ context.Context, kind string) ([]*models.CatalogItem, error) {
			if kind != "fabrics" {
				return nil, services.ErrUnknownKind
			}
			return []*models.CatalogItem{{ID: uuid.New(), Kind: models.KindFabric, Name: "Linen", Price: decimal.NewFromInt(200)}}, nil
		},
	}
	h := NewCatalogHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/catalog/fabrics", "", uuid.Nil, "")
	withParams(c, map[string]string{"kind": "fabrics"})
	require.NoError(t, h.List(c))
	assert.Contains(t, rec.Body.String(), `"name":"Linen"`)

	c, _ = newContext(http.MethodGet, "/api/catalog/shoes", "", uuid.Nil, "")
	withParams(c, map[string]string{"kind": "shoes"})
	requireHTTPError(t, h.List(c), http.StatusNotFound)
}

func TestCatalogHandler_Get(t *testing.T) {
	itemID := uuid.New()
	svc := &mockCatalogService{
		GetFunc: func(_ context.Context, _ string, id uuid.UUID) (*models.CatalogItem, error) {
			if id != itemID {
				return nil, storage.ErrItemNotFound
			}
			return &models.CatalogItem{ID: id, Kind: models.KindRental, Name: "Sherwani"}, nil
		},
	}
	h := NewCatalogHandler(svc)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"found", itemID.String(), http.StatusOK},
		{"missing", uuid.NewString(), http.StatusNotFound},
		{"bad id", "x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/", "", uuid.Nil, "")
			withParams(c, map[string]string{"kind": "rentals", "id": tt.id})
			requireStatus(t, h.Get(c), rec, tt.expectedStatus)
		})
	}
}

func TestCatalogHandler_CreateAndDeactivate(t *testing.T) {
	var deactivated uuid.UUID
	svc := &mockCatalogService{
		CreateFunc: func(_ context.Context, kind string, item *models.CatalogItem) (*models.CatalogItem, error) {
			if item.Name == "" {
				return nil, services.ErrInvalidItem
			}
			item.ID = uuid.New()
			item.Kind = models.KindAccessory
			item.IsActive = true
			return item, nil
		},
		DeactivateFunc: func(_ context.Context, _ string, id uuid.UUID) error {
			deactivated = id
			return nil
		},
	}
	h := NewCatalogHandler(svc)

	c, rec := newContext(http.MethodPost, "/", `{"name":"Belt","price":"450"}`, uuid.New(), models.RoleAdmin)
	withParams(c, map[string]string{"kind": "accessories"})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"accessory"`)

	c, _ = newContext(http.MethodPost, "/", `{"price":"450"}`, uuid.New(), models.RoleAdmin)
	withParams(c, map[string]string{"kind": "accessories"})
	requireHTTPError(t, h.Create(c), http.StatusBadRequest)

	id := uuid.New()
	c, rec = newContext(http.MethodDelete, "/", "", uuid.New(), models.RoleAdmin)
	withParams(c, map[string]string{"kind": "accessories", "id": id.String()})
	require.NoError(t, h.Deactivate(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, deactivated)
}
