package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/services"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/labstack/echo/v4"
)

// CatalogHandler обслуживает витрину и её администрирование.
type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List обрабатывает GET /api/catalog/:kind.
func (h *CatalogHandler) List(c echo.Context) error {
	items, err := h.catalogService.List(c.Request().Context(), c.Param("kind"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get обрабатывает GET /api/catalog/:kind/:id.
func (h *CatalogHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.catalogService.Get(c.Request().Context(), c.Param("kind"), id)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Create обрабатывает POST /api/admin/catalog/:kind.
func (h *CatalogHandler) Create(c echo.Context) error {
	var item models.CatalogItem
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	created, err := h.catalogService.Create(c.Request().Context(), c.Param("kind"), &item)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Deactivate обрабатывает DELETE /api/admin/catalog/:kind/:id.
func (h *CatalogHandler) Deactivate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.Deactivate(c.Request().Context(), c.Param("kind"), id); err != nil {
		return catalogError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func catalogError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrUnknownKind), errors.Is(err, storage.ErrItemNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	case errors.Is(err, services.ErrInvalidItem):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	c.Logger().Errorf("catalog request failed: %v", err)
	return internalError()
}
