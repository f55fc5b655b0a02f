package handlers

import (
	"net/http"

	"github.com/agamariel/polofashions/internal/auth"
	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/services"
	"github.com/labstack/echo/v4"
)

// OrderHandler обрабатывает запросы клиента, связанные с заказами.
type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create обрабатывает POST /api/orders.
func (h *OrderHandler) Create(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	order, err := h.orderService.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return orderError(c, "create order", err)
	}

	return c.JSON(http.StatusCreated, models.NewOrderResponse(order, h.orderService.Flow()))
}

// List обрабатывает GET /api/orders.
func (h *OrderHandler) List(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return orderError(c, "list orders", err)
	}

	return c.JSON(http.StatusOK, mapOrders(orders, h.orderService))
}

// Get обрабатывает GET /api/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(c.Request().Context(), userID, role, id)
	if err != nil {
		return orderError(c, "get order", err)
	}

	return c.JSON(http.StatusOK, models.NewOrderResponse(order, h.orderService.Flow()))
}

// mapOrders преобразует заказы в DTO. Пустой список отдаётся как [].
func mapOrders(orders []*models.Order, svc services.OrderService) []*models.OrderResponse {
	flow := svc.Flow()
	response := make([]*models.OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, models.NewOrderResponse(order, flow))
	}
	return response
}
