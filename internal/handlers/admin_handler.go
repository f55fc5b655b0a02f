package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agamariel/polofashions/internal/auth"
	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/services"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/labstack/echo/v4"
)

// StatsProvider отдаёт сводку для панели администратора.
type StatsProvider interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// EventFeed раздаёт события по websocket.
type EventFeed interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// AdminHandler обслуживает /api/admin: заказы, клиенты, сводка и живая лента событий.
type AdminHandler struct {
	orderService services.OrderService
	userService  services.UserService
	stats        StatsProvider
	feed         EventFeed
}

func NewAdminHandler(orderService services.OrderService, userService services.UserService, stats StatsProvider, feed EventFeed) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
		userService:  userService,
		stats:        stats,
		feed:         feed,
	}
}

// ListOrders обрабатывает GET /api/admin/orders?status=.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.orderService.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return orderError(c, "list orders", err)
	}
	return c.JSON(http.StatusOK, mapOrders(orders, h.orderService))
}

// GetOrder обрабатывает GET /api/admin/orders/:id.
func (h *AdminHandler) GetOrder(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(c.Request().Context(), userID, models.RoleAdmin, id)
	if err != nil {
		return orderError(c, "get order", err)
	}
	return c.JSON(http.StatusOK, models.NewOrderResponse(order, h.orderService.Flow()))
}

// UpdateOrderStatus обрабатывает PATCH /api/admin/orders/:id/status.
// Недопустимый переход - 422, повтор текущего статуса - 200 без изменений.
func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	actorID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), actorID, id, req.Status)
	if err != nil {
		return orderError(c, "update order status", err)
	}
	return c.JSON(http.StatusOK, models.NewOrderResponse(order, h.orderService.Flow()))
}

// CancelOrder обрабатывает POST /api/admin/orders/:id/cancel.
func (h *AdminHandler) CancelOrder(c echo.Context) error {
	actorID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.Cancel(c.Request().Context(), actorID, id)
	if err != nil {
		return orderError(c, "cancel order", err)
	}
	return c.JSON(http.StatusOK, models.NewOrderResponse(order, h.orderService.Flow()))
}

// OrderHistory обрабатывает GET /api/admin/orders/:id/history.
func (h *AdminHandler) OrderHistory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	history, err := h.orderService.History(c.Request().Context(), id)
	if err != nil {
		return orderError(c, "get order history", err)
	}
	return c.JSON(http.StatusOK, history)
}

// ExportOrders обрабатывает GET /api/admin/orders/export?format=xlsx|csv&status=.
func (h *AdminHandler) ExportOrders(c echo.Context) error {
	format, err := services.ParseExportFormat(c.QueryParam("format"))
	if err != nil {
		return orderError(c, "export orders", err)
	}

	orders, err := h.orderService.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return orderError(c, "export orders", err)
	}

	var buf bytes.Buffer
	if err := services.ExportOrders(&buf, format, orders, h.orderService.Flow()); err != nil {
		return orderError(c, "export orders", err)
	}

	filename := fmt.Sprintf("orders-%s.%s", time.Now().Format("20060102"), format)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Stats обрабатывает GET /api/admin/stats.
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.stats.Dashboard(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to build stats: %v", err)
		return internalError()
	}
	return c.JSON(http.StatusOK, stats)
}

// Customers обрабатывает GET /api/admin/customers.
func (h *AdminHandler) Customers(c echo.Context) error {
	users, err := h.userService.Customers(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to list customers: %v", err)
		return internalError()
	}

	response := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, models.NewUserResponse(u))
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateMeasurement обрабатывает PATCH /api/admin/customers/:id/measurement.
func (h *AdminHandler) UpdateMeasurement(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req models.UpdateMeasurementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, err := h.userService.UpdateMeasurement(c.Request().Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMeasurement):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		c.Logger().Errorf("failed to update measurement: %v", err)
		return internalError()
	}
	return c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// Feed обрабатывает GET /api/admin/ws.
func (h *AdminHandler) Feed(c echo.Context) error {
	h.feed.ServeWS(c.Response(), c.Request())
	return nil
}
