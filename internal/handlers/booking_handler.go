package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/polofashions/internal/auth"
	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/services"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/labstack/echo/v4"
)

// BookingHandler обрабатывает записи на снятие мерок.
type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create обрабатывает POST /api/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	booking, err := h.bookingService.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, models.NewBookingResponse(booking))
}

// List обрабатывает GET /api/bookings. Администратор получает все записи.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.List(c.Request().Context(), userID, role)
	if err != nil {
		return bookingError(c, err)
	}

	response := make([]*models.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, models.NewBookingResponse(b))
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateStatus обрабатывает PATCH /api/admin/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req models.UpdateBookingStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	booking, err := h.bookingService.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, models.NewBookingResponse(booking))
}

func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidBooking):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidBookingTransition):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, storage.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	case errors.Is(err, storage.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
	}
	c.Logger().Errorf("booking request failed: %v", err)
	return internalError()
}
