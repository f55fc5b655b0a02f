package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/polofashions/internal/services"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func internalError() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// pathID разбирает параметр :id.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// orderError переводит ошибки сервиса заказов в HTTP-ответ.
func orderError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrOrderNotFound), errors.Is(err, services.ErrOrderForbidden):
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrInvalidOrder),
		errors.Is(err, services.ErrUnknownExportFormat):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrCannotCancel),
		errors.Is(err, services.ErrItemUnavailable):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	c.Logger().Errorf("failed to %s: %v", op, err)
	return internalError()
}
