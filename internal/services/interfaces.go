package services

import (
	"context"
	"time"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/google/uuid"
)

// RentalStore - часть хранилища заказов, нужная воркеру просрочек аренды.
type RentalStore interface {
	ListOverdueRentals(ctx context.Context, now time.Time) ([]*models.Order, error)
	MarkOverdueNotified(ctx context.Context, id uuid.UUID) (bool, error)
}

// Clock возвращает текущее время. В тестах подменяется.
type Clock func() time.Time
