package storage

import (
	"context"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/google/uuid"
)

// MockBookingStorage - мок BookingStorage.
type MockBookingStorage struct {
	CreateFunc        func(ctx context.Context, booking *models.Booking) error
	ListByUserFunc    func(ctx context.Context, userID uuid.UUID) ([]*models.Booking, error)
	ListFunc          func(ctx context.Context) ([]*models.Booking, error)
	UpdateStatusFunc  func(ctx context.Context, id uuid.UUID, decide BookingDecider) (*models.Booking, error)
	CountByStatusFunc func(ctx context.Context) (map[string]int, error)
}

func (m *MockBookingStorage) Create(ctx context.Context, booking *models.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingStorage) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Booking, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBookingStorage) List(ctx context.Context) ([]*models.Booking, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockBookingStorage) UpdateStatus(ctx context.Context, id uuid.UUID, decide BookingDecider) (*models.Booking, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, decide)
	}
	return nil, ErrBookingNotFound
}

func (m *MockBookingStorage) CountByStatus(ctx context.Context) (map[string]int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return map[string]int{}, nil
}
