package storage

import (
	"context"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/google/uuid"
)

// MockUserStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockUserStorage struct {
	CreateFunc            func(ctx context.Context, user *models.User) error
	GetByLoginFunc        func(ctx context.Context, login string) (*models.User, error)
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRoleFunc        func(ctx context.Context, role models.Role) ([]*models.User, error)
	UpdateMeasurementFunc func(ctx context.Context, id uuid.UUID, status models.MeasurementStatus, photo *string) (*models.User, error)
	SetRoleFunc           func(ctx context.Context, id uuid.UUID, role models.Role) error
	CountCustomersFunc    func(ctx context.Context) (int, int, error)
}

func (m *MockUserStorage) Create(ctx context.Context, user *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserStorage) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(ctx, login)
	}
	return nil, ErrUserNotFound
}

func (m *MockUserStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *MockUserStorage) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	if m.ListByRoleFunc != nil {
		return m.ListByRoleFunc(ctx, role)
	}
	return nil, nil
}

func (m *MockUserStorage) UpdateMeasurement(ctx context.Context, id uuid.UUID, status models.MeasurementStatus, photo *string) (*models.User, error) {
	if m.UpdateMeasurementFunc != nil {
		return m.UpdateMeasurementFunc(ctx, id, status, photo)
	}
	return nil, ErrUserNotFound
}

func (m *MockUserStorage) SetRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	if m.SetRoleFunc != nil {
		return m.SetRoleFunc(ctx, id, role)
	}
	return nil
}

func (m *MockUserStorage) CountCustomers(ctx context.Context) (int, int, error) {
	if m.CountCustomersFunc != nil {
		return m.CountCustomersFunc(ctx)
	}
	return 0, 0, nil
}
