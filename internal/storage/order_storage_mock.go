package storage

import (
	"context"
	"time"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/google/uuid"
)

// MockOrderStorage - мок OrderStorage для тестов сервисов и обработчиков.
type MockOrderStorage struct {
	CreateFunc              func(ctx context.Context, order *models.Order) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUserFunc          func(ctx context.Context, userID uuid.UUID) ([]*models.Order, error)
	ListFunc                func(ctx context.Context, status orderflow.Status) ([]*models.Order, error)
	UpdateStatusFunc        func(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, decide StatusDecider) (*models.Order, *models.StatusChange, error)
	HistoryFunc             func(ctx context.Context, id uuid.UUID) ([]*models.StatusChange, error)
	ListOverdueRentalsFunc  func(ctx context.Context, now time.Time) ([]*models.Order, error)
	MarkOverdueNotifiedFunc func(ctx context.Context, id uuid.UUID) (bool, error)
	CountByStatusFunc       func(ctx context.Context) (map[string]int, error)
}

func (m *MockOrderStorage) Create(ctx context.Context, order *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrOrderNotFound
}

func (m *MockOrderStorage) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockOrderStorage) List(ctx context.Context, status orderflow.Status) ([]*models.Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status)
	}
	return nil, nil
}

func (m *MockOrderStorage) UpdateStatus(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, decide StatusDecider) (*models.Order, *models.StatusChange, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, actorID, decide)
	}
	return nil, nil, ErrOrderNotFound
}

func (m *MockOrderStorage) History(ctx context.Context, id uuid.UUID) ([]*models.StatusChange, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderStorage) ListOverdueRentals(ctx context.Context, now time.Time) ([]*models.Order, error) {
	if m.ListOverdueRentalsFunc != nil {
		return m.ListOverdueRentalsFunc(ctx, now)
	}
	return nil, nil
}

func (m *MockOrderStorage) MarkOverdueNotified(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.MarkOverdueNotifiedFunc != nil {
		return m.MarkOverdueNotifiedFunc(ctx, id)
	}
	return true, nil
}

func (m *MockOrderStorage) CountByStatus(ctx context.Context) (map[string]int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return map[string]int{}, nil
}

// InMemoryTransition имитирует UpdateStatus хранилища поверх заказа в памяти:
// вызывает decide и применяет результат так же, как PostgresOrderStorage.
func InMemoryTransition(order *models.Order, actorID *uuid.UUID, decide StatusDecider) (*models.Order, *models.StatusChange, error) {
	next, err := decide(order)
	if err != nil {
		return nil, nil, err
	}
	if next == order.Status {
		return order, nil, nil
	}

	now := time.Now()
	updated := *order
	updated.Status = next
	updated.UpdatedAt = now
	if next == orderflow.StatusPickedUp {
		updated.PickedUpAt = &now
	}

	change := &models.StatusChange{
		OrderID:    order.ID,
		ActorID:    actorID,
		FromStatus: order.Status,
		ToStatus:   next,
		ChangedAt:  now,
	}
	return &updated, change, nil
}
