package services

import (
	"context"
	"fmt"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/agamariel/polofashions/internal/storage"
)

// StatsService собирает сводку для панели администратора.
type StatsService struct {
	orderStorage   storage.OrderStorage
	bookingStorage storage.BookingStorage
	userStorage    storage.UserStorage
}

func NewStatsService(orderStorage storage.OrderStorage, bookingStorage storage.BookingStorage, userStorage storage.UserStorage) *StatsService {
	return &StatsService{
		orderStorage:   orderStorage,
		bookingStorage: bookingStorage,
		userStorage:    userStorage,
	}
}

// Dashboard возвращает счётчики заказов и записей по всем статусам (отсутствующие - нулём).
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	orderCounts, err := s.orderStorage.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	bookingCounts, err := s.bookingStorage.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	customers, pending, err := s.userStorage.CountCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	stats := &models.DashboardStats{
		OrdersByStatus:     make(map[string]int),
		BookingsByStatus:   make(map[string]int),
		Customers:          customers,
		MeasurementPending: pending,
	}
	for _, st := range orderflow.AllStatuses() {
		stats.OrdersByStatus[string(st)] = orderCounts[string(st)]
	}
	for _, st := range models.BookingStatuses {
		stats.BookingsByStatus[string(st)] = bookingCounts[string(st)]
	}
	for _, n := range orderCounts {
		stats.TotalOrders += n
	}

	return stats, nil
}
