package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidBooking           = errors.New("invalid booking")
	ErrInvalidBookingTransition = errors.New("booking status transition not allowed")
)

// BookingService определяет операции с записями на снятие мерок.
type BookingService interface {
	Create(ctx context.Context, userID uuid.UUID, req *models.CreateBookingRequest) (*models.Booking, error)
	List(ctx context.Context, userID uuid.UUID, role models.Role) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error)
}

// BookingServiceImpl реализует BookingService.
type BookingServiceImpl struct {
	bookingStorage storage.BookingStorage
	userStorage    storage.UserStorage
	now            Clock
	logger         *zap.SugaredLogger
}

func NewBookingService(bookingStorage storage.BookingStorage, userStorage storage.UserStorage, logger *zap.SugaredLogger) *BookingServiceImpl {
	return &BookingServiceImpl{
		bookingStorage: bookingStorage,
		userStorage:    userStorage,
		now:            time.Now,
		logger:         logger,
	}
}

// Create записывает клиента на снятие мерок. Имя и email берутся из профиля.
func (s *BookingServiceImpl) Create(ctx context.Context, userID uuid.UUID, req *models.CreateBookingRequest) (*models.Booking, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" || len(phone) > maxPhoneLength {
		return nil, fmt.Errorf("%w: phone is required and must be at most %d digits", ErrInvalidBooking, maxPhoneLength)
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidBooking)
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, fmt.Errorf("%w: date is in the past", ErrInvalidBooking)
	}

	if !models.ValidTimeSlot(req.Time) {
		return nil, fmt.Errorf("%w: unknown time slot %q", ErrInvalidBooking, req.Time)
	}

	user, err := s.userStorage.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:       user.ID,
		CustomerName: user.FullName(),
		Email:        user.Email,
		Phone:        phone,
		Date:         date,
		TimeSlot:     req.Time,
		Status:       models.BookingPending,
		Notes:        optional(strings.TrimSpace(req.Notes)),
	}

	if err := s.bookingStorage.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Infow("booking created", "booking_id", booking.ID, "date", req.Date, "time", req.Time)
	return booking, nil
}

// List возвращает записи клиента; администратор видит все.
func (s *BookingServiceImpl) List(ctx context.Context, userID uuid.UUID, role models.Role) ([]*models.Booking, error) {
	var (
		bookings []*models.Booking
		err      error
	)
	if role == models.RoleAdmin {
		bookings, err = s.bookingStorage.List(ctx)
	} else {
		bookings, err = s.bookingStorage.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return bookings, nil
}

// UpdateStatus меняет статус записи.
func (s *BookingServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	return s.bookingStorage.UpdateStatus(ctx, id, func(current *models.Booking) (models.BookingStatus, error) {
		if current.Status == status {
			return status, nil
		}
		if !current.Status.CanBecome(status) {
			return "", fmt.Errorf("%w: %s to %s", ErrInvalidBookingTransition, current.Status, status)
		}
		return status, nil
	})
}
