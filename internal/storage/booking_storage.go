package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrBookingNotFound = errors.New("booking not found")

// BookingDecider получает заблокированную запись и возвращает её новый статус.
type BookingDecider func(booking *models.Booking) (models.BookingStatus, error)

// BookingStorage определяет интерфейс для работы с записями на снятие мерок.
type BookingStorage interface {
	Create(ctx context.Context, booking *models.Booking) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Booking, error)
	List(ctx context.Context) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, decide BookingDecider) (*models.Booking, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// PostgresBookingStorage реализует BookingStorage для PostgreSQL.
type PostgresBookingStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresBookingStorage(pool *pgxpool.Pool) *PostgresBookingStorage {
	return &PostgresBookingStorage{pool: pool}
}

const bookingColumns = `id, user_id, customer_name, email, phone, date, time_slot, status, notes, created_at, updated_at`

// Create создаёт запись.
func (s *PostgresBookingStorage) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, customer_name, email, phone, date, time_slot, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.Status == "" {
		booking.Status = models.BookingPending
	}

	err := s.pool.QueryRow(ctx, query,
		booking.ID,
		booking.UserID,
		booking.CustomerName,
		booking.Email,
		booking.Phone,
		booking.Date,
		booking.TimeSlot,
		booking.Status,
		booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// ListByUser возвращает записи пользователя, ближайшие даты первыми.
func (s *PostgresBookingStorage) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY date DESC, time_slot ASC`
	return s.queryBookings(ctx, query, userID)
}

// List возвращает все записи.
func (s *PostgresBookingStorage) List(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY date DESC, time_slot ASC`
	return s.queryBookings(ctx, query)
}

// UpdateStatus меняет статус записи под блокировкой строки.
func (s *PostgresBookingStorage) UpdateStatus(ctx context.Context, id uuid.UUID, decide BookingDecider) (*models.Booking, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	booking, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	next, err := decide(booking)
	if err != nil {
		return nil, err
	}
	if next == booking.Status {
		return booking, nil
	}

	updated, err := scanBooking(tx.QueryRow(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING `+bookingColumns,
		next, id))
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

// CountByStatus возвращает количество записей по статусам.
func (s *PostgresBookingStorage) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, s.pool, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
}

func (s *PostgresBookingStorage) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.CustomerName,
		&b.Email,
		&b.Phone,
		&b.Date,
		&b.TimeSlot,
		&b.Status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return &b, nil
}
