package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrLoginExists  = errors.New("login already exists")
)

// UserStorage определяет интерфейс для работы с пользователями.
type UserStorage interface {
	Create(ctx context.Context, user *models.User) error
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	UpdateMeasurement(ctx context.Context, id uuid.UUID, status models.MeasurementStatus, photo *string) (*models.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role models.Role) error
	CountCustomers(ctx context.Context) (total int, measurementPending int, err error)
}

// PostgresUserStorage реализует UserStorage для PostgreSQL.
type PostgresUserStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStorage создаёт новый экземпляр PostgresUserStorage.
func NewPostgresUserStorage(pool *pgxpool.Pool) *PostgresUserStorage {
	return &PostgresUserStorage{pool: pool}
}

const userColumns = `id, login, password_hash, email, first_name, last_name, phone,
	role, measurement_status, measurement_photo, created_at, updated_at`

// Create создаёт нового пользователя.
func (s *PostgresUserStorage) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, login, password_hash, email, first_name, last_name, phone, role, measurement_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if user.MeasurementStatus == "" {
		user.MeasurementStatus = models.MeasurementPending
	}

	err := s.pool.QueryRow(ctx, query,
		user.ID,
		user.Login,
		user.PasswordHash,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Role,
		user.MeasurementStatus,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrLoginExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByLogin ищет пользователя по логину.
func (s *PostgresUserStorage) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1`

	user, err := scanUser(s.pool.QueryRow(ctx, query, login))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return user, err
}

// GetByID ищет пользователя по ID.
func (s *PostgresUserStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, err
}

// ListByRole возвращает пользователей с указанной ролью, новые первыми.
func (s *PostgresUserStorage) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return users, nil
}

// UpdateMeasurement обновляет статус мерок и, если передано, фото мерок.
func (s *PostgresUserStorage) UpdateMeasurement(ctx context.Context, id uuid.UUID, status models.MeasurementStatus, photo *string) (*models.User, error) {
	query := `
		UPDATE users
		SET measurement_status = $1,
		    measurement_photo = COALESCE($2, measurement_photo),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	user, err := scanUser(s.pool.QueryRow(ctx, query, status, photo, id))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to update measurement: %w", err)
	}
	return user, err
}

// SetRole меняет роль пользователя.
func (s *PostgresUserStorage) SetRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	result, err := s.pool.Exec(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// CountCustomers считает клиентов и клиентов, ожидающих снятия мерок.
func (s *PostgresUserStorage) CountCustomers(ctx context.Context) (int, int, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE measurement_status = 'pending')
		FROM users
		WHERE role = 'customer'
	`

	var total, pending int
	if err := s.pool.QueryRow(ctx, query).Scan(&total, &pending); err != nil {
		return 0, 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return total, pending, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Login,
		&user.PasswordHash,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Role,
		&user.MeasurementStatus,
		&user.MeasurementPhoto,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}
