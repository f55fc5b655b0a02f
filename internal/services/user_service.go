package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agamariel/polofashions/internal/auth"
	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCredentials   = errors.New("login and password are required")
	ErrInvalidPhone       = errors.New("phone must be at most 15 digits")
	ErrInvalidMeasurement = errors.New("invalid measurement status")
)

const maxPhoneLength = 15

// UserService определяет интерфейс для работы с пользователями.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, login, password string) (*models.User, string, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Customers(ctx context.Context) ([]*models.User, error)
	UpdateMeasurement(ctx context.Context, userID uuid.UUID, req *models.UpdateMeasurementRequest) (*models.User, error)
}

// UserServiceImpl реализует UserService.
type UserServiceImpl struct {
	userStorage     storage.UserStorage
	jwtSecret       string
	tokenExpiration time.Duration
	logger          *zap.SugaredLogger
}

// NewUserService создаёт новый экземпляр UserService.
func NewUserService(userStorage storage.UserStorage, jwtSecret string, tokenExpiration time.Duration, logger *zap.SugaredLogger) *UserServiceImpl {
	return &UserServiceImpl{
		userStorage:     userStorage,
		jwtSecret:       jwtSecret,
		tokenExpiration: tokenExpiration,
		logger:          logger,
	}
}

// Register регистрирует нового клиента.
func (s *UserServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return nil, "", ErrEmptyCredentials
	}

	var phone *string
	if p := strings.TrimSpace(req.Phone); p != "" {
		if len(p) > maxPhoneLength {
			return nil, "", ErrInvalidPhone
		}
		phone = &p
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:                uuid.New(),
		Login:             login,
		PasswordHash:      passwordHash,
		Email:             strings.TrimSpace(req.Email),
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		Phone:             phone,
		Role:              models.RoleCustomer,
		MeasurementStatus: models.MeasurementPending,
	}

	if err := s.userStorage.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrLoginExists) {
			return nil, "", storage.ErrLoginExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Infow("user registered", "user_id", user.ID, "login", user.Login)
	return user, token, nil
}

// Login аутентифицирует пользователя.
func (s *UserServiceImpl) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", ErrEmptyCredentials
	}

	user, err := s.userStorage.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Me возвращает профиль пользователя.
func (s *UserServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userStorage.GetByID(ctx, userID)
}

// Customers возвращает список клиентов для администратора.
func (s *UserServiceImpl) Customers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userStorage.ListByRole(ctx, models.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// UpdateMeasurement меняет статус мерок клиента.
func (s *UserServiceImpl) UpdateMeasurement(ctx context.Context, userID uuid.UUID, req *models.UpdateMeasurementRequest) (*models.User, error) {
	if !req.MeasurementStatus.Valid() {
		return nil, ErrInvalidMeasurement
	}

	var photo *string
	if req.MeasurementPhoto != nil {
		if p := strings.TrimSpace(*req.MeasurementPhoto); p != "" {
			photo = &p
		}
	}

	return s.userStorage.UpdateMeasurement(ctx, userID, req.MeasurementStatus, photo)
}

// EnsureAdmin создаёт администратора с заданным логином или повышает существующего пользователя.
// Существующая учётная запись повышается, только если её пароль совпадает с заданным.
// Пустой логин - ничего не делать.
func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, nil
	}

	user, err := s.userStorage.GetByLogin(ctx, login)
	switch {
	case err == nil:
		if user.IsAdmin() {
			return user, nil
		}
		if !auth.CheckPassword(password, user.PasswordHash) {
			s.logger.Warnw("admin login taken by customer with different password", "login", login)
			return nil, fmt.Errorf("promote %s: %w", login, ErrInvalidCredentials)
		}
		if err := s.userStorage.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
			return nil, fmt.Errorf("failed to promote admin: %w", err)
		}
		user.Role = models.RoleAdmin
		s.logger.Infow("user promoted to admin", "login", login)
		return user, nil
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	if password == "" {
		return nil, ErrEmptyCredentials
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		ID:                uuid.New(),
		Login:             login,
		PasswordHash:      hash,
		Role:              models.RoleAdmin,
		MeasurementStatus: models.MeasurementCompleted,
	}
	if err := s.userStorage.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Infow("admin account created", "login", login)
	return user, nil
}

// generateToken генерирует JWT токен для пользователя.
func (s *UserServiceImpl) generateToken(user *models.User) (string, error) {
	exp := s.tokenExpiration
	if exp <= 0 {
		exp = 24 * time.Hour
	}
	return auth.GenerateToken(user, s.jwtSecret, exp)
}
