package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role - роль пользователя.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// MeasurementStatus - состояние снятия мерок клиента.
type MeasurementStatus string

const (
	MeasurementPending   MeasurementStatus = "pending"
	MeasurementCompleted MeasurementStatus = "completed"
)

// Valid сообщает, известен ли статус мерок.
func (s MeasurementStatus) Valid() bool {
	return s == MeasurementPending || s == MeasurementCompleted
}

// User представляет пользователя системы.
type User struct {
	ID                uuid.UUID         `db:"id"`
	Login             string            `db:"login"`
	PasswordHash      string            `db:"password_hash"`
	Email             string            `db:"email"`
	FirstName         string            `db:"first_name"`
	LastName          string            `db:"last_name"`
	Phone             *string           `db:"phone"`
	Role              Role              `db:"role"`
	MeasurementStatus MeasurementStatus `db:"measurement_status"`
	MeasurementPhoto  *string           `db:"measurement_photo"`
	CreatedAt         time.Time         `db:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at"`
}

// IsAdmin сообщает, что пользователь - администратор.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName возвращает имя для отображения, при его отсутствии - логин.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Login
	}
	return name
}

// RegisterRequest - запрос на регистрацию пользователя.
type RegisterRequest struct {
	Login     string `json:"login"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// LoginRequest - запрос на аутентификацию пользователя.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UpdateMeasurementRequest - запрос администратора на обновление мерок клиента.
type UpdateMeasurementRequest struct {
	MeasurementStatus MeasurementStatus `json:"measurement_status"`
	MeasurementPhoto  *string           `json:"measurement_photo"`
}

// UserResponse - публичное представление пользователя.
type UserResponse struct {
	ID                uuid.UUID         `json:"id"`
	Login             string            `json:"login"`
	Email             string            `json:"email"`
	FirstName         string            `json:"first_name"`
	LastName          string            `json:"last_name"`
	FullName          string            `json:"full_name"`
	Phone             *string           `json:"phone,omitempty"`
	Role              Role              `json:"role"`
	MeasurementStatus MeasurementStatus `json:"measurement_status"`
	MeasurementPhoto  *string           `json:"measurement_photo,omitempty"`
	CreatedAt         string            `json:"created_at"`
}

// NewUserResponse преобразует пользователя в DTO.
func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:                u.ID,
		Login:             u.Login,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		FullName:          u.FullName(),
		Phone:             u.Phone,
		Role:              u.Role,
		MeasurementStatus: u.MeasurementStatus,
		MeasurementPhoto:  u.MeasurementPhoto,
		CreatedAt:         u.CreatedAt.Format(time.RFC3339),
	}
}
