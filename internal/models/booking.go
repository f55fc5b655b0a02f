package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus - статус записи на снятие мерок.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingFlow = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCompleted, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// BookingStatuses - все статусы записи.
var BookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled}

// CanBecome проверяет допустимость перехода записи в статус next.
func (s BookingStatus) CanBecome(next BookingStatus) bool {
	for _, candidate := range bookingFlow[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TimeSlots - доступные слоты для записи.
var TimeSlots = []string{
	"10:00 AM", "11:00 AM", "12:00 PM",
	"2:00 PM", "3:00 PM", "4:00 PM",
	"5:00 PM", "6:00 PM", "7:00 PM",
}

// ValidTimeSlot проверяет, что слот есть в расписании.
func ValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Booking представляет запись клиента на снятие мерок.
type Booking struct {
	ID           uuid.UUID     `db:"id"`
	UserID       uuid.UUID     `db:"user_id"`
	CustomerName string        `db:"customer_name"`
	Email        string        `db:"email"`
	Phone        string        `db:"phone"`
	Date         time.Time     `db:"date"`
	TimeSlot     string        `db:"time_slot"`
	Status       BookingStatus `db:"status"`
	Notes        *string       `db:"notes"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

// CreateBookingRequest - запрос на запись.
type CreateBookingRequest struct {
	Phone string `json:"phone"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Notes string `json:"notes"`
}

// UpdateBookingStatusRequest - запрос на смену статуса записи.
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status"`
}

// BookingResponse DTO записи.
type BookingResponse struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	CustomerName string        `json:"customer_name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Date         string        `json:"date"`
	Time         string        `json:"time"`
	Status       BookingStatus `json:"status"`
	Notes        *string       `json:"notes,omitempty"`
	CreatedAt    string        `json:"created_at"`
}

// NewBookingResponse преобразует запись в DTO.
func NewBookingResponse(b *Booking) *BookingResponse {
	return &BookingResponse{
		ID:           b.ID,
		UserID:       b.UserID,
		CustomerName: b.CustomerName,
		Email:        b.Email,
		Phone:        b.Phone,
		Date:         b.Date.Format(time.DateOnly),
		Time:         b.TimeSlot,
		Status:       b.Status,
		Notes:        b.Notes,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}
}
