package models

import (
	"time"

	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order представляет заказ клиента.
type Order struct {
	ID           uuid.UUID           `db:"id"`
	UserID       uuid.UUID           `db:"user_id"`
	CustomerName string              `db:"customer_name"`
	OrderType    orderflow.OrderType `db:"order_type"`
	ItemID       uuid.UUID           `db:"item_id"`
	ItemName     string              `db:"item_name"`

	// Цена единицы: за метр ткани, за день аренды или за штуку.
	UnitPrice       decimal.Decimal `db:"unit_price"`
	Meters          decimal.Decimal `db:"meters"`
	StitchType      *string         `db:"stitch_type"`
	StitchingCharge decimal.Decimal `db:"stitching_charge"`
	Size            *string         `db:"size"`

	RentalDays    int             `db:"rental_days"`
	RentalDeposit decimal.Decimal `db:"rental_deposit"`

	Quantity   int              `db:"quantity"`
	TotalPrice decimal.Decimal  `db:"total_price"`
	Status     orderflow.Status `db:"status"`
	Notes      *string          `db:"notes"`

	PickedUpAt        *time.Time `db:"picked_up_at"`
	OverdueNotifiedAt *time.Time `db:"overdue_notified_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

// StitchTypeValue возвращает тип пошива или пустую строку.
func (o *Order) StitchTypeValue() string {
	if o.StitchType == nil {
		return ""
	}
	return *o.StitchType
}

// Category определяет категорию заказа для графа статусов.
func (o *Order) Category() orderflow.Category {
	return orderflow.Classify(o.OrderType, o.StitchTypeValue(), o.RentalDays)
}

// RentalDueAt возвращает срок возврата арендованной вещи.
func (o *Order) RentalDueAt() (time.Time, bool) {
	if o.RentalDays <= 0 || o.PickedUpAt == nil {
		return time.Time{}, false
	}
	return o.PickedUpAt.Add(time.Duration(o.RentalDays) * 24 * time.Hour), true
}

// CreateOrderRequest - запрос на оформление заказа.
type CreateOrderRequest struct {
	OrderType  orderflow.OrderType `json:"order_type"`
	ItemID     uuid.UUID           `json:"item_id"`
	StitchType string              `json:"stitch_type"`
	Meters     decimal.Decimal     `json:"meters"`
	Size       string              `json:"size"`
	Quantity   int                 `json:"quantity"`
	RentalDays int                 `json:"rental_days"`
	Notes      string              `json:"notes"`
}

// UpdateStatusRequest - запрос на смену статуса заказа.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// StatusChange - запись истории статусов заказа.
type StatusChange struct {
	ID         int64            `db:"id" json:"id"`
	OrderID    uuid.UUID        `db:"order_id" json:"order_id"`
	ActorID    *uuid.UUID       `db:"actor_id" json:"actor_id,omitempty"`
	FromStatus orderflow.Status `db:"from_status" json:"from_status"`
	ToStatus   orderflow.Status `db:"to_status" json:"to_status"`
	ChangedAt  time.Time        `db:"changed_at" json:"changed_at"`
}

// StatusOption - вариант следующего статуса для выпадающего списка.
type StatusOption struct {
	Value orderflow.Status `json:"value"`
	Label string           `json:"label"`
	Color string           `json:"color"`
}

// OrderResponse ответ для списка и карточки заказа.
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	CustomerName    string              `json:"customer_name"`
	OrderType       orderflow.OrderType `json:"order_type"`
	ItemID          uuid.UUID           `json:"item_id"`
	ItemName        string              `json:"item_name"`
	UnitPrice       decimal.Decimal     `json:"unit_price"`
	Meters          decimal.Decimal     `json:"meters"`
	StitchType      *string             `json:"stitch_type,omitempty"`
	StitchingCharge decimal.Decimal     `json:"stitching_charge"`
	Size            *string             `json:"size,omitempty"`
	RentalDays      int                 `json:"rental_days"`
	RentalDeposit   decimal.Decimal     `json:"rental_deposit"`
	Quantity        int                 `json:"quantity"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	Status          orderflow.Status    `json:"status"`
	StatusLabel     string              `json:"status_label"`
	StatusColor     string              `json:"status_color"`
	Category        orderflow.Category  `json:"category"`
	NextStatuses    []StatusOption      `json:"next_statuses"`
	Notes           *string             `json:"notes,omitempty"`
	PickedUpAt      *string             `json:"picked_up_at,omitempty"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}

// NewOrderResponse собирает DTO заказа; варианты следующих статусов считает переданный Flow.
func NewOrderResponse(o *Order, flow *orderflow.Flow) *OrderResponse {
	category := o.Category()
	next := flow.NextStatuses(category, o.Status)
	options := make([]StatusOption, 0, len(next))
	for _, s := range next {
		options = append(options, StatusOption{Value: s, Label: orderflow.Label(s), Color: orderflow.Color(s)})
	}

	resp := &OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		OrderType:       o.OrderType,
		ItemID:          o.ItemID,
		ItemName:        o.ItemName,
		UnitPrice:       o.UnitPrice,
		Meters:          o.Meters,
		StitchType:      o.StitchType,
		StitchingCharge: o.StitchingCharge,
		Size:            o.Size,
		RentalDays:      o.RentalDays,
		RentalDeposit:   o.RentalDeposit,
		Quantity:        o.Quantity,
		TotalPrice:      o.TotalPrice,
		Status:          o.Status,
		StatusLabel:     orderflow.Label(o.Status),
		StatusColor:     orderflow.Color(o.Status),
		Category:        category,
		NextStatuses:    options,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       o.UpdatedAt.Format(time.RFC3339),
	}
	if o.PickedUpAt != nil {
		ts := o.PickedUpAt.Format(time.RFC3339)
		resp.PickedUpAt = &ts
	}
	return resp
}
