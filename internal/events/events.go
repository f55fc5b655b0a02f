package events

import (
	"context"
	"errors"
	"time"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/google/uuid"
)

// Типы событий.
const (
	TypeOrderPlaced   = "order.placed"
	TypeStatusChanged = "order.status_changed"
	TypeRentalOverdue = "rental.overdue"
)

// Event - уведомление об изменении заказа для брокера и живой ленты администратора.
type Event struct {
	Type       string             `json:"type"`
	OrderID    uuid.UUID          `json:"order_id"`
	UserID     uuid.UUID          `json:"user_id"`
	Category   orderflow.Category `json:"category"`
	From       orderflow.Status   `json:"from,omitempty"`
	To         orderflow.Status   `json:"to"`
	Label      string             `json:"label"`
	Color      string             `json:"color"`
	ActorID    *uuid.UUID         `json:"actor_id,omitempty"`
	DueAt      *time.Time         `json:"due_at,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// OrderPlaced строит событие оформления заказа.
func OrderPlaced(o *models.Order) Event {
	return Event{
		Type:       TypeOrderPlaced,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Category:   o.Category(),
		To:         o.Status,
		Label:      orderflow.Label(o.Status),
		Color:      orderflow.Color(o.Status),
		OccurredAt: o.CreatedAt,
	}
}

// StatusChanged строит событие смены статуса по записи истории.
func StatusChanged(o *models.Order, change *models.StatusChange) Event {
	return Event{
		Type:       TypeStatusChanged,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Category:   o.Category(),
		From:       change.FromStatus,
		To:         change.ToStatus,
		Label:      orderflow.Label(change.ToStatus),
		Color:      orderflow.Color(change.ToStatus),
		ActorID:    change.ActorID,
		OccurredAt: change.ChangedAt,
	}
}

// RentalOverdue строит событие просрочки возврата аренды.
func RentalOverdue(o *models.Order, due time.Time, now time.Time) Event {
	return Event{
		Type:       TypeRentalOverdue,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Category:   o.Category(),
		To:         o.Status,
		Label:      orderflow.Label(o.Status),
		Color:      orderflow.Color(o.Status),
		DueAt:      &due,
		OccurredAt: now,
	}
}

// Publisher доставляет события подписчикам.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Nop отбрасывает события.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi рассылает событие всем издателям и собирает их ошибки.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
