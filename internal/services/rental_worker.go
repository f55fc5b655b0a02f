package services

import (
	"context"
	"fmt"
	"time"

	"github.com/agamariel/polofashions/internal/events"
	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RentalWorker периодически ищет просроченные возвраты аренды и уведомляет о них.
type RentalWorker struct {
	store     RentalStore
	publisher events.Publisher
	interval  time.Duration
	now       Clock
	logger    *zap.SugaredLogger
}

func NewRentalWorker(store RentalStore, publisher events.Publisher, interval time.Duration, logger *zap.SugaredLogger) *RentalWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &RentalWorker{
		store:     store,
		publisher: publisher,
		interval:  interval,
		now:       time.Now,
		logger:    logger,
	}
}

// Start запускает воркер в отдельной горутине и останавливается по ctx.Done().
// Возвращаемый канал закрывается после выхода горутины.
func (w *RentalWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(w.interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		if err := w.processBatch(ctx); err != nil {
			w.logger.Errorw("rental worker initial batch failed", "error", err)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.processBatch(ctx); err != nil {
					w.logger.Errorw("rental worker batch failed", "error", err)
				}
			}
		}
	}()
	return done
}

func (w *RentalWorker) processBatch(ctx context.Context) error {
	ctx, span := tracing.Start(ctx, tracing.LayerWorker, "CheckOverdueRentals")
	defer span.End()

	now := w.now()
	orders, err := w.store.ListOverdueRentals(ctx, now)
	if err != nil {
		return tracing.Fail(span, err)
	}
	span.SetAttributes(attribute.Int("rentals.overdue", len(orders)))

	if len(orders) > 0 {
		w.logger.Infow("overdue rentals found", "count", len(orders))
	}

	for _, o := range orders {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.processOrder(ctx, o, now); err != nil {
			w.logger.Warnw("overdue rental not processed", "order_id", o.ID, "error", err)
		}
	}
	return nil
}

func (w *RentalWorker) processOrder(ctx context.Context, order *models.Order, now time.Time) error {
	due, ok := order.RentalDueAt()
	if !ok || !now.After(due) {
		return nil
	}

	if err := w.publisher.Publish(ctx, events.RentalOverdue(order, due, now)); err != nil {
		return fmt.Errorf("publish overdue event: %w", err)
	}

	// Отметка ставится только после успешной отправки: при сбое заказ попадёт в следующий проход.
	marked, err := w.store.MarkOverdueNotified(ctx, order.ID)
	if err != nil {
		return err
	}
	if marked {
		w.logger.Infow("rental overdue",
			"order_id", order.ID,
			"customer", order.CustomerName,
			"due_at", due.Format(time.RFC3339),
		)
	}
	return nil
}
