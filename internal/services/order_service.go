package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agamariel/polofashions/internal/events"
	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/agamariel/polofashions/internal/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrCannotCancel      = errors.New("order cannot be cancelled")
	ErrItemUnavailable   = errors.New("catalog item is not available")
	ErrOrderForbidden    = errors.New("order belongs to another user")
)

// OrderService определяет интерфейс работы с заказами.
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error)
	Get(ctx context.Context, userID uuid.UUID, role models.Role, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, status string) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, status string) (*models.Order, error)
	Cancel(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*models.Order, error)
	History(ctx context.Context, id uuid.UUID) ([]*models.StatusChange, error)
	Flow() *orderflow.Flow
}

// OrderServiceImpl реализует OrderService.
type OrderServiceImpl struct {
	orderStorage   storage.OrderStorage
	catalogStorage storage.CatalogStorage
	userStorage    storage.UserStorage
	flow           *orderflow.Flow
	publisher      events.Publisher
	logger         *zap.SugaredLogger
}

// NewOrderService создаёт новый сервис заказов.
func NewOrderService(
	orderStorage storage.OrderStorage,
	catalogStorage storage.CatalogStorage,
	userStorage storage.UserStorage,
	flow *orderflow.Flow,
	publisher events.Publisher,
	logger *zap.SugaredLogger,
) *OrderServiceImpl {
	if flow == nil {
		flow = orderflow.Default()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &OrderServiceImpl{
		orderStorage:   orderStorage,
		catalogStorage: catalogStorage,
		userStorage:    userStorage,
		flow:           flow,
		publisher:      publisher,
		logger:         logger,
	}
}

// Flow возвращает граф статусов, по которому работает сервис.
func (s *OrderServiceImpl) Flow() *orderflow.Flow {
	return s.flow
}

// Create оформляет заказ: цена считается по каталогу, заказ начинается со статуса placed.
func (s *OrderServiceImpl) Create(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {
	ctx, span := tracing.Start(ctx, tracing.LayerService, "CreateOrder", attribute.String("order.type", string(req.OrderType)))
	defer span.End()

	if !req.OrderType.Valid() {
		return nil, tracing.Fail(span, fmt.Errorf("%w: unknown order type %q", ErrInvalidOrder, req.OrderType))
	}

	user, err := s.userStorage.GetByID(ctx, userID)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	item, err := s.catalogStorage.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return nil, ErrItemUnavailable
		}
		return nil, tracing.Fail(span, err)
	}
	if !item.IsActive {
		return nil, ErrItemUnavailable
	}

	quote, err := PriceOrder(req, item)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:          user.ID,
		CustomerName:    user.FullName(),
		OrderType:       req.OrderType,
		ItemID:          item.ID,
		ItemName:        item.Name,
		UnitPrice:       quote.UnitPrice,
		Meters:          quote.Meters,
		StitchType:      optional(quote.StitchType),
		StitchingCharge: quote.StitchingCharge,
		Size:            optional(strings.TrimSpace(req.Size)),
		RentalDays:      quote.RentalDays,
		RentalDeposit:   quote.RentalDeposit,
		Quantity:        quote.Quantity,
		TotalPrice:      quote.Total,
		Status:          orderflow.StatusPlaced,
		Notes:           optional(strings.TrimSpace(req.Notes)),
	}

	if err := s.orderStorage.Create(ctx, order); err != nil {
		return nil, tracing.Fail(span, fmt.Errorf("create order: %w", err))
	}

	category := order.Category()
	if category == orderflow.CategoryUnknown {
		s.logger.Warnw("order has no status flow", "order_id", order.ID, "order_type", order.OrderType)
	}
	s.logger.Infow("order placed", "order_id", order.ID, "category", category, "total", order.TotalPrice.String())
	s.publish(ctx, events.OrderPlaced(order))

	return order, nil
}

// ListForUser возвращает заказы пользователя.
func (s *OrderServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	orders, err := s.orderStorage.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// Get возвращает заказ. Клиент видит только свои заказы, администратор - любые.
func (s *OrderServiceImpl) Get(ctx context.Context, userID uuid.UUID, role models.Role, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderStorage.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && order.UserID != userID {
		return nil, ErrOrderForbidden
	}
	return order, nil
}

// List возвращает все заказы, при непустом status - только в этом статусе.
func (s *OrderServiceImpl) List(ctx context.Context, status string) ([]*models.Order, error) {
	var filter orderflow.Status
	if strings.TrimSpace(status) != "" {
		filter = orderflow.Normalize(status)
		if !filter.Valid() {
			return nil, ErrUnknownStatus
		}
	}

	orders, err := s.orderStorage.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// UpdateStatus переводит заказ в следующий статус. Допустимость перехода проверяется
// по графу категории заказа под блокировкой строки. Повторная установка текущего статуса ничего не меняет.
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, status string) (*models.Order, error) {
	ctx, span := tracing.Start(ctx, tracing.LayerService, "UpdateOrderStatus", attribute.String("order.id", id.String()))
	defer span.End()

	target := orderflow.Normalize(status)
	if !target.Valid() {
		return nil, ErrUnknownStatus
	}

	order, change, err := s.orderStorage.UpdateStatus(ctx, id, &actorID, func(current *models.Order) (orderflow.Status, error) {
		if current.Status == target {
			return target, nil
		}
		category := current.Category()
		if !s.flow.CanTransition(category, current.Status, target) {
			return "", fmt.Errorf("%w: %s order cannot go from %s to %s", ErrInvalidTransition, category, current.Status, target)
		}
		return target, nil
	})
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	s.afterChange(ctx, order, change)
	return order, nil
}

// Cancel отменяет заказ из любого незавершённого статуса.
func (s *OrderServiceImpl) Cancel(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*models.Order, error) {
	ctx, span := tracing.Start(ctx, tracing.LayerService, "CancelOrder", attribute.String("order.id", id.String()))
	defer span.End()

	order, change, err := s.orderStorage.UpdateStatus(ctx, id, &actorID, func(current *models.Order) (orderflow.Status, error) {
		if current.Status == orderflow.StatusCancelled {
			return current.Status, nil
		}
		if !s.flow.CanCancel(current.Category(), current.Status) {
			return "", fmt.Errorf("%w: order is %s", ErrCannotCancel, current.Status)
		}
		return orderflow.StatusCancelled, nil
	})
	if err != nil {
		return nil, tracing.Fail(span, err)
	}

	s.afterChange(ctx, order, change)
	return order, nil
}

// History возвращает историю смены статусов заказа.
func (s *OrderServiceImpl) History(ctx context.Context, id uuid.UUID) ([]*models.StatusChange, error) {
	if _, err := s.orderStorage.GetByID(ctx, id); err != nil {
		return nil, err
	}

	history, err := s.orderStorage.History(ctx, id)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []*models.StatusChange{}
	}
	return history, nil
}

func (s *OrderServiceImpl) afterChange(ctx context.Context, order *models.Order, change *models.StatusChange) {
	if change == nil {
		return
	}
	s.logger.Infow("order status changed",
		"order_id", order.ID,
		"from", change.FromStatus,
		"to", change.ToStatus,
	)
	s.publish(ctx, events.StatusChanged(order, change))
}

// publish не влияет на результат операции: изменение уже сохранено.
func (s *OrderServiceImpl) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warnw("failed to publish event", "type", evt.Type, "order_id", evt.OrderID, "error", err)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
