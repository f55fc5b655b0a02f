package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

// StatusDecider получает заблокированную строку заказа и возвращает статус, в который его перевести.
// Возврат текущего статуса означает, что менять ничего не нужно.
type StatusDecider func(order *models.Order) (orderflow.Status, error)

// OrderStorage определяет интерфейс для работы с заказами.
type OrderStorage interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error)
	List(ctx context.Context, status orderflow.Status) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, decide StatusDecider) (*models.Order, *models.StatusChange, error)
	History(ctx context.Context, id uuid.UUID) ([]*models.StatusChange, error)
	ListOverdueRentals(ctx context.Context, now time.Time) ([]*models.Order, error)
	MarkOverdueNotified(ctx context.Context, id uuid.UUID) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// PostgresOrderStorage реализует OrderStorage для PostgreSQL.
type PostgresOrderStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderStorage создаёт новый экземпляр PostgresOrderStorage.
func NewPostgresOrderStorage(pool *pgxpool.Pool) *PostgresOrderStorage {
	return &PostgresOrderStorage{pool: pool}
}

const orderColumns = `id, user_id, customer_name, order_type, item_id, item_name,
	unit_price, meters, stitch_type, stitching_charge, size, rental_days, rental_deposit,
	quantity, total_price, status, notes, picked_up_at, overdue_notified_at, created_at, updated_at`

// Create создаёт новый заказ.
func (s *PostgresOrderStorage) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, user_id, customer_name, order_type, item_id, item_name,
			unit_price, meters, stitch_type, stitching_charge, size, rental_days, rental_deposit,
			quantity, total_price, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = orderflow.StatusPlaced
	}

	err := s.pool.QueryRow(ctx, query,
		order.ID,
		order.UserID,
		order.CustomerName,
		order.OrderType,
		order.ItemID,
		order.ItemName,
		order.UnitPrice,
		order.Meters,
		order.StitchType,
		order.StitchingCharge,
		order.Size,
		order.RentalDays,
		order.RentalDeposit,
		order.Quantity,
		order.TotalPrice,
		order.Status,
		order.Notes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID возвращает заказ по идентификатору.
func (s *PostgresOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(s.pool.QueryRow(ctx, query, id))
}

// ListByUser возвращает заказы пользователя, новые первыми.
func (s *PostgresOrderStorage) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return s.queryOrders(ctx, query, userID)
}

// List возвращает все заказы, при непустом status только в этом статусе.
func (s *PostgresOrderStorage) List(ctx context.Context, status orderflow.Status) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY created_at DESC
	`
	return s.queryOrders(ctx, query, string(status))
}

// UpdateStatus меняет статус заказа в транзакции: строка блокируется, decide выбирает новый
// статус, изменение записывается в историю. При входе в picked_up фиксируется picked_up_at.
func (s *PostgresOrderStorage) UpdateStatus(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, decide StatusDecider) (*models.Order, *models.StatusChange, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, nil, err
	}

	next, err := decide(order)
	if err != nil {
		return nil, nil, err
	}
	if next == order.Status {
		return order, nil, nil
	}

	updateQuery := `
		UPDATE orders
		SET status = $1,
		    picked_up_at = CASE WHEN $1::text = 'picked_up' THEN NOW() ELSE picked_up_at END,
		    updated_at = NOW()
		WHERE id = $2
		RETURNING ` + orderColumns

	updated, err := scanOrder(tx.QueryRow(ctx, updateQuery, string(next), id))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update order status: %w", err)
	}

	change := &models.StatusChange{
		OrderID:    id,
		ActorID:    actorID,
		FromStatus: order.Status,
		ToStatus:   next,
	}
	historyQuery := `
		INSERT INTO order_status_history (order_id, actor_id, from_status, to_status, changed_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, changed_at
	`
	if err := tx.QueryRow(ctx, historyQuery, id, actorID, change.FromStatus, change.ToStatus).Scan(&change.ID, &change.ChangedAt); err != nil {
		return nil, nil, fmt.Errorf("failed to write status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, change, nil
}

// History возвращает историю смены статусов заказа в хронологическом порядке.
func (s *PostgresOrderStorage) History(ctx context.Context, id uuid.UUID) ([]*models.StatusChange, error) {
	query := `
		SELECT id, order_id, actor_id, from_status, to_status, changed_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var history []*models.StatusChange
	for rows.Next() {
		var c models.StatusChange
		if err := rows.Scan(&c.ID, &c.OrderID, &c.ActorID, &c.FromStatus, &c.ToStatus, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		history = append(history, &c)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return history, nil
}

// ListOverdueRentals возвращает выданные в аренду заказы, срок возврата которых истёк к now
// и о которых ещё не уведомляли.
func (s *PostgresOrderStorage) ListOverdueRentals(ctx context.Context, now time.Time) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = 'picked_up'
		  AND rental_days > 0
		  AND overdue_notified_at IS NULL
		  AND picked_up_at IS NOT NULL
		  AND picked_up_at + rental_days * INTERVAL '1 day' < $1
		ORDER BY picked_up_at ASC
	`
	return s.queryOrders(ctx, query, now)
}

// MarkOverdueNotified отмечает уведомление о просрочке. Возвращает false, если отметка уже стояла.
func (s *PostgresOrderStorage) MarkOverdueNotified(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := s.pool.Exec(ctx, `
		UPDATE orders
		SET overdue_notified_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND overdue_notified_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark overdue: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// CountByStatus возвращает количество заказов по статусам.
func (s *PostgresOrderStorage) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, s.pool, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
}

func (s *PostgresOrderStorage) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return orders, nil
}

// scanOrder помогает читать заказ из строки результата.
func scanOrder(row pgx.Row) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.CustomerName,
		&order.OrderType,
		&order.ItemID,
		&order.ItemName,
		&order.UnitPrice,
		&order.Meters,
		&order.StitchType,
		&order.StitchingCharge,
		&order.Size,
		&order.RentalDays,
		&order.RentalDeposit,
		&order.Quantity,
		&order.TotalPrice,
		&order.Status,
		&order.Notes,
		&order.PickedUpAt,
		&order.OverdueNotifiedAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &order, nil
}

func countByStatus(ctx context.Context, pool *pgxpool.Pool, query string) (map[string]int, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return counts, nil
}
