//go:build integration
// +build integration

package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/agamariel/polofashions/internal/migrations"
	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDBPool(t *testing.T) *pgxpool.Pool {
	dbURI := os.Getenv("DATABASE_URI")
	if dbURI == "" {
		t.Skip("DATABASE_URI not set, skipping integration tests")
	}

	pool, err := pgxpool.New(context.Background(), dbURI)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	require.NoError(t, migrations.Run(context.Background(), db))

	return pool
}

func createTestUser(t *testing.T, s *PostgresUserStorage) *models.User {
	t.Helper()
	user := &models.User{
		Login:        "user_" + uuid.NewString(),
		PasswordHash: "hashed_password",
		FirstName:    "Test",
		LastName:     "Customer",
	}
	require.NoError(t, s.Create(context.Background(), user))
	return user
}

func createTestItem(t *testing.T, s *PostgresCatalogStorage, kind models.ItemKind) *models.CatalogItem {
	t.Helper()
	item := &models.CatalogItem{
		Kind:  kind,
		Name:  "Item " + uuid.NewString()[:8],
		Price: decimal.NewFromInt(250),
		Sizes: []string{"M", "L"},
	}
	require.NoError(t, s.Create(context.Background(), item))
	return item
}

func TestPostgresUserStorage(t *testing.T) {
	pool := getTestDBPool(t)
	users := NewPostgresUserStorage(pool)
	ctx := context.Background()

	user := createTestUser(t, users)
	assert.Equal(t, models.RoleCustomer, user.Role)

	t.Run("duplicate login", func(t *testing.T) {
		err := users.Create(ctx, &models.User{Login: user.Login, PasswordHash: "x"})
		assert.ErrorIs(t, err, ErrLoginExists)
	})

	t.Run("get by login and id", func(t *testing.T) {
		byLogin, err := users.GetByLogin(ctx, user.Login)
		require.NoError(t, err)
		assert.Equal(t, user.ID, byLogin.ID)

		byID, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Login, byID.Login)

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("update measurement", func(t *testing.T) {
		photo := "https://cdn.example.com/m.jpg"
		updated, err := users.UpdateMeasurement(ctx, user.ID, models.MeasurementCompleted, &photo)
		require.NoError(t, err)
		assert.Equal(t, models.MeasurementCompleted, updated.MeasurementStatus)
		require.NotNil(t, updated.MeasurementPhoto)
		assert.Equal(t, photo, *updated.MeasurementPhoto)

		updated, err = users.UpdateMeasurement(ctx, user.ID, models.MeasurementPending, nil)
		require.NoError(t, err)
		require.NotNil(t, updated.MeasurementPhoto, "photo is kept when not supplied")
	})

	t.Run("set role", func(t *testing.T) {
		require.NoError(t, users.SetRole(ctx, user.ID, models.RoleAdmin))
		assert.ErrorIs(t, users.SetRole(ctx, uuid.New(), models.RoleAdmin), ErrUserNotFound)
	})
}

func TestPostgresCatalogStorage(t *testing.T) {
	pool := getTestDBPool(t)
	catalog := NewPostgresCatalogStorage(pool)
	ctx := context.Background()

	item := createTestItem(t, catalog, models.KindFabric)

	got, err := catalog.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"M", "L"}, got.Sizes)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(250)))

	require.NoError(t, catalog.Deactivate(ctx, item.ID))

	active, err := catalog.ListByKind(ctx, models.KindFabric, true)
	require.NoError(t, err)
	for _, it := range active {
		assert.NotEqual(t, item.ID, it.ID)
	}

	assert.ErrorIs(t, catalog.Deactivate(ctx, uuid.New()), ErrItemNotFound)
}

func TestPostgresOrderStorage_UpdateStatus(t *testing.T) {
	pool := getTestDBPool(t)
	users := NewPostgresUserStorage(pool)
	catalog := NewPostgresCatalogStorage(pool)
	orders := NewPostgresOrderStorage(pool)
	ctx := context.Background()

	user := createTestUser(t, users)
	item := createTestItem(t, catalog, models.KindRental)

	order := &models.Order{
		UserID:       user.ID,
		CustomerName: user.FullName(),
		OrderType:    orderflow.OrderTypeRental,
		ItemID:       item.ID,
		ItemName:     item.Name,
		RentalDays:   2,
		Quantity:     1,
		TotalPrice:   decimal.NewFromInt(1000),
	}
	require.NoError(t, orders.Create(ctx, order))
	assert.Equal(t, orderflow.StatusPlaced, order.Status)

	to := func(s orderflow.Status) StatusDecider {
		return func(*models.Order) (orderflow.Status, error) { return s, nil }
	}

	updated, change, err := orders.UpdateStatus(ctx, order.ID, &user.ID, to(orderflow.StatusReadyForPickup))
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, orderflow.StatusPlaced, change.FromStatus)
	assert.Nil(t, updated.PickedUpAt)

	updated, change, err = orders.UpdateStatus(ctx, order.ID, &user.ID, to(orderflow.StatusReadyForPickup))
	require.NoError(t, err)
	assert.Nil(t, change, "same status is a no-op")

	updated, _, err = orders.UpdateStatus(ctx, order.ID, nil, to(orderflow.StatusPickedUp))
	require.NoError(t, err)
	require.NotNil(t, updated.PickedUpAt)

	history, err := orders.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, orderflow.StatusPickedUp, history[1].ToStatus)
	assert.Nil(t, history[1].ActorID)

	overdue, err := orders.ListOverdueRentals(ctx, time.Now().Add(72*time.Hour))
	require.NoError(t, err)
	found := false
	for _, o := range overdue {
		if o.ID == order.ID {
			found = true
		}
	}
	assert.True(t, found)

	marked, err := orders.MarkOverdueNotified(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, marked)
	marked, err = orders.MarkOverdueNotified(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, marked)

	_, _, err = orders.UpdateStatus(ctx, uuid.New(), nil, to(orderflow.StatusProcessing))
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPostgresBookingStorage(t *testing.T) {
	pool := getTestDBPool(t)
	users := NewPostgresUserStorage(pool)
	bookings := NewPostgresBookingStorage(pool)
	ctx := context.Background()

	user := createTestUser(t, users)
	booking := &models.Booking{
		UserID:       user.ID,
		CustomerName: user.FullName(),
		Phone:        "9876543210",
		Date:         time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		TimeSlot:     "11:00 AM",
	}
	require.NoError(t, bookings.Create(ctx, booking))

	updated, err := bookings.UpdateStatus(ctx, booking.ID, func(*models.Booking) (models.BookingStatus, error) {
		return models.BookingConfirmed, nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)

	list, err := bookings.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2026-11-02", list[0].Date.Format(time.DateOnly))
}
