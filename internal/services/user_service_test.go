package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agamariel/polofashions/internal/auth"
	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestUserServiceImpl_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.RegisterRequest
		storage *storage.MockUserStorage
		wantErr error
	}{
		{
			name:    "successful registration",
			req:     models.RegisterRequest{Login: " ravi ", Password: "password123", FirstName: "Ravi", Phone: "9876543210"},
			storage: &storage.MockUserStorage{},
		},
		{
			name:    "empty login",
			req:     models.RegisterRequest{Password: "password123"},
			storage: &storage.MockUserStorage{},
			wantErr: ErrEmptyCredentials,
		},
		{
			name:    "empty password",
			req:     models.RegisterRequest{Login: "ravi"},
			storage: &storage.MockUserStorage{},
			wantErr: ErrEmptyCredentials,
		},
		{
			name:    "phone too long",
			req:     models.RegisterRequest{Login: "ravi", Password: "password123", Phone: strings.Repeat("9", 16)},
			storage: &storage.MockUserStorage{},
			wantErr: ErrInvalidPhone,
		},
		{
			name:    "login already exists",
			req:     models.RegisterRequest{Login: "ravi", Password: "password123"},
			storage: &storage.MockUserStorage{CreateFunc: func(context.Context, *models.User) error { return storage.ErrLoginExists }},
			wantErr: storage.ErrLoginExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewUserService(tt.storage, secret, time.Hour, nopLogger())

			user, token, err := service.Register(ctx, &tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ravi", user.Login)
			assert.Equal(t, models.RoleCustomer, user.Role)
			assert.Equal(t, models.MeasurementPending, user.MeasurementStatus)
			require.NotNil(t, user.Phone)
			assert.True(t, auth.CheckPassword("password123", user.PasswordHash))

			claims, err := auth.ValidateToken(token, secret)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, models.RoleCustomer, claims.Role)
		})
	}

	t.Run("storage error", func(t *testing.T) {
		service := NewUserService(&storage.MockUserStorage{
			CreateFunc: func(context.Context, *models.User) error { return errors.New("database error") },
		}, secret, time.Hour, nopLogger())

		_, _, err := service.Register(ctx, &models.RegisterRequest{Login: "ravi", Password: "password123"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrLoginExists)
	})
}

func TestUserServiceImpl_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("correct123")
	require.NoError(t, err)

	admin := &models.User{ID: uuid.New(), Login: "owner", PasswordHash: hash, Role: models.RoleAdmin}
	mock := &storage.MockUserStorage{
		GetByLoginFunc: func(_ context.Context, login string) (*models.User, error) {
			if login == admin.Login {
				return admin, nil
			}
			return nil, storage.ErrUserNotFound
		},
	}
	service := NewUserService(mock, secret, 0, nopLogger())

	user, token, err := service.Login(ctx, "owner", "correct123")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)
	claims, err := auth.ValidateToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, _, err = service.Login(ctx, "owner", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = service.Login(ctx, "nobody", "correct123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = service.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrEmptyCredentials)
}

func TestUserServiceImpl_UpdateMeasurement(t *testing.T) {
	ctx := context.Background()
	var gotPhoto *string
	service := NewUserService(&storage.MockUserStorage{
		UpdateMeasurementFunc: func(_ context.Context, id uuid.UUID, status models.MeasurementStatus, photo *string) (*models.User, error) {
			gotPhoto = photo
			return &models.User{ID: id, MeasurementStatus: status, MeasurementPhoto: photo}, nil
		},
	}, secret, time.Hour, nopLogger())

	_, err := service.UpdateMeasurement(ctx, uuid.New(), &models.UpdateMeasurementRequest{MeasurementStatus: "done"})
	assert.ErrorIs(t, err, ErrInvalidMeasurement)

	blank := "  "
	user, err := service.UpdateMeasurement(ctx, uuid.New(), &models.UpdateMeasurementRequest{
		MeasurementStatus: models.MeasurementCompleted,
		MeasurementPhoto:  &blank,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeasurementCompleted, user.MeasurementStatus)
	assert.Nil(t, gotPhoto, "blank photo keeps the stored one")
}

func TestUserServiceImpl_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("empty login is a no-op", func(t *testing.T) {
		service := NewUserService(&storage.MockUserStorage{}, secret, time.Hour, nopLogger())
		user, err := service.EnsureAdmin(ctx, "", "")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("creates admin", func(t *testing.T) {
		var created *models.User
		service := NewUserService(&storage.MockUserStorage{
			CreateFunc: func(_ context.Context, u *models.User) error {
				created = u
				return nil
			},
		}, secret, time.Hour, nopLogger())

		user, err := service.EnsureAdmin(ctx, "owner", "s3cret")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.True(t, auth.CheckPassword("s3cret", created.PasswordHash))
	})

	t.Run("creating without password fails", func(t *testing.T) {
		service := NewUserService(&storage.MockUserStorage{}, secret, time.Hour, nopLogger())
		_, err := service.EnsureAdmin(ctx, "owner", "")
		assert.ErrorIs(t, err, ErrEmptyCredentials)
	})

	t.Run("promotes existing customer", func(t *testing.T) {
		hash, err := auth.HashPassword("operator-secret")
		require.NoError(t, err)
		existing := &models.User{ID: uuid.New(), Login: "owner", PasswordHash: hash, Role: models.RoleCustomer}
		var promoted uuid.UUID
		service := NewUserService(&storage.MockUserStorage{
			GetByLoginFunc: func(context.Context, string) (*models.User, error) { return existing, nil },
			SetRoleFunc: func(_ context.Context, id uuid.UUID, role models.Role) error {
				promoted = id
				assert.Equal(t, models.RoleAdmin, role)
				return nil
			},
		}, secret, time.Hour, nopLogger())

		user, err := service.EnsureAdmin(ctx, "owner", "operator-secret")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, promoted)
		assert.True(t, user.IsAdmin())
	})

	t.Run("customer with other password not promoted", func(t *testing.T) {
		hash, err := auth.HashPassword("squatter-pw")
		require.NoError(t, err)
		existing := &models.User{ID: uuid.New(), Login: "owner", PasswordHash: hash, Role: models.RoleCustomer}
		service := NewUserService(&storage.MockUserStorage{
			GetByLoginFunc: func(context.Context, string) (*models.User, error) { return existing, nil },
			SetRoleFunc: func(context.Context, uuid.UUID, models.Role) error {
				t.Fatal("SetRole must not be called")
				return nil
			},
		}, secret, time.Hour, nopLogger())

		user, err := service.EnsureAdmin(ctx, "owner", "operator-secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, user)
		assert.Equal(t, models.RoleCustomer, existing.Role)
	})

	t.Run("existing admin untouched", func(t *testing.T) {
		service := NewUserService(&storage.MockUserStorage{
			GetByLoginFunc: func(context.Context, string) (*models.User, error) {
				return &models.User{Login: "owner", Role: models.RoleAdmin}, nil
			},
			SetRoleFunc: func(context.Context, uuid.UUID, models.Role) error {
				t.Fatal("SetRole must not be called")
				return nil
			},
		}, secret, time.Hour, nopLogger())

		_, err := service.EnsureAdmin(ctx, "owner", "x")
		assert.NoError(t, err)
	})
}
