package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agamariel/polofashions/internal/auth"
	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	RegisterFunc          func(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error)
	LoginFunc             func(ctx context.Context, login, password string) (*models.User, string, error)
	MeFunc                func(ctx context.Context, userID uuid.UUID) (*models.User, error)
	CustomersFunc         func(ctx context.Context) ([]*models.User, error)
	UpdateMeasurementFunc func(ctx context.Context, userID uuid.UUID, req *models.UpdateMeasurementRequest) (*models.User, error)
}

func (m *mockUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	return m.RegisterFunc(ctx, req)
}

func (m *mockUserService) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	return m.LoginFunc(ctx, login, password)
}

func (m *mockUserService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return m.MeFunc(ctx, userID)
}

func (m *mockUserService) Customers(ctx context.Context) ([]*models.User, error) {
	return m.CustomersFunc(ctx)
}

func (m *mockUserService) UpdateMeasurement(ctx context.Context, userID uuid.UUID, req *models.UpdateMeasurementRequest) (*models.User, error) {
	return m.UpdateMeasurementFunc(ctx, userID, req)
}

type mockOrderService struct {
	CreateFunc       func(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error)
	ListForUserFunc  func(ctx context.Context, userID uuid.UUID) ([]*models.Order, error)
	GetFunc          func(ctx context.Context, userID uuid.UUID, role models.Role, id uuid.UUID) (*models.Order, error)
	ListFunc         func(ctx context.Context, status string) ([]*models.Order, error)
	UpdateStatusFunc func(ctx context.Context, actorID uuid.UUID, id uuid.UUID, status string) (*models.Order, error)
	CancelFunc       func(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*models.Order, error)
	HistoryFunc      func(ctx context.Context, id uuid.UUID) ([]*models.StatusChange, error)
}

func (m *mockOrderService) Create(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {
	return m.CreateFunc(ctx, userID, req)
}

func (m *mockOrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	return m.ListForUserFunc(ctx, userID)
}

func (m *mockOrderService) Get(ctx context.Context, userID uuid.UUID, role models.Role, id uuid.UUID) (*models.Order, error) {
	return m.GetFunc(ctx, userID, role, id)
}

func (m *mockOrderService) List(ctx context.Context, status string) ([]*models.Order, error) {
	return m.ListFunc(ctx, status)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, status string) (*models.Order, error) {
	return m.UpdateStatusFunc(ctx, actorID, id, status)
}

func (m *mockOrderService) Cancel(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*models.Order, error) {
	return m.CancelFunc(ctx, actorID, id)
}

func (m *mockOrderService) History(ctx context.Context, id uuid.UUID) ([]*models.StatusChange, error) {
	return m.HistoryFunc(ctx, id)
}

func (m *mockOrderService) Flow() *orderflow.Flow {
	return orderflow.Default()
}

type mockCatalogService struct {
	ListFunc       func(ctx context.Context, kind string) ([]*models.CatalogItem, error)
	GetFunc        func(ctx context.Context, kind string, id uuid.UUID) (*models.CatalogItem, error)
	CreateFunc     func(ctx context.Context, kind string, item *models.CatalogItem) (*models.CatalogItem, error)
	DeactivateFunc func(ctx context.Context, kind string, id uuid.UUID) error
}

func (m *mockCatalogService) List(ctx context.Context, kind string) ([]*models.CatalogItem, error) {
	return m.ListFunc(ctx, kind)
}

func (m *mockCatalogService) Get(ctx context.Context, kind string, id uuid.UUID) (*models.CatalogItem, error) {
	return m.GetFunc(ctx, kind, id)
}

func (m *mockCatalogService) Create(ctx context.Context, kind string, item *models.CatalogItem) (*models.CatalogItem, error) {
	return m.CreateFunc(ctx, kind, item)
}

func (m *mockCatalogService) Deactivate(ctx context.Context, kind string, id uuid.UUID) error {
	return m.DeactivateFunc(ctx, kind, id)
}

type mockBookingService struct {
	CreateFunc       func(ctx context.Context, userID uuid.UUID, req *models.CreateBookingRequest) (*models.Booking, error)
	ListFunc         func(ctx context.Context, userID uuid.UUID, role models.Role) ([]*models.Booking, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, userID uuid.UUID, req *models.CreateBookingRequest) (*models.Booking, error) {
	return m.CreateFunc(ctx, userID, req)
}

func (m *mockBookingService) List(ctx context.Context, userID uuid.UUID, role models.Role) ([]*models.Booking, error) {
	return m.ListFunc(ctx, userID, role)
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	return m.UpdateStatusFunc(ctx, id, status)
}

type statsFunc func(ctx context.Context) (*models.DashboardStats, error)

func (f statsFunc) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	return f(ctx)
}

// newContext собирает echo-контекст запроса. user == uuid.Nil - запрос без авторизации.
func newContext(method, target, body string, user uuid.UUID, role models.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != uuid.Nil {
		c.Set(string(auth.UserIDKey), user)
		c.Set(string(auth.UserRoleKey), role)
	}
	return c, rec
}

func withParams(c echo.Context, values map[string]string) {
	names := make([]string, 0, len(values))
	vals := make([]string, 0, len(values))
	for k, v := range values {
		names = append(names, k)
		vals = append(vals, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(vals...)
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	require.Equal(t, code, he.Code)
}

func requireStatus(t *testing.T, err error, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if code >= http.StatusBadRequest {
		requireHTTPError(t, err, code)
		return
	}
	require.NoError(t, err)
	require.Equal(t, code, rec.Code)
}
